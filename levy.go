/*
Copyright © 2026 the RandomWalk authors.
This file is part of RandomWalk.

RandomWalk is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

RandomWalk is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with RandomWalk.  If not, see <http://www.gnu.org/licenses/>.
*/

package randomwalk

import (
	"fmt"
	"math/rand/v2"
)

// LevyWalker mixes kernel steps with long jumps. A jump moves
// JumpDistance cells towards one of the eight Octants, drawn from the
// kernel's angular marginal. A step is a jump with prior probability
// JumpProbability and a kernel step otherwise; conditioning on the field
// reweights the two by how likely each keeps the target reachable.
type LevyWalker struct {
	JumpProbability float64
	JumpDistance    int

	// Kernel weights short steps and jump directions. The program's
	// kernel at the current cell is used if it is nil.
	Kernel *Kernel
}

// GeneratePath implements Walker.
func (w LevyWalker) GeneratePath(f Field, start Cell, timeSteps int, rng *rand.Rand) (Walk, error) {
	return generatePath(w, f, start, timeSteps, rng)
}

// GeneratePaths implements Walker.
func (w LevyWalker) GeneratePaths(f Field, qty int, start Cell, timeSteps int, rng *rand.Rand) ([]Walk, error) {
	return generatePaths(w, f, qty, start, timeSteps, rng)
}

// Name implements Walker.
func (LevyWalker) Name(short bool) string {
	if short {
		return "lw"
	}
	return "Lévy Walker"
}

func (w LevyWalker) prepare(f Field) (stepper, error) {
	dp, err := singleProgram(f)
	if err != nil {
		return nil, err
	}
	if w.JumpProbability < 0 || w.JumpProbability > 1 {
		return nil, fmt.Errorf("%w: jump probability %g", ErrRandomDistribution, w.JumpProbability)
	}
	if w.JumpProbability > 0 && w.JumpDistance < 1 {
		return nil, fmt.Errorf("randomwalk: invalid jump distance %d", w.JumpDistance)
	}
	return levyStepper{single: single{dp}, w: w}, nil
}

type levyStepper struct {
	single
	w LevyWalker
}

func (s levyStepper) moves(t int, c Cell, _ int, _ *rand.Rand, buf []move) ([]move, error) {
	k := s.w.Kernel
	if k == nil {
		k = s.dp.KernelAt(c)
	}
	p := s.w.JumpProbability
	if p == 0 {
		return s.kernelMoves(t, c, k, buf), nil
	}
	n := len(buf)
	if p < 1 {
		buf = s.kernelMoves(t, c, k, buf)
		for i := n; i < len(buf); i++ {
			buf[i].w *= 1 - p
		}
	}
	jumps := len(buf)
	marginal := k.AngularMarginal()
	if marginal == ([8]float64{}) {
		return nil, fmt.Errorf("%w: kernel %s at %v has no jump direction",
			ErrRandomDistribution, k.Name(false), c)
	}
	jd := s.w.JumpDistance
	for i, u := range Octants {
		if marginal[i] == 0 {
			continue
		}
		to, ok := s.dp.Destination(c, Displacement{u.DX * jd, u.DY * jd})
		if !ok {
			continue
		}
		if w := p * marginal[i] * s.dp.at(t+1, to); w != 0 {
			buf = append(buf, move{to: to, w: w})
		}
	}
	if p == 1 && len(buf) == jumps {
		return nil, fmt.Errorf("%w: no reachable jump from %v with %d steps left",
			ErrRandomDistribution, c, s.dp.horizon-t)
	}
	return buf, nil
}
