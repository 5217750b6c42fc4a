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

// MultiStepWalker moves up to MaxStepSize cells along each axis in a
// single time step.
type MultiStepWalker struct {
	MaxStepSize int

	// AxisAligned restricts moves to the rows and columns through the
	// current cell.
	AxisAligned bool

	// Kernel weights the moves. Moves are uniform if it is nil.
	Kernel *Kernel
}

// GeneratePath implements Walker.
func (w MultiStepWalker) GeneratePath(f Field, start Cell, timeSteps int, rng *rand.Rand) (Walk, error) {
	return generatePath(w, f, start, timeSteps, rng)
}

// GeneratePaths implements Walker.
func (w MultiStepWalker) GeneratePaths(f Field, qty int, start Cell, timeSteps int, rng *rand.Rand) ([]Walk, error) {
	return generatePaths(w, f, qty, start, timeSteps, rng)
}

// Name implements Walker.
func (MultiStepWalker) Name(short bool) string {
	if short {
		return "msw"
	}
	return "Multi Step Walker"
}

func (w MultiStepWalker) prepare(f Field) (stepper, error) {
	dp, err := singleProgram(f)
	if err != nil {
		return nil, err
	}
	if w.MaxStepSize < 0 {
		return nil, fmt.Errorf("randomwalk: negative maximum step size %d", w.MaxStepSize)
	}
	return multiStepStepper{single: single{dp}, w: w}, nil
}

type multiStepStepper struct {
	single
	w MultiStepWalker
}

func (s multiStepStepper) moves(t int, c Cell, _ int, _ *rand.Rand, buf []move) ([]move, error) {
	weight := func(Displacement) float64 { return 1 }
	if s.w.Kernel != nil {
		weight = s.w.Kernel.Weight
	}
	return s.windowMoves(t, c, s.w.MaxStepSize, s.w.AxisAligned, weight, buf), nil
}
