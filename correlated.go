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

// CorrelatedWalker samples from a Pool whose members are keyed by the
// previous heading, such as one built with the ByHeading coupling. Each
// step uses the kernel of the current member and moves to the member the
// pool's coupling selects for the chosen displacement.
type CorrelatedWalker struct {
	// Initial is the heading the walk starts with.
	Initial Direction
}

// GeneratePath implements Walker.
func (w CorrelatedWalker) GeneratePath(f Field, start Cell, timeSteps int, rng *rand.Rand) (Walk, error) {
	return generatePath(w, f, start, timeSteps, rng)
}

// GeneratePaths implements Walker.
func (w CorrelatedWalker) GeneratePaths(f Field, qty int, start Cell, timeSteps int, rng *rand.Rand) ([]Walk, error) {
	return generatePaths(w, f, qty, start, timeSteps, rng)
}

// Name implements Walker.
func (CorrelatedWalker) Name(short bool) string {
	if short {
		return "cwg"
	}
	return "Correlated Walker"
}

func (w CorrelatedWalker) prepare(f Field) (stepper, error) {
	pool, err := poolOf(f)
	if err != nil {
		return nil, err
	}
	if _, ok := pool.Get(int(w.Initial)); !ok {
		return nil, fmt.Errorf("%w: no member for initial heading %v", ErrInconsistentPool, w.Initial)
	}
	return correlatedStepper{pool: pool, initial: int(w.Initial)}, nil
}

type correlatedStepper struct {
	pool    *Pool
	initial int
}

func (s correlatedStepper) initialKey() int { return s.initial }

func (s correlatedStepper) mass(t int, c Cell, key int) float64 {
	m, ok := s.pool.members[key]
	if !ok {
		return 0
	}
	return m.At(t, c)
}

func (s correlatedStepper) moves(t int, c Cell, key int, _ *rand.Rand, buf []move) ([]move, error) {
	m := s.pool.members[key]
	k := m.KernelAt(c)
	for i, d := range k.support {
		n, ok := m.Destination(c, d)
		if !ok {
			continue
		}
		nk := s.pool.coupling.Next(key, d)
		next, ok := s.pool.members[nk]
		if !ok {
			continue
		}
		if w := k.weights[i] * next.at(t+1, n); w != 0 {
			buf = append(buf, move{to: n, key: nk, w: w})
		}
	}
	return buf, nil
}
