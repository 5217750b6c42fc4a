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

import "math/rand/v2"

// StandardWalker samples each step from the kernel of the current cell.
// It requires a single DynamicProgram.
type StandardWalker struct{}

// GeneratePath implements Walker.
func (w StandardWalker) GeneratePath(f Field, start Cell, timeSteps int, rng *rand.Rand) (Walk, error) {
	return generatePath(w, f, start, timeSteps, rng)
}

// GeneratePaths implements Walker.
func (w StandardWalker) GeneratePaths(f Field, qty int, start Cell, timeSteps int, rng *rand.Rand) ([]Walk, error) {
	return generatePaths(w, f, qty, start, timeSteps, rng)
}

// Name implements Walker.
func (StandardWalker) Name(short bool) string {
	if short {
		return "swg"
	}
	return "Standard Walker"
}

func (StandardWalker) prepare(f Field) (stepper, error) {
	dp, err := singleProgram(f)
	if err != nil {
		return nil, err
	}
	return standardStepper{single{dp}}, nil
}

type standardStepper struct {
	single
}

func (s standardStepper) moves(t int, c Cell, _ int, _ *rand.Rand, buf []move) ([]move, error) {
	return s.kernelMoves(t, c, s.dp.KernelAt(c), buf), nil
}
