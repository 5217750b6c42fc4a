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

	"github.com/ctessum/sparse"
)

// LandCoverWalker caps the length of each move by the land-cover class
// of the current cell.
type LandCoverWalker struct {
	// MaxStepSizes maps land-cover classes to maximum move lengths.
	MaxStepSizes map[int]int

	// LandCover holds the class of every cell, with shape
	// [width, height].
	LandCover *sparse.DenseArrayInt

	// Kernel weights the moves. The program's kernel at the current
	// cell is used if it is nil.
	Kernel *Kernel
}

// GeneratePath implements Walker.
func (w LandCoverWalker) GeneratePath(f Field, start Cell, timeSteps int, rng *rand.Rand) (Walk, error) {
	return generatePath(w, f, start, timeSteps, rng)
}

// GeneratePaths implements Walker.
func (w LandCoverWalker) GeneratePaths(f Field, qty int, start Cell, timeSteps int, rng *rand.Rand) ([]Walk, error) {
	return generatePaths(w, f, qty, start, timeSteps, rng)
}

// Name implements Walker.
func (LandCoverWalker) Name(short bool) string {
	if short {
		return "lcw"
	}
	return "Land Cover Walker"
}

func (w LandCoverWalker) prepare(f Field) (stepper, error) {
	dp, err := singleProgram(f)
	if err != nil {
		return nil, err
	}
	if w.LandCover == nil {
		return nil, fmt.Errorf("%w: no land cover", ErrLandCoverMismatch)
	}
	s := w.LandCover.Shape
	if len(s) != 2 || s[0] != dp.width || s[1] != dp.height || len(w.LandCover.Elements) != dp.width*dp.height {
		return nil, fmt.Errorf("%w: land cover has shape %v, want [%d %d]",
			ErrLandCoverMismatch, s, dp.width, dp.height)
	}
	steps := make([]int, len(w.LandCover.Elements))
	for i, class := range w.LandCover.Elements {
		m, ok := w.MaxStepSizes[class]
		if !ok {
			return nil, fmt.Errorf("%w: no maximum step size for class %d", ErrLandCoverMismatch, class)
		}
		if m < 0 {
			return nil, fmt.Errorf("%w: negative maximum step size %d for class %d", ErrLandCoverMismatch, m, class)
		}
		steps[i] = m
	}
	return landCoverStepper{single: single{dp}, maxSteps: steps, kernel: w.Kernel}, nil
}

type landCoverStepper struct {
	single
	maxSteps []int
	kernel   *Kernel
}

func (s landCoverStepper) moves(t int, c Cell, _ int, _ *rand.Rand, buf []move) ([]move, error) {
	k := s.kernel
	if k == nil {
		k = s.dp.KernelAt(c)
	}
	return s.windowMoves(t, c, s.maxSteps[c.X*s.dp.height+c.Y], false, k.Weight, buf), nil
}
