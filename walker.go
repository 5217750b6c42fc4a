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
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/sampleuv"
)

// Walker samples walks that end on the target of a Field. The variants
// are StandardWalker, CorrelatedWalker, MultiStepWalker, LandCoverWalker
// and LevyWalker.
type Walker interface {
	// GeneratePath samples one walk of timeSteps steps from start to the
	// target of f. Sampling draws only from rng.
	GeneratePath(f Field, start Cell, timeSteps int, rng *rand.Rand) (Walk, error)

	// GeneratePaths samples qty independent walks in parallel. The batch
	// seed is drawn from rng. Either all qty walks or an error is
	// returned.
	GeneratePaths(f Field, qty int, start Cell, timeSteps int, rng *rand.Rand) ([]Walk, error)

	// Name returns a short or long human-readable name.
	Name(short bool) string

	// prepare checks that the walker can sample from f and returns its
	// read-only step generator.
	prepare(f Field) (stepper, error)
}

// move is a candidate step: the destination, the pool key to use after
// the move and the unnormalized probability of the move.
type move struct {
	to  Cell
	key int
	w   float64
}

// stepper generates the candidate moves of one walker variant. It must be
// safe for concurrent use.
type stepper interface {
	initialKey() int
	mass(t int, c Cell, key int) float64
	moves(t int, c Cell, key int, rng *rand.Rand, buf []move) ([]move, error)
}

func generatePath(w Walker, f Field, start Cell, timeSteps int, rng *rand.Rand) (Walk, error) {
	s, err := w.prepare(f)
	if err != nil {
		return Walk{}, err
	}
	return sample(s, f, start, timeSteps, rng)
}

func generatePaths(w Walker, f Field, qty int, start Cell, timeSteps int, rng *rand.Rand) ([]Walk, error) {
	return GenerateBatch(w, f, qty, start, timeSteps, rng.Uint64())
}

// sample walks forward from start. At each step the candidate moves are
// weighted by their kernel mass times the field at the next time, so
// every walk ends on the target.
func sample(s stepper, f Field, start Cell, timeSteps int, rng *rand.Rand) (Walk, error) {
	horizon := f.Horizon()
	if timeSteps < 1 || timeSteps > horizon {
		return Walk{}, fmt.Errorf("%w: %d not in [1, %d]", ErrTimeSteps, timeSteps, horizon)
	}
	if start.X < 0 || start.Y < 0 || start.X >= f.Width() || start.Y >= f.Height() {
		return Walk{}, fmt.Errorf("%w: start %v", ErrOutOfBounds, start)
	}
	t0 := horizon - timeSteps
	key := s.initialKey()
	if s.mass(t0, start, key) == 0 {
		return Walk{}, fmt.Errorf("%w: from %v to %v in %d steps", ErrNoPathExists, start, f.Target(), timeSteps)
	}

	steps := make([]Step, 1, timeSteps+1)
	steps[0] = Step{Cell: start}
	var (
		buf     []move
		weights []float64
		err     error
	)
	c := start
	for t := t0; t < horizon; t++ {
		buf, err = s.moves(t, c, key, rng, buf[:0])
		if err != nil {
			return Walk{}, err
		}
		weights = weights[:0]
		var sum float64
		for _, m := range buf {
			if m.w < 0 {
				return Walk{}, fmt.Errorf("%w: weight %g from %v", ErrRandomDistribution, m.w, c)
			}
			weights = append(weights, m.w)
			sum += m.w
		}
		if math.IsNaN(sum) || math.IsInf(sum, 0) {
			return Walk{}, fmt.Errorf("%w: weights sum to %g from %v", ErrRandomDistribution, sum, c)
		}
		if sum == 0 {
			return Walk{}, fmt.Errorf("%w: from %v with %d steps left", ErrNoPathExists, c, horizon-t)
		}
		i, _ := sampleuv.NewWeighted(weights, rng).Take()
		c, key = buf[i].to, buf[i].key
		steps = append(steps, Step{Cell: c, T: t - t0 + 1})
	}
	if c != f.Target() {
		return Walk{}, fmt.Errorf("%w: ended at %v, want %v", ErrInconsistentPath, c, f.Target())
	}
	return Walk{steps: steps}, nil
}

func singleProgram(f Field) (*DynamicProgram, error) {
	switch v := f.(type) {
	case *DynamicProgram:
		if v == nil {
			return nil, ErrRequiresSingleDynamicProgram
		}
		return v, nil
	case *Pool:
		return nil, ErrRequiresSingleDynamicProgram
	}
	return nil, fmt.Errorf("randomwalk: unsupported field type %T", f)
}

func poolOf(f Field) (*Pool, error) {
	switch v := f.(type) {
	case *Pool:
		if v == nil || v.Len() < 2 {
			return nil, ErrRequiresMultipleDynamicPrograms
		}
		return v, nil
	case *DynamicProgram:
		return nil, ErrRequiresMultipleDynamicPrograms
	}
	return nil, fmt.Errorf("randomwalk: unsupported field type %T", f)
}

// single is the base of the steppers that sample from one program.
type single struct {
	dp *DynamicProgram
}

func (s single) initialKey() int { return 0 }

func (s single) mass(t int, c Cell, _ int) float64 { return s.dp.At(t, c) }

// kernelMoves appends the moves in the support of k that keep mass.
func (s single) kernelMoves(t int, c Cell, k *Kernel, buf []move) []move {
	for i, d := range k.support {
		n, ok := s.dp.Destination(c, d)
		if !ok {
			continue
		}
		if w := k.weights[i] * s.dp.at(t+1, n); w != 0 {
			buf = append(buf, move{to: n, w: w})
		}
	}
	return buf
}

// windowMoves appends the moves of magnitude up to maxStep, weighted by
// weight.
func (s single) windowMoves(t int, c Cell, maxStep int, axisAligned bool, weight func(Displacement) float64, buf []move) []move {
	for dx := -maxStep; dx <= maxStep; dx++ {
		for dy := -maxStep; dy <= maxStep; dy++ {
			if axisAligned && dx != 0 && dy != 0 {
				continue
			}
			d := Displacement{dx, dy}
			base := weight(d)
			if base == 0 {
				continue
			}
			n, ok := s.dp.Destination(c, d)
			if !ok {
				continue
			}
			if w := base * s.dp.at(t+1, n); w != 0 {
				buf = append(buf, move{to: n, w: w})
			}
		}
	}
	return buf
}
