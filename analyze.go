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

import "fmt"

// Thresholds are the minimum shares used by Analyze.
type Thresholds struct {
	// Biased is the minimum share of moves in a single direction for a
	// walk to be classified as biased.
	Biased float64

	// Correlated is the minimum share of moves that repeat the previous
	// move for a walk to be classified as correlated.
	Correlated float64
}

// DefaultThresholds are the thresholds used when Analyze is given the
// zero Thresholds.
var DefaultThresholds = Thresholds{Biased: 0.25, Correlated: 0.5}

// Model is the kind of random walk a walk most resembles.
type Model int

// Models recognized by Analyze.
const (
	SimpleModel Model = iota
	BiasedModel
	CorrelatedModel
)

func (m Model) String() string {
	switch m {
	case SimpleModel:
		return "simple"
	case BiasedModel:
		return "biased"
	case CorrelatedModel:
		return "correlated"
	}
	return fmt.Sprintf("Model(%d)", int(m))
}

// Analysis is the result of Analyze.
type Analysis struct {
	Model Model

	// Direction and Bias are the most frequent move direction and its
	// share of all moves. Stay moves are not counted as a direction.
	Direction Direction
	Bias      float64

	// Persistence is the share of moves that repeat the previous
	// non-zero move.
	Persistence float64
}

// Analyze classifies a walk of unit moves as a simple, biased or
// correlated random walk. A walk is biased if one direction reaches the
// biased threshold, otherwise correlated if its persistence reaches the
// correlated threshold.
func Analyze(w Walk, th Thresholds) (Analysis, error) {
	if th == (Thresholds{}) {
		th = DefaultThresholds
	}
	if w.Len() < 2 {
		return Analysis{}, fmt.Errorf("%w: %d steps", ErrWalkTooShort, w.Len())
	}
	counts := make(map[Direction]int)
	var repeats int
	last := Stay
	for i := 1; i < w.Len(); i++ {
		d := w.At(i).Sub(w.At(i - 1).Cell)
		if d.Manhattan() > 1 {
			return Analysis{}, fmt.Errorf("%w: move %v at step %d", ErrInvalidWalk, d, i)
		}
		dir := HeadingOf(d)
		if dir == Stay {
			continue
		}
		counts[dir]++
		if dir == last {
			repeats++
		}
		last = dir
	}
	moves := float64(w.Len() - 1)
	a := Analysis{Model: SimpleModel, Persistence: float64(repeats) / moves}
	for _, dir := range Directions[1:] {
		if b := float64(counts[dir]) / moves; b > a.Bias {
			a.Bias, a.Direction = b, dir
		}
	}
	switch {
	case a.Bias >= th.Biased:
		a.Model = BiasedModel
	case a.Persistence >= th.Correlated:
		a.Model = CorrelatedModel
	}
	return a, nil
}
