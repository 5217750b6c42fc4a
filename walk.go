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
	"encoding/json"
	"fmt"
	"math"
)

// Step is one entry of a Walk: the cell occupied T time steps after the
// walk started.
type Step struct {
	Cell
	T int
}

// Walk is an immutable sequence of steps with strictly increasing times.
type Walk struct {
	steps []Step
}

// NewWalk creates a walk from steps, which must be non-empty and strictly
// increasing in time.
func NewWalk(steps []Step) (Walk, error) {
	if len(steps) == 0 {
		return Walk{}, fmt.Errorf("%w: no steps", ErrInvalidWalk)
	}
	for i := 1; i < len(steps); i++ {
		if steps[i].T <= steps[i-1].T {
			return Walk{}, fmt.Errorf("%w: time %d at step %d follows %d",
				ErrInvalidWalk, steps[i].T, i, steps[i-1].T)
		}
	}
	return Walk{steps: append([]Step(nil), steps...)}, nil
}

// WalkOf creates a walk visiting cells at consecutive times.
func WalkOf(cells ...Cell) Walk {
	w := Walk{steps: make([]Step, len(cells))}
	for i, c := range cells {
		w.steps[i] = Step{Cell: c, T: i}
	}
	return w
}

// Len returns the number of steps including the start.
func (w Walk) Len() int { return len(w.steps) }

// At returns step i.
func (w Walk) At(i int) Step { return w.steps[i] }

// Steps returns a copy of the steps.
func (w Walk) Steps() []Step { return append([]Step(nil), w.steps...) }

// Cells returns the visited cells in order.
func (w Walk) Cells() []Cell {
	o := make([]Cell, len(w.steps))
	for i, s := range w.steps {
		o[i] = s.Cell
	}
	return o
}

// Start returns the first cell, or the zero Cell for an empty Walk.
func (w Walk) Start() Cell {
	if len(w.steps) == 0 {
		return Cell{}
	}
	return w.steps[0].Cell
}

// End returns the last cell, or the zero Cell for an empty Walk.
func (w Walk) End() Cell {
	if len(w.steps) == 0 {
		return Cell{}
	}
	return w.steps[len(w.steps)-1].Cell
}

func (w Walk) mapCells(f func(Cell) Cell) Walk {
	o := Walk{steps: make([]Step, len(w.steps))}
	for i, s := range w.steps {
		o.steps[i] = Step{Cell: f(s.Cell), T: s.T}
	}
	return o
}

// Translate returns the walk moved by d.
func (w Walk) Translate(d Displacement) Walk {
	return w.mapCells(func(c Cell) Cell { return c.Add(d) })
}

// Scale returns the walk with every coordinate multiplied by f.
func (w Walk) Scale(f int) Walk {
	return w.mapCells(func(c Cell) Cell { return Cell{c.X * f, c.Y * f} })
}

// Rotate returns the walk rotated clockwise about the origin by degrees,
// which must be a multiple of 90.
func (w Walk) Rotate(degrees int) (Walk, error) {
	if degrees%90 != 0 {
		return Walk{}, fmt.Errorf("%w: got %d", ErrRotation, degrees)
	}
	turns := ((degrees/90)%4 + 4) % 4
	return w.mapCells(func(c Cell) Cell {
		for i := 0; i < turns; i++ {
			c = Cell{-c.Y, c.X}
		}
		return c
	}), nil
}

type point struct{ x, y float64 }

func (w Walk) points() []point {
	o := make([]point, len(w.steps))
	for i, s := range w.steps {
		o[i] = point{float64(s.X), float64(s.Y)}
	}
	return o
}

// FrechetDistance returns the discrete Fréchet distance between the cell
// sequences of w and o.
func (w Walk) FrechetDistance(o Walk) float64 {
	return frechet(w.points(), o.points())
}

// DirectnessDeviation returns the Fréchet distance between the walk and
// the straight line from its start to its end, sampled at the same number
// of points.
func (w Walk) DirectnessDeviation() float64 {
	p := w.points()
	if len(p) < 2 {
		return 0
	}
	a, b := p[0], p[len(p)-1]
	line := make([]point, len(p))
	for i := range line {
		f := float64(i) / float64(len(p)-1)
		line[i] = point{a.x + f*(b.x-a.x), a.y + f*(b.y-a.y)}
	}
	return frechet(p, line)
}

func frechet(a, b []point) float64 {
	if len(a) == 0 || len(b) == 0 {
		return math.Inf(1)
	}
	prev := make([]float64, len(b))
	cur := make([]float64, len(b))
	for i := range a {
		for j := range b {
			d := math.Hypot(a[i].x-b[j].x, a[i].y-b[j].y)
			switch {
			case i == 0 && j == 0:
				cur[j] = d
			case i == 0:
				cur[j] = math.Max(cur[j-1], d)
			case j == 0:
				cur[j] = math.Max(prev[j], d)
			default:
				cur[j] = math.Max(math.Min(math.Min(prev[j], prev[j-1]), cur[j-1]), d)
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)-1]
}

type stepJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
	T int `json:"t"`
}

// MarshalJSON encodes the walk as a list of {x, y, t} objects.
func (w Walk) MarshalJSON() ([]byte, error) {
	o := make([]stepJSON, len(w.steps))
	for i, s := range w.steps {
		o[i] = stepJSON{s.X, s.Y, s.T}
	}
	return json.Marshal(o)
}

// UnmarshalJSON decodes the format written by MarshalJSON.
func (w *Walk) UnmarshalJSON(b []byte) error {
	var in []stepJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	steps := make([]Step, len(in))
	for i, s := range in {
		steps[i] = Step{Cell: Cell{s.X, s.Y}, T: s.T}
	}
	nw, err := NewWalk(steps)
	if err != nil {
		return err
	}
	*w = nw
	return nil
}
