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
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewWalk(t *testing.T) {
	if _, err := NewWalk(nil); !errors.Is(err, ErrInvalidWalk) {
		t.Errorf("have error %v, want %v", err, ErrInvalidWalk)
	}
	_, err := NewWalk([]Step{{Cell{0, 0}, 0}, {Cell{1, 0}, 2}, {Cell{2, 0}, 2}})
	if !errors.Is(err, ErrInvalidWalk) {
		t.Errorf("have error %v, want %v", err, ErrInvalidWalk)
	}
	w, err := NewWalk([]Step{{Cell{0, 0}, 0}, {Cell{1, 0}, 2}})
	if err != nil {
		t.Fatal(err)
	}
	if w.Len() != 2 || w.Start() != (Cell{0, 0}) || w.End() != (Cell{1, 0}) || w.At(1).T != 2 {
		t.Errorf("have %v", w.Steps())
	}
}

func TestEmptyWalk(t *testing.T) {
	w, err := StandardWalker{}.GeneratePath(scenario(t, 8), Cell{0, 0}, 3, newRand(1))
	if !errors.Is(err, ErrNoPathExists) {
		t.Fatalf("have error %v, want %v", err, ErrNoPathExists)
	}
	if w.Len() != 0 || w.Start() != (Cell{}) || w.End() != (Cell{}) || len(w.Cells()) != 0 {
		t.Errorf("have length %d from %v to %v", w.Len(), w.Start(), w.End())
	}
	if d := w.DirectnessDeviation(); d != 0 {
		t.Errorf("directness: have %g, want 0", d)
	}
}

func TestWalkTransforms(t *testing.T) {
	w := WalkOf(Cell{0, 0}, Cell{1, 0}, Cell{1, 2})
	if diff := cmp.Diff([]Cell{{3, -1}, {4, -1}, {4, 1}}, w.Translate(Displacement{3, -1}).Cells()); diff != "" {
		t.Errorf("translate (-want +have):\n%s", diff)
	}
	if diff := cmp.Diff([]Cell{{0, 0}, {2, 0}, {2, 4}}, w.Scale(2).Cells()); diff != "" {
		t.Errorf("scale (-want +have):\n%s", diff)
	}
	r, err := w.Rotate(90)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]Cell{{0, 0}, {0, 1}, {-2, 1}}, r.Cells()); diff != "" {
		t.Errorf("rotate (-want +have):\n%s", diff)
	}
	back, err := r.Rotate(-90)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(w.Cells(), back.Cells()); diff != "" {
		t.Errorf("rotate back (-want +have):\n%s", diff)
	}
	if _, err := w.Rotate(30); !errors.Is(err, ErrRotation) {
		t.Errorf("have error %v, want %v", err, ErrRotation)
	}
}

func TestFrechetDistance(t *testing.T) {
	a := WalkOf(Cell{0, 0}, Cell{1, 0}, Cell{2, 0})
	b := WalkOf(Cell{0, 1}, Cell{1, 1}, Cell{2, 1})
	if d := a.FrechetDistance(b); different(d, 1, testTolerance) {
		t.Errorf("parallel: have %g, want 1", d)
	}
	if d := a.FrechetDistance(a); d != 0 {
		t.Errorf("self: have %g, want 0", d)
	}
	if d, d2 := a.FrechetDistance(b), b.FrechetDistance(a); d != d2 {
		t.Errorf("not symmetric: %g != %g", d, d2)
	}
	c := WalkOf(Cell{0, 0}, Cell{2, 0})
	if d := a.FrechetDistance(c); different(d, 1, testTolerance) {
		t.Errorf("different lengths: have %g, want 1", d)
	}
}

func TestDirectnessDeviation(t *testing.T) {
	if d := WalkOf(Cell{0, 0}, Cell{1, 1}, Cell{2, 2}).DirectnessDeviation(); d != 0 {
		t.Errorf("straight: have %g, want 0", d)
	}
	if d := WalkOf(Cell{0, 0}, Cell{0, 2}, Cell{2, 2}).DirectnessDeviation(); different(d, math.Sqrt2, testTolerance) {
		t.Errorf("corner: have %g, want %g", d, math.Sqrt2)
	}
	if d := WalkOf(Cell{3, 3}).DirectnessDeviation(); d != 0 {
		t.Errorf("single cell: have %g, want 0", d)
	}
}

func TestWalkJSON(t *testing.T) {
	w := WalkOf(Cell{1, 2}, Cell{3, 4})
	b, err := json.Marshal(w)
	if err != nil {
		t.Fatal(err)
	}
	if want := `[{"x":1,"y":2,"t":0},{"x":3,"y":4,"t":1}]`; string(b) != want {
		t.Errorf("have %s, want %s", b, want)
	}
	var w2 Walk
	if err := json.Unmarshal(b, &w2); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(w.Steps(), w2.Steps()); diff != "" {
		t.Errorf("(-want +have):\n%s", diff)
	}
	err = json.Unmarshal([]byte(`[{"x":1,"y":2,"t":3},{"x":3,"y":4,"t":1}]`), &w2)
	if !errors.Is(err, ErrInvalidWalk) {
		t.Errorf("have error %v, want %v", err, ErrInvalidWalk)
	}
}

func TestHeadingOf(t *testing.T) {
	for _, test := range []struct {
		d    Displacement
		want Direction
	}{
		{Displacement{0, 0}, Stay},
		{Displacement{0, -3}, North},
		{Displacement{2, 1}, East},
		{Displacement{1, 1}, East},
		{Displacement{-1, 1}, West},
		{Displacement{1, 4}, South},
	} {
		if have := HeadingOf(test.d); have != test.want {
			t.Errorf("%v: have %v, want %v", test.d, have, test.want)
		}
	}
	for _, d := range Directions {
		p, err := ParseDirection(d.String())
		if err != nil {
			t.Fatal(err)
		}
		if p != d || HeadingOf(d.Unit()) != d {
			t.Errorf("%v does not round trip", d)
		}
	}
}
