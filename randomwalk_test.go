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
	"math"
	"math/rand/v2"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testTolerance = 1e-9

func different(a, b, tolerance float64) bool {
	if a == b {
		return false
	}
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 1))
}

// simpleKernel moves to the four neighbors or stays with probability
// 0.2 each.
func simpleKernel(t testing.TB) *Kernel {
	return biasedKernel(t, Stay, 0.2)
}

// biasedKernel moves in dir with probability p and spreads the rest
// over the other moves of the five-point stencil.
func biasedKernel(t testing.TB, dir Direction, p float64) *Kernel {
	t.Helper()
	m := make(map[Displacement]float64)
	for _, d := range Directions {
		if d == dir {
			m[d.Unit()] = p
		} else {
			m[d.Unit()] = (1 - p) / 4
		}
	}
	k, err := NewKernel(3, m, "brw", "biased")
	if err != nil {
		t.Fatal(err)
	}
	return k
}

func correlatedKernels(t testing.TB, p float64) map[int]*Kernel {
	o := make(map[int]*Kernel)
	for _, d := range Directions {
		o[int(d)] = biasedKernel(t, d, p)
	}
	return o
}

// levyKernel holds the five-point stencil plus axis jumps of length
// jump.
func levyKernel(t testing.TB, jump int) *Kernel {
	t.Helper()
	m := map[Displacement]float64{}
	for _, d := range Directions {
		m[d.Unit()] = 0.2
	}
	for _, d := range Directions[1:] {
		u := d.Unit()
		m[Displacement{u.DX * jump, u.DY * jump}] = 0.05
	}
	k, err := NewKernel(2*jump+1, m, "lw", "levy")
	if err != nil {
		t.Fatal(err)
	}
	return k
}

func build(t testing.TB, opts ...BuildOption) *DynamicProgram {
	t.Helper()
	b, err := NewBuilder(opts...)
	if err != nil {
		t.Fatal(err)
	}
	dp, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return dp
}

// scenario is a 5×5 grid with the target in the far corner.
func scenario(t testing.TB, horizon int, opts ...BuildOption) *DynamicProgram {
	return build(t, append([]BuildOption{
		Grid(5, 5),
		Target(Cell{4, 4}),
		Horizon(horizon),
		UseKernel(simpleKernel(t)),
	}, opts...)...)
}

// checkWalk checks the invariants every sampled walk must satisfy.
func checkWalk(t *testing.T, w Walk, start, target Cell, steps int, allowed func(Displacement) bool) {
	t.Helper()
	if w.Len() != steps+1 {
		t.Fatalf("walk length: have %d, want %d", w.Len(), steps+1)
	}
	if w.Start() != start {
		t.Errorf("start: have %v, want %v", w.Start(), start)
	}
	if w.End() != target {
		t.Errorf("end: have %v, want %v", w.End(), target)
	}
	for i := 1; i < w.Len(); i++ {
		if w.At(i).T != i {
			t.Errorf("step %d: have time %d", i, w.At(i).T)
		}
		if d := w.At(i).Sub(w.At(i - 1).Cell); allowed != nil && !allowed(d) {
			t.Errorf("step %d: move %v not allowed", i, d)
		}
	}
}

func unitMove(d Displacement) bool { return d.Manhattan() <= 1 }
