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

package landcover

import (
	"bytes"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/google/go-cmp/cmp"
	"github.com/spatialmodel/randomwalk"
	"github.com/spatialmodel/randomwalk/kernels"
)

const testTable = `
[[class]]
id = 0
name = "grassland"
max_step = 1
threshold = 0.6

[[class]]
id = 1
name = "water"
max_step = 0
threshold = 0.3

[[class]]
id = 2
name = "road"
max_step = 3
threshold = 1.0
`

func TestReadTable(t *testing.T) {
	table, err := ReadTable(strings.NewReader(testTable))
	if err != nil {
		t.Fatal(err)
	}
	want := []Class{
		{ID: 0, Name: "grassland", MaxStep: 1, Threshold: 0.6},
		{ID: 1, Name: "water", MaxStep: 0, Threshold: 0.3},
		{ID: 2, Name: "road", MaxStep: 3, Threshold: 1},
	}
	if diff := cmp.Diff(want, table.Classes); diff != "" {
		t.Errorf("classes (-want +have):\n%s", diff)
	}
	if diff := cmp.Diff(map[int]int{0: 1, 1: 0, 2: 3}, table.MaxStepSizes()); diff != "" {
		t.Errorf("max steps (-want +have):\n%s", diff)
	}
}

func TestReadTableErrors(t *testing.T) {
	for name, in := range map[string]string{
		"empty":     ``,
		"duplicate": "[[class]]\nid = 1\n[[class]]\nid = 1\n",
		"negative":  "[[class]]\nid = 1\nmax_step = -2\n",
		"syntax":    "[[class]\nid = 1\n",
	} {
		if _, err := ReadTable(strings.NewReader(in)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestGridRoundTrip(t *testing.T) {
	g, err := ReadGrid(strings.NewReader("0 0 1\n2 0 0\n\n"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{3, 2}, g.Shape); diff != "" {
		t.Errorf("shape (-want +have):\n%s", diff)
	}
	if v := g.Get(2, 0); v != 1 {
		t.Errorf("(2, 0): have %d, want 1", v)
	}
	if v := g.Get(0, 1); v != 2 {
		t.Errorf("(0, 1): have %d, want 2", v)
	}
	var b bytes.Buffer
	if err := WriteGrid(&b, g); err != nil {
		t.Fatal(err)
	}
	if want := "0 0 1\n2 0 0\n"; b.String() != want {
		t.Errorf("have %q, want %q", b.String(), want)
	}
	for _, in := range []string{"", "0 1\n0\n", "0 x\n"} {
		if _, err := ReadGrid(strings.NewReader(in)); err == nil {
			t.Errorf("%q: expected an error", in)
		}
	}
}

func TestSynthetic(t *testing.T) {
	table, err := ReadTable(strings.NewReader(testTable))
	if err != nil {
		t.Fatal(err)
	}
	a, err := Synthetic(table, 30, 20, 4, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Synthetic(table, 30, 20, 4, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a.Elements, b.Elements); diff != "" {
		t.Errorf("same seed (-a +b):\n%s", diff)
	}
	if diff := cmp.Diff([]int{30, 20}, a.Shape); diff != "" {
		t.Errorf("shape (-want +have):\n%s", diff)
	}
	for i, v := range a.Elements {
		if v < 0 || v > 2 {
			t.Fatalf("element %d: unknown class %d", i, v)
		}
	}
	if _, err := Synthetic(table, 0, 20, 4, 0.1); err == nil {
		t.Error("empty grid should fail")
	}
}

func TestKernels(t *testing.T) {
	base, err := randomwalk.BuildKernel(kernels.Levy{JumpProbability: 0.2, JumpDistance: 3})
	if err != nil {
		t.Fatal(err)
	}
	ks, err := Kernels(base, map[int]int{0: 1, 1: 0, 2: 3})
	if err != nil {
		t.Fatal(err)
	}
	if n := len(ks[0].Support()); n != 5 {
		t.Errorf("class 0 support: have %d, want 5", n)
	}
	if d := ks[1].Support(); len(d) != 1 || d[0] != (randomwalk.Displacement{}) {
		t.Errorf("class 1 support: have %v, want only staying", d)
	}
	if n := len(ks[2].Support()); n != 9 {
		t.Errorf("class 2 support: have %d, want 9", n)
	}
}

// A water cell that cannot be left is never entered.
func TestWaterNeverEntered(t *testing.T) {
	cover := sparse.ZerosDenseInt(5, 5)
	cover.Set(1, 2, 2)
	maxSteps := map[int]int{0: 1, 1: 0}
	base, err := randomwalk.BuildKernel(kernels.SimpleRW{})
	if err != nil {
		t.Fatal(err)
	}
	ks, err := Kernels(base, maxSteps)
	if err != nil {
		t.Fatal(err)
	}
	b, err := randomwalk.NewBuilder(randomwalk.Grid(5, 5), randomwalk.Target(randomwalk.Cell{X: 4, Y: 4}),
		randomwalk.Horizon(10), randomwalk.FieldKernels(ks, cover))
	if err != nil {
		t.Fatal(err)
	}
	dp, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	w := randomwalk.LandCoverWalker{MaxStepSizes: maxSteps, LandCover: cover}
	walks, err := w.GeneratePaths(dp, 200, randomwalk.Cell{}, 10, rand.New(rand.NewPCG(3, 3)))
	if err != nil {
		t.Fatal(err)
	}
	water := randomwalk.Cell{X: 2, Y: 2}
	for i, walk := range walks {
		if walk.End() != (randomwalk.Cell{X: 4, Y: 4}) {
			t.Errorf("walk %d ends at %v", i, walk.End())
		}
		for _, c := range walk.Cells() {
			if c == water {
				t.Fatalf("walk %d entered water: %v", i, walk.Cells())
			}
		}
	}
}
