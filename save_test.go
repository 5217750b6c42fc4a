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
	"bytes"
	"errors"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/google/go-cmp/cmp"
)

func TestSaveLoad(t *testing.T) {
	types := sparse.ZerosDenseInt(5, 5)
	types.Elements[7] = 1
	dp := build(t, Grid(5, 5), Target(Cell{4, 4}), Horizon(9), Boundary(Reflect),
		FieldKernels(map[int]*Kernel{0: simpleKernel(t), 1: biasedKernel(t, East, 0.6)}, types),
		Obstacles(Cell{2, 2}))

	var b bytes.Buffer
	if err := dp.Save(&b); err != nil {
		t.Fatal(err)
	}
	dp2, err := Load(&b)
	if err != nil {
		t.Fatal(err)
	}
	if dp2.Width() != 5 || dp2.Height() != 5 || dp2.Horizon() != 9 || dp2.Target() != (Cell{4, 4}) || dp2.Boundary() != Reflect {
		t.Errorf("have %d×%d horizon %d target %v boundary %v",
			dp2.Width(), dp2.Height(), dp2.Horizon(), dp2.Target(), dp2.Boundary())
	}
	if diff := cmp.Diff(dp.Table().Elements, dp2.Table().Elements); diff != "" {
		t.Errorf("table (-want +have):\n%s", diff)
	}
	if !dp2.Blocked(Cell{2, 2}) || dp2.FieldTypeAt(Cell{1, 2}) != 1 {
		t.Error("obstacles and field types should survive a round trip")
	}

	a, err := StandardWalker{}.GeneratePath(dp, Cell{0, 0}, 9, newRand(4))
	if err != nil {
		t.Fatal(err)
	}
	a2, err := StandardWalker{}.GeneratePath(dp2, Cell{0, 0}, 9, newRand(4))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a.Steps(), a2.Steps()); diff != "" {
		t.Errorf("walks differ after a round trip (-want +have):\n%s", diff)
	}
}

func TestLoadCorrupt(t *testing.T) {
	dp := scenario(t, 8)
	bad := *dp
	bad.table = dp.Table()
	bad.table.Elements[bad.index(8, 4, 4)] = 0.5
	var b bytes.Buffer
	if err := bad.Save(&b); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(&b); !errors.Is(err, ErrCorruptField) {
		t.Errorf("have error %v, want %v", err, ErrCorruptField)
	}

	bad = *dp
	bad.table = sparse.ZerosDense(8, 5, 5)
	b.Reset()
	if err := bad.Save(&b); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(&b); !errors.Is(err, ErrCorruptField) {
		t.Errorf("have error %v, want %v", err, ErrCorruptField)
	}

	if _, err := Load(bytes.NewReader([]byte("not a field"))); err == nil {
		t.Error("garbage should fail to load")
	}
}

func TestSaveLoadPool(t *testing.T) {
	pool := buildPool(t, correlatedKernels(t, 0.6), ByHeading)
	var b bytes.Buffer
	if err := pool.Save(&b); err != nil {
		t.Fatal(err)
	}
	pool2, err := LoadPool(&b)
	if err != nil {
		t.Fatal(err)
	}
	if pool2.Coupling() != ByHeading {
		t.Errorf("coupling: have %s, want heading", pool2.Coupling().Name())
	}
	if diff := cmp.Diff(pool.Keys(), pool2.Keys()); diff != "" {
		t.Errorf("keys (-want +have):\n%s", diff)
	}
	a, err := CorrelatedWalker{Initial: North}.GeneratePath(pool, Cell{0, 0}, 12, newRand(2))
	if err != nil {
		t.Fatal(err)
	}
	a2, err := CorrelatedWalker{Initial: North}.GeneratePath(pool2, Cell{0, 0}, 12, newRand(2))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a.Steps(), a2.Steps()); diff != "" {
		t.Errorf("walks differ after a round trip (-want +have):\n%s", diff)
	}
}
