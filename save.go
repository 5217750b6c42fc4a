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
	"encoding/gob"
	"fmt"
	"io"

	"github.com/ctessum/sparse"
)

// programGob is the on-disk form of a DynamicProgram.
type programGob struct {
	Width, Height, Horizon int
	Target                 Cell
	Boundary               BoundaryPolicy
	Kernels                map[int]*Kernel
	FieldTypes             []int
	FieldProb              []float64
	Table                  *sparse.DenseArray
}

type poolGob struct {
	Coupling string
	Keys     []int
}

// Save writes dp to w as a gob stream
// (format description at https://golang.org/pkg/encoding/gob/).
func (dp *DynamicProgram) Save(w io.Writer) error {
	if err := dp.encode(gob.NewEncoder(w)); err != nil {
		return fmt.Errorf("randomwalk.DynamicProgram.Save: %w", err)
	}
	return nil
}

func (dp *DynamicProgram) encode(e *gob.Encoder) error {
	g := programGob{
		Width:    dp.width,
		Height:   dp.height,
		Horizon:  dp.horizon,
		Target:   dp.target,
		Boundary: dp.boundary,
		Kernels:  dp.kernels,
		Table:    dp.table,
	}
	if dp.fieldTypes != nil {
		g.FieldTypes = dp.fieldTypes.Elements
	}
	if dp.fieldProb != nil {
		g.FieldProb = dp.fieldProb.Elements
	}
	return e.Encode(g)
}

// Load reads a DynamicProgram written by Save and checks that it is a
// valid field.
func Load(r io.Reader) (*DynamicProgram, error) {
	dp, err := decodeProgram(gob.NewDecoder(r))
	if err != nil {
		return nil, fmt.Errorf("randomwalk.Load: %w", err)
	}
	return dp, nil
}

func decodeProgram(d *gob.Decoder) (*DynamicProgram, error) {
	var g programGob
	if err := d.Decode(&g); err != nil {
		return nil, err
	}
	if g.Width <= 0 || g.Height <= 0 || g.Horizon <= 0 {
		return nil, fmt.Errorf("%w: grid %d×%d with horizon %d", ErrCorruptField, g.Width, g.Height, g.Horizon)
	}
	cells := g.Width * g.Height
	dp := &DynamicProgram{
		width:    g.Width,
		height:   g.Height,
		horizon:  g.Horizon,
		target:   g.Target,
		boundary: g.Boundary,
		kernels:  g.Kernels,
		table:    g.Table,
	}
	if !dp.InBounds(dp.target) {
		return nil, fmt.Errorf("%w: target %v outside grid", ErrCorruptField, dp.target)
	}
	if g.Boundary < Renormalize || g.Boundary > Reflect {
		return nil, fmt.Errorf("%w: boundary policy %d", ErrCorruptField, int(g.Boundary))
	}
	if len(g.Kernels) == 0 {
		return nil, fmt.Errorf("%w: no kernels", ErrCorruptField)
	}
	if g.FieldTypes != nil {
		if len(g.FieldTypes) != cells {
			return nil, fmt.Errorf("%w: %d field types for %d cells", ErrCorruptField, len(g.FieldTypes), cells)
		}
		dp.fieldTypes = sparse.ZerosDenseInt(g.Width, g.Height)
		copy(dp.fieldTypes.Elements, g.FieldTypes)
	}
	for i := 0; i < cells; i++ {
		if ft := dp.FieldTypeAt(Cell{i / g.Height, i % g.Height}); dp.kernels[ft] == nil {
			return nil, fmt.Errorf("%w: no kernel for field type %d", ErrCorruptField, ft)
		}
	}
	if g.FieldProb != nil {
		if len(g.FieldProb) != cells {
			return nil, fmt.Errorf("%w: %d field probabilities for %d cells", ErrCorruptField, len(g.FieldProb), cells)
		}
		dp.fieldProb = sparse.ZerosDense(g.Width, g.Height)
		copy(dp.fieldProb.Elements, g.FieldProb)
	}
	if dp.table == nil {
		return nil, fmt.Errorf("%w: no table", ErrCorruptField)
	}
	dp.table.Fix()
	s := dp.table.Shape
	if len(s) != 3 || s[0] != g.Horizon+1 || s[1] != g.Width || s[2] != g.Height ||
		len(dp.table.Elements) != (g.Horizon+1)*cells {
		return nil, fmt.Errorf("%w: table shape %v with %d elements, want [%d %d %d]",
			ErrCorruptField, s, len(dp.table.Elements), g.Horizon+1, g.Width, g.Height)
	}
	for x := 0; x < g.Width; x++ {
		for y := 0; y < g.Height; y++ {
			want := 0.
			if (Cell{x, y}) == dp.target {
				want = 1
			}
			if v := dp.at(g.Horizon, Cell{x, y}); v != want {
				return nil, fmt.Errorf("%w: terminal value %g at %v, want %g", ErrCorruptField, v, Cell{x, y}, want)
			}
		}
	}
	return dp, nil
}

// Save writes the pool and its members to w. Only pools with a built-in
// coupling can be saved.
func (p *Pool) Save(w io.Writer) error {
	if _, err := CouplingByName(p.coupling.Name()); err != nil {
		return fmt.Errorf("randomwalk.Pool.Save: %w", err)
	}
	e := gob.NewEncoder(w)
	keys := p.Keys()
	if err := e.Encode(poolGob{Coupling: p.coupling.Name(), Keys: keys}); err != nil {
		return fmt.Errorf("randomwalk.Pool.Save: %w", err)
	}
	for _, k := range keys {
		if err := p.members[k].encode(e); err != nil {
			return fmt.Errorf("randomwalk.Pool.Save: member %d: %w", k, err)
		}
	}
	return nil
}

// LoadPool reads a Pool written by Pool.Save.
func LoadPool(r io.Reader) (*Pool, error) {
	d := gob.NewDecoder(r)
	var g poolGob
	if err := d.Decode(&g); err != nil {
		return nil, fmt.Errorf("randomwalk.LoadPool: %w", err)
	}
	c, err := CouplingByName(g.Coupling)
	if err != nil {
		return nil, fmt.Errorf("randomwalk.LoadPool: %w: %w", ErrCorruptField, err)
	}
	p := NewPool(c)
	for _, k := range g.Keys {
		dp, err := decodeProgram(d)
		if err != nil {
			return nil, fmt.Errorf("randomwalk.LoadPool: member %d: %w", k, err)
		}
		if err := p.Insert(k, dp); err != nil {
			return nil, fmt.Errorf("randomwalk.LoadPool: %w", err)
		}
	}
	return p, nil
}
