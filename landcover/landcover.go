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

// Package landcover provides land-cover class grids for the
// randomwalk.LandCoverWalker: class tables, grid files, synthetic grids,
// and the per-class kernels that make a field consistent with the walker.
package landcover

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/sparse"
	opensimplex "github.com/ojrac/opensimplex-go"
	"github.com/spatialmodel/randomwalk"
)

// Class is a land-cover class.
type Class struct {
	ID   int    `toml:"id"`
	Name string `toml:"name"`

	// MaxStep is the longest move, in cells, that can start in a cell
	// of this class.
	MaxStep int `toml:"max_step"`

	// Threshold is the upper bound of the noise values assigned to
	// this class by Synthetic. Noise values are in [0, 1].
	Threshold float64 `toml:"threshold"`
}

// Table is a set of land-cover classes.
type Table struct {
	Classes []Class `toml:"class"`
}

// ReadTable reads a table in TOML format, for example:
//
//	[[class]]
//	id = 0
//	name = "grassland"
//	max_step = 2
//	threshold = 0.7
func ReadTable(r io.Reader) (*Table, error) {
	t := new(Table)
	if _, err := toml.DecodeReader(r, t); err != nil {
		return nil, fmt.Errorf("landcover: reading class table: %v", err)
	}
	if err := t.check(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) check() error {
	if len(t.Classes) == 0 {
		return fmt.Errorf("landcover: class table is empty")
	}
	ids := make(map[int]bool)
	for _, c := range t.Classes {
		if ids[c.ID] {
			return fmt.Errorf("landcover: duplicate class id %d", c.ID)
		}
		ids[c.ID] = true
		if c.MaxStep < 0 {
			return fmt.Errorf("landcover: class %q has negative max_step %d", c.Name, c.MaxStep)
		}
	}
	return nil
}

// MaxStepSizes returns the maximum step size of each class.
func (t *Table) MaxStepSizes() map[int]int {
	o := make(map[int]int, len(t.Classes))
	for _, c := range t.Classes {
		o[c.ID] = c.MaxStep
	}
	return o
}

// ReadGrid reads a whitespace-separated grid of class ids with one line
// per row. Line y holds the classes of cells (0, y) to (width-1, y).
// The result has shape [width, height].
func ReadGrid(r io.Reader) (*sparse.DenseArrayInt, error) {
	var rows [][]int
	s := bufio.NewScanner(r)
	for line := 1; s.Scan(); line++ {
		fields := strings.Fields(s.Text())
		if len(fields) == 0 {
			continue
		}
		row := make([]int, len(fields))
		for i, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("landcover: line %d: %v", line, err)
			}
			row[i] = v
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, fmt.Errorf("landcover: line %d has %d columns, want %d", line, len(row), len(rows[0]))
		}
		rows = append(rows, row)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("landcover: reading grid: %v", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("landcover: empty grid")
	}
	width, height := len(rows[0]), len(rows)
	g := sparse.ZerosDenseInt(width, height)
	for y, row := range rows {
		for x, v := range row {
			g.Elements[x*height+y] = v
		}
	}
	return g, nil
}

// WriteGrid writes g in the format read by ReadGrid.
func WriteGrid(w io.Writer, g *sparse.DenseArrayInt) error {
	width, height := g.Shape[0], g.Shape[1]
	bw := bufio.NewWriter(w)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(strconv.Itoa(g.Elements[x*height+y]))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Synthetic creates a width×height grid from octave simplex noise. Each
// cell gets the class with the smallest Threshold above its noise value,
// or the class with the largest Threshold if there is none.
func Synthetic(t *Table, width, height int, seed int64, frequency float64) (*sparse.DenseArrayInt, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("landcover: invalid grid size %d×%d", width, height)
	}
	classes := append([]Class(nil), t.Classes...)
	sort.SliceStable(classes, func(i, j int) bool { return classes[i].Threshold < classes[j].Threshold })

	noise := opensimplex.NewNormalized(seed)
	g := sparse.ZerosDenseInt(width, height)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			v := octaveNoise(noise, float64(x), float64(y), 4, frequency, 0.5)
			class := classes[len(classes)-1].ID
			for _, c := range classes {
				if v < c.Threshold {
					class = c.ID
					break
				}
			}
			g.Elements[x*height+y] = class
		}
	}
	return g, nil
}

func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}

// Kernels truncates base to the maximum step size of each class. Using
// the result with randomwalk.FieldKernels and the land-cover grid as the
// field types builds a field that never leads a LandCoverWalker into a
// cell it cannot leave towards the target.
func Kernels(base *randomwalk.Kernel, maxStepSizes map[int]int) (map[int]*randomwalk.Kernel, error) {
	o := make(map[int]*randomwalk.Kernel, len(maxStepSizes))
	for class, m := range maxStepSizes {
		k, err := base.Truncate(m)
		if err != nil {
			return nil, fmt.Errorf("landcover: kernel for class %d: %w", class, err)
		}
		o[class] = k
	}
	return o, nil
}
