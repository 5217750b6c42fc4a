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

	"github.com/ctessum/sparse"
)

// BoundaryPolicy specifies what happens to kernel mass that would leave
// the grid or land on an obstacle.
type BoundaryPolicy int

const (
	// Renormalize discards the lost mass and rescales the remaining
	// destinations of the cell to sum to one.
	Renormalize BoundaryPolicy = iota

	// Discard drops the lost mass without rescaling.
	Discard

	// Reflect mirrors destinations outside the grid back across the
	// crossed edge. Moves onto an obstacle bounce back to their origin.
	Reflect
)

func (b BoundaryPolicy) String() string {
	switch b {
	case Renormalize:
		return "renormalize"
	case Discard:
		return "discard"
	case Reflect:
		return "reflect"
	}
	return fmt.Sprintf("BoundaryPolicy(%d)", int(b))
}

// ParseBoundaryPolicy parses the names returned by BoundaryPolicy.String.
func ParseBoundaryPolicy(s string) (BoundaryPolicy, error) {
	for _, b := range []BoundaryPolicy{Renormalize, Discard, Reflect} {
		if b.String() == s {
			return b, nil
		}
	}
	return Renormalize, fmt.Errorf("randomwalk: invalid boundary policy %q", s)
}

// Field is a computed reachability field that walkers sample from.
// It is implemented by *DynamicProgram and *Pool.
type Field interface {
	Width() int
	Height() int
	Horizon() int
	Target() Cell
	Boundary() BoundaryPolicy

	field()
}

// DynamicProgram holds the probability field[t][x][y] of reaching the
// target at the horizon when at cell (x, y) at time t. It is immutable
// once built and safe for concurrent use.
type DynamicProgram struct {
	width, height, horizon int
	target                 Cell
	boundary               BoundaryPolicy

	kernels    map[int]*Kernel
	fieldTypes *sparse.DenseArrayInt // [width, height]; nil means type 0 everywhere.
	fieldProb  *sparse.DenseArray    // [width, height]; nil means 1 everywhere.

	// table has shape [horizon+1, width, height].
	table *sparse.DenseArray
}

func (dp *DynamicProgram) field() {}

// Width returns the number of cells along x.
func (dp *DynamicProgram) Width() int { return dp.width }

// Height returns the number of cells along y.
func (dp *DynamicProgram) Height() int { return dp.height }

// Horizon returns the number of time steps of the field.
func (dp *DynamicProgram) Horizon() int { return dp.horizon }

// Target returns the cell every walk ends on.
func (dp *DynamicProgram) Target() Cell { return dp.target }

// Boundary returns the boundary policy the field was built with.
func (dp *DynamicProgram) Boundary() BoundaryPolicy { return dp.boundary }

// InBounds returns whether c is on the grid.
func (dp *DynamicProgram) InBounds(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < dp.width && c.Y < dp.height
}

func (dp *DynamicProgram) index(t, x, y int) int {
	return (t*dp.width+x)*dp.height + y
}

// at returns the field value for an in-bounds cell.
func (dp *DynamicProgram) at(t int, c Cell) float64 {
	return dp.table.Elements[dp.index(t, c.X, c.Y)]
}

// At returns the probability of reaching the target at the horizon from
// cell c at time t. It is zero outside the grid and the time range.
func (dp *DynamicProgram) At(t int, c Cell) float64 {
	if t < 0 || t > dp.horizon || !dp.InBounds(c) {
		return 0
	}
	return dp.at(t, c)
}

// Reachable returns whether the target can be reached from start in
// exactly steps time steps.
func (dp *DynamicProgram) Reachable(start Cell, steps int) bool {
	if steps < 0 || steps > dp.horizon {
		return false
	}
	return dp.At(dp.horizon-steps, start) > 0
}

// FieldTypeAt returns the field type of c.
func (dp *DynamicProgram) FieldTypeAt(c Cell) int {
	if dp.fieldTypes == nil {
		return 0
	}
	return dp.fieldTypes.Elements[c.X*dp.height+c.Y]
}

// KernelAt returns the kernel used at cell c.
func (dp *DynamicProgram) KernelAt(c Cell) *Kernel {
	return dp.kernels[dp.FieldTypeAt(c)]
}

// Kernels returns the kernels of the field, by field type.
func (dp *DynamicProgram) Kernels() map[int]*Kernel {
	o := make(map[int]*Kernel, len(dp.kernels))
	for k, v := range dp.kernels {
		o[k] = v
	}
	return o
}

// Probability returns the field probability of c. Obstacles have
// probability zero.
func (dp *DynamicProgram) Probability(c Cell) float64 {
	if dp.fieldProb == nil {
		return 1
	}
	return dp.fieldProb.Elements[c.X*dp.height+c.Y]
}

// Blocked returns whether c is an obstacle.
func (dp *DynamicProgram) Blocked(c Cell) bool {
	return dp.Probability(c) == 0
}

// Destination returns the cell reached from c by displacement d under the
// boundary policy, and false if the move loses its mass.
func (dp *DynamicProgram) Destination(c Cell, d Displacement) (Cell, bool) {
	n := c.Add(d)
	if dp.InBounds(n) && !dp.Blocked(n) {
		return n, true
	}
	if dp.boundary != Reflect {
		return Cell{}, false
	}
	n.X = mirror(n.X, dp.width)
	n.Y = mirror(n.Y, dp.height)
	if dp.Blocked(n) {
		return c, true
	}
	return n, true
}

// mirror reflects v into [0, n).
func mirror(v, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * (n - 1)
	v %= period
	if v < 0 {
		v += period
	}
	if v >= n {
		v = period - v
	}
	return v
}

// Table returns a copy of the field table, with shape
// [horizon+1, width, height].
func (dp *DynamicProgram) Table() *sparse.DenseArray {
	return dp.table.Copy()
}
