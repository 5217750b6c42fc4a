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

// Cell addresses a grid cell. X grows to the east and Y to the south.
type Cell struct {
	X, Y int
}

// Add returns the cell reached from c by displacement d.
func (c Cell) Add(d Displacement) Cell {
	return Cell{X: c.X + d.DX, Y: c.Y + d.DY}
}

// Sub returns the displacement from o to c.
func (c Cell) Sub(o Cell) Displacement {
	return Displacement{DX: c.X - o.X, DY: c.Y - o.Y}
}

func (c Cell) String() string { return fmt.Sprintf("(%d, %d)", c.X, c.Y) }

// Displacement is a single move on the grid.
type Displacement struct {
	DX, DY int
}

// Magnitude returns the Chebyshev length of d.
func (d Displacement) Magnitude() int {
	return max(abs(d.DX), abs(d.DY))
}

// Manhattan returns the taxicab length of d.
func (d Displacement) Manhattan() int {
	return abs(d.DX) + abs(d.DY)
}

func (d Displacement) String() string { return fmt.Sprintf("[%d, %d]", d.DX, d.DY) }

// Direction is a compass heading. It is used as the key of correlated
// pools and biased kernels.
type Direction int

// Directions. North points towards decreasing Y.
const (
	Stay Direction = iota
	North
	East
	South
	West
)

// Directions lists every Direction in key order.
var Directions = []Direction{Stay, North, East, South, West}

// Unit returns the unit displacement of the direction.
func (d Direction) Unit() Displacement {
	switch d {
	case North:
		return Displacement{0, -1}
	case East:
		return Displacement{1, 0}
	case South:
		return Displacement{0, 1}
	case West:
		return Displacement{-1, 0}
	}
	return Displacement{}
}

// ParseDirection parses the names returned by Direction.String.
func ParseDirection(s string) (Direction, error) {
	for _, d := range Directions {
		if d.String() == s {
			return d, nil
		}
	}
	return Stay, fmt.Errorf("randomwalk: invalid direction %q", s)
}

func (d Direction) String() string {
	switch d {
	case Stay:
		return "stay"
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// HeadingOf returns the direction of the dominant axis of d. Ties go to
// the x axis and the zero displacement is Stay.
func HeadingOf(d Displacement) Direction {
	switch {
	case d.DX == 0 && d.DY == 0:
		return Stay
	case abs(d.DX) >= abs(d.DY):
		if d.DX > 0 {
			return East
		}
		return West
	default:
		if d.DY > 0 {
			return South
		}
		return North
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
