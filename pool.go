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
	"sort"
)

// Coupling maps the key of the pool member a walker is using and the
// move it takes to the key of the member for the next step.
type Coupling interface {
	Next(key int, d Displacement) int
	Name() string
}

type independent struct{}

func (independent) Next(key int, _ Displacement) int { return key }
func (independent) Name() string                     { return "independent" }

type byHeading struct{}

func (byHeading) Next(_ int, d Displacement) int { return int(HeadingOf(d)) }
func (byHeading) Name() string                   { return "heading" }

var (
	// Independent keeps a walker on the same pool member for the whole
	// walk.
	Independent Coupling = independent{}

	// ByHeading switches a walker to the pool member keyed by the
	// Direction of its last move.
	ByHeading Coupling = byHeading{}
)

// CouplingByName returns the built-in coupling with the given name.
func CouplingByName(name string) (Coupling, error) {
	for _, c := range []Coupling{Independent, ByHeading} {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("randomwalk: invalid coupling %q", name)
}

// Pool is a keyed set of DynamicPrograms that share grid, target, horizon
// and boundary policy.
type Pool struct {
	members  map[int]*DynamicProgram
	coupling Coupling

	// ref is the last inserted member. Every member agrees with it on
	// the shared properties.
	ref *DynamicProgram
}

// NewPool returns an empty pool. A nil coupling is Independent.
func NewPool(c Coupling) *Pool {
	if c == nil {
		c = Independent
	}
	return &Pool{members: make(map[int]*DynamicProgram), coupling: c}
}

func (p *Pool) field() {}

// Insert adds dp to the pool under key, replacing any previous member.
func (p *Pool) Insert(key int, dp *DynamicProgram) error {
	if dp == nil {
		return fmt.Errorf("%w: nil dynamic program for key %d", ErrInconsistentPool, key)
	}
	for k, m := range p.members {
		if k == key {
			continue
		}
		switch {
		case m.width != dp.width || m.height != dp.height:
			return fmt.Errorf("%w: grid %d×%d for key %d, want %d×%d",
				ErrInconsistentPool, dp.width, dp.height, key, m.width, m.height)
		case m.target != dp.target:
			return fmt.Errorf("%w: target %v for key %d, want %v",
				ErrInconsistentPool, dp.target, key, m.target)
		case m.horizon != dp.horizon:
			return fmt.Errorf("%w: horizon %d for key %d, want %d",
				ErrInconsistentPool, dp.horizon, key, m.horizon)
		case m.boundary != dp.boundary:
			return fmt.Errorf("%w: boundary %v for key %d, want %v",
				ErrInconsistentPool, dp.boundary, key, m.boundary)
		}
		break
	}
	p.members[key] = dp
	p.ref = dp
	return nil
}

// Get returns the member for key.
func (p *Pool) Get(key int) (*DynamicProgram, bool) {
	dp, ok := p.members[key]
	return dp, ok
}

// Keys returns the member keys in increasing order.
func (p *Pool) Keys() []int {
	keys := make([]int, 0, len(p.members))
	for k := range p.members {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Len returns the number of members.
func (p *Pool) Len() int { return len(p.members) }

// Coupling returns the coupling between members.
func (p *Pool) Coupling() Coupling { return p.coupling }

// Width returns the number of cells along x, or zero for an empty pool.
func (p *Pool) Width() int {
	if m := p.ref; m != nil {
		return m.width
	}
	return 0
}

// Height returns the number of cells along y, or zero for an empty pool.
func (p *Pool) Height() int {
	if m := p.ref; m != nil {
		return m.height
	}
	return 0
}

// Horizon returns the number of time steps of the members.
func (p *Pool) Horizon() int {
	if m := p.ref; m != nil {
		return m.horizon
	}
	return 0
}

// Target returns the target of the members.
func (p *Pool) Target() Cell {
	if m := p.ref; m != nil {
		return m.target
	}
	return Cell{}
}

// Boundary returns the boundary policy of the members.
func (p *Pool) Boundary() BoundaryPolicy {
	if m := p.ref; m != nil {
		return m.boundary
	}
	return Renormalize
}
