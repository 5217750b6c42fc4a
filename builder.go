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
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
)

// Builder assembles DynamicPrograms and Pools. Create one with
// NewBuilder.
type Builder struct {
	width, height int
	horizon       int
	target        Cell
	start         *Cell
	startKey      *int

	kernels    map[int]*Kernel
	fieldTypes *sparse.DenseArrayInt

	poolKernels map[int]*Kernel
	coupling    Coupling

	fieldProb *sparse.DenseArray
	obstacles []Cell
	boundary  BoundaryPolicy

	workers int
	log     logrus.FieldLogger
}

// BuildOption configures a Builder.
type BuildOption func(*Builder) error

// NewBuilder returns a Builder configured by opts.
func NewBuilder(opts ...BuildOption) (*Builder, error) {
	b := &Builder{
		workers: runtime.GOMAXPROCS(0),
		log:     logrus.StandardLogger(),
	}
	for _, o := range opts {
		if err := o(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Grid sets the number of cells along x and y.
func Grid(width, height int) BuildOption {
	return func(b *Builder) error {
		if width <= 0 || height <= 0 {
			return fmt.Errorf("randomwalk: invalid grid size %d×%d", width, height)
		}
		b.width, b.height = width, height
		return nil
	}
}

// Target sets the cell all walks end on.
func Target(c Cell) BuildOption {
	return func(b *Builder) error {
		b.target = c
		return nil
	}
}

// Horizon sets the number of time steps of the field.
func Horizon(steps int) BuildOption {
	return func(b *Builder) error {
		if steps <= 0 {
			return fmt.Errorf("randomwalk: invalid horizon %d", steps)
		}
		b.horizon = steps
		return nil
	}
}

// Start makes the build fail with ErrNoPathExists when the target
// cannot be reached from c within the horizon. BuildPool checks the
// member set by StartKey, which defaults to the Stay member or the
// smallest key when there is none.
func Start(c Cell) BuildOption {
	return func(b *Builder) error {
		b.start = &c
		return nil
	}
}

// StartKey sets the pool member a walk starts on, such as the initial
// heading of a CorrelatedWalker. Only BuildPool uses it.
func StartKey(key int) BuildOption {
	return func(b *Builder) error {
		b.startKey = &key
		return nil
	}
}

// UseKernel sets a single kernel for every cell.
func UseKernel(k *Kernel) BuildOption {
	return func(b *Builder) error {
		if k == nil {
			return ErrNoKernel
		}
		b.kernels = map[int]*Kernel{0: k}
		b.fieldTypes = nil
		return nil
	}
}

// FieldKernels sets one kernel per field type along with the grid of
// field types, which must have shape [width, height]. A nil grid
// assigns field type 0 to every cell.
func FieldKernels(kernels map[int]*Kernel, fieldTypes *sparse.DenseArrayInt) BuildOption {
	return func(b *Builder) error {
		if len(kernels) == 0 {
			return ErrNoKernel
		}
		b.kernels = kernels
		b.fieldTypes = fieldTypes
		return nil
	}
}

// PoolKernels sets one kernel per pool member and the coupling between
// members. Only BuildPool accepts this option.
func PoolKernels(kernels map[int]*Kernel, c Coupling) BuildOption {
	return func(b *Builder) error {
		if c == nil {
			c = Independent
		}
		b.poolKernels = kernels
		b.coupling = c
		return nil
	}
}

// Obstacles marks cells that cannot be entered.
func Obstacles(cells ...Cell) BuildOption {
	return func(b *Builder) error {
		b.obstacles = append(b.obstacles, cells...)
		return nil
	}
}

// RectObstacle marks the rectangle spanned by the corners from and to,
// inclusive, as obstacles.
func RectObstacle(from, to Cell) BuildOption {
	return func(b *Builder) error {
		for x := min(from.X, to.X); x <= max(from.X, to.X); x++ {
			for y := min(from.Y, to.Y); y <= max(from.Y, to.Y); y++ {
				b.obstacles = append(b.obstacles, Cell{x, y})
			}
		}
		return nil
	}
}

// FieldProbabilities sets the probability of surviving a visit to each
// cell. The array must have shape [width, height] and values in [0, 1].
func FieldProbabilities(p *sparse.DenseArray) BuildOption {
	return func(b *Builder) error {
		b.fieldProb = p
		return nil
	}
}

// Boundary sets the boundary policy. The default is Renormalize.
func Boundary(p BoundaryPolicy) BuildOption {
	return func(b *Builder) error {
		if p < Renormalize || p > Reflect {
			return fmt.Errorf("randomwalk: invalid boundary policy %d", int(p))
		}
		b.boundary = p
		return nil
	}
}

// Workers sets the number of goroutines used for the backward induction.
// The default is runtime.GOMAXPROCS(0).
func Workers(n int) BuildOption {
	return func(b *Builder) error {
		if n <= 0 {
			return fmt.Errorf("randomwalk: invalid number of workers %d", n)
		}
		b.workers = n
		return nil
	}
}

// Logger sets the logger for build diagnostics.
func Logger(l logrus.FieldLogger) BuildOption {
	return func(b *Builder) error {
		b.log = l
		return nil
	}
}

// Build computes a single DynamicProgram.
func (b *Builder) Build() (*DynamicProgram, error) {
	if b.poolKernels != nil {
		return nil, ErrRequiresSingleDynamicProgram
	}
	if err := b.check(); err != nil {
		return nil, err
	}
	if len(b.kernels) == 0 {
		return nil, ErrNoKernel
	}
	fieldTypes, err := b.checkFieldTypes(b.kernels)
	if err != nil {
		return nil, err
	}
	fieldProb, err := b.probabilities()
	if err != nil {
		return nil, err
	}
	dp := b.newProgram(b.kernels, fieldTypes, fieldProb)
	m := &member{dp: dp, next: make(map[int][]*DynamicProgram)}
	for ft, k := range b.kernels {
		next := make([]*DynamicProgram, len(k.support))
		for i := range next {
			next[i] = dp
		}
		m.next[ft] = next
	}
	b.induce([]*member{m})
	if b.start != nil && dp.at(0, *b.start) == 0 {
		return nil, fmt.Errorf("%w: from %v to %v in %d steps", ErrNoPathExists, *b.start, b.target, b.horizon)
	}
	return dp, nil
}

// BuildPool computes a Pool with one member per pool kernel. The members
// are computed jointly so that a walker following the pool's coupling
// samples from the combined model.
func (b *Builder) BuildPool() (*Pool, error) {
	if len(b.poolKernels) < 2 {
		return nil, ErrRequiresMultipleDynamicPrograms
	}
	if b.fieldTypes != nil {
		return nil, fmt.Errorf("randomwalk: field types cannot be combined with pool kernels")
	}
	if err := b.check(); err != nil {
		return nil, err
	}
	fieldProb, err := b.probabilities()
	if err != nil {
		return nil, err
	}
	pool := NewPool(b.coupling)
	for key, k := range b.poolKernels {
		if k == nil {
			return nil, fmt.Errorf("%w: pool key %d", ErrNoKernel, key)
		}
		if err := pool.Insert(key, b.newProgram(map[int]*Kernel{0: k}, nil, fieldProb)); err != nil {
			return nil, err
		}
	}
	var members []*member
	for _, key := range pool.Keys() {
		dp := pool.members[key]
		k := dp.kernels[0]
		next := make([]*DynamicProgram, len(k.support))
		for i, d := range k.support {
			nk := b.coupling.Next(key, d)
			n, ok := pool.members[nk]
			if !ok {
				return nil, fmt.Errorf("%w: %s coupling moves key %d by %v to missing key %d",
					ErrInconsistentPool, b.coupling.Name(), key, d, nk)
			}
			next[i] = n
		}
		members = append(members, &member{dp: dp, next: map[int][]*DynamicProgram{0: next}})
	}
	b.induce(members)
	if b.startKey != nil {
		if _, ok := pool.members[*b.startKey]; !ok {
			return nil, fmt.Errorf("%w: no member for start key %d", ErrInconsistentPool, *b.startKey)
		}
	}
	if b.start != nil {
		first, ok := pool.members[int(Stay)]
		if b.startKey != nil {
			first, ok = pool.members[*b.startKey]
		}
		if !ok {
			first = pool.members[pool.Keys()[0]]
		}
		if first.at(0, *b.start) == 0 {
			return nil, fmt.Errorf("%w: from %v to %v in %d steps", ErrNoPathExists, *b.start, b.target, b.horizon)
		}
	}
	return pool, nil
}

func (b *Builder) check() error {
	if b.width == 0 || b.height == 0 {
		return ErrNoGrid
	}
	if b.horizon == 0 {
		return ErrNoHorizon
	}
	in := func(c Cell) bool { return c.X >= 0 && c.Y >= 0 && c.X < b.width && c.Y < b.height }
	if !in(b.target) {
		return fmt.Errorf("%w: target %v", ErrOutOfBounds, b.target)
	}
	if b.start != nil && !in(*b.start) {
		return fmt.Errorf("%w: start %v", ErrOutOfBounds, *b.start)
	}
	for _, c := range b.obstacles {
		if !in(c) {
			return fmt.Errorf("%w: obstacle %v", ErrOutOfBounds, c)
		}
	}
	return nil
}

func (b *Builder) checkFieldTypes(kernels map[int]*Kernel) (*sparse.DenseArrayInt, error) {
	for ft, k := range kernels {
		if k == nil {
			return nil, fmt.Errorf("%w: field type %d", ErrNoKernel, ft)
		}
	}
	if b.fieldTypes == nil {
		if _, ok := kernels[0]; !ok {
			return nil, fmt.Errorf("%w: 0", ErrMissingFieldKernel)
		}
		return nil, nil
	}
	s := b.fieldTypes.Shape
	if len(s) != 2 || s[0] != b.width || s[1] != b.height || len(b.fieldTypes.Elements) != b.width*b.height {
		return nil, fmt.Errorf("%w: field types have shape %v, want [%d %d]", ErrFieldShape, s, b.width, b.height)
	}
	for i, ft := range b.fieldTypes.Elements {
		if _, ok := kernels[ft]; !ok {
			return nil, fmt.Errorf("%w: %d at %v", ErrMissingFieldKernel, ft, Cell{i / b.height, i % b.height})
		}
	}
	ft := sparse.ZerosDenseInt(b.width, b.height)
	copy(ft.Elements, b.fieldTypes.Elements)
	return ft, nil
}

// probabilities merges the field probabilities with the obstacles.
func (b *Builder) probabilities() (*sparse.DenseArray, error) {
	if b.fieldProb == nil && len(b.obstacles) == 0 {
		return nil, nil
	}
	p := sparse.ZerosDense(b.width, b.height)
	if b.fieldProb == nil {
		for i := range p.Elements {
			p.Elements[i] = 1
		}
	} else {
		s := b.fieldProb.Shape
		if len(s) != 2 || s[0] != b.width || s[1] != b.height || len(b.fieldProb.Elements) != b.width*b.height {
			return nil, fmt.Errorf("%w: field probabilities have shape %v, want [%d %d]", ErrFieldShape, s, b.width, b.height)
		}
		for i, v := range b.fieldProb.Elements {
			if v < 0 || v > 1 || math.IsNaN(v) {
				return nil, fmt.Errorf("randomwalk: field probability %g at %v outside [0, 1]",
					v, Cell{i / b.height, i % b.height})
			}
		}
		copy(p.Elements, b.fieldProb.Elements)
	}
	for _, c := range b.obstacles {
		p.Elements[c.X*b.height+c.Y] = 0
	}
	if p.Elements[b.target.X*b.height+b.target.Y] == 0 {
		return nil, fmt.Errorf("%w: %v", ErrTargetBlocked, b.target)
	}
	return p, nil
}

func (b *Builder) newProgram(kernels map[int]*Kernel, fieldTypes *sparse.DenseArrayInt, fieldProb *sparse.DenseArray) *DynamicProgram {
	dp := &DynamicProgram{
		width:      b.width,
		height:     b.height,
		horizon:    b.horizon,
		target:     b.target,
		boundary:   b.boundary,
		kernels:    kernels,
		fieldTypes: fieldTypes,
		fieldProb:  fieldProb,
		table:      sparse.ZerosDense(b.horizon+1, b.width, b.height),
	}
	dp.table.Elements[dp.index(b.horizon, b.target.X, b.target.Y)] = 1
	return dp
}

// member is one field of a joint backward induction. next holds, per
// field type and kernel support index, the field read at t+1.
type member struct {
	dp   *DynamicProgram
	next map[int][]*DynamicProgram
}

func (m *member) value(t int, c Cell) float64 {
	dp := m.dp
	p := dp.Probability(c)
	if p == 0 {
		return 0
	}
	ft := dp.FieldTypeAt(c)
	k := dp.kernels[ft]
	next := m.next[ft]
	var sum, norm float64
	for i, d := range k.support {
		n, ok := dp.Destination(c, d)
		if !ok {
			continue
		}
		w := k.weights[i]
		norm += w
		sum += w * next[i].at(t+1, n)
	}
	if dp.boundary == Renormalize {
		if norm == 0 {
			return 0
		}
		sum /= norm
	}
	return p * sum
}

// induce fills the tables of members from the horizon backwards. Each time
// slice is split across the workers; slice t only reads slice t+1.
func (b *Builder) induce(members []*member) {
	start := time.Now()
	cells := b.width * b.height
	n := len(members) * cells
	nprocs := b.workers
	var wg sync.WaitGroup
	for t := b.horizon - 1; t >= 0; t-- {
		wg.Add(nprocs)
		for pp := 0; pp < nprocs; pp++ {
			go func(pp int) {
				for ii := pp; ii < n; ii += nprocs {
					m := members[ii/cells]
					x, y := (ii%cells)/b.height, ii%b.height
					m.dp.table.Elements[m.dp.index(t, x, y)] = m.value(t, Cell{x, y})
				}
				wg.Done()
			}(pp)
		}
		wg.Wait()
	}
	b.log.WithFields(logrus.Fields{
		"width":    b.width,
		"height":   b.height,
		"horizon":  b.horizon,
		"members":  len(members),
		"boundary": b.boundary,
		"cells":    n * (b.horizon + 1),
		"duration": time.Since(start),
	}).Debug("randomwalk: computed dynamic program")
}
