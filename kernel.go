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
	"encoding/gob"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// Generator is an interface for kernel families. Implementations live in
// the kernels package.
type Generator interface {
	// Size returns the side length of the generated kernel. It must be
	// a positive odd number.
	Size() int

	// Generate fills the Size×Size matrix m with non-negative, not
	// necessarily normalized, masses. Element (i, j) holds the mass of
	// displacement (i-Size/2, j-Size/2).
	Generate(m *mat.Dense) error

	// Name returns a short or long human-readable name.
	Name(short bool) string
}

// SetGenerator is an interface for families of kernels keyed by an
// integer, such as the per-heading kernels of a correlated walk.
type SetGenerator interface {
	Size() int

	// Keys returns the keys of the kernels in the set.
	Keys() []int

	// GenerateKey fills m with the masses of the kernel for key.
	GenerateKey(key int, m *mat.Dense) error

	Name(short bool) string
}

// Kernel is an immutable discrete probability distribution over
// displacements within a square window centered on the origin.
type Kernel struct {
	m       *mat.Dense
	radius  int
	support []Displacement
	weights []float64
	short   string
	long    string
}

// BuildKernel creates a normalized kernel from g.
func BuildKernel(g Generator) (*Kernel, error) {
	size := g.Size()
	if size <= 0 || size%2 == 0 {
		return nil, fmt.Errorf("%w: %s has size %d", ErrKernelSize, g.Name(false), size)
	}
	m := mat.NewDense(size, size, nil)
	if err := g.Generate(m); err != nil {
		return nil, fmt.Errorf("randomwalk: generating %s kernel: %w", g.Name(false), err)
	}
	return newKernel(m, g.Name(true), g.Name(false))
}

// BuildKernels creates one normalized kernel per key of g.
func BuildKernels(g SetGenerator) (map[int]*Kernel, error) {
	size := g.Size()
	if size <= 0 || size%2 == 0 {
		return nil, fmt.Errorf("%w: %s has size %d", ErrKernelSize, g.Name(false), size)
	}
	o := make(map[int]*Kernel)
	for _, key := range g.Keys() {
		m := mat.NewDense(size, size, nil)
		if err := g.GenerateKey(key, m); err != nil {
			return nil, fmt.Errorf("randomwalk: generating %s kernel %d: %w", g.Name(false), key, err)
		}
		k, err := newKernel(m, fmt.Sprintf("%s%d", g.Name(true), key),
			fmt.Sprintf("%s %d", g.Name(false), key))
		if err != nil {
			return nil, err
		}
		o[key] = k
	}
	return o, nil
}

// NewKernel creates a normalized kernel of the given size from a set of
// displacement masses. Displacements outside the window are an error.
func NewKernel(size int, masses map[Displacement]float64, short, long string) (*Kernel, error) {
	if size <= 0 || size%2 == 0 {
		return nil, fmt.Errorf("%w: got %d", ErrKernelSize, size)
	}
	r := size / 2
	m := mat.NewDense(size, size, nil)
	for d, v := range masses {
		if d.Magnitude() > r {
			return nil, fmt.Errorf("randomwalk: displacement %v outside kernel of size %d", d, size)
		}
		m.Set(d.DX+r, d.DY+r, v)
	}
	return newKernel(m, short, long)
}

// newKernel normalizes m in place and takes ownership of it.
func newKernel(m *mat.Dense, short, long string) (*Kernel, error) {
	r, c := m.Dims()
	if r != c || r%2 == 0 {
		return nil, fmt.Errorf("%w: got %d×%d", ErrKernelSize, r, c)
	}
	var sum float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: kernel %s has mass %g at %v",
					ErrRandomDistribution, long, v, Displacement{i - r/2, j - r/2})
			}
			sum += v
		}
	}
	if sum == 0 || math.IsInf(sum, 0) {
		return nil, fmt.Errorf("%w: kernel %s has total mass %g", ErrRandomDistribution, long, sum)
	}
	m.Scale(1/sum, m)
	k := &Kernel{m: m, radius: r / 2, short: short, long: long}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.At(i, j); v > 0 {
				k.support = append(k.support, Displacement{i - k.radius, j - k.radius})
				k.weights = append(k.weights, v)
			}
		}
	}
	return k, nil
}

// Weight returns the mass of displacement d, which is zero outside
// the kernel's support.
func (k *Kernel) Weight(d Displacement) float64 {
	if d.Magnitude() > k.radius {
		return 0
	}
	return k.m.At(d.DX+k.radius, d.DY+k.radius)
}

// Sample draws a displacement proportionally to its mass.
func (k *Kernel) Sample(rng *rand.Rand) Displacement {
	i, _ := sampleuv.NewWeighted(k.weights, rng).Take()
	return k.support[i]
}

// Support returns the displacements with nonzero mass.
func (k *Kernel) Support() []Displacement {
	return append([]Displacement(nil), k.support...)
}

// Size returns the side length of the kernel window.
func (k *Kernel) Size() int { return 2*k.radius + 1 }

// Radius returns the largest displacement magnitude the kernel can hold.
func (k *Kernel) Radius() int { return k.radius }

// Name returns the short or long name of the kernel.
func (k *Kernel) Name(short bool) string {
	if short {
		return k.short
	}
	return k.long
}

// Rotate returns a copy of k rotated clockwise by degrees, which must be
// a multiple of 90. Clockwise turns north into east.
func (k *Kernel) Rotate(degrees int) (*Kernel, error) {
	if degrees%90 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrRotation, degrees)
	}
	turns := ((degrees/90)%4 + 4) % 4
	size := k.Size()
	m := mat.NewDense(size, size, nil)
	for _, d := range k.support {
		r := d
		for i := 0; i < turns; i++ {
			r = Displacement{-r.DY, r.DX}
		}
		m.Set(r.DX+k.radius, r.DY+k.radius, k.Weight(d))
	}
	return newKernel(m, k.short, k.long)
}

// Mul returns the element-wise product of k and o, renormalized. The
// kernels must have the same size.
func (k *Kernel) Mul(o *Kernel) (*Kernel, error) {
	if k.Size() != o.Size() {
		return nil, fmt.Errorf("%w: cannot multiply kernels of size %d and %d",
			ErrKernelSize, k.Size(), o.Size())
	}
	m := mat.NewDense(k.Size(), k.Size(), nil)
	m.MulElem(k.m, o.m)
	return newKernel(m, k.short+o.short, k.long+" × "+o.long)
}

// Truncate returns a copy of k without the displacements longer than
// maxStep, renormalized.
func (k *Kernel) Truncate(maxStep int) (*Kernel, error) {
	m := mat.NewDense(k.Size(), k.Size(), nil)
	for _, d := range k.support {
		if d.Magnitude() <= maxStep {
			m.Set(d.DX+k.radius, d.DY+k.radius, k.Weight(d))
		}
	}
	return newKernel(m, k.short, k.long)
}

// Octants holds the unit displacements of the eight compass octants,
// starting east and turning clockwise.
var Octants = [8]Displacement{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}

// OctantOf returns the index in Octants closest to the angle of d.
// It panics for the zero displacement.
func OctantOf(d Displacement) int {
	if d.DX == 0 && d.DY == 0 {
		panic("randomwalk: zero displacement has no octant")
	}
	a := math.Atan2(float64(d.DY), float64(d.DX))
	return (int(math.Round(a/(math.Pi/4))) + 8) % 8
}

// AngularMarginal returns the mass of the kernel in each of the Octants,
// ignoring the zero displacement. The result is normalized, or all zero
// if the kernel only holds the zero displacement.
func (k *Kernel) AngularMarginal() [8]float64 {
	var o [8]float64
	for i, d := range k.support {
		if d.DX == 0 && d.DY == 0 {
			continue
		}
		o[OctantOf(d)] += k.weights[i]
	}
	if s := floats.Sum(o[:]); s > 0 {
		floats.Scale(1/s, o[:])
	}
	return o
}

func (k *Kernel) String() string {
	b := new(strings.Builder)
	fmt.Fprintf(b, "%s\n", k.long)
	for j := 0; j < k.Size(); j++ {
		for i := 0; i < k.Size(); i++ {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(b, "%.4f", k.m.At(i, j))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

type kernelGob struct {
	Size        int
	Values      []float64
	Short, Long string
}

// GobEncode implements gob.GobEncoder.
func (k *Kernel) GobEncode() ([]byte, error) {
	kg := kernelGob{Size: k.Size(), Short: k.short, Long: k.long}
	kg.Values = mat.DenseCopyOf(k.m).RawMatrix().Data
	var b bytes.Buffer
	if err := gob.NewEncoder(&b).Encode(kg); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (k *Kernel) GobDecode(data []byte) error {
	var kg kernelGob
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&kg); err != nil {
		return err
	}
	if kg.Size <= 0 || kg.Size%2 == 0 || len(kg.Values) != kg.Size*kg.Size {
		return fmt.Errorf("%w: kernel of size %d with %d values", ErrCorruptField, kg.Size, len(kg.Values))
	}
	nk, err := newKernel(mat.NewDense(kg.Size, kg.Size, kg.Values), kg.Short, kg.Long)
	if err != nil {
		return err
	}
	*k = *nk
	return nil
}
