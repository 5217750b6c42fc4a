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

// Package kernels holds movement kernel generators for use with
// randomwalk.BuildKernel and randomwalk.BuildKernels.
package kernels

import (
	"fmt"

	"github.com/spatialmodel/randomwalk"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// set5 sets the mass of the stay move and the four unit moves of a 3×3
// or larger kernel matrix.
func set5(m *mat.Dense, stay float64, dir func(randomwalk.Direction) float64) {
	r, _ := m.Dims()
	c := r / 2
	m.Set(c, c, stay)
	for _, d := range randomwalk.Directions[1:] {
		u := d.Unit()
		m.Set(c+u.DX, c+u.DY, dir(d))
	}
}

// SimpleRW moves to each of the four neighbors or stays with equal
// probability.
type SimpleRW struct{}

// Size implements randomwalk.Generator.
func (SimpleRW) Size() int { return 3 }

// Generate implements randomwalk.Generator.
func (SimpleRW) Generate(m *mat.Dense) error {
	set5(m, 1, func(randomwalk.Direction) float64 { return 1 })
	return nil
}

// Name implements randomwalk.Generator.
func (SimpleRW) Name(short bool) string {
	if short {
		return "srw"
	}
	return "Simple Random Walk"
}

// Biased moves in Direction with Probability and spreads the rest evenly
// over the other four moves, staying included.
type Biased struct {
	Probability float64
	Direction   randomwalk.Direction
}

// Size implements randomwalk.Generator.
func (Biased) Size() int { return 3 }

// Generate implements randomwalk.Generator.
func (b Biased) Generate(m *mat.Dense) error {
	if b.Probability < 0 || b.Probability > 1 {
		return fmt.Errorf("kernels: biased probability %g outside [0, 1]", b.Probability)
	}
	rest := (1 - b.Probability) / 4
	mass := func(d randomwalk.Direction) float64 {
		if d == b.Direction {
			return b.Probability
		}
		return rest
	}
	set5(m, mass(randomwalk.Stay), mass)
	return nil
}

// Name implements randomwalk.Generator.
func (b Biased) Name(short bool) string {
	if short {
		return "brw"
	}
	return fmt.Sprintf("Biased Random Walk (%v, %g)", b.Direction, b.Probability)
}

// Correlated is a family of Biased kernels, one per previous heading,
// that repeat the heading with probability Persistence. It is meant to be
// built into a pool with the randomwalk.ByHeading coupling.
type Correlated struct {
	Persistence float64
}

// Size implements randomwalk.SetGenerator.
func (Correlated) Size() int { return 3 }

// Keys implements randomwalk.SetGenerator.
func (Correlated) Keys() []int { return directionKeys() }

// GenerateKey implements randomwalk.SetGenerator.
func (c Correlated) GenerateKey(key int, m *mat.Dense) error {
	return Biased{Probability: c.Persistence, Direction: randomwalk.Direction(key)}.Generate(m)
}

// Name implements randomwalk.SetGenerator.
func (c Correlated) Name(short bool) string {
	if short {
		return "crw"
	}
	return fmt.Sprintf("Correlated Random Walk (%g)", c.Persistence)
}

func directionKeys() []int {
	keys := make([]int, len(randomwalk.Directions))
	for i, d := range randomwalk.Directions {
		keys[i] = int(d)
	}
	return keys
}

// BiasedCorrelated multiplies each Correlated kernel by a Biased kernel.
type BiasedCorrelated struct {
	Probability float64
	Direction   randomwalk.Direction
	Persistence float64
}

// Size implements randomwalk.SetGenerator.
func (BiasedCorrelated) Size() int { return 3 }

// Keys implements randomwalk.SetGenerator.
func (BiasedCorrelated) Keys() []int { return directionKeys() }

// GenerateKey implements randomwalk.SetGenerator.
func (bc BiasedCorrelated) GenerateKey(key int, m *mat.Dense) error {
	bias := mat.NewDense(3, 3, nil)
	if err := (Biased{Probability: bc.Probability, Direction: bc.Direction}).Generate(bias); err != nil {
		return err
	}
	if err := (Correlated{Persistence: bc.Persistence}).GenerateKey(key, m); err != nil {
		return err
	}
	m.MulElem(m, bias)
	return nil
}

// Name implements randomwalk.SetGenerator.
func (bc BiasedCorrelated) Name(short bool) string {
	if short {
		return "bcrw"
	}
	return fmt.Sprintf("Biased Correlated Random Walk (%v, %g, %g)", bc.Direction, bc.Probability, bc.Persistence)
}

// Normal is an isotropic bivariate normal distribution with variance
// Diffusion along each axis, evaluated on a Size×Size window.
type Normal struct {
	Diffusion float64
	Width     int
}

// Size implements randomwalk.Generator.
func (n Normal) Size() int { return n.Width }

// Generate implements randomwalk.Generator.
func (n Normal) Generate(m *mat.Dense) error {
	if n.Diffusion <= 0 {
		return fmt.Errorf("kernels: diffusion %g must be positive", n.Diffusion)
	}
	sigma := mat.NewSymDense(2, []float64{n.Diffusion, 0, 0, n.Diffusion})
	dist, ok := distmv.NewNormal([]float64{0, 0}, sigma, nil)
	if !ok {
		return fmt.Errorf("kernels: covariance of diffusion %g is not positive definite", n.Diffusion)
	}
	r := n.Width / 2
	x := make([]float64, 2)
	for i := 0; i < n.Width; i++ {
		for j := 0; j < n.Width; j++ {
			x[0], x[1] = float64(i-r), float64(j-r)
			m.Set(i, j, dist.Prob(x))
		}
	}
	return nil
}

// Name implements randomwalk.Generator.
func (n Normal) Name(short bool) string {
	if short {
		return "nd"
	}
	return fmt.Sprintf("Normal Distribution (%g)", n.Diffusion)
}

// Levy mixes the SimpleRW moves with jumps of JumpDistance cells along
// the four axes, taken with total probability JumpProbability.
type Levy struct {
	JumpProbability float64
	JumpDistance    int
}

// Size implements randomwalk.Generator.
func (l Levy) Size() int { return 2*l.JumpDistance + 1 }

// Generate implements randomwalk.Generator.
func (l Levy) Generate(m *mat.Dense) error {
	if l.JumpProbability < 0 || l.JumpProbability > 1 {
		return fmt.Errorf("kernels: jump probability %g outside [0, 1]", l.JumpProbability)
	}
	if l.JumpDistance < 2 {
		return fmt.Errorf("kernels: jump distance %d must be at least 2", l.JumpDistance)
	}
	short := (1 - l.JumpProbability) / 5
	set5(m, short, func(randomwalk.Direction) float64 { return short })
	c := l.JumpDistance
	for _, d := range randomwalk.Directions[1:] {
		u := d.Unit()
		m.Set(c+u.DX*l.JumpDistance, c+u.DY*l.JumpDistance, l.JumpProbability/4)
	}
	return nil
}

// Name implements randomwalk.Generator.
func (l Levy) Name(short bool) string {
	if short {
		return "lw"
	}
	return fmt.Sprintf("Lévy Walk (%g, %d)", l.JumpProbability, l.JumpDistance)
}
