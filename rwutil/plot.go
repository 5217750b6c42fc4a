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

package rwutil

import (
	"fmt"
	"os"

	"github.com/spatialmodel/randomwalk"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotWalks draws walks as lines colored from the first to the last walk,
// with the start and end cells marked. Y is negated so that north is up.
func PlotWalks(walks []randomwalk.Walk) (*plot.Plot, error) {
	if len(walks) == 0 {
		return nil, fmt.Errorf("randomwalk: no walks to plot")
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%d walks", len(walks))
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	cm := moreland.SmoothBlueRed()
	cm.SetMin(0)
	cm.SetMax(float64(max(len(walks)-1, 1)))
	for i, w := range walks {
		pts := make(plotter.XYs, w.Len())
		for j := range pts {
			s := w.At(j)
			pts[j] = plotter.XY{X: float64(s.X), Y: -float64(s.Y)}
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("randomwalk: plotting walk %d: %v", i, err)
		}
		c, err := cm.At(float64(i))
		if err != nil {
			return nil, fmt.Errorf("randomwalk: plotting walk %d: %v", i, err)
		}
		l.Color = c
		l.Width = vg.Points(1)
		p.Add(l)
	}
	ends := plotter.XYs{
		{X: float64(walks[0].Start().X), Y: -float64(walks[0].Start().Y)},
		{X: float64(walks[0].End().X), Y: -float64(walks[0].End().Y)},
	}
	s, err := plotter.NewScatter(ends)
	if err != nil {
		return nil, err
	}
	s.GlyphStyle.Radius = vg.Points(4)
	p.Add(s)
	return p, nil
}

// PlotFile reads walks from in and draws them to the PNG file out.
func PlotFile(in, out string) error {
	r, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("randomwalk: problem opening InputFile: %v", err)
	}
	defer r.Close()
	walks, err := ReadWalks(r)
	if err != nil {
		return err
	}
	p, err := PlotWalks(walks)
	if err != nil {
		return err
	}
	if err := p.Save(8*vg.Inch, 8*vg.Inch, out); err != nil {
		return fmt.Errorf("randomwalk: problem saving plot: %v", err)
	}
	return nil
}
