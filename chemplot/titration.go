/*
 * titration.go, part of oxpot.
 *
 *
 * Copyright 2024 Raul Mera <rmeraa{at}academicosdotutadotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

// Package chemplot draws the potential vs. pH curves obtained with the redox package.
package chemplot

import (
	"errors"
	"fmt"

	"github.com/rmera/oxpot/redox"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

var ErrNoData = errors.New("chemplot: nothing to plot")

// Series is one potential vs. pH curve, with the name for its legend.
type Series struct {
	Name    string
	Samples []redox.Sample
}

func points(samples []redox.Sample) plotter.XYs {
	pts := make(plotter.XYs, len(samples))
	for i, v := range samples {
		pts[i].X = v.PH
		pts[i].Y = v.Potential
	}
	return pts
}

func basicTitrationPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "pH"
	p.Y.Label.Text = "E (V vs. SHE)"
	p.X.Min = 0
	p.X.Max = redox.MaxPH
	p.Add(plotter.NewGrid())
	return p
}

// TitrationPlot plots the potential vs. pH curve in samples, and saves it to filename.
// The format is given by the extension of filename (png, svg, pdf, eps...).
func TitrationPlot(samples []redox.Sample, title, filename string) error {
	return CurvesPlot([]Series{{Name: title, Samples: samples}}, title, filename)
}

// CurvesPlot plots several potential vs. pH curves together, each with its own
// color and legend entry, and saves the plot to filename.
func CurvesPlot(series []Series, title, filename string) error {
	lines := make([]interface{}, 0, 2*len(series))
	for _, v := range series {
		if len(v.Samples) == 0 {
			continue
		}
		lines = append(lines, v.Name, points(v.Samples))
	}
	if len(lines) == 0 {
		return ErrNoData
	}
	p := basicTitrationPlot(title)
	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return fmt.Errorf("chemplot/CurvesPlot: %w", err)
	}
	p.Legend.Top = true
	if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("chemplot/CurvesPlot: %s: %w", filename, err)
	}
	return nil
}
