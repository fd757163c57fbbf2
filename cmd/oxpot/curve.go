/*
 * curve.go, part of oxpot.
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

package main

import (
	"fmt"
	"os"

	"github.com/rmera/oxpot/chemplot"
	"github.com/rmera/oxpot/redox"
	"github.com/spf13/cobra"
)

type curveOptions struct {
	Step float64
	CSV  string
	Plot string
}

func newCurveCommand() *cobra.Command {
	opts := &curveOptions{}
	cmd := &cobra.Command{
		Use:   "curve [container files]",
		Short: "Recompute the potential vs. pH curves from saved ladders",
		Long: "curve reads container (.ctr) files written by run, and writes the potentials,\n" +
			"sampled with the given pH step, as CSV. No QM program is run.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCurve(cmd, opts, args)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&opts.Step, "step", 0, "pH step (default from the configuration)")
	f.StringVar(&opts.CSV, "csv", "", "CSV output file (default: standard output)")
	f.StringVar(&opts.Plot, "plot", "", "also plot all the curves to this file (png, svg, pdf)")
	return cmd
}

func runCurve(cmd *cobra.Command, opts *curveOptions, paths []string) error {
	app, err := getAppContext(cmd)
	if err != nil {
		return err
	}
	step := app.Config.Run.Step
	if cmd.Flags().Changed("step") {
		step = opts.Step
	}
	out := cmd.OutOrStdout()
	if opts.CSV != "" {
		f, err := os.Create(opts.CSV)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	w := redox.NewCSVWriter(out)
	series := make([]chemplot.Series, 0, len(paths))
	for _, p := range paths {
		c, err := redox.LoadContainer(p)
		if err != nil {
			return err
		}
		samples, err := redox.FromContainer(c, step, nil, app.Logger)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		if err = w.Write(c.Name, samples); err != nil {
			return err
		}
		series = append(series, chemplot.Series{Name: c.Name, Samples: samples})
	}
	if opts.Plot != "" {
		return chemplot.CurvesPlot(series, "Oxidation potentials", opts.Plot)
	}
	return nil
}
