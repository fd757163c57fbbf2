/*
 * run.go, part of oxpot.
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

	"github.com/rmera/oxpot/batch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runOptions struct {
	Workers      int
	Step         float64
	OutDir       string
	Plots        bool
	NoConformers bool
	NoTautomers  bool
}

func newRunCommand() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run [xyz files]",
		Short: "Obtain the potential vs. pH curves for the given molecules",
		Long: "run builds the singlet and radical deprotomer ladders for each molecule, saves them\n" +
			"under <out>/pickle_files and writes the potentials to <out>/potentials.csv.\n" +
			"A molecule that fails is reported and skipped.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, opts, args)
		},
	}
	f := cmd.Flags()
	f.IntVarP(&opts.Workers, "workers", "w", 0, "molecules processed at the same time")
	f.Float64Var(&opts.Step, "step", 0, "pH step")
	f.StringVarP(&opts.OutDir, "out", "o", "", "output directory")
	f.BoolVar(&opts.Plots, "plots", false, "also plot each curve under <out>/plots")
	f.BoolVar(&opts.NoConformers, "no-conformers", false, "skip the conformer searches")
	f.BoolVar(&opts.NoTautomers, "no-tautomers", false, "skip the initial tautomer search")
	return cmd
}

func runRun(cmd *cobra.Command, opts *runOptions, paths []string) error {
	app, err := getAppContext(cmd)
	if err != nil {
		return err
	}
	cfg := *app.Config
	f := cmd.Flags()
	if f.Changed("workers") {
		cfg.Run.Workers = opts.Workers
	}
	if f.Changed("step") {
		cfg.Run.Step = opts.Step
	}
	if f.Changed("out") {
		cfg.Output.Dir = opts.OutDir
	}
	if f.Changed("plots") {
		cfg.Output.Plots = opts.Plots
	}
	if opts.NoConformers {
		cfg.Run.ConformerSearch = false
	}
	if opts.NoTautomers {
		cfg.Run.TautomerSearch = false
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	rep, err := batch.Run(cmd.Context(), paths, batch.Options{
		Workers:         cfg.Run.Workers,
		Engines:         engineFactory(cfg.Engines, app.Logger),
		Step:            cfg.Run.Step,
		Ceiling:         cfg.Run.Ceiling,
		ConformerSearch: cfg.Run.ConformerSearch,
		TautomerSearch:  cfg.Run.TautomerSearch,
		OutDir:          cfg.Output.Dir,
		Plots:           cfg.Output.Plots,
		Logger:          app.Logger,
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d molecules processed, %d failed\n", len(rep.Succeeded), len(rep.Failed))
	for name, e := range rep.Failed {
		fmt.Fprintf(out, "  %s: %v\n", name, e)
	}
	if len(rep.Succeeded) == 0 {
		app.Logger.Error("no molecule could be processed", zap.Int("molecules", len(paths)))
		return fmt.Errorf("oxpot run: all %d molecules failed", len(paths))
	}
	return nil
}
