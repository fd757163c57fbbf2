/*
 * root.go, part of oxpot.
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
	"context"
	"fmt"

	"github.com/rmera/oxpot/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type appContextKey struct{}

// appContext carries the configuration and logger to the subcommands.
type appContext struct {
	Config *config.Config
	Logger *zap.Logger
}

type rootOptions struct {
	ConfigPath string
	LogLevel   string
}

// NewRootCommand builds the oxpot command with all its subcommands.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "oxpot",
		Short: "One-electron oxidation potentials vs. pH",
		Long: "oxpot builds the deprotomer ladders of a molecule and of its radical cation with\n" +
			"xtb and CREST (optionally refining energies with ORCA), and from them obtains the\n" +
			"oxidation potential between pH 0 and 14.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a, err := getAppContext(cmd); err == nil {
				_ = a.Logger.Sync()
			}
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "YAML configuration file")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error), overrides the configuration")
	cmd.AddCommand(newRunCommand(), newCurveCommand())
	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, appContextKey{}, &appContext{Config: cfg, Logger: log}))
	return nil
}

func getAppContext(cmd *cobra.Command) (*appContext, error) {
	if ctx := cmd.Context(); ctx != nil {
		if a, ok := ctx.Value(appContextKey{}).(*appContext); ok {
			return a, nil
		}
	}
	return nil, fmt.Errorf("oxpot: command not initialized")
}
