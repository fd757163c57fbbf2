/*
 * defaults.go, part of oxpot.
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

package config

import (
	"runtime"

	"github.com/rmera/oxpot/ladder"
)

const (
	DefaultXTBCommand   = "xtb"
	DefaultCrestCommand = "crest"
	DefaultOrcaCommand  = "orca"
	DefaultXTBMethod    = "gfn2"
	DefaultOrcaMethod   = "r2SCAN-3c"
	DefaultDielectric   = 80 //water

	DefaultStep      = 1.0
	DefaultOutputDir = "."

	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

// ApplyDefaults fills the zero-valued fields of cfg with their defaults.
// Fields already set are left alone. Booleans and the dielectric are set
// through viper defaults instead, since their zero values are meaningful.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	e := &cfg.Engines
	if e.XTB.Command == "" {
		e.XTB.Command = DefaultXTBCommand
	}
	if e.XTB.Method == "" {
		e.XTB.Method = DefaultXTBMethod
	}
	if e.Crest.Command == "" {
		e.Crest.Command = DefaultCrestCommand
	}
	if e.Crest.Method == "" {
		e.Crest.Method = e.XTB.Method
	}
	if e.Orca.Command == "" {
		e.Orca.Command = DefaultOrcaCommand
	}
	if e.Orca.Method == "" {
		e.Orca.Method = DefaultOrcaMethod
	}
	if e.NCPU == 0 {
		e.NCPU = max(runtime.NumCPU()/2, 1)
	}

	if cfg.Run.Workers == 0 {
		cfg.Run.Workers = 1
	}
	if cfg.Run.Step == 0 {
		cfg.Run.Step = DefaultStep
	}
	if cfg.Run.Ceiling == 0 {
		cfg.Run.Ceiling = ladder.DefaultCeiling
	}

	if cfg.Output.Dir == "" {
		cfg.Output.Dir = DefaultOutputDir
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
