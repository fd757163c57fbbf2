/*
 * config.go, part of oxpot.
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

// Package config contains the settings for the oxpot program, and
// loads them from a YAML file and OXPOT_* environment variables.
package config

import (
	"fmt"
	"math"
	"time"

	"github.com/rmera/oxpot/redox"
)

// ProgramConfig is the command and method for one external program.
type ProgramConfig struct {
	Command string `mapstructure:"command"`
	Method  string `mapstructure:"method"`
}

// OrcaConfig holds the settings for the accurate (ORCA) single points.
// They are only used if Enabled is true.
type OrcaConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Command string `mapstructure:"command"`
	Method  string `mapstructure:"method"`
	Basis   string `mapstructure:"basis"`
	Memory  int    `mapstructure:"memory"` //MB per core
}

// EngineConfig holds the settings shared by all the external programs.
type EngineConfig struct {
	XTB        ProgramConfig `mapstructure:"xtb"`
	Crest      ProgramConfig `mapstructure:"crest"`
	Orca       OrcaConfig    `mapstructure:"orca"`
	NCPU       int           `mapstructure:"ncpu"`
	Dielectric float64       `mapstructure:"dielectric"` //0 means gas phase
	Scratch    string        `mapstructure:"scratch"`    //empty means the system's temporary directory
	Timeout    time.Duration `mapstructure:"timeout"`    //per program call, 0 means none
	KeepFiles  bool          `mapstructure:"keep_files"`
}

// RunConfig holds the settings of the ladders and the potential curves.
type RunConfig struct {
	Workers         int     `mapstructure:"workers"`
	Step            float64 `mapstructure:"step"`
	Ceiling         float64 `mapstructure:"ceiling"`
	ConformerSearch bool    `mapstructure:"conformer_search"`
	TautomerSearch  bool    `mapstructure:"tautomer_search"`
}

// OutputConfig says where the results are written.
type OutputConfig struct {
	Dir   string `mapstructure:"dir"`
	Plots bool   `mapstructure:"plots"`
}

// LogConfig holds the logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
}

// Config is the complete configuration of the program.
type Config struct {
	Engines EngineConfig `mapstructure:"engines"`
	Run     RunConfig    `mapstructure:"run"`
	Output  OutputConfig `mapstructure:"output"`
	Log     LogConfig    `mapstructure:"log"`
}

// Validate checks the fully populated Config, and returns the first problem found.
func (c *Config) Validate() error {
	if c.Engines.XTB.Command == "" {
		return fmt.Errorf("config: engines.xtb.command is required")
	}
	if c.Engines.Crest.Command == "" {
		return fmt.Errorf("config: engines.crest.command is required")
	}
	if c.Engines.Orca.Enabled && c.Engines.Orca.Command == "" {
		return fmt.Errorf("config: engines.orca.command is required when orca is enabled")
	}
	if c.Engines.NCPU < 1 {
		return fmt.Errorf("config: engines.ncpu must be at least 1, got %d", c.Engines.NCPU)
	}
	if c.Engines.Dielectric < 0 {
		return fmt.Errorf("config: engines.dielectric must not be negative, got %v", c.Engines.Dielectric)
	}
	if c.Engines.Timeout < 0 {
		return fmt.Errorf("config: engines.timeout must not be negative, got %v", c.Engines.Timeout)
	}
	if c.Run.Workers < 1 {
		return fmt.Errorf("config: run.workers must be at least 1, got %d", c.Run.Workers)
	}
	if !(c.Run.Step >= redox.MinStep) || math.IsInf(c.Run.Step, 0) {
		return fmt.Errorf("config: run.step must be at least %v, got %v", redox.MinStep, c.Run.Step)
	}
	if c.Run.Ceiling <= 0 {
		return fmt.Errorf("config: run.ceiling must be positive, got %v", c.Run.Ceiling)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}
	return nil
}
