/*
 * loader.go, part of oxpot.
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
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the prefix of the environment variables read, e.g. OXPOT_RUN_WORKERS.
const envPrefix = "OXPOT"

var (
	ErrConfigRead       = errors.New("config: can't read file")
	ErrConfigValidation = errors.New("config: validation failed")
)

// keys lists every setting, with its default where the zero value is a valid setting.
// viper only looks up environment variables for keys it knows about.
var keys = map[string]interface{}{
	"engines.xtb.command":   "",
	"engines.xtb.method":    "",
	"engines.crest.command": "",
	"engines.crest.method":  "",
	"engines.orca.enabled":  false,
	"engines.orca.command":  "",
	"engines.orca.method":   "",
	"engines.orca.basis":    "",
	"engines.orca.memory":   0,
	"engines.ncpu":          0,
	"engines.dielectric":    DefaultDielectric,
	"engines.scratch":       "",
	"engines.timeout":       "0s",
	"engines.keep_files":    false,
	"run.workers":           0,
	"run.step":              0.0,
	"run.ceiling":           0.0,
	"run.conformer_search":  true,
	"run.tautomer_search":   true,
	"output.dir":            "",
	"output.plots":          false,
	"log.level":             "",
	"log.format":            "",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for k, d := range keys {
		v.SetDefault(k, d)
	}
	return v
}

// Load reads the YAML file at path, if path is not empty, merges the OXPOT_*
// environment variables, applies the defaults and validates the result.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrConfigRead, path, err)
		}
	}
	return unmarshalAndFinalize(v)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigValidation, err)
	}
	return cfg, nil
}
