/*
 * config_test.go, part of oxpot.
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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
engines:
  xtb:
    command: /opt/xtb/bin/xtb
  orca:
    enabled: true
    method: wB97X-D3
    basis: def2-TZVP
  ncpu: 8
  timeout: 2h
  keep_files: true
run:
  workers: 4
  step: 0.5
  tautomer_search: false
output:
  dir: results
  plots: true
log:
  level: debug
  format: json
`

func configFile(Te *testing.T, content string) string {
	Te.Helper()
	p := filepath.Join(Te.TempDir(), "oxpot.yaml")
	require.NoError(Te, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadDefaults(Te *testing.T) {
	cfg, err := Load("")
	require.NoError(Te, err)
	assert.Equal(Te, DefaultXTBCommand, cfg.Engines.XTB.Command)
	assert.Equal(Te, DefaultXTBMethod, cfg.Engines.XTB.Method)
	assert.Equal(Te, DefaultCrestCommand, cfg.Engines.Crest.Command)
	assert.Equal(Te, DefaultXTBMethod, cfg.Engines.Crest.Method)
	assert.False(Te, cfg.Engines.Orca.Enabled)
	assert.Equal(Te, DefaultOrcaMethod, cfg.Engines.Orca.Method)
	assert.GreaterOrEqual(Te, cfg.Engines.NCPU, 1)
	assert.Equal(Te, 80.0, cfg.Engines.Dielectric)
	assert.Zero(Te, cfg.Engines.Timeout)
	assert.Equal(Te, 1, cfg.Run.Workers)
	assert.Equal(Te, DefaultStep, cfg.Run.Step)
	assert.Equal(Te, 20.0, cfg.Run.Ceiling)
	assert.True(Te, cfg.Run.ConformerSearch)
	assert.True(Te, cfg.Run.TautomerSearch)
	assert.Equal(Te, DefaultOutputDir, cfg.Output.Dir)
	assert.Equal(Te, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(Te, DefaultLogFormat, cfg.Log.Format)
}

func TestLoadFile(Te *testing.T) {
	cfg, err := Load(configFile(Te, sampleYAML))
	require.NoError(Te, err)
	assert.Equal(Te, "/opt/xtb/bin/xtb", cfg.Engines.XTB.Command)
	assert.True(Te, cfg.Engines.Orca.Enabled)
	assert.Equal(Te, "wB97X-D3", cfg.Engines.Orca.Method)
	assert.Equal(Te, "def2-TZVP", cfg.Engines.Orca.Basis)
	assert.Equal(Te, DefaultOrcaCommand, cfg.Engines.Orca.Command)
	assert.Equal(Te, 8, cfg.Engines.NCPU)
	assert.Equal(Te, 2*time.Hour, cfg.Engines.Timeout)
	assert.True(Te, cfg.Engines.KeepFiles)
	assert.Equal(Te, 4, cfg.Run.Workers)
	assert.Equal(Te, 0.5, cfg.Run.Step)
	assert.True(Te, cfg.Run.ConformerSearch)
	assert.False(Te, cfg.Run.TautomerSearch)
	assert.Equal(Te, "results", cfg.Output.Dir)
	assert.True(Te, cfg.Output.Plots)
	assert.Equal(Te, "debug", cfg.Log.Level)
	assert.Equal(Te, "json", cfg.Log.Format)
}

func TestLoadEnvOverride(Te *testing.T) {
	Te.Setenv("OXPOT_RUN_WORKERS", "12")
	Te.Setenv("OXPOT_ENGINES_XTB_METHOD", "gfnff")
	Te.Setenv("OXPOT_ENGINES_DIELECTRIC", "0")
	Te.Setenv("OXPOT_RUN_CONFORMER_SEARCH", "false")
	cfg, err := Load(configFile(Te, sampleYAML))
	require.NoError(Te, err)
	assert.Equal(Te, 12, cfg.Run.Workers)
	assert.Equal(Te, "gfnff", cfg.Engines.XTB.Method)
	assert.Equal(Te, "gfnff", cfg.Engines.Crest.Method)
	assert.Zero(Te, cfg.Engines.Dielectric)
	assert.False(Te, cfg.Run.ConformerSearch)
	assert.Equal(Te, 0.5, cfg.Run.Step)
}

func TestLoadErrors(Te *testing.T) {
	_, err := Load(filepath.Join(Te.TempDir(), "nothere.yaml"))
	assert.True(Te, errors.Is(err, ErrConfigRead))
	_, err = Load(configFile(Te, "run: [\n"))
	assert.True(Te, errors.Is(err, ErrConfigRead))
	for _, bad := range []string{
		"run:\n  step: -1\n",
		"run:\n  step: 0.0001\n",
		"run:\n  workers: -2\n",
		"log:\n  level: loud\n",
		"log:\n  format: xml\n",
		"engines:\n  dielectric: -3\n",
	} {
		_, err = Load(configFile(Te, bad))
		assert.True(Te, errors.Is(err, ErrConfigValidation), bad)
	}
}

func TestApplyDefaultsKeepsValues(Te *testing.T) {
	cfg := &Config{Run: RunConfig{Workers: 3, Ceiling: 14}, Log: LogConfig{Level: "warn"}}
	ApplyDefaults(cfg)
	assert.Equal(Te, 3, cfg.Run.Workers)
	assert.Equal(Te, 14.0, cfg.Run.Ceiling)
	assert.Equal(Te, "warn", cfg.Log.Level)
	assert.NoError(Te, cfg.Validate())
	ApplyDefaults(nil)
}
