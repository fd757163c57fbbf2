/*
 * engines.go, part of oxpot.
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
	"github.com/rmera/oxpot/batch"
	"github.com/rmera/oxpot/internal/config"
	"github.com/rmera/oxpot/qm"
	"go.uber.org/zap"
)

// the xtb optimization level used for the ladders ("tight")
const optTightness = 2

// engineFactory returns a factory that builds a new set of engines, as given by cfg,
// each time it is called.
func engineFactory(cfg config.EngineConfig, log *zap.Logger) batch.EngineFactory {
	return func() (batch.Engines, error) {
		xtb := qm.NewXTBHandle()
		xtb.SetCommand(cfg.XTB.Command)
		xtb.SetnCPU(cfg.NCPU)
		xtb.SetScratch(cfg.Scratch)
		xtb.SetKeepFiles(cfg.KeepFiles)
		xtb.SetTimeout(cfg.Timeout)
		xtb.SetLogger(log)
		xtb.SetCalc(&qm.Calc{Method: cfg.XTB.Method, Dielectric: cfg.Dielectric, OptTightness: optTightness})

		crest := newCrest(cfg, log)
		//the initial search may change the topology, the ones along the ladders may not.
		pre := newCrest(cfg, log)
		pre.NoRefTopo = true

		eng := batch.Engines{Reference: xtb, Sampler: crest, PreSampler: pre}
		if cfg.Orca.Enabled {
			orca := qm.NewOrcaHandle()
			orca.SetCommand(cfg.Orca.Command)
			orca.SetnCPU(cfg.NCPU)
			orca.SetScratch(cfg.Scratch)
			orca.SetKeepFiles(cfg.KeepFiles)
			orca.SetTimeout(cfg.Timeout)
			orca.SetLogger(log)
			orca.SetCalc(&qm.Calc{Method: cfg.Orca.Method, Basis: cfg.Orca.Basis, Dielectric: cfg.Dielectric, Memory: cfg.Orca.Memory})
			eng.Accurate = orca
		}
		return eng, nil
	}
}

func newCrest(cfg config.EngineConfig, log *zap.Logger) *qm.CrestHandle {
	c := qm.NewCrestHandle()
	c.SetCommand(cfg.Crest.Command)
	c.SetnCPU(cfg.NCPU)
	c.SetScratch(cfg.Scratch)
	c.SetKeepFiles(cfg.KeepFiles)
	c.SetTimeout(cfg.Timeout)
	c.SetLogger(log)
	c.SetCalc(&qm.Calc{Method: cfg.Crest.Method, Dielectric: cfg.Dielectric, OptTightness: 3})
	return c
}
