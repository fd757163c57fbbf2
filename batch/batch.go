/*
 * batch.go, part of oxpot.
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

// Package batch obtains the potential vs. pH curves for a set of molecules,
// several at a time. A molecule that fails is logged and skipped.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	chem "github.com/rmera/oxpot"
	"github.com/rmera/oxpot/chemplot"
	"github.com/rmera/oxpot/ladder"
	"github.com/rmera/oxpot/qm"
	"github.com/rmera/oxpot/redox"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Names of the outputs, relative to Options.OutDir.
const (
	CSVName      = "potentials.csv"
	ContainerDir = "pickle_files"
	PlotDir      = "plots"
)

var (
	ErrNoFactory     = errors.New("batch: no engine factory given")
	ErrDuplicateName = errors.New("batch: two inputs share a molecule name")
)

// Engines is the set of engines used for one molecule.
type Engines struct {
	Reference  qm.Calculator
	Accurate   qm.Calculator //may be nil
	Sampler    qm.Sampler
	PreSampler qm.Sampler //may be nil
}

// EngineFactory builds a fresh set of engines. It is called once per molecule,
// so engines are never shared between concurrent molecules.
type EngineFactory func() (Engines, error)

// Options for Run
type Options struct {
	Workers         int //molecules processed at the same time, at least 1
	Engines         EngineFactory
	Step            float64 //pH step, 0 means 1
	Ceiling         float64 //0 means ladder.DefaultCeiling
	ConformerSearch bool
	TautomerSearch  bool
	OutDir          string //if empty, nothing is written
	Plots           bool
	Potential       redox.PotentialFunc //nil means thermo.Potential
	Logger          *zap.Logger
}

// Report is the outcome of a batch.
type Report struct {
	Succeeded []string
	Failed    map[string]error
	Samples   map[string][]redox.Sample
}

func newReport() *Report {
	return &Report{Failed: make(map[string]error), Samples: make(map[string][]redox.Sample)}
}

type job struct {
	opts Options
	log  *zap.Logger
	csv  *redox.CSVWriter

	mu     sync.Mutex
	report *Report
}

func (J *job) fail(name string, err error) {
	J.log.Error("molecule failed, skipping", zap.String("molecule", name), zap.Error(err))
	J.mu.Lock()
	J.report.Failed[name] = err
	J.mu.Unlock()
}

func (J *job) succeed(name string, samples []redox.Sample) {
	J.mu.Lock()
	J.report.Succeeded = append(J.report.Succeeded, name)
	J.report.Samples[name] = samples
	J.mu.Unlock()
}

// molecule processes one xyz file. All the errors are returned as *redox.MoleculeError.
func (J *job) molecule(ctx context.Context, path string) ([]redox.Sample, error) {
	name := chem.NameFromPath(path)
	eng, err := J.opts.Engines()
	if err != nil {
		return nil, &redox.MoleculeError{Name: name, Err: fmt.Errorf("building engines: %w", err)}
	}
	log := J.log.With(zap.String("molecule", name))
	sopts := redox.Options{
		Ladder: ladder.Options{
			Reference:       eng.Reference,
			Accurate:        eng.Accurate,
			Sampler:         eng.Sampler,
			ConformerSearch: J.opts.ConformerSearch,
			Ceiling:         J.opts.Ceiling,
			Logger:          J.log,
		},
		TautomerSearch: J.opts.TautomerSearch,
		PreSampler:     eng.PreSampler,
	}
	start := time.Now()
	c, err := redox.States(ctx, path, sopts)
	if err != nil {
		return nil, err
	}
	log.Info("states obtained", zap.Int("singlets", len(c.Singlets)), zap.Int("radicals", len(c.Radicals)), zap.Duration("elapsed", time.Since(start)))
	if J.opts.OutDir != "" {
		p, err := redox.SaveContainer(filepath.Join(J.opts.OutDir, ContainerDir), c)
		if err != nil {
			return nil, &redox.MoleculeError{Name: name, Err: err}
		}
		log.Debug("container saved", zap.String("file", p))
	}
	samples, err := redox.FromContainer(c, J.opts.Step, J.opts.Potential, J.log)
	if err != nil {
		return nil, &redox.MoleculeError{Name: name, Err: err}
	}
	if J.csv != nil {
		if err = J.csv.Write(name, samples); err != nil {
			return nil, &redox.MoleculeError{Name: name, Err: err}
		}
	}
	if J.opts.Plots && J.opts.OutDir != "" {
		plotname := filepath.Join(J.opts.OutDir, PlotDir, name+".png")
		if err = chemplot.TitrationPlot(samples, name, plotname); err != nil {
			//a missing plot doesn't invalidate the results
			log.Warn("plot failed", zap.Error(err))
		}
	}
	return samples, nil
}

// Run obtains the potential vs. pH curve for each of the xyz files in paths, with up to
// opts.Workers molecules processed concurrently. The molecules that fail are recorded
// in the report and don't stop the batch. An error is returned only if the outputs can't
// be created or if ctx is canceled, in which case the partial report is also returned.
// Outputs are named after the molecule, so two paths with the same base name (as in
// a/water.xyz and b/water.xyz) give ErrDuplicateName before anything is computed.
func Run(ctx context.Context, paths []string, opts Options) (*Report, error) {
	errid := "batch/Run"
	if opts.Engines == nil {
		return nil, ErrNoFactory
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Step == 0 {
		opts.Step = 1
	}
	if _, err := redox.PHGrid(opts.Step); err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		name := chem.NameFromPath(path)
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("%s: %w: %q from %s and %s", errid, ErrDuplicateName, name, prev, path)
		}
		seen[name] = path
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	J := &job{opts: opts, log: log, report: newReport()}
	if opts.OutDir != "" {
		dirs := []string{opts.OutDir}
		if opts.Plots {
			dirs = append(dirs, filepath.Join(opts.OutDir, PlotDir))
		}
		for _, d := range dirs {
			if err := os.MkdirAll(d, 0o755); err != nil {
				return nil, fmt.Errorf("%s: %w", errid, err)
			}
		}
		f, err := os.Create(filepath.Join(opts.OutDir, CSVName))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errid, err)
		}
		defer f.Close()
		J.csv = redox.NewCSVWriter(f)
	}
	log.Info("starting batch", zap.Int("molecules", len(paths)), zap.Int("workers", opts.Workers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for _, path := range paths {
		if gctx.Err() != nil {
			break
		}
		path := path // per-iteration copy (go 1.21 loop semantics)
		g.Go(func() error {
			samples, err := J.molecule(gctx, path)
			if err != nil {
				J.fail(chem.NameFromPath(path), err)
				return nil
			}
			J.succeed(chem.NameFromPath(path), samples)
			return nil
		})
	}
	g.Wait()
	sort.Strings(J.report.Succeeded)
	log.Info("batch finished", zap.Int("succeeded", len(J.report.Succeeded)), zap.Int("failed", len(J.report.Failed)))
	if err := ctx.Err(); err != nil {
		return J.report, fmt.Errorf("%s: %w", errid, err)
	}
	return J.report, nil
}
