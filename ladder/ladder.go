/*
 * ladder.go, part of oxpot.
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

// Package ladder builds deprotomer ladders: the sequence of structures obtained by
// removing one proton at a time from a molecule, each with the pKa for the
// loss of the next proton.
package ladder

import (
	"context"
	"errors"
	"fmt"

	chem "github.com/rmera/oxpot"
	"github.com/rmera/oxpot/qm"
	"github.com/rmera/oxpot/thermo"
	"go.uber.org/zap"
)

// DefaultCeiling is the pKa above which no further deprotonation is attempted.
const DefaultCeiling = 20.0

var ErrNoEngine = errors.New("ladder: reference calculator and sampler are required")

// Status of a Deprotomer record
type Status int

const (
	Scored       Status = iota //the pKa was computed
	Unscored                   //the pKa calculation failed
	NoDeprotomer               //no deprotonated structure could be obtained
)

func (S Status) String() string {
	switch S {
	case Scored:
		return "scored"
	case Unscored:
		return "unscored"
	case NoDeprotomer:
		return "no deprotomer"
	}
	return fmt.Sprintf("Status(%d)", int(S))
}

// Deprotomer is one step of a ladder: a structure and the pKa for the loss of
// its next proton. Only Scored records have a meaningful PKa. Unscored and NoDeprotomer
// records are always the last of a ladder, and Reason says what went wrong.
type Deprotomer struct {
	Mol    *chem.Molecule
	PKa    float64
	Status Status
	Reason string
}

// Defined returns true if the record has a numeric pKa.
func (D Deprotomer) Defined() bool {
	return D.Status == Scored
}

// PKaFunc computes the pKa for the loss of a proton from prot to give deprot,
// with the electronic energies at the level el and the vibronic ones at the level vib.
type PKaFunc func(prot, deprot *chem.Molecule, el, vib string) (float64, error)

// Options for building a ladder.
type Options struct {
	Reference       qm.Calculator //optimizations and vibronic energies
	Accurate        qm.Calculator //electronic energies. If nil, Reference is used.
	Sampler         qm.Sampler
	ConformerSearch bool
	Ceiling         float64 //0 means DefaultCeiling
	PKa             PKaFunc //nil means thermo.PKa
	Logger          *zap.Logger
}

func (O Options) withDefaults() (Options, error) {
	if O.Reference == nil || O.Sampler == nil {
		return O, ErrNoEngine
	}
	if O.Ceiling == 0 {
		O.Ceiling = DefaultCeiling
	}
	if O.PKa == nil {
		O.PKa = thermo.PKa
	}
	if O.Logger == nil {
		O.Logger = zap.NewNop()
	}
	if O.Accurate != nil && O.Accurate.Level() == O.Reference.Level() {
		O.Accurate = nil
	}
	return O, nil
}

// Levels returns the levels of theory for the electronic and vibronic energies
// used by a ladder built with these options. The pKa values are cached in the molecules
// under the electronic level.
func (O Options) Levels() (el, vib string) {
	if O.Reference == nil {
		return "", ""
	}
	vib = O.Reference.Level()
	el = vib
	if O.Accurate != nil {
		el = O.Accurate.Level()
	}
	return el, vib
}

// refine optimizes mol with the reference method, and corrects its electronic
// energy with the accurate one, if any.
func (O Options) refine(ctx context.Context, mol *chem.Molecule) error {
	if err := O.Reference.Optimize(ctx, mol); err != nil {
		return err
	}
	if O.Accurate != nil {
		return O.Accurate.SinglePoint(ctx, mol)
	}
	return nil
}

// lowestConformer returns the first conformer of mol, or mol itself if the sampler finds nothing.
func (O Options) lowestConformer(ctx context.Context, mol *chem.Molecule) (*chem.Molecule, error) {
	confs, err := O.Sampler.Conformers(ctx, mol)
	if err != nil {
		return nil, err
	}
	if len(confs) == 0 {
		O.Logger.Debug("no conformers found, keeping structure", zap.String("molecule", mol.Name))
		return mol, nil
	}
	return confs[0], nil
}

// Deprotomers builds the deprotomer ladder starting from seed. The ladder ends when a pKa
// reaches the ceiling, when no deprotonated structure is found (the last record is then
// NoDeprotomer), or when a pKa can't be computed (the last record is then Unscored).
// Errors from the engines are returned, together with the records obtained so far.
// seed may be modified, and is the first record's molecule unless a conformer search
// replaced it.
func Deprotomers(ctx context.Context, seed *chem.Molecule, opts Options) ([]Deprotomer, error) {
	errid := "ladder/Deprotomers"
	O, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	el, vib := O.Levels()
	log := O.Logger.With(zap.String("molecule", seed.Name), zap.String("level", el))
	current := seed
	if O.ConformerSearch {
		current, err = O.lowestConformer(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("%s: conformer search for %s: %w", errid, seed.Name, err)
		}
	}
	if err = O.refine(ctx, current); err != nil {
		return nil, fmt.Errorf("%s: %s: %w", errid, seed.Name, err)
	}
	ret := make([]Deprotomer, 0, 4)
	pka := 0.0
	for step := 1; pka < O.Ceiling; step++ {
		if err = ctx.Err(); err != nil {
			return ret, fmt.Errorf("%s: %s: %w", errid, seed.Name, err)
		}
		var candidates []*chem.Molecule
		candidates, err = O.Sampler.Deprotonate(ctx, current)
		if err != nil {
			return ret, fmt.Errorf("%s: deprotonating %s, step %d: %w", errid, seed.Name, step, err)
		}
		if len(candidates) == 0 {
			log.Info("no valid deprotonated structure, ladder ends", zap.Int("step", step), zap.Int("charge", current.Charge()), zap.Int("multiplicity", current.Multi()))
			ret = append(ret, Deprotomer{Mol: current, Status: NoDeprotomer, Reason: "no valid deprotonated structure"})
			break
		}
		if O.Accurate != nil {
			candidates, err = Reorder(ctx, candidates, O.Reference, O.Accurate, O.Reference)
			if err != nil {
				return ret, fmt.Errorf("%s: step %d: %w", errid, step, err)
			}
		}
		next := candidates[0]
		if O.ConformerSearch {
			next, err = O.lowestConformer(ctx, next)
			if err != nil {
				return ret, fmt.Errorf("%s: conformer search for %s, step %d: %w", errid, seed.Name, step, err)
			}
		}
		if err = O.refine(ctx, next); err != nil {
			return ret, fmt.Errorf("%s: %s, step %d: %w", errid, seed.Name, step, err)
		}
		pka, err = O.PKa(current, next, el, vib)
		if err != nil {
			current.Props.SetPKa(el, nil)
			log.Info("pKa couldn't be obtained, ladder ends", zap.Int("step", step), zap.Int("charge", current.Charge()), zap.Int("multiplicity", current.Multi()), zap.Error(err))
			ret = append(ret, Deprotomer{Mol: current, Status: Unscored, Reason: err.Error()})
			break
		}
		current.Props.SetPKa(el, &pka)
		log.Info("pKa", zap.Int("step", step), zap.Int("charge", current.Charge()), zap.Int("multiplicity", current.Multi()), zap.Float64("pKa", pka))
		ret = append(ret, Deprotomer{Mol: current, PKa: pka, Status: Scored})
		current = next
	}
	return ret, nil
}
