/*
 * states.go, part of oxpot.
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

// Package redox obtains one-electron oxidation potentials as a function of pH,
// from the deprotomer ladders of a closed-shell molecule and of its radical cation.
package redox

import (
	"context"
	"fmt"

	chem "github.com/rmera/oxpot"
	"github.com/rmera/oxpot/ladder"
	"github.com/rmera/oxpot/qm"
	"go.uber.org/zap"
)

// Container keeps the two ladders of a molecule: the one for the
// closed-shell (singlet) species and the one for the radical cation.
type Container struct {
	Name     string
	Level    string //level of theory for the electronic energies, also the key for the pKa values
	VibLevel string //level of theory for the vibronic energies
	Singlets []ladder.Deprotomer
	Radicals []ladder.Deprotomer
}

// NewContainer returns an empty container for the molecule name.
func NewContainer(name string) *Container {
	return &Container{
		Name:     name,
		Singlets: make([]ladder.Deprotomer, 0, 4),
		Radicals: make([]ladder.Deprotomer, 0, 4),
	}
}

// MoleculeError is returned when the states of a molecule can't be obtained.
type MoleculeError struct {
	Name string
	Err  error
}

func (E *MoleculeError) Error() string {
	return fmt.Sprintf("molecule %s: %v", E.Name, E.Err)
}

func (E *MoleculeError) Unwrap() error { return E.Err }

// Options for States
type Options struct {
	Ladder         ladder.Options //Ladder.ConformerSearch also enables the initial conformer search
	TautomerSearch bool
	PreSampler     qm.Sampler //for the initial conformer and tautomer searches. If nil, Ladder.Sampler is used.
}

// lowest returns the first of the structures produced by search, or mol if there are none.
func lowest(ctx context.Context, mol *chem.Molecule, search func(context.Context, *chem.Molecule) ([]*chem.Molecule, error)) (*chem.Molecule, error) {
	mols, err := search(ctx, mol)
	if err != nil {
		return nil, err
	}
	if len(mols) == 0 {
		return mol, nil
	}
	return mols[0], nil
}

// States reads the molecule in the xyz file path, as a neutral singlet, and builds the deprotomer
// ladders for it and for its radical cation. Before that, it optionally replaces the
// structure with its lowest conformer and then with its lowest tautomer.
// Any error is returned as a *MoleculeError.
func States(ctx context.Context, path string, opts Options) (*Container, error) {
	name := chem.NameFromPath(path)
	base, err := chem.XYZFileRead(path)
	if err != nil {
		return nil, &MoleculeError{name, err}
	}
	base.SetCharge(0)
	base.SetMulti(1)
	return StatesFrom(ctx, base, opts)
}

// StatesFrom is like States, but starts from a molecule already in memory. base is not modified.
func StatesFrom(ctx context.Context, base *chem.Molecule, opts Options) (*Container, error) {
	name := base.Name
	if opts.Ladder.Reference == nil || opts.Ladder.Sampler == nil {
		return nil, &MoleculeError{name, ladder.ErrNoEngine}
	}
	log := opts.Ladder.Logger
	if log == nil {
		log = zap.NewNop()
	}
	pre := opts.PreSampler
	if pre == nil {
		pre = opts.Ladder.Sampler
	}
	var err error
	if opts.Ladder.ConformerSearch {
		base, err = lowest(ctx, base, pre.Conformers)
		if err != nil {
			return nil, &MoleculeError{name, fmt.Errorf("conformer search: %w", err)}
		}
	}
	if opts.TautomerSearch {
		base, err = lowest(ctx, base, pre.Tautomers)
		if err != nil {
			return nil, &MoleculeError{name, fmt.Errorf("tautomer search: %w", err)}
		}
	}
	c := NewContainer(name)
	c.Level, c.VibLevel = opts.Ladder.Levels()

	singlet := base.Copy()
	singlet.SetCharge(0)
	singlet.SetMulti(1)
	if err = opts.Ladder.Reference.SinglePoint(ctx, singlet); err != nil {
		return nil, &MoleculeError{name, fmt.Errorf("singlet: %w", err)}
	}
	log.Info("singlet ladder", zap.String("molecule", name))
	c.Singlets, err = ladder.Deprotomers(ctx, singlet, opts.Ladder)
	if err != nil {
		return nil, &MoleculeError{name, fmt.Errorf("singlet: %w", err)}
	}

	radical := base.Copy()
	radical.SetCharge(1)
	radical.SetMulti(2)
	if err = opts.Ladder.Reference.SinglePoint(ctx, radical); err != nil {
		return nil, &MoleculeError{name, fmt.Errorf("radical: %w", err)}
	}
	log.Info("radical ladder", zap.String("molecule", name))
	c.Radicals, err = ladder.Deprotomers(ctx, radical, opts.Ladder)
	if err != nil {
		return nil, &MoleculeError{name, fmt.Errorf("radical: %w", err)}
	}
	return c, nil
}
