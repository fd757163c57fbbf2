/*
 * qmtest.go, part of oxpot.
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

// Package qmtest provides in-memory implementations of qm.Calculator and
// qm.Sampler, for testing code that drives QM programs without running them.
package qmtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	chem "github.com/rmera/oxpot"
	"github.com/rmera/oxpot/qm"
	"gonum.org/v1/gonum/mat"
)

// Molecule builds a molecule with the given heavy atoms followed by nH hydrogens,
// all at the origin.
func Molecule(name string, heavy []string, nH, charge, multi int) *chem.Molecule {
	atoms := make([]*chem.Atom, 0, len(heavy)+nH)
	for _, v := range heavy {
		m, _ := chem.Mass(v)
		atoms = append(atoms, &chem.Atom{Symbol: v, Mass: m})
	}
	for i := 0; i < nH; i++ {
		atoms = append(atoms, &chem.Atom{Symbol: "H", Mass: 1.00794})
	}
	mol, err := chem.NewMolecule(name, atoms, mat.NewDense(len(atoms), 3, nil), nil, charge, multi)
	if err != nil {
		panic(err)
	}
	return mol
}

// Hydrogens returns the number of hydrogen atoms in mol.
func Hydrogens(mol chem.Atomer) int {
	n := 0
	for i := 0; i < mol.Len(); i++ {
		if strings.EqualFold(mol.Atom(i).Symbol, "H") {
			n++
		}
	}
	return n
}

// Calculator is a qm.Calculator that assigns energies through functions.
// The zero value gives zero energies at the level "".
type Calculator struct {
	Name       string
	Electronic func(mol *chem.Molecule) float64
	Vibronic   func(mol *chem.Molecule) float64
	Fail       func(op string, mol *chem.Molecule) error //op is "Optimize", "SinglePoint" or "Frequency"

	mu            sync.Mutex
	optimizations int
	singlePoints  int
	frequencies   int
}

func (C *Calculator) Level() string { return C.Name }

func (C *Calculator) energies(mol *chem.Molecule) (float64, float64) {
	var e, g float64
	if C.Electronic != nil {
		e = C.Electronic(mol)
	}
	if C.Vibronic != nil {
		g = C.Vibronic(mol)
	}
	return e, g
}

func (C *Calculator) fail(op string, mol *chem.Molecule) error {
	if C.Fail == nil {
		return nil
	}
	return C.Fail(op, mol)
}

func (C *Calculator) Optimize(ctx context.Context, mol *chem.Molecule) error {
	C.mu.Lock()
	C.optimizations++
	C.mu.Unlock()
	if err := C.fail("Optimize", mol); err != nil {
		return err
	}
	e, g := C.energies(mol)
	mol.Props.SetElectronic(e, C.Name)
	mol.Props.SetVibronic(g, C.Name)
	return nil
}

func (C *Calculator) SinglePoint(ctx context.Context, mol *chem.Molecule) error {
	C.mu.Lock()
	C.singlePoints++
	C.mu.Unlock()
	if err := C.fail("SinglePoint", mol); err != nil {
		return err
	}
	e, _ := C.energies(mol)
	mol.Props.SetElectronic(e, C.Name)
	return nil
}

func (C *Calculator) Frequency(ctx context.Context, mol *chem.Molecule) (float64, error) {
	C.mu.Lock()
	C.frequencies++
	C.mu.Unlock()
	if err := C.fail("Frequency", mol); err != nil {
		return 0, err
	}
	_, g := C.energies(mol)
	return g, nil
}

// Calls returns the number of optimizations, single points and frequency calculations requested so far.
func (C *Calculator) Calls() (opt, sp, freq int) {
	C.mu.Lock()
	defer C.mu.Unlock()
	return C.optimizations, C.singlePoints, C.frequencies
}

// Sampler is a qm.Sampler. Deprotonate removes the last hydrogen of the
// molecule as long as more than KeepH hydrogens remain, returning Candidates
// structures (at least one). The first coordinate of the first atom of the k-th
// candidate is set to k, so candidates can be told apart.
// Conformers and Tautomers return a copy of the molecule.
type Sampler struct {
	KeepH      int
	Candidates int
	Fail       func(op string, mol *chem.Molecule) error //op is "Conformers", "Tautomers" or "Deprotonate"

	mu            sync.Mutex
	conformers    int
	tautomers     int
	deprotonation int
}

func (S *Sampler) fail(op string, mol *chem.Molecule) error {
	if S.Fail == nil {
		return nil
	}
	return S.Fail(op, mol)
}

func (S *Sampler) Conformers(ctx context.Context, mol *chem.Molecule) ([]*chem.Molecule, error) {
	S.mu.Lock()
	S.conformers++
	S.mu.Unlock()
	if err := S.fail("Conformers", mol); err != nil {
		return nil, err
	}
	return []*chem.Molecule{mol.Copy()}, nil
}

func (S *Sampler) Tautomers(ctx context.Context, mol *chem.Molecule) ([]*chem.Molecule, error) {
	S.mu.Lock()
	S.tautomers++
	S.mu.Unlock()
	if err := S.fail("Tautomers", mol); err != nil {
		return nil, err
	}
	return []*chem.Molecule{mol.Copy()}, nil
}

func (S *Sampler) Deprotonate(ctx context.Context, mol *chem.Molecule) ([]*chem.Molecule, error) {
	S.mu.Lock()
	S.deprotonation++
	S.mu.Unlock()
	if err := S.fail("Deprotonate", mol); err != nil {
		return nil, err
	}
	if Hydrogens(mol) <= S.KeepH {
		return nil, nil
	}
	last := -1
	for i := mol.Len() - 1; i >= 0; i-- {
		if strings.EqualFold(mol.Atom(i).Symbol, "H") {
			last = i
			break
		}
	}
	n := max(S.Candidates, 1)
	ret := make([]*chem.Molecule, 0, n)
	for k := 0; k < n; k++ {
		atoms := make([]*chem.Atom, 0, mol.Len()-1)
		coords := mat.NewDense(mol.Len()-1, 3, nil)
		r := 0
		for i := 0; i < mol.Len(); i++ {
			if i == last {
				continue
			}
			atoms = append(atoms, mol.Atom(i).Copy())
			coords.SetRow(r, mol.Coords().RawRowView(i))
			r++
		}
		coords.Set(0, 0, float64(k))
		c, err := chem.NewMolecule(mol.Name, atoms, coords, nil, mol.Charge()-1, mol.Multi())
		if err != nil {
			return nil, fmt.Errorf("qmtest: %w", err)
		}
		ret = append(ret, c)
	}
	return ret, nil
}

// Calls returns the number of conformer, tautomer and deprotonation requests so far.
func (S *Sampler) Calls() (conformers, tautomers, deprotonations int) {
	S.mu.Lock()
	defer S.mu.Unlock()
	return S.conformers, S.tautomers, S.deprotonation
}

var (
	_ qm.Calculator = (*Calculator)(nil)
	_ qm.Sampler    = (*Sampler)(nil)
)
