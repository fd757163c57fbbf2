/*
 * thermo.go, part of oxpot.
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

// Package thermo obtains pKa values and reduction potentials from the
// free energies cached in molecules. All energies are in kcal/mol, potentials
// are in V vs. the standard hydrogen electrode.
package thermo

import (
	"errors"
	"fmt"
	"math"
	"strings"

	chem "github.com/rmera/oxpot"
)

var (
	ErrMissingEnergy = errors.New("energy not available at the requested level of theory")
	ErrNotDeprotomer = errors.New("structures are not related by the loss of one proton")
	ErrNotRedoxPair  = errors.New("structures are not related by the loss of at least one electron")
	ErrNonFinite     = errors.New("non-finite result")
)

// Constants used in the calculations.
type Constants struct {
	Temperature      float64 //K
	ProtonFreeEnergy float64 //solvation free energy of the proton, kcal/mol
	AbsoluteSHE      float64 //absolute potential of the standard hydrogen electrode, V
	Faraday          float64 //kcal/(mol*V)
}

// Default contains the constants for water at 298.15 K.
var Default = Constants{
	Temperature:      298.15,
	ProtonFreeEnergy: -270.29,
	AbsoluteSHE:      4.28,
	Faraday:          23.0605,
}

// rtln10 is RT ln(10), the free energy change per pH unit.
func (C Constants) rtln10() float64 {
	return chem.R * C.Temperature * math.Ln10
}

// FreeEnergy returns the electronic energy of mol at the level el plus its
// vibronic correction at the level vib.
func FreeEnergy(mol *chem.Molecule, el, vib string) (float64, error) {
	p := mol.Props
	if p == nil || p.ElectronicLevel != el {
		return 0, fmt.Errorf("%s: electronic energy at %q: %w", mol.Name, el, ErrMissingEnergy)
	}
	if p.VibronicLevel != vib {
		return 0, fmt.Errorf("%s: vibronic energy at %q: %w", mol.Name, vib, ErrMissingEnergy)
	}
	return p.Electronic + p.Vibronic, nil
}

func countH(mol chem.Atomer) int {
	n := 0
	for i := 0; i < mol.Len(); i++ {
		if strings.EqualFold(mol.Atom(i).Symbol, "H") {
			n++
		}
	}
	return n
}

// PKa returns the pKa for the loss of a proton from prot to give deprot, using the
// default constants.
func PKa(prot, deprot *chem.Molecule, el, vib string) (float64, error) {
	return Default.PKa(prot, deprot, el, vib)
}

// PKa returns the pKa for the loss of a proton from prot to give deprot.
// The electronic energies are taken at the level el, and the vibronic
// corrections at the level vib.
func (C Constants) PKa(prot, deprot *chem.Molecule, el, vib string) (float64, error) {
	errid := "thermo/PKa"
	if prot.Len()-deprot.Len() != 1 || countH(prot)-countH(deprot) != 1 || prot.Charge()-deprot.Charge() != 1 {
		return 0, fmt.Errorf("%s: %s (%d atoms, charge %d) and %s (%d atoms, charge %d): %w", errid, prot.Name, prot.Len(), prot.Charge(), deprot.Name, deprot.Len(), deprot.Charge(), ErrNotDeprotomer)
	}
	gha, err := FreeEnergy(prot, el, vib)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", errid, err)
	}
	ga, err := FreeEnergy(deprot, el, vib)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", errid, err)
	}
	pka := (ga + C.ProtonFreeEnergy - gha) / C.rtln10()
	if math.IsNaN(pka) || math.IsInf(pka, 0) {
		return 0, fmt.Errorf("%s: %w", errid, ErrNonFinite)
	}
	return pka, nil
}

// Potential returns the reduction potential of ox to give red at the given pH, using the
// default constants.
func Potential(ox, red *chem.Molecule, pH float64, el, vib string) (float64, error) {
	return Default.Potential(ox, red, pH, el, vib)
}

// Potential returns the reduction potential, vs. SHE, for the reduction of ox to red at the given pH.
// red and ox can differ in their number of protons, in which case the reduction is proton-coupled, and the
// protons are exchanged with the solution at the given pH.
func (C Constants) Potential(ox, red *chem.Molecule, pH float64, el, vib string) (float64, error) {
	errid := "thermo/Potential"
	m := red.Len() - ox.Len() //protons gained on reduction
	n := ox.Charge() + m - red.Charge()
	if countH(red)-countH(ox) != m || n < 1 {
		return 0, fmt.Errorf("%s: %s (%d atoms, charge %d) and %s (%d atoms, charge %d): %w", errid, ox.Name, ox.Len(), ox.Charge(), red.Name, red.Len(), red.Charge(), ErrNotRedoxPair)
	}
	gox, err := FreeEnergy(ox, el, vib)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", errid, err)
	}
	gred, err := FreeEnergy(red, el, vib)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", errid, err)
	}
	gprot := C.ProtonFreeEnergy - C.rtln10()*pH
	dG := gred - gox - float64(m)*gprot
	e := -dG/(float64(n)*C.Faraday) - C.AbsoluteSHE
	if math.IsNaN(e) || math.IsInf(e, 0) {
		return 0, fmt.Errorf("%s: %w", errid, ErrNonFinite)
	}
	return e, nil
}
