/*
 * qm.go, part of oxpot.
 *
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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

package qm

import (
	"context"

	chem "github.com/rmera/oxpot"
)

// Calculator computes energies and geometries for a molecule at one level of theory.
// All energies are in kcal/mol. Implementations are synchronous and may be slow.
type Calculator interface {

	//Level returns the identifier of the level of theory of the calculator, e.g.
	//"gfn2". It is used as the key for the energies and pKa values cached in
	//the molecules.
	Level() string

	//Optimize optimizes the geometry of mol in place, and sets its electronic
	//and vibronic energies at the calculator's level.
	Optimize(ctx context.Context, mol *chem.Molecule) error

	//SinglePoint sets the electronic energy of mol at the calculator's level,
	//without changing the geometry.
	SinglePoint(ctx context.Context, mol *chem.Molecule) error

	//Frequency obtains the vibronic (thermal free energy) correction for mol
	//at its current geometry. mol is not modified.
	Frequency(ctx context.Context, mol *chem.Molecule) (float64, error)
}

// Sampler generates new structures from a given one. All methods return
// the structures ordered from lowest to highest energy. The given molecule is
// not modified.
type Sampler interface {

	//Conformers returns conformers of mol.
	Conformers(ctx context.Context, mol *chem.Molecule) ([]*chem.Molecule, error)

	//Tautomers returns tautomers of mol.
	Tautomers(ctx context.Context, mol *chem.Molecule) ([]*chem.Molecule, error)

	//Deprotonate returns the structures resulting from removing one proton
	//from mol. Their charge is one unit lower than that of mol. An empty
	//slice and a nil error means that no valid deprotonated structure was found.
	Deprotonate(ctx context.Context, mol *chem.Molecule) ([]*chem.Molecule, error)
}

// JobType selects what a calculation does.
type JobType int

const (
	SP      JobType = iota //single point
	Opti                   //geometry optimization
	OptFreq                //optimization followed by a frequency calculation
	Freq                   //frequency calculation at the given geometry
)

func (J JobType) String() string {
	return [...]string{"SP", "Opti", "OptFreq", "Freq"}[J]
}

// Calc contains the settings for a calculation. Not all programs
// use all the fields.
type Calc struct {
	Method       string
	Basis        string
	RI           bool
	Disperssion  string //D3, D3BJ, D4, etc.
	Dielectric   float64
	OptTightness int
	SCFTightness int
	Memory       int    //Max memory to be used in MB per core (the effect depends on the QM program)
	Others       string //Other keywords, passed verbatim
	Job          JobType
}

// Level returns the identifier of the level of theory given by the Calc.
func (Q *Calc) Level() string {
	if Q.Basis == "" {
		return Q.Method
	}
	return Q.Method + "/" + Q.Basis
}

//Utilities here

// dielectric2Solvent maps dielectric constants to the names
// of the implicit solvents available in xtb and CREST.
var dielectric2Solvent = map[int]string{
	80: "h2o",
	5:  "chcl3",
	9:  "ch2cl2",
	21: "acetone",
	37: "acetonitrile",
	33: "methanol",
	2:  "toluene",
	7:  "thf",
	47: "dmso",
	38: "dmf",
}

// dielectric2CPCM maps dielectric constants to the
// solvent names understood by ORCA's CPCM.
var dielectric2CPCM = map[int]string{
	80: "Water",
	5:  "Chloroform",
	9:  "CH2Cl2",
	21: "Acetone",
	37: "Acetonitrile",
	33: "Methanol",
	2:  "Toluene",
	7:  "THF",
	47: "DMSO",
	38: "DMF",
}

// Same as the previous, but with strings.
func isInString(container []string, test string) bool {
	for _, i := range container {
		if test == i {
			return true
		}
	}
	return false
}
