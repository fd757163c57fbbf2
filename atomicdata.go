/*
 * atomicdata.go, part of oxpot.
 *
 *
 * Copyright 2021 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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

package chem

import "strings"

// Conversion factors and physical constants. Energies in this library are in kcal/mol.
const (
	H2Kcal = 627.509474     //Hartree to kcal/mol
	Kcal2H = 1.0 / H2Kcal   //kcal/mol to Hartree
	R      = 1.987204259e-3 //gas constant in kcal/(mol*K)
)

//A map for assigning mass to elements.
//Values from IUPAC. Only the first four rows and a few common heavier elements are present
var symbolMass = map[string]float64{
	"H":  1.00794,
	"He": 4.0026,
	"Li": 6.941,
	"Be": 9.01218,
	"B":  10.811,
	"C":  12.0107,
	"N":  14.0067,
	"O":  15.9994,
	"F":  18.9984,
	"Ne": 20.1797,
	"Na": 22.9898,
	"Mg": 24.305,
	"Al": 26.9815,
	"Si": 28.0855,
	"P":  30.9738,
	"S":  32.065,
	"Cl": 35.453,
	"Ar": 39.948,
	"K":  39.0983,
	"Ca": 40.078,
	"Mn": 54.938,
	"Fe": 55.845,
	"Co": 58.9332,
	"Ni": 58.6934,
	"Cu": 63.546,
	"Zn": 65.409,
	"Se": 78.96,
	"Br": 79.904,
	"I":  126.904,
}

//A map for assigning covalent radii to elements
//Values from Cordero et al., 2008 (DOI:10.1039/B801115J)
var symbolCovrad = map[string]float64{
	"H":  0.4, // 0.31 altered. Since H always has only one bond, it doesn't matter if I set a longer radius, the extra bonds will get eliminated later.
	"B":  0.84,
	"C":  0.76, //the sp3 radius
	"N":  0.71,
	"O":  0.66,
	"F":  0.57,
	"Na": 1.66,
	"Mg": 1.41,
	"Al": 1.21,
	"Si": 1.11,
	"P":  1.07,
	"S":  1.05,
	"Cl": 1.02,
	"K":  2.03,
	"Ca": 1.76,
	"Mn": 1.61, //hs
	"Fe": 1.52, //hs
	"Co": 1.5,  //hs
	"Ni": 1.24,
	"Cu": 1.32,
	"Zn": 1.22,
	"Se": 1.2,
	"Br": 1.2,
	"I":  1.39,
}

//A map for checking that atoms don't
//have too many bonds. A value of 0 means
//undefined, i.e. that this atom shouldn't
//be checked for max bonds.
var symbolMaxBonds = map[string]int{
	"H":  1, //this is the only one truly important.
	"C":  4,
	"O":  2,
	"F":  1,
	"Cl": 1,
	"Br": 1,
	"I":  1,
}

// Mass returns the mass of the element with the given symbol, and false if
// the element is not in the table.
func Mass(symbol string) (float64, bool) {
	m, ok := symbolMass[NormalSymbol(symbol)]
	return m, ok
}

// NormalSymbol returns the element symbol with its first letter in upper case
// and the rest in lower case, i.e. "cl" and "CL" both give "Cl".
func NormalSymbol(symbol string) string {
	s := strings.TrimSpace(symbol)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func isHydrogen(symbol string) bool {
	return NormalSymbol(symbol) == "H"
}
