/*
 * chem.go, part of oxpot.
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
 */

package chem

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

/**Note: Some functions here panic instead of returning errors. This is because they are "fundamental"
 * functions. If something goes wrong here, the program is most likely wrong and should
 * crash. Those panics are related to using the function on a nil object or trying to access out-of bounds
 * fields**/

// Atom contains the atomic information except for the coordinates, which live
// in a matrix in the Molecule.
type Atom struct {
	Symbol string
	Mass   float64
	Index  int
}

// Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	N := *A
	return &N
}

// Molecule is a molecular structure: atoms, one set of coordinates, the
// verbatim geometry lines they came from, charge, multiplicity and whatever
// properties the engines have computed for it so far.
type Molecule struct {
	Name     string
	atoms    []*Atom
	coords   *mat.Dense //one row per atom, in Angstrom
	geometry []string   //the atom lines, verbatim, without the line terminator
	charge   int
	multi    int
	Props    *Properties
}

// NewMolecule builds a molecule from a set of atoms, coordinates (one row per atom)
// and geometry lines. If lines is nil, the lines are generated from the
// atoms and coordinates.
func NewMolecule(name string, atoms []*Atom, coords *mat.Dense, lines []string, charge, multi int) (*Molecule, error) {
	if atoms == nil || coords == nil {
		return nil, fmt.Errorf("NewMolecule: nil atoms or coordinates for %s", name)
	}
	r, c := coords.Dims()
	if r != len(atoms) || c != 3 {
		return nil, fmt.Errorf("NewMolecule: %d atoms but coordinates are %dx%d for %s", len(atoms), r, c, name)
	}
	if lines != nil && len(lines) != len(atoms) {
		return nil, fmt.Errorf("NewMolecule: %d atoms but %d geometry lines for %s", len(atoms), len(lines), name)
	}
	M := &Molecule{Name: name, atoms: atoms, coords: coords, geometry: lines, charge: charge, multi: multi}
	M.Props = NewProperties()
	for i, v := range M.atoms {
		v.Index = i
	}
	if M.geometry == nil {
		M.geometry = geometryLines(atoms, coords)
	}
	return M, nil
}

// Len returns the number of atoms in the molecule.
func (M *Molecule) Len() int {
	return len(M.atoms)
}

// Atom returns the i-th atom. Panics if out of range.
func (M *Molecule) Atom(i int) *Atom {
	if i >= M.Len() || i < 0 {
		panic(fmt.Sprintf("Molecule %s: Requested Atom %d out of bounds", M.Name, i))
	}
	return M.atoms[i]
}

// Charge returns the total charge of the molecule.
func (M *Molecule) Charge() int {
	return M.charge
}

// Multi returns the spin multiplicity (2S+1) of the molecule.
func (M *Molecule) Multi() int {
	return M.multi
}

// SetCharge sets the total charge of the molecule to i.
func (M *Molecule) SetCharge(i int) {
	M.charge = i
}

// SetMulti sets the multiplicity of the molecule to i.
func (M *Molecule) SetMulti(i int) {
	M.multi = i
}

// Coords returns the coordinates of the molecule. The matrix is not a copy.
func (M *Molecule) Coords() *mat.Dense {
	return M.coords
}

// Geometry returns a copy of the verbatim geometry lines.
func (M *Molecule) Geometry() []string {
	ret := make([]string, len(M.geometry))
	copy(ret, M.geometry)
	return ret
}

// Symbols returns the element symbols, in order.
func (M *Molecule) Symbols() []string {
	ret := make([]string, 0, M.Len())
	for _, v := range M.atoms {
		ret = append(ret, v.Symbol)
	}
	return ret
}

// SetGeometry replaces the coordinates and geometry lines of the molecule. The number
// of atoms must not change. If lines is nil, they are generated from the coordinates.
// This is what the engines use to write back an optimized geometry.
func (M *Molecule) SetGeometry(coords *mat.Dense, lines []string) error {
	r, _ := coords.Dims()
	if r != M.Len() {
		return fmt.Errorf("SetGeometry: %s has %d atoms, new geometry has %d", M.Name, M.Len(), r)
	}
	if lines != nil && len(lines) != r {
		return fmt.Errorf("SetGeometry: %s has %d atoms, but %d geometry lines were given", M.Name, M.Len(), len(lines))
	}
	M.coords = coords
	if lines == nil {
		lines = geometryLines(M.atoms, coords)
	}
	M.geometry = lines
	return nil
}

// Copy returns a deep copy of the molecule, properties included.
func (M *Molecule) Copy() *Molecule {
	ats := make([]*Atom, 0, M.Len())
	for _, v := range M.atoms {
		ats = append(ats, v.Copy())
	}
	N := &Molecule{
		Name:     M.Name,
		atoms:    ats,
		coords:   mat.DenseCopyOf(M.coords),
		geometry: M.Geometry(),
		charge:   M.charge,
		multi:    M.multi,
	}
	N.Props = M.Props.Copy()
	return N
}

func geometryLines(atoms []*Atom, coords *mat.Dense) []string {
	lines := make([]string, 0, len(atoms))
	for i, v := range atoms {
		lines = append(lines, fmt.Sprintf("%-2s  %12.8f %12.8f %12.8f", v.Symbol, coords.At(i, 0), coords.At(i, 1), coords.At(i, 2)))
	}
	return lines
}
