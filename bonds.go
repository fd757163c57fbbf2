/*
 * bonds.go, part of oxpot.
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

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//constants from DOI:10.1186/1758-2946-3-33
const (
	tooclose = 0.63
	bondtol  = 0.45
)

// Bond is a covalent bond between the atoms with indexes At1 and At2 (At1<At2).
type Bond struct {
	At1  int
	At2  int
	Dist float64
}

// Bonds assigns bonds to a molecule based on a simple distance
// criterium, similar to that described in DOI:10.1186/1758-2946-3-33
// Atoms exceeding their maximum number of bonds lose their longest ones.
func Bonds(mol *Molecule) ([]Bond, error) {
	//It might get slow for large systems, but it's really not thought
	//for proteins or macromolecules.
	tot := mol.Len()
	coords := mol.Coords()
	bonds := make([]Bond, 0, tot+tot/2)
	peratom := make([][]int, tot) //indexes in bonds
	for i := 0; i < tot; i++ {
		cov1, ok := symbolCovrad[NormalSymbol(mol.Atom(i).Symbol)]
		if !ok {
			return nil, fmt.Errorf("Bonds: Couldn't find the covalent radius for %s %d", mol.Atom(i).Symbol, i)
		}
		for j := i + 1; j < tot; j++ {
			cov2, ok := symbolCovrad[NormalSymbol(mol.Atom(j).Symbol)]
			if !ok {
				return nil, fmt.Errorf("Bonds: Couldn't find the covalent radius for %s %d", mol.Atom(j).Symbol, j)
			}
			d := RowDistance(coords, i, j)
			if d < cov1+cov2+bondtol && d > tooclose {
				peratom[i] = append(peratom[i], len(bonds))
				peratom[j] = append(peratom[j], len(bonds))
				bonds = append(bonds, Bond{At1: i, At2: j, Dist: d})
			}
		}
	}
	//Now we check that no atom has too many bonds.
	removed := make(map[int]bool)
	for i := 0; i < tot; i++ {
		max := symbolMaxBonds[NormalSymbol(mol.Atom(i).Symbol)]
		if max == 0 { //means there is not a specified number of bonds for this atom.
			continue
		}
		alive := make([]int, 0, len(peratom[i]))
		for _, b := range peratom[i] {
			if !removed[b] {
				alive = append(alive, b)
			}
		}
		sort.Slice(alive, func(k, l int) bool { return bonds[alive[k]].Dist < bonds[alive[l]].Dist })
		for _, b := range alive[min(max, len(alive)):] {
			removed[b] = true //we remove the longest bonds
		}
	}
	ret := make([]Bond, 0, len(bonds)-len(removed))
	for i, v := range bonds {
		if !removed[i] {
			ret = append(ret, v)
		}
	}
	return ret, nil
}

// heavyGraph returns, for each heavy atom in order of appearance, the sorted list of the
// heavy-atom ordinals it is bonded to.
func heavyGraph(mol *Molecule) ([][]int, error) {
	bonds, err := Bonds(mol)
	if err != nil {
		return nil, err
	}
	ordinal := make([]int, mol.Len())
	n := 0
	for i := range ordinal {
		ordinal[i] = -1
		if !isHydrogen(mol.Atom(i).Symbol) {
			ordinal[i] = n
			n++
		}
	}
	g := make([][]int, n)
	for _, b := range bonds {
		o1, o2 := ordinal[b.At1], ordinal[b.At2]
		if o1 < 0 || o2 < 0 {
			continue
		}
		g[o1] = append(g[o1], o2)
		g[o2] = append(g[o2], o1)
	}
	for _, v := range g {
		sort.Ints(v)
	}
	return g, nil
}

// SameHeavyConnectivity returns true if the heavy (non-hydrogen) atoms of both molecules
// appear in the same order with the same elements and are bonded in the same way.
// Hydrogens are ignored, so a molecule and its deprotomers (or tautomers) compare equal
// unless a heavy-atom bond was broken or formed.
func SameHeavyConnectivity(a, b *Molecule) (bool, error) {
	ha := heavySymbols(a)
	hb := heavySymbols(b)
	if len(ha) != len(hb) {
		return false, nil
	}
	for i := range ha {
		if ha[i] != hb[i] {
			return false, nil
		}
	}
	ga, err := heavyGraph(a)
	if err != nil {
		return false, fmt.Errorf("SameHeavyConnectivity: %s: %w", a.Name, err)
	}
	gb, err := heavyGraph(b)
	if err != nil {
		return false, fmt.Errorf("SameHeavyConnectivity: %s: %w", b.Name, err)
	}
	for i := range ga {
		if len(ga[i]) != len(gb[i]) {
			return false, nil
		}
		for j := range ga[i] {
			if ga[i][j] != gb[i][j] {
				return false, nil
			}
		}
	}
	return true, nil
}

func heavySymbols(mol *Molecule) []string {
	ret := make([]string, 0, mol.Len())
	for _, v := range mol.Symbols() {
		if !isHydrogen(v) {
			ret = append(ret, NormalSymbol(v))
		}
	}
	return ret
}

// RowDistance returns the distance between the points in rows i and j of coords.
func RowDistance(coords *mat.Dense, i, j int) float64 {
	return floats.Distance(coords.RawRowView(i), coords.RawRowView(j), 2)
}
