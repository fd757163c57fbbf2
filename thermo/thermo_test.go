/*
 * thermo_test.go, part of oxpot.
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

package thermo

import (
	"errors"
	"math"
	"testing"

	chem "github.com/rmera/oxpot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// phenol-like toy: one O and nH hydrogens
func toy(Te *testing.T, nH, charge, multi int, el, vib float64) *chem.Molecule {
	Te.Helper()
	atoms := []*chem.Atom{{Symbol: "O", Mass: 15.9994}}
	for i := 0; i < nH; i++ {
		atoms = append(atoms, &chem.Atom{Symbol: "H", Mass: 1.00794})
	}
	mol, err := chem.NewMolecule("toy", atoms, mat.NewDense(len(atoms), 3, nil), nil, charge, multi)
	require.NoError(Te, err)
	mol.Props.SetElectronic(el, "high")
	mol.Props.SetVibronic(vib, "low")
	return mol
}

func TestPKa(Te *testing.T) {
	rt := Default.rtln10()
	assert.InDelta(Te, 1.3642, rt, 1e-3)
	ha := toy(Te, 2, 0, 1, -1000, 10)
	//choose the anion energy so the pKa is exactly 7
	ga := -1000 + 10 - Default.ProtonFreeEnergy + 7*rt
	a := toy(Te, 1, -1, 1, ga-8, 8)
	pka, err := PKa(ha, a, "high", "low")
	require.NoError(Te, err)
	assert.InDelta(Te, 7.0, pka, 1e-9)

	//a more stable anion means a more acidic species
	a.Props.SetElectronic(ga-8-rt, "high")
	pka, err = PKa(ha, a, "high", "low")
	require.NoError(Te, err)
	assert.InDelta(Te, 6.0, pka, 1e-9)
}

func TestPKaErrors(Te *testing.T) {
	ha := toy(Te, 2, 0, 1, -1000, 10)
	a := toy(Te, 1, -1, 1, -700, 8)
	_, err := PKa(ha, a, "other", "low")
	assert.True(Te, errors.Is(err, ErrMissingEnergy))
	_, err = PKa(ha, a, "high", "other")
	assert.True(Te, errors.Is(err, ErrMissingEnergy))

	wrongcharge := toy(Te, 1, 0, 2, -700, 8)
	_, err = PKa(ha, wrongcharge, "high", "low")
	assert.True(Te, errors.Is(err, ErrNotDeprotomer))
	_, err = PKa(ha, ha, "high", "low")
	assert.True(Te, errors.Is(err, ErrNotDeprotomer))

	a.Props.SetElectronic(math.Inf(1), "high")
	_, err = PKa(ha, a, "high", "low")
	assert.True(Te, errors.Is(err, ErrNonFinite))
}

func TestPotential(Te *testing.T) {
	red := toy(Te, 2, 0, 1, -1000, 10)
	//one volt vs SHE for the plain electron transfer
	ox := toy(Te, 2, 1, 2, -1000+Default.Faraday*(1+Default.AbsoluteSHE), 10)
	e, err := Potential(ox, red, 0, "high", "low")
	require.NoError(Te, err)
	assert.InDelta(Te, 1.0, e, 1e-9)
	e7, err := Potential(ox, red, 7, "high", "low")
	require.NoError(Te, err)
	assert.InDelta(Te, e, e7, 1e-12) //no protons, no pH dependence

	//proton-coupled: the oxidized species lost a proton too
	dep := toy(Te, 1, 0, 2, -700, 8)
	e0, err := Potential(dep, red, 0, "high", "low")
	require.NoError(Te, err)
	e7, err = Potential(dep, red, 7, "high", "low")
	require.NoError(Te, err)
	slope := Default.rtln10() / Default.Faraday
	assert.InDelta(Te, 0.05916, slope, 1e-4)
	assert.InDelta(Te, -7*slope, e7-e0, 1e-9)
}

func TestPotentialErrors(Te *testing.T) {
	red := toy(Te, 2, 0, 1, -1000, 10)
	same := toy(Te, 2, 0, 1, -1000, 10)
	_, err := Potential(same, red, 7, "high", "low")
	assert.True(Te, errors.Is(err, ErrNotRedoxPair))
	_, err = Potential(red, toy(Te, 1, -1, 1, 0, 0), 7, "high", "low")
	assert.True(Te, errors.Is(err, ErrNotRedoxPair))
	ox := toy(Te, 2, 1, 2, -900, 10)
	_, err = Potential(ox, red, 7, "nope", "low")
	assert.True(Te, errors.Is(err, ErrMissingEnergy))
}
