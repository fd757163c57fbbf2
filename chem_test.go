/*
 * chem_test.go, part of oxpot.
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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const methanol = `6
methanol, some comment
C     -0.046   0.663   0.000
O     -0.046  -0.755   0.000
H     -1.086   0.975   0.000
H      0.437   1.080   0.884
H      0.437   1.080  -0.884
H	0.870	-1.057	0.000   extra
`

func writeTemp(Te *testing.T, name, content string) string {
	Te.Helper()
	p := filepath.Join(Te.TempDir(), name)
	require.NoError(Te, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestXYZRoundTrip(Te *testing.T) {
	p := writeTemp(Te, "methanol.xyz", methanol)
	mol, err := XYZFileRead(p)
	require.NoError(Te, err)
	assert.Equal(Te, "methanol", mol.Name)
	assert.Equal(Te, 6, mol.Len())
	assert.Equal(Te, 0, mol.Charge())
	assert.Equal(Te, 1, mol.Multi())
	assert.InDelta(Te, -0.755, mol.Coords().At(1, 1), 1e-9)

	out := filepath.Join(Te.TempDir(), "out.xyz")
	require.NoError(Te, XYZFileWrite(out, mol))
	mol2, err := XYZFileRead(out)
	require.NoError(Te, err)
	assert.Equal(Te, mol.Len(), mol2.Len())
	assert.Equal(Te, mol.Geometry(), mol2.Geometry())
	//the odd tab-separated line must survive untouched
	assert.Equal(Te, "H\t0.870\t-1.057\t0.000   extra", mol2.Geometry()[5])
	orig := strings.Split(methanol, "\n")[2:8]
	assert.Equal(Te, orig, mol2.Geometry())
}

func TestXYZErrors(Te *testing.T) {
	_, err := XYZFileRead(writeTemp(Te, "bad.xyz", "three\n\nC 0 0 0\n"))
	assert.Error(Te, err)
	_, err = XYZFileRead(writeTemp(Te, "short.xyz", "3\n\nC 0 0 0\nO 0 0 1.2\n"))
	assert.Error(Te, err)
	_, err = XYZFileRead(writeTemp(Te, "nocoord.xyz", "1\n\nC 0 0\n"))
	assert.Error(Te, err)
	_, err = XYZFileRead(filepath.Join(Te.TempDir(), "missing.xyz"))
	assert.Error(Te, err)
}

func TestXYZReadAll(Te *testing.T) {
	ens := "2\n -10.5\nO 0 0 0\nH 0 0 0.97\n2\n -10.4\nO 0 0 0\nH 0 0 0.99\n"
	mols, comments, err := XYZFileReadAll(writeTemp(Te, "crest_conformers.xyz", ens))
	require.NoError(Te, err)
	require.Len(Te, mols, 2)
	assert.Equal(Te, []string{" -10.5", " -10.4"}, comments)
	assert.InDelta(Te, 0.99, mols[1].Coords().At(1, 2), 1e-9)
	assert.Equal(Te, "crest_conformers", mols[0].Name)
}

func TestCopyAndProperties(Te *testing.T) {
	mol, err := XYZFileRead(writeTemp(Te, "methanol.xyz", methanol))
	require.NoError(Te, err)
	mol.Props.SetElectronic(-10, "gfn2")
	mol.Props.SetVibronic(2, "gfn2")
	v := 9.5
	mol.Props.SetPKa("gfn2", &v)
	mol.Props.SetPKa("r2SCAN-3c", nil)

	cp := mol.Copy()
	cp.SetCharge(1)
	cp.SetMulti(2)
	cp.Coords().Set(0, 0, 100)
	cp.Props.SetElectronic(-20, "r2SCAN-3c")
	assert.Equal(Te, 0, mol.Charge())
	assert.Equal(Te, -0.046, mol.Coords().At(0, 0))
	assert.Equal(Te, -8.0, mol.Props.Energy(Total))
	assert.Equal(Te, -18.0, cp.Props.Energy(Total))
	assert.Equal(Te, -20.0, cp.Props.Energy(Electronic))

	p, ok := cp.Props.PKa("gfn2")
	assert.True(Te, ok)
	assert.Equal(Te, 9.5, p)
	_, ok = cp.Props.PKa("r2SCAN-3c")
	assert.False(Te, ok)
	_, ok = cp.Props.PKa("never")
	assert.False(Te, ok)
	assert.Equal(Te, "undefined", cp.Props.PKas["r2SCAN-3c"].String())
}

func TestSetGeometry(Te *testing.T) {
	mol, err := XYZFileRead(writeTemp(Te, "methanol.xyz", methanol))
	require.NoError(Te, err)
	cp := mol.Copy()
	cp.Coords().Set(0, 0, 1.5)
	require.NoError(Te, mol.SetGeometry(cp.Coords(), nil))
	assert.True(Te, strings.HasPrefix(mol.Geometry()[0], "C "))
	assert.Contains(Te, mol.Geometry()[0], "1.50000000")
	other, err := XYZFileRead(writeTemp(Te, "w.xyz", "1\n\nO 0 0 0\n"))
	require.NoError(Te, err)
	assert.Error(Te, mol.SetGeometry(other.Coords(), nil))
}

func TestHeavyConnectivity(Te *testing.T) {
	mol, err := XYZFileRead(writeTemp(Te, "methanol.xyz", methanol))
	require.NoError(Te, err)
	bonds, err := Bonds(mol)
	require.NoError(Te, err)
	assert.Len(Te, bonds, 5)

	lines := strings.Split(methanol, "\n")
	methoxide := "5\n\n" + strings.Join(lines[2:7], "\n") + "\n"
	dep, err := XYZFileRead(writeTemp(Te, "methoxide.xyz", methoxide))
	require.NoError(Te, err)
	same, err := SameHeavyConnectivity(mol, dep)
	require.NoError(Te, err)
	assert.True(Te, same)

	broken := dep.Copy()
	broken.Coords().Set(1, 1, -3.5) //pull the O away from the C
	same, err = SameHeavyConnectivity(mol, broken)
	require.NoError(Te, err)
	assert.False(Te, same)

	water, err := XYZFileRead(writeTemp(Te, "water.xyz", "3\n\nO 0 0 0\nH 0 0 0.97\nH 0.94 0 -0.24\n"))
	require.NoError(Te, err)
	same, err = SameHeavyConnectivity(mol, water)
	require.NoError(Te, err)
	assert.False(Te, same)
}

func TestMixedCaseSymbols(Te *testing.T) {
	mol, err := XYZFileRead(writeTemp(Te, "mixed.xyz", "3\n\nc 0 0 0\nCL 1.77 0 0\nh -0.36 1.03 0\n"))
	require.NoError(Te, err)
	assert.Equal(Te, []string{"C", "Cl", "H"}, mol.Symbols())
	assert.InDelta(Te, 35.45, mol.Atom(1).Mass, 0.01)
	//the geometry lines are still verbatim
	assert.Equal(Te, "c 0 0 0", mol.Geometry()[0])
	assert.Equal(Te, "Cl", NormalSymbol(" cL "))
	assert.Equal(Te, "", NormalSymbol(""))

	//molecules built directly keep their symbols, and are still compared by element
	atoms := func(symbols ...string) []*Atom {
		ret := make([]*Atom, 0, len(symbols))
		for _, v := range symbols {
			ret = append(ret, &Atom{Symbol: v})
		}
		return ret
	}
	water, err := NewMolecule("water", atoms("O", "H", "H"), mat.NewDense(3, 3, []float64{0, 0, 0, 0, 0, 0.97, 0.94, 0, -0.24}), nil, 0, 1)
	require.NoError(Te, err)
	hydroxide, err := NewMolecule("water", atoms("o", "h"), mat.NewDense(2, 3, []float64{0, 0, 0, 0, 0, 0.97}), nil, -1, 1)
	require.NoError(Te, err)
	same, err := SameHeavyConnectivity(water, hydroxide)
	require.NoError(Te, err)
	assert.True(Te, same)
	bonds, err := Bonds(hydroxide)
	require.NoError(Te, err)
	assert.Len(Te, bonds, 1)
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestXYZWriteErrors(Te *testing.T) {
	mol, err := XYZFileRead(writeTemp(Te, "methanol.xyz", methanol))
	require.NoError(Te, err)
	assert.Error(Te, XYZWrite(failWriter{}, mol, "comment"))
	assert.Error(Te, XYZFileWrite(filepath.Join(Te.TempDir(), "nodir", "out.xyz"), mol))
}
