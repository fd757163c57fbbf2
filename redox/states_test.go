/*
 * states_test.go, part of oxpot.
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

package redox

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	chem "github.com/rmera/oxpot"
	"github.com/rmera/oxpot/ladder"
	"github.com/rmera/oxpot/qm/qmtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const methanol = `6
methanol
C     -0.046   0.663   0.000
O     -0.046  -0.755   0.000
H     -1.086   0.975   0.000
H      0.437   1.080   0.884
H      0.437   1.080  -0.884
H      0.870  -1.057   0.000
`

func methanolFile(Te *testing.T) string {
	Te.Helper()
	p := filepath.Join(Te.TempDir(), "methanol.xyz")
	require.NoError(Te, os.WriteFile(p, []byte(methanol), 0o644))
	return p
}

// every deprotonation has a pKa close to 10, and the radicals are 95 kcal/mol above the singlets.
func toyEnergy(mol *chem.Molecule) float64 {
	return -284*float64(qmtest.Hydrogens(mol)) + 95*float64(mol.Multi()-1)
}

func engines(keepH int) (*qmtest.Calculator, *qmtest.Sampler) {
	return &qmtest.Calculator{Name: "gfn2", Electronic: toyEnergy}, &qmtest.Sampler{KeepH: keepH}
}

func TestStates(Te *testing.T) {
	ref, s := engines(2)
	c, err := States(context.Background(), methanolFile(Te), Options{
		Ladder:         ladder.Options{Reference: ref, Sampler: s, ConformerSearch: true},
		TautomerSearch: true,
	})
	require.NoError(Te, err)
	assert.Equal(Te, "methanol", c.Name)
	assert.Equal(Te, "gfn2", c.Level)
	assert.Equal(Te, "gfn2", c.VibLevel)
	require.Len(Te, c.Singlets, 3)
	require.Len(Te, c.Radicals, 3)
	assert.Equal(Te, 0, c.Singlets[0].Mol.Charge())
	assert.Equal(Te, 1, c.Singlets[0].Mol.Multi())
	assert.Equal(Te, 1, c.Radicals[0].Mol.Charge())
	assert.Equal(Te, 2, c.Radicals[0].Mol.Multi())
	assert.Equal(Te, ladder.NoDeprotomer, c.Singlets[2].Status)
	assert.Equal(Te, ladder.NoDeprotomer, c.Radicals[2].Status)
	//one conformer search for the input, and one per structure in each ladder
	confs, tauts, _ := s.Calls()
	assert.Equal(Te, 1+3+3, confs)
	assert.Equal(Te, 1, tauts)
	_, sp, _ := ref.Calls()
	assert.Equal(Te, 2, sp)

	assert.InDelta(Te, 10.05, c.Singlets[0].PKa, 0.01)
	assert.Equal(Te, c.Singlets[0].PKa, c.Radicals[1].PKa)
	p, ok := c.Singlets[0].Mol.Props.PKa("gfn2")
	assert.True(Te, ok)
	assert.Equal(Te, c.Singlets[0].PKa, p)

	samples, err := FromContainer(c, 1, nil, nil)
	require.NoError(Te, err)
	require.Len(Te, samples, 14)
	for _, s := range samples {
		assert.InDelta(Te, 95/23.0605-4.28, s.Potential, 1e-9, "pH %v", s.PH)
	}
	assert.False(Te, samples[13].SingletPKa.Defined)
	assert.True(Te, samples[0].SingletPKa.Defined)
}

func TestStatesErrors(Te *testing.T) {
	_, err := States(context.Background(), filepath.Join(Te.TempDir(), "nothere.xyz"), Options{})
	var merr *MoleculeError
	require.True(Te, errors.As(err, &merr))
	assert.Equal(Te, "nothere", merr.Name)

	ref, s := engines(0)
	_, err = States(context.Background(), methanolFile(Te), Options{Ladder: ladder.Options{Sampler: s}})
	assert.True(Te, errors.Is(err, ladder.ErrNoEngine))

	boom := errors.New("boom")
	ref.Fail = func(op string, mol *chem.Molecule) error {
		if mol.Charge() == 1 {
			return boom
		}
		return nil
	}
	_, err = States(context.Background(), methanolFile(Te), Options{Ladder: ladder.Options{Reference: ref, Sampler: s}})
	require.True(Te, errors.As(err, &merr))
	assert.Equal(Te, "methanol", merr.Name)
	assert.True(Te, errors.Is(err, boom))
	assert.Contains(Te, err.Error(), "radical")

	s.Fail = func(op string, _ *chem.Molecule) error {
		if op == "Tautomers" {
			return boom
		}
		return nil
	}
	_, err = States(context.Background(), methanolFile(Te), Options{Ladder: ladder.Options{Reference: ref, Sampler: s}, TautomerSearch: true})
	assert.True(Te, errors.Is(err, boom))
	assert.Contains(Te, err.Error(), "tautomer")
}

func TestContainerStore(Te *testing.T) {
	ref, s := engines(3)
	c, err := States(context.Background(), methanolFile(Te), Options{Ladder: ladder.Options{Reference: ref, Sampler: s}})
	require.NoError(Te, err)
	dir := filepath.Join(Te.TempDir(), "pickle_files")
	path, err := SaveContainer(dir, c)
	require.NoError(Te, err)
	assert.Equal(Te, filepath.Join(dir, "methanol.ctr"), path)

	d, err := LoadContainer(path)
	require.NoError(Te, err)
	assert.Equal(Te, c.Name, d.Name)
	assert.Equal(Te, c.Level, d.Level)
	assert.Equal(Te, c.VibLevel, d.VibLevel)
	require.Len(Te, d.Singlets, len(c.Singlets))
	require.Len(Te, d.Radicals, len(c.Radicals))
	for i, v := range c.Singlets {
		w := d.Singlets[i]
		assert.Equal(Te, v.Status, w.Status)
		assert.Equal(Te, v.PKa, w.PKa)
		assert.Equal(Te, v.Reason, w.Reason)
		assert.Equal(Te, v.Mol.Charge(), w.Mol.Charge())
		assert.Equal(Te, v.Mol.Multi(), w.Mol.Multi())
		assert.Equal(Te, v.Mol.Geometry(), w.Mol.Geometry())
		assert.Equal(Te, v.Mol.Symbols(), w.Mol.Symbols())
		assert.Equal(Te, v.Mol.Props, w.Mol.Props)
		assert.True(Te, sameCoords(v.Mol, w.Mol))
	}
	want, err := FromContainer(c, 0.5, nil, nil)
	require.NoError(Te, err)
	got, err := FromContainer(d, 0.5, nil, nil)
	require.NoError(Te, err)
	assert.Equal(Te, want, got)

	_, err = LoadContainer(filepath.Join(dir, "other.ctr"))
	assert.Error(Te, err)
	bad := filepath.Join(dir, "bad.ctr")
	require.NoError(Te, os.WriteFile(bad, []byte("not a container"), 0o644))
	_, err = LoadContainer(bad)
	assert.Error(Te, err)
}

func sameCoords(a, b *chem.Molecule) bool {
	for i := 0; i < a.Len(); i++ {
		for j := 0; j < 3; j++ {
			if a.Coords().At(i, j) != b.Coords().At(i, j) {
				return false
			}
		}
	}
	return true
}
