/*
 * ladder_test.go, part of oxpot.
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

package ladder

import (
	"context"
	"errors"
	"testing"

	chem "github.com/rmera/oxpot"
	"github.com/rmera/oxpot/qm/qmtest"
	"github.com/rmera/oxpot/thermo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed() *chem.Molecule {
	return qmtest.Molecule("toy", []string{"C", "O"}, 4, 0, 1)
}

// pkaByStep returns a PKaFunc that gives values[i] for the i-th deprotonation
// of a neutral seed.
func pkaByStep(values ...float64) PKaFunc {
	return func(prot, deprot *chem.Molecule, el, vib string) (float64, error) {
		return values[-prot.Charge()], nil
	}
}

func TestEmptyDeprotonation(Te *testing.T) {
	ref := &qmtest.Calculator{Name: "gfn2"}
	s := &qmtest.Sampler{KeepH: 4}
	mol := seed()
	recs, err := Deprotomers(context.Background(), mol, Options{Reference: ref, Sampler: s})
	require.NoError(Te, err)
	require.Len(Te, recs, 1)
	assert.Equal(Te, NoDeprotomer, recs[0].Status)
	assert.Same(Te, mol, recs[0].Mol)
	assert.False(Te, recs[0].Defined())
	assert.NotEmpty(Te, recs[0].Reason)
	opt, _, _ := ref.Calls()
	assert.Equal(Te, 1, opt)
	_, _, dep := s.Calls()
	assert.Equal(Te, 1, dep)
}

func TestPKaAlwaysFails(Te *testing.T) {
	ref := &qmtest.Calculator{Name: "gfn2"}
	s := &qmtest.Sampler{}
	boom := errors.New("singular")
	mol := seed()
	recs, err := Deprotomers(context.Background(), mol, Options{
		Reference: ref,
		Sampler:   s,
		PKa:       func(_, _ *chem.Molecule, _, _ string) (float64, error) { return 0, boom },
	})
	require.NoError(Te, err)
	require.Len(Te, recs, 1)
	assert.Equal(Te, Unscored, recs[0].Status)
	assert.Same(Te, mol, recs[0].Mol)
	assert.Contains(Te, recs[0].Reason, "singular")
	_, ok := mol.Props.PKa("gfn2")
	assert.False(Te, ok)
	p, cached := mol.Props.PKas["gfn2"]
	assert.True(Te, cached)
	assert.False(Te, p.Defined)
	_, _, dep := s.Calls()
	assert.Equal(Te, 1, dep)
}

func TestCeiling(Te *testing.T) {
	ref := &qmtest.Calculator{Name: "gfn2"}
	s := &qmtest.Sampler{}
	recs, err := Deprotomers(context.Background(), seed(), Options{Reference: ref, Sampler: s, PKa: pkaByStep(8, 15, 25, 30)})
	require.NoError(Te, err)
	//15 is above 14 but below the ceiling, so the ladder goes on
	require.Len(Te, recs, 3)
	for i, want := range []float64{8, 15, 25} {
		assert.Equal(Te, Scored, recs[i].Status)
		assert.Equal(Te, want, recs[i].PKa)
		assert.Equal(Te, -i, recs[i].Mol.Charge())
		p, ok := recs[i].Mol.Props.PKa("gfn2")
		assert.True(Te, ok)
		assert.Equal(Te, want, p)
	}
	recs, err = Deprotomers(context.Background(), seed(), Options{Reference: ref, Sampler: s, PKa: pkaByStep(8, 15, 25, 30), Ceiling: 14})
	require.NoError(Te, err)
	assert.Len(Te, recs, 2)
}

func TestSentinelLast(Te *testing.T) {
	ref := &qmtest.Calculator{Name: "gfn2"}
	s := &qmtest.Sampler{KeepH: 2}
	recs, err := Deprotomers(context.Background(), seed(), Options{Reference: ref, Sampler: s, PKa: pkaByStep(3, 9, 12, 16)})
	require.NoError(Te, err)
	require.Len(Te, recs, 3)
	assert.Equal(Te, Scored, recs[0].Status)
	assert.Equal(Te, Scored, recs[1].Status)
	assert.Equal(Te, NoDeprotomer, recs[2].Status)
	assert.Equal(Te, -2, recs[2].Mol.Charge())
	assert.Equal(Te, 2, qmtest.Hydrogens(recs[2].Mol))
}

func TestDefaultPKa(Te *testing.T) {
	//with the real pKa function and energies that don't depend on
	//the charge, the first pKa is far below the ceiling and the following
	//ones too, so the ladder goes on until the sampler gives up.
	ref := &qmtest.Calculator{Name: "gfn2", Electronic: func(mol *chem.Molecule) float64 { return -100 * float64(mol.Len()) }}
	s := &qmtest.Sampler{KeepH: 1}
	recs, err := Deprotomers(context.Background(), seed(), Options{Reference: ref, Sampler: s})
	require.NoError(Te, err)
	require.Len(Te, recs, 4)
	want, err := thermo.PKa(recs[0].Mol, recs[1].Mol, "gfn2", "gfn2")
	require.NoError(Te, err)
	assert.InDelta(Te, want, recs[0].PKa, 1e-9)
	assert.Equal(Te, NoDeprotomer, recs[3].Status)
}

func TestAccurateLevel(Te *testing.T) {
	ref := &qmtest.Calculator{Name: "gfn2", Vibronic: func(*chem.Molecule) float64 { return 1 }}
	//the candidate with the larger x coordinate is the more stable one
	acc := &qmtest.Calculator{Name: "r2SCAN-3c", Electronic: func(mol *chem.Molecule) float64 { return -mol.Coords().At(0, 0) }}
	s := &qmtest.Sampler{KeepH: 3, Candidates: 3}
	var levels [2]string
	recs, err := Deprotomers(context.Background(), seed(), Options{
		Reference: ref,
		Accurate:  acc,
		Sampler:   s,
		PKa: func(prot, deprot *chem.Molecule, el, vib string) (float64, error) {
			levels = [2]string{el, vib}
			return 5, nil
		},
	})
	require.NoError(Te, err)
	require.Len(Te, recs, 2)
	assert.Equal(Te, [2]string{"r2SCAN-3c", "gfn2"}, levels)
	assert.Equal(Te, 2.0, recs[1].Mol.Coords().At(0, 0))
	assert.Equal(Te, "r2SCAN-3c", recs[1].Mol.Props.ElectronicLevel)
	assert.Equal(Te, "gfn2", recs[1].Mol.Props.VibronicLevel)
	_, ok := recs[0].Mol.Props.PKa("r2SCAN-3c")
	assert.True(Te, ok)

	//an accurate calculator at the reference level is not used
	same := &qmtest.Calculator{Name: "gfn2"}
	_, err = Deprotomers(context.Background(), seed(), Options{Reference: ref, Accurate: same, Sampler: &qmtest.Sampler{KeepH: 3}, PKa: pkaByStep(5, 5)})
	require.NoError(Te, err)
	_, sp, _ := same.Calls()
	assert.Equal(Te, 0, sp)
}

func TestConformerSearch(Te *testing.T) {
	ref := &qmtest.Calculator{Name: "gfn2"}
	s := &qmtest.Sampler{KeepH: 2}
	mol := seed()
	recs, err := Deprotomers(context.Background(), mol, Options{Reference: ref, Sampler: s, ConformerSearch: true, PKa: pkaByStep(4, 6)})
	require.NoError(Te, err)
	require.Len(Te, recs, 3)
	assert.NotSame(Te, mol, recs[0].Mol) //the lowest conformer replaced the seed
	confs, _, _ := s.Calls()
	assert.Equal(Te, 3, confs)
}

func TestEngineErrors(Te *testing.T) {
	boom := errors.New("boom")
	ref := &qmtest.Calculator{Name: "gfn2", Fail: func(op string, mol *chem.Molecule) error {
		if mol.Charge() == -1 {
			return boom
		}
		return nil
	}}
	recs, err := Deprotomers(context.Background(), seed(), Options{Reference: ref, Sampler: &qmtest.Sampler{}, PKa: pkaByStep(4, 6)})
	assert.True(Te, errors.Is(err, boom))
	assert.Empty(Te, recs)

	s := &qmtest.Sampler{Fail: func(op string, mol *chem.Molecule) error {
		if op == "Deprotonate" && mol.Charge() == -1 {
			return boom
		}
		return nil
	}}
	recs, err = Deprotomers(context.Background(), seed(), Options{Reference: &qmtest.Calculator{}, Sampler: s, PKa: pkaByStep(4, 6)})
	assert.True(Te, errors.Is(err, boom))
	assert.Len(Te, recs, 1)

	_, err = Deprotomers(context.Background(), seed(), Options{Sampler: s})
	assert.True(Te, errors.Is(err, ErrNoEngine))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Deprotomers(ctx, seed(), Options{Reference: &qmtest.Calculator{}, Sampler: &qmtest.Sampler{}})
	assert.True(Te, errors.Is(err, context.Canceled))
}
