/*
 * potentials.go, part of oxpot.
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
	"errors"
	"fmt"
	"math"

	chem "github.com/rmera/oxpot"
	"github.com/rmera/oxpot/ladder"
	"github.com/rmera/oxpot/thermo"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// MaxPH is the upper, excluded, limit of the pH range sampled.
const MaxPH = 14.0

// MinStep is the smallest pH step accepted.
const MinStep = 0.01

// DefaultJump is the change in potential between consecutive samples above which a warning is issued.
const DefaultJump = 0.1

var (
	ErrEmptyLadder = errors.New("redox: empty ladder")
	ErrBadStep     = errors.New("redox: pH step must be finite and not smaller than 0.01")
)

// Sample is the potential at a given pH, together with the pKa values of the
// singlet and radical species used to obtain it.
type Sample struct {
	SingletPKa chem.PKa
	RadicalPKa chem.PKa
	PH         float64
	Potential  float64 //V vs. SHE
}

// PotentialFunc gives the reduction potential from ox to red at the given pH.
type PotentialFunc func(ox, red *chem.Molecule, pH float64, el, vib string) (float64, error)

// PHGrid returns the pH values from 0 up to, but excluding, MaxPH, with the given step,
// each rounded to one decimal. There are always ceil(MaxPH/step) values.
// Steps smaller than MinStep, or not finite, give ErrBadStep.
func PHGrid(step float64) ([]float64, error) {
	if !(step >= MinStep) || math.IsInf(step, 0) {
		return nil, fmt.Errorf("%w: %v", ErrBadStep, step)
	}
	n := int(math.Ceil(MaxPH/step - 1e-9))
	grid := make([]float64, n)
	if n > 1 {
		floats.Span(grid, 0, float64(n-1)*step)
	}
	for i, v := range grid {
		grid[i] = math.Round(v*10) / 10
	}
	return grid, nil
}

// predominant returns the first record of the ladder whose pKa is undefined or larger than
// pH, that is, the most deprotonated species that is still predominant at that pH. If all
// the pKas are smaller than pH, the last record is returned and the second value is false.
func predominant(recs []ladder.Deprotomer, pH float64) (ladder.Deprotomer, bool) {
	for _, v := range recs {
		if !v.Defined() || v.PKa > pH {
			return v, true
		}
	}
	return recs[len(recs)-1], false
}

func recordPKa(r ladder.Deprotomer) chem.PKa {
	if !r.Defined() {
		return chem.PKa{}
	}
	return chem.PKa{Value: r.PKa, Defined: true}
}

// Potentials samples the oxidation potential between pH 0 and MaxPH, with the given step.
// At each pH, the predominant species of the singlet and radical ladders are used.
// If potential is nil, thermo.Potential is used. A nil logger disables logging.
func Potentials(singlets, radicals []ladder.Deprotomer, el, vib string, step float64, potential PotentialFunc, log *zap.Logger) ([]Sample, error) {
	errid := "redox/Potentials"
	if len(singlets) == 0 || len(radicals) == 0 {
		return nil, fmt.Errorf("%s: %w", errid, ErrEmptyLadder)
	}
	if potential == nil {
		potential = thermo.Potential
	}
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("molecule", singlets[0].Mol.Name))
	grid, err := PHGrid(step)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	samples := make([]Sample, 0, len(grid))
	for _, pH := range grid {
		s, ok := predominant(singlets, pH)
		if !ok {
			log.Debug("all singlet pKas below pH, using the last deprotomer", zap.Float64("pH", pH))
		}
		r, ok := predominant(radicals, pH)
		if !ok {
			log.Debug("all radical pKas below pH, using the last deprotomer", zap.Float64("pH", pH))
		}
		e, err := potential(r.Mol, s.Mol, pH, el, vib)
		if err != nil {
			return nil, fmt.Errorf("%s: pH %.1f: %w", errid, pH, err)
		}
		samples = append(samples, Sample{SingletPKa: recordPKa(s), RadicalPKa: recordPKa(r), PH: pH, Potential: e})
	}
	for _, j := range JumpWarnings(samples, DefaultJump) {
		log.Warn("potential jump", zap.Float64("pH", j.PH), zap.Float64("change", j.Delta))
	}
	return samples, nil
}

// FromContainer samples the potentials for the ladders in c, at the levels of theory stored in it.
func FromContainer(c *Container, step float64, potential PotentialFunc, log *zap.Logger) ([]Sample, error) {
	return Potentials(c.Singlets, c.Radicals, c.Level, c.VibLevel, step, potential, log)
}

// Jump is a change in the potential larger than a threshold, between
// the sample at PH and the previous one.
type Jump struct {
	PH    float64
	Delta float64
}

// JumpWarnings returns the places where the potential changes by more than threshold
// from one sample to the next.
func JumpWarnings(samples []Sample, threshold float64) []Jump {
	var ret []Jump
	for i := 1; i < len(samples); i++ {
		d := samples[i].Potential - samples[i-1].Potential
		if math.Abs(d) > threshold {
			ret = append(ret, Jump{PH: samples[i].PH, Delta: d})
		}
	}
	return ret
}
