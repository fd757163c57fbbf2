/*
 * properties.go, part of oxpot.
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

import "fmt"

// EnergyKind selects one of the energies cached in a Properties block.
type EnergyKind int

const (
	Total EnergyKind = iota
	Electronic
	Vibronic
)

func (E EnergyKind) String() string {
	switch E {
	case Total:
		return "total"
	case Electronic:
		return "electronic"
	case Vibronic:
		return "vibronic"
	}
	return fmt.Sprintf("EnergyKind(%d)", int(E))
}

// PKa is a pKa value that may be undefined, i.e. the calculation
// was attempted and failed.
type PKa struct {
	Value   float64
	Defined bool
}

func (P PKa) String() string {
	if !P.Defined {
		return "undefined"
	}
	return fmt.Sprintf("%5.2f", P.Value)
}

// Properties contains the energies computed for a molecule, in kcal/mol, together with the
// level of theory at which each was obtained, and the pKa values obtained so far,
// keyed by level of theory.
// An empty level means the energy has not been computed.
type Properties struct {
	Electronic      float64
	ElectronicLevel string
	Vibronic        float64
	VibronicLevel   string
	PKas            map[string]PKa
}

// NewProperties returns an empty Properties block.
func NewProperties() *Properties {
	return &Properties{PKas: make(map[string]PKa)}
}

// SetElectronic sets the electronic energy, obtained at the level of theory level.
func (P *Properties) SetElectronic(e float64, level string) {
	P.Electronic = e
	P.ElectronicLevel = level
}

// SetVibronic sets the vibronic (thermal) correction, obtained at the level of theory level.
func (P *Properties) SetVibronic(e float64, level string) {
	P.Vibronic = e
	P.VibronicLevel = level
}

// Energy returns the energy of the given kind. Total is electronic plus vibronic.
func (P *Properties) Energy(kind EnergyKind) float64 {
	switch kind {
	case Electronic:
		return P.Electronic
	case Vibronic:
		return P.Vibronic
	default:
		return P.Electronic + P.Vibronic
	}
}

// SetPKa caches a pKa for the given level of theory. A nil value marks it as undefined.
func (P *Properties) SetPKa(level string, value *float64) {
	if P.PKas == nil {
		P.PKas = make(map[string]PKa)
	}
	if value == nil {
		P.PKas[level] = PKa{}
		return
	}
	P.PKas[level] = PKa{Value: *value, Defined: true}
}

// PKa returns the pKa cached for the given level of theory. The second value
// is false if the pKa was never computed, or if it is undefined.
func (P *Properties) PKa(level string) (float64, bool) {
	p, ok := P.PKas[level]
	if !ok || !p.Defined {
		return 0, false
	}
	return p.Value, true
}

// Copy returns a deep copy of the properties. A nil receiver yields empty properties.
func (P *Properties) Copy() *Properties {
	N := NewProperties()
	if P == nil {
		return N
	}
	N.Electronic = P.Electronic
	N.ElectronicLevel = P.ElectronicLevel
	N.Vibronic = P.Vibronic
	N.VibronicLevel = P.VibronicLevel
	for k, v := range P.PKas {
		N.PKas[k] = v
	}
	return N
}
