/*
 * reorder.go, part of oxpot.
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
	"fmt"
	"sort"

	chem "github.com/rmera/oxpot"
	"github.com/rmera/oxpot/qm"
)

// Reorder optimizes each candidate with opt, then makes sure its electronic energy
// is at the level of el and its vibronic energy at the level of vib, computing them only
// if the cached ones are at a different level. The candidates are then sorted by
// total energy, lowest first. Candidates with the same energy keep their
// relative order.
// The candidates are modified in place, and the same slice is returned, reordered.
func Reorder(ctx context.Context, candidates []*chem.Molecule, opt, el, vib qm.Calculator) ([]*chem.Molecule, error) {
	errid := "ladder/Reorder"
	for i, v := range candidates {
		if err := opt.Optimize(ctx, v); err != nil {
			return nil, fmt.Errorf("%s: optimizing candidate %d of %s: %w", errid, i, v.Name, err)
		}
		if v.Props.ElectronicLevel != el.Level() {
			if err := el.SinglePoint(ctx, v); err != nil {
				return nil, fmt.Errorf("%s: electronic energy for candidate %d of %s: %w", errid, i, v.Name, err)
			}
		}
		if v.Props.VibronicLevel != vib.Level() {
			g, err := vib.Frequency(ctx, v)
			if err != nil {
				return nil, fmt.Errorf("%s: vibronic energy for candidate %d of %s: %w", errid, i, v.Name, err)
			}
			v.Props.SetVibronic(g, vib.Level())
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Props.Energy(chem.Total) < candidates[j].Props.Energy(chem.Total)
	})
	return candidates, nil
}
