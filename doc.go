/*
 * doc.go, part of oxpot.
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

/*
Package chem is the base package of oxpot. It provides the molecule structure that flows
through the whole pipeline: atoms, one set of coordinates, the verbatim xyz geometry lines,
charge, multiplicity and the energies and pKa values that the QM engines attach to it.

	**oxpot Capabilities**

	Reads/writes XYZ files, single and multi-frame (CREST ensembles). Geometry lines
	are kept verbatim, so a read-write cycle reproduces them exactly.

	Caches electronic and vibronic energies (kcal/mol), each with the level of theory
	used to obtain it, and pKa values keyed by level of theory.

	Assigns covalent bonds from interatomic distances and compares the heavy-atom
	connectivity of two structures, which is used to discard deprotonation products
	that changed topology.

The sub-packages build the rest of the pipeline: qm (external engines: xtb, CREST, ORCA),
thermo (pKa and redox potentials), ladder (the deprotomer ladder), redox (per-molecule
driver, potential curves, persistence), chemplot (titration plots) and batch (many
molecules at once).
*/
package chem
