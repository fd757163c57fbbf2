/*
 * doc.go, part of oxpot.
 *
 * Copyright 2021 Raul Mera <rmeraatusachdotcl>
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
 * */

//Package qm implements communication with the QM programs
//used to build deprotomer ladders: xtb and ORCA for energies
//and geometries, and CREST for conformers, tautomers and deprotonated
//structures. The calculation settings are kept as separated
//as possible from the choice of QM program to perform that
//calculation, through the Calculator and Sampler interfaces.
//
//Each calculation runs in its own scratch directory, so a handle can be
//used for many calculations in a row, and several handles can run at the
//same time. A single handle must not be shared among goroutines.

package qm
