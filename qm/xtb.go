/*
 * xtb.go, part of oxpot.
 *
 *
 * Copyright 2016 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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
//In order to use this part of the library you need the xtb program, which must be obtained from Prof. Stefan Grimme's group.
//Please cite the the xtb references if you used the program.

package qm

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	chem "github.com/rmera/oxpot"
)

var xtbMethods = []string{"gfn1", "gfn2", "gfn0", "gfnff"}

// XTBHandle represents an xtb calculator. It implements Calculator.
// Note that the default methods and basis vary with each program, and even
// for a given program they are NOT considered part of the API, so they can always change.
// An XTBHandle should not be used from more than one goroutine at a time.
type XTBHandle struct {
	runner
	inputname string
	calc      Calc
}

// NewXTBHandle initializes and returns an xtb handle
// with values set to their defaults.
func NewXTBHandle() *XTBHandle {
	run := new(XTBHandle)
	run.SetDefaults()
	return run
}

//XTBHandle methods

// SetName sets the name for the calculations,
// which defines the input and output file names. If not set,
// the name of each molecule is used.
func (O *XTBHandle) SetName(name string) {
	O.inputname = name
}

// SetCalc sets the method and solvent for the calculations.
// Unsupported methods are replaced by gfn2.
func (O *XTBHandle) SetCalc(Q *Calc) {
	O.calc = *Q
	if !isInString(xtbMethods, O.calc.Method) {
		O.logger().Sugar().Warnf("xtb method %q not available, will use gfn2", O.calc.Method)
		O.calc.Method = "gfn2"
	}
}

// SetDefaults sets calculations parameters to their defaults.
func (O *XTBHandle) SetDefaults() {
	O.command = "xtb"
	O.nCPU = max(runtime.NumCPU()/2, 1)
	O.calc = Calc{Method: "gfn2"}
}

// Level returns the xtb method used, e.g. "gfn2"
func (O *XTBHandle) Level() string {
	return O.calc.Method
}

func (O *XTBHandle) name(mol *chem.Molecule) string {
	if O.inputname != "" {
		return O.inputname
	}
	if mol.Name != "" {
		return mol.Name
	}
	return "oxpot"
}

// BuildInput writes the geometry for the calculation in dir, and returns the
// command line options for xtb.
func (O *XTBHandle) BuildInput(dir, name string, mol *chem.Molecule, Q *Calc) ([]string, error) {
	if mol == nil || mol.Coords() == nil {
		return nil, &Error{ErrMissingCharges, XTB, name, "", []string{"BuildInput"}, true}
	}
	err := chem.XYZFileWrite(filepath.Join(dir, name+".xyz"), mol)
	if err != nil {
		return nil, &Error{ErrCantInput, XTB, name, err.Error(), []string{"BuildInput"}, true}
	}
	options := make([]string, 0, 12)
	options = append(options, name+".xyz")
	options = append(options, "--chrg", strconv.Itoa(mol.Charge()))
	options = append(options, "--uhf", strconv.Itoa(mol.Multi()-1))
	if O.nCPU > 1 {
		options = append(options, "-P", strconv.Itoa(O.nCPU))
	}
	if Q.Method == "gfnff" {
		options = append(options, "--gfnff")
	} else {
		m := strings.ReplaceAll(Q.Method, "gfn", "") //so m should be "0", "1" or "2"
		options = append(options, "--gfn", m)
	}
	if Q.Dielectric > 0 && Q.Method != "gfn0" { //as of the current version, gfn0 doesn't support implicit solvation
		solvent, ok := dielectric2Solvent[int(Q.Dielectric)]
		if ok {
			options = append(options, "--alpb", solvent)
		} else {
			O.logger().Sugar().Warnf("no xtb solvent for dielectric %4.1f, will run in gas phase", Q.Dielectric)
		}
	}
	level := "normal"
	switch {
	case Q.OptTightness == 2:
		level = "tight"
	case Q.OptTightness > 2:
		level = "vtight"
	}
	switch Q.Job {
	case Opti:
		options = append(options, "--opt", level)
	case OptFreq:
		options = append(options, "--ohess", level)
	case Freq:
		options = append(options, "--hess")
	}
	return options, nil
}

// calculate runs an xtb calculation of the given type on mol, in a new directory, which is returned.
// The caller must clean the directory up.
func (O *XTBHandle) calculate(ctx context.Context, mol *chem.Molecule, job JobType) (string, string, error) {
	name := O.name(mol)
	dir, err := O.workDir(XTB)
	if err != nil {
		return "", name, &Error{ErrCantInput, XTB, name, err.Error(), []string{"calculate"}, true}
	}
	Q := O.calc
	Q.Job = job
	options, err := O.BuildInput(dir, name, mol, &Q)
	if err != nil {
		return dir, name, errDecorate(err, "calculate")
	}
	if err = O.Run(ctx, dir, name, options); err != nil {
		return dir, name, errDecorate(err, "calculate")
	}
	if !O.normalTermination(dir, name) {
		return dir, name, &Error{ErrNotConverged, XTB, name, "", []string{"calculate"}, true}
	}
	return dir, name, nil
}

// Run runs xtb with the given options in dir, and waits for it to finish.
func (O *XTBHandle) Run(ctx context.Context, dir, name string, options []string) error {
	if err := O.run(ctx, dir, name+".out", options...); err != nil {
		return &Error{ErrNotRunning, XTB, name, err.Error(), []string{"exec.Run", "Run"}, true}
	}
	return nil
}

// Optimize optimizes mol and obtains its vibronic correction in the same run.
// The geometry and both energies of mol are updated.
func (O *XTBHandle) Optimize(ctx context.Context, mol *chem.Molecule) error {
	dir, name, err := O.calculate(ctx, mol, OptFreq)
	defer O.cleanup(dir)
	if err != nil {
		return errDecorate(err, "Optimize")
	}
	e, err := O.Energy(dir, name)
	if err != nil {
		return errDecorate(err, "Optimize")
	}
	g, err := O.FreeEnergyCorrection(dir, name)
	if err != nil {
		return errDecorate(err, "Optimize")
	}
	geo, err := O.OptimizedGeometry(dir, name, mol)
	if err != nil {
		return errDecorate(err, "Optimize")
	}
	if err = mol.SetGeometry(geo.Coords(), geo.Geometry()); err != nil {
		return &Error{ErrNoGeometry, XTB, name, err.Error(), []string{"Optimize"}, true}
	}
	mol.Props.SetElectronic(e, O.Level())
	mol.Props.SetVibronic(g, O.Level())
	return nil
}

// SinglePoint sets the electronic energy of mol.
func (O *XTBHandle) SinglePoint(ctx context.Context, mol *chem.Molecule) error {
	dir, name, err := O.calculate(ctx, mol, SP)
	defer O.cleanup(dir)
	if err != nil {
		return errDecorate(err, "SinglePoint")
	}
	e, err := O.Energy(dir, name)
	if err != nil {
		return errDecorate(err, "SinglePoint")
	}
	mol.Props.SetElectronic(e, O.Level())
	return nil
}

// Frequency returns the vibronic correction, G(RRHO), for mol at its current geometry.
func (O *XTBHandle) Frequency(ctx context.Context, mol *chem.Molecule) (float64, error) {
	dir, name, err := O.calculate(ctx, mol, Freq)
	defer O.cleanup(dir)
	if err != nil {
		return 0, errDecorate(err, "Frequency")
	}
	g, err := O.FreeEnergyCorrection(dir, name)
	return g, errDecorate(err, "Frequency")
}

// OptimizedGeometry reads the latest geometry from an XTB optimization in dir. The
// atoms must be the same, and in the same order, as those in ref.
func (O *XTBHandle) OptimizedGeometry(dir, name string, ref chem.Atomer) (*chem.Molecule, error) {
	mol, err := chem.XYZFileRead(filepath.Join(dir, "xtbopt.xyz"))
	if err != nil {
		return nil, &Error{ErrNoGeometry, XTB, name, err.Error(), []string{"OptimizedGeometry"}, true}
	}
	if mol.Len() != ref.Len() {
		return nil, &Error{ErrNoGeometry, XTB, name, fmt.Sprintf("%d atoms in optimized geometry, %d expected", mol.Len(), ref.Len()), []string{"OptimizedGeometry"}, true}
	}
	for i := 0; i < mol.Len(); i++ {
		if !strings.EqualFold(mol.Atom(i).Symbol, ref.Atom(i).Symbol) {
			return nil, &Error{ErrNoGeometry, XTB, name, fmt.Sprintf("atom %d is %s, expected %s", i, mol.Atom(i).Symbol, ref.Atom(i).Symbol), []string{"OptimizedGeometry"}, true}
		}
	}
	return mol, nil
}

// This checks that an xtb calculation has terminated normally
func (O *XTBHandle) normalTermination(dir, name string) bool {
	out := filepath.Join(dir, name+".out")
	return searchBackwards("abnormal termination of xtb", out) == "" && searchBackwards("normal termination of xtb", out) != ""
}

// Energy gets the total energy of a previous xtb calculation in dir, in kcal/mol.
func (O *XTBHandle) Energy(dir, name string) (float64, error) {
	return xtbEnergyLine(filepath.Join(dir, name+".out"), name, "TOTAL ENERGY", ErrNoEnergy)
}

// FreeEnergyCorrection gets the G(RRHO) contribution of a previous xtb frequency calculation
// in dir, in kcal/mol.
func (O *XTBHandle) FreeEnergyCorrection(dir, name string) (float64, error) {
	return xtbEnergyLine(filepath.Join(dir, name+".out"), name, "G(RRHO) contrib.", ErrNoFreeEnergy)
}

// xtbEnergyLine parses lines like
//
//	| TOTAL ENERGY              -5.070544440612 Eh   |
//	:: G(RRHO) contrib.          0.002380598393 Eh   ::
//
// where the value is always the fourth field, in Hartree.
func xtbEnergyLine(outname, name, key string, kind error) (float64, error) {
	energyline := searchBackwards(key, outname)
	if energyline == "" {
		return 0, &Error{kind, XTB, name, "", []string{"searchBackwards", "Energy"}, true}
	}
	s, err := field(energyline, 3)
	if err != nil {
		return 0, &Error{kind, XTB, name, err.Error(), []string{"Energy"}, true}
	}
	energy, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &Error{kind, XTB, name, err.Error(), []string{"strconv.ParseFloat", "Energy"}, true}
	}
	return energy * chem.H2Kcal, nil
}

var _ Calculator = (*XTBHandle)(nil)
