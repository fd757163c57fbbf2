/*
 * orca.go, part of oxpot.
 *
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package qm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	chem "github.com/rmera/oxpot"
)

// OrcaHandle runs the ORCA program. It implements Calculator.
// Note that the default methods and basis vary with each program, and even
// for a given program they are NOT considered part of the API, so they can always change.
type OrcaHandle struct {
	runner
	inputname string
	calc      Calc
}

// NewOrcaHandle initializes and returns an ORCA handle
// with values set to their defaults.
func NewOrcaHandle() *OrcaHandle {
	run := new(OrcaHandle)
	run.SetDefaults()
	return run
}

//OrcaHandle methods

// SetName sets the name for the calculations, which defines the input and output file names.
func (O *OrcaHandle) SetName(name string) {
	O.inputname = name
}

// SetCalc sets the level of theory and solvent for the calculations.
func (O *OrcaHandle) SetCalc(Q *Calc) {
	O.calc = *Q
	if O.calc.Method == "" {
		O.logger().Sugar().Warnf("no method assigned for ORCA calculation, will use the default %s", "r2SCAN-3c")
		O.calc.Method = "r2SCAN-3c"
	}
}

/*Sets defaults for ORCA calculation. Default is a single-point at
r2SCAN-3c, and half the available CPUs. The ORCA command is set
to $ORCA_PATH/orca, at least in unix.*/
func (O *OrcaHandle) SetDefaults() {
	O.calc = Calc{Method: "r2SCAN-3c"}
	O.command = os.ExpandEnv("${ORCA_PATH}/orca")
	if O.command == "/orca" { //if ORCA_PATH was not defined
		O.command = "orca"
	}
	O.nCPU = max(runtime.NumCPU()/2, 1)
}

// Level returns the level of theory of the handle, e.g. "r2SCAN-3c" or "PBE0/def2-TZVP".
func (O *OrcaHandle) Level() string {
	return O.calc.Level()
}

func (O *OrcaHandle) name(mol *chem.Molecule) string {
	if O.inputname != "" {
		return O.inputname
	}
	if mol.Name != "" {
		return mol.Name
	}
	return "oxpot"
}

// BuildInput writes an ORCA input for mol, following Q, to dir/name.inp.
func (O *OrcaHandle) BuildInput(dir, name string, mol *chem.Molecule, Q *Calc) error {
	if mol == nil || mol.Coords() == nil {
		return &Error{ErrMissingCharges, Orca, name, "", []string{"BuildInput"}, true}
	}
	ri := ""
	if Q.RI && Q.Basis != "" {
		ri = "RIJCOSX " + Q.Basis + "/J"
	}
	disp := ""
	if Q.Disperssion != "" {
		disp = orcaDisp[Q.Disperssion]
	}
	job := ""
	switch Q.Job {
	case Opti:
		job = "Opt"
	case OptFreq:
		job = "Opt Freq"
	case Freq:
		job = "Freq"
	}
	if job != "" && Q.OptTightness > 1 && Q.Job != Freq {
		job = "Tight" + job
	}
	hfuhf := ""
	if mol.Multi() != 1 {
		hfuhf = "UKS"
	}
	tight := "TightSCF"
	if Q.SCFTightness != 0 {
		tight = orcaSCFTight[Q.SCFTightness]
	}
	solv := ""
	if Q.Dielectric > 0 {
		s, ok := dielectric2CPCM[int(Q.Dielectric)]
		if !ok {
			return &Error{ErrCantInput, Orca, name, fmt.Sprintf("no CPCM solvent for dielectric %4.1f", Q.Dielectric), []string{"BuildInput"}, true}
		}
		solv = "CPCM(" + s + ")"
	}
	mainline := make([]string, 0, 10)
	for _, v := range []string{"!", hfuhf, Q.Method, Q.Basis, ri, disp, job, solv, tight, Q.Others} {
		if v != "" {
			mainline = append(mainline, v)
		}
	}
	var b strings.Builder
	b.WriteString(strings.Join(mainline, " ") + "\n")
	if O.nCPU > 1 {
		fmt.Fprintf(&b, "%%pal nprocs %d\n   end\n", O.nCPU)
	}
	if Q.Memory != 0 {
		fmt.Fprintf(&b, "%%MaxCore %d\n", Q.Memory)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "* xyz %d %d\n", mol.Charge(), mol.Multi())
	coords := mol.Coords()
	for i := 0; i < mol.Len(); i++ {
		fmt.Fprintf(&b, "%-2s  %12.8f %12.8f %12.8f\n", mol.Atom(i).Symbol, coords.At(i, 0), coords.At(i, 1), coords.At(i, 2))
	}
	b.WriteString("*\n")
	if err := os.WriteFile(filepath.Join(dir, name+".inp"), []byte(b.String()), 0o644); err != nil {
		return &Error{ErrCantInput, Orca, name, err.Error(), []string{"BuildInput"}, true}
	}
	return nil
}

// Run runs ORCA on the input name.inp in dir and waits for it to finish.
func (O *OrcaHandle) Run(ctx context.Context, dir, name string) error {
	if err := O.run(ctx, dir, name+".out", name+".inp"); err != nil {
		return &Error{ErrNotRunning, Orca, name, err.Error(), []string{"exec.Run", "Run"}, true}
	}
	return nil
}

func (O *OrcaHandle) calculate(ctx context.Context, mol *chem.Molecule, job JobType) (string, string, error) {
	name := O.name(mol)
	dir, err := O.workDir(Orca)
	if err != nil {
		return "", name, &Error{ErrCantInput, Orca, name, err.Error(), []string{"calculate"}, true}
	}
	Q := O.calc
	Q.Job = job
	if err = O.BuildInput(dir, name, mol, &Q); err != nil {
		return dir, name, errDecorate(err, "calculate")
	}
	if err = O.Run(ctx, dir, name); err != nil {
		return dir, name, errDecorate(err, "calculate")
	}
	if !O.orcaNormalTermination(dir, name) {
		return dir, name, &Error{ErrNotConverged, Orca, name, "", []string{"calculate"}, true}
	}
	return dir, name, nil
}

// Optimize optimizes mol and computes its frequencies in the same run.
// The geometry and both energies of mol are updated.
func (O *OrcaHandle) Optimize(ctx context.Context, mol *chem.Molecule) error {
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
	geo, err := O.OptimizedGeometry(dir, name)
	if err != nil {
		return errDecorate(err, "Optimize")
	}
	if geo.Len() != mol.Len() {
		return &Error{ErrNoGeometry, Orca, name, "atom number mismatch", []string{"Optimize"}, true}
	}
	if err = mol.SetGeometry(geo.Coords(), nil); err != nil {
		return &Error{ErrNoGeometry, Orca, name, err.Error(), []string{"Optimize"}, true}
	}
	mol.Props.SetElectronic(e, O.Level())
	mol.Props.SetVibronic(g, O.Level())
	return nil
}

// SinglePoint sets the electronic energy of mol.
func (O *OrcaHandle) SinglePoint(ctx context.Context, mol *chem.Molecule) error {
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

// Frequency returns the G-E(el) correction for mol at its current geometry.
func (O *OrcaHandle) Frequency(ctx context.Context, mol *chem.Molecule) (float64, error) {
	dir, name, err := O.calculate(ctx, mol, Freq)
	defer O.cleanup(dir)
	if err != nil {
		return 0, errDecorate(err, "Frequency")
	}
	g, err := O.FreeEnergyCorrection(dir, name)
	return g, errDecorate(err, "Frequency")
}

// OptimizedGeometry reads the latest geometry from an ORCA optimization in dir.
func (O *OrcaHandle) OptimizedGeometry(dir, name string) (*chem.Molecule, error) {
	mol, err := chem.XYZFileRead(filepath.Join(dir, name+".xyz"))
	if err != nil {
		return nil, &Error{ErrNoGeometry, Orca, name, err.Error(), []string{"OptimizedGeometry"}, true}
	}
	return mol, nil
}

// Energy gets the energy of a previous ORCA calculation in dir, in kcal/mol.
func (O *OrcaHandle) Energy(dir, name string) (float64, error) {
	//FINAL SINGLE POINT ENERGY       -76.329604539624
	return orcaEnergyLine(filepath.Join(dir, name+".out"), name, "FINAL SINGLE POINT ENERGY", 4, ErrNoEnergy)
}

// FreeEnergyCorrection gets the G-E(el) term of a previous ORCA frequency calculation in dir, in kcal/mol.
func (O *OrcaHandle) FreeEnergyCorrection(dir, name string) (float64, error) {
	//G-E(el)                           ...      0.00310553 Eh      1.95 kcal/mol
	return orcaEnergyLine(filepath.Join(dir, name+".out"), name, "G-E(el)", 2, ErrNoFreeEnergy)
}

func orcaEnergyLine(outname, name, key string, pos int, kind error) (float64, error) {
	line := searchBackwards(key, outname)
	if line == "" {
		return 0, &Error{kind, Orca, name, "", []string{"searchBackwards", "Energy"}, true}
	}
	s, err := field(line, pos)
	if err != nil {
		return 0, &Error{kind, Orca, name, err.Error(), []string{"Energy"}, true}
	}
	e, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &Error{kind, Orca, name, err.Error(), []string{"strconv.ParseFloat", "Energy"}, true}
	}
	return e * chem.H2Kcal, nil
}

// This checks that an ORCA calculation has terminated normally
func (O *OrcaHandle) orcaNormalTermination(dir, name string) bool {
	return searchBackwards("ORCA TERMINATED NORMALLY", filepath.Join(dir, name+".out")) != ""
}

var orcaSCFTight = map[int]string{
	0: "",
	1: "TightSCF",
	2: "VeryTightSCF",
}

var orcaDisp = map[string]string{
	"nodisp": "",
	"D2":     "D2",
	"D3BJ":   "D3BJ",
	"D3bj":   "D3BJ",
	"D3":     "D3ZERO",
	"D3ZERO": "D3ZERO",
	"D4":     "D4",
	"VV10":   "NL", //for these methods only the default integration grid is supported.
	"SCVV10": "SCNL",
	"NL":     "NL",
	"SCNL":   "SCNL",
}

var _ Calculator = (*OrcaHandle)(nil)
