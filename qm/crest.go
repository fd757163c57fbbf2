/*
 * crest.go, part of oxpot.
 *
 *
 * Copyright 2024 Raul Mera <rmeraa{at}academicosdotutadotcl
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
 *
 */
//In order to use this part of the library you need the CREST and xtb programs, which must be obtained from Prof. Stefan Grimme's group.
//Please cite the the CREST and xtb references if you used the programs.

package qm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	chem "github.com/rmera/oxpot"
	"go.uber.org/zap"
)

// Run types for CREST
const (
	crestSearch      = ""
	crestDeprotonate = "deprotonate"
	crestTautomerize = "tautomerize"
)

// Files where CREST leaves the structures for each run type
var crestOutputs = map[string]string{
	crestSearch:      "crest_conformers.xyz",
	crestDeprotonate: "deprotonated.xyz",
	crestTautomerize: "tautomers.xyz",
}

// CrestHandle runs the CREST program. It implements Sampler.
// A CrestHandle should not be used from more than one goroutine at a time.
type CrestHandle struct {
	runner
	inputname string
	calc      Calc
	NoRefTopo bool    //allow topology changes during the search (--noreftopo)
	EThres    float64 //energy window in kcal/mol, 0 for the CREST default
	RMSDThres float64
}

// NewCrestHandle initializes and returns a CREST handle
// with values set to their defaults. Defaults might change
// as new methods appear, so they are not part of the API.
func NewCrestHandle() *CrestHandle {
	run := new(CrestHandle)
	run.SetDefaults()
	return run
}

//CrestHandle methods

// SetName sets the name for the calculations
// which is defines the input and output file names
func (O *CrestHandle) SetName(name string) {
	O.inputname = name
}

// SetCalc sets the xtb method, solvent and optimization level used by CREST.
func (O *CrestHandle) SetCalc(Q *Calc) {
	O.calc = *Q
}

// SetDefaults sets calculations parameters to their defaults.
// Defaults might change
// as new methods appear, so they are not part of the API.
func (O *CrestHandle) SetDefaults() {
	O.command = "crest"
	O.nCPU = max(runtime.NumCPU()/2, 1)
	O.calc = Calc{Method: "gfn2"}
}

// Level returns the xtb method used by CREST for the structures it produces.
func (O *CrestHandle) Level() string {
	if !isInString(xtbMethods, O.calc.Method) {
		return "gfn2"
	}
	return O.calc.Method
}

// BuildInput writes the geometry to dir and returns the command line for a CREST run
// of the given type.
func (O *CrestHandle) BuildInput(dir, name string, mol *chem.Molecule, runtype string) ([]string, error) {
	if mol == nil || mol.Coords() == nil {
		return nil, &Error{ErrMissingCharges, Crest, name, "", []string{"BuildInput"}, true}
	}
	err := chem.XYZFileWrite(filepath.Join(dir, name+".xyz"), mol)
	if err != nil {
		return nil, &Error{ErrCantInput, Crest, name, err.Error(), []string{"BuildInput"}, true}
	}
	Q := O.calc
	options := make([]string, 0, 16)
	options = append(options, name+".xyz")
	options = append(options, "--chrg", strconv.Itoa(mol.Charge()))
	options = append(options, "--uhf", strconv.Itoa(mol.Multi()-1))
	if O.nCPU > 1 {
		options = append(options, "-T", strconv.Itoa(O.nCPU))
	}
	options = append(options, "--"+O.Level())
	if Q.Dielectric > 0 && O.Level() != "gfn0" {
		solvent, ok := dielectric2Solvent[int(Q.Dielectric)]
		if ok {
			options = append(options, "--alpb", solvent)
		}
	}
	o := "vtight"
	if Q.OptTightness > 0 {
		if Q.OptTightness < 2 {
			o = "normal"
		}
		if Q.OptTightness == 2 {
			o = "tight"
		}
	}
	options = append(options, "--optlev", o)
	switch runtype {
	case crestDeprotonate, crestTautomerize:
		options = append(options, "--"+runtype)
	case crestSearch:
	default:
		return nil, &Error{ErrCantInput, Crest, name, "unknown run type " + runtype, []string{"BuildInput"}, true}
	}
	if O.EThres > 0 { //crest expect this options in kcal, so no conversion needed
		options = append(options, "--ewin", fmt.Sprintf("%4.1f", O.EThres))
	}
	if O.RMSDThres > 0 {
		options = append(options, "--rthr", fmt.Sprintf("%4.1f", O.RMSDThres))
	}
	if O.NoRefTopo {
		options = append(options, "--noreftopo")
	}
	return options, nil
}

// Run runs CREST with the given options in dir and waits for it to finish.
func (O *CrestHandle) Run(ctx context.Context, dir, name string, options []string) error {
	if err := O.run(ctx, dir, name+".out", options...); err != nil {
		return &Error{ErrNotRunning, Crest, name, err.Error(), []string{"exec.Run", "Run"}, true}
	}
	return nil
}

// Checks that an CREST calculation has terminated normally
func (O *CrestHandle) normalTermination(dir, name string) bool {
	return searchBackwards("CREST terminated normally", filepath.Join(dir, name+".out")) != ""
}

// Conformers returns the conformers of mol found by CREST, lowest energy first.
func (O *CrestHandle) Conformers(ctx context.Context, mol *chem.Molecule) ([]*chem.Molecule, error) {
	mols, err := O.sample(ctx, mol, crestSearch, mol.Charge())
	if err != nil {
		return nil, errDecorate(err, "Conformers")
	}
	if len(mols) == 0 {
		return nil, &Error{ErrNoStructures, Crest, O.name(mol), "no conformers", []string{"Conformers"}, true}
	}
	return mols, nil
}

// Tautomers returns the tautomers of mol found by CREST, lowest energy first.
func (O *CrestHandle) Tautomers(ctx context.Context, mol *chem.Molecule) ([]*chem.Molecule, error) {
	mols, err := O.sample(ctx, mol, crestTautomerize, mol.Charge())
	if err != nil {
		return nil, errDecorate(err, "Tautomers")
	}
	if len(mols) == 0 {
		return nil, &Error{ErrNoStructures, Crest, O.name(mol), "no tautomers", []string{"Tautomers"}, true}
	}
	return mols, nil
}

// Deprotonate returns the structures obtained by removing one proton from mol,
// lowest energy first. Structures where the connectivity of the heavy atoms differs
// from that of mol are discarded, so the returned slice can be empty.
func (O *CrestHandle) Deprotonate(ctx context.Context, mol *chem.Molecule) ([]*chem.Molecule, error) {
	mols, err := O.sample(ctx, mol, crestDeprotonate, mol.Charge()-1)
	if err != nil {
		return nil, errDecorate(err, "Deprotonate")
	}
	ret := make([]*chem.Molecule, 0, len(mols))
	for i, v := range mols {
		same, err := chem.SameHeavyConnectivity(mol, v)
		if err != nil {
			O.logger().Debug("couldn't compare topologies, keeping candidate", zap.String("molecule", mol.Name), zap.Int("candidate", i), zap.Error(err))
			ret = append(ret, v)
			continue
		}
		if !same {
			O.logger().Info("topology change in deprotonated candidate, discarded", zap.String("molecule", mol.Name), zap.Int("candidate", i))
			continue
		}
		ret = append(ret, v)
	}
	return ret, nil
}

func (O *CrestHandle) name(mol *chem.Molecule) string {
	if O.inputname != "" {
		return O.inputname
	}
	if mol.Name != "" {
		return mol.Name
	}
	return "oxpot"
}

// sample runs CREST and collects the resulting ensemble, which is given the
// charge provided and the multiplicity of mol.
func (O *CrestHandle) sample(ctx context.Context, mol *chem.Molecule, runtype string, charge int) ([]*chem.Molecule, error) {
	name := O.name(mol)
	dir, err := O.workDir(Crest)
	defer O.cleanup(dir)
	if err != nil {
		return nil, &Error{ErrCantInput, Crest, name, err.Error(), []string{"sample"}, true}
	}
	options, err := O.BuildInput(dir, name, mol, runtype)
	if err != nil {
		return nil, errDecorate(err, "sample")
	}
	if err = O.Run(ctx, dir, name, options); err != nil {
		return nil, errDecorate(err, "sample")
	}
	if !O.normalTermination(dir, name) {
		return nil, &Error{ErrNotConverged, Crest, name, "", []string{"sample"}, true}
	}
	mols, err := O.Ensemble(filepath.Join(dir, crestOutputs[runtype]), mol.Name, charge, mol.Multi())
	if errors.Is(err, os.ErrNotExist) {
		//CREST finished but produced nothing, which happens when no
		//structure survived its own filters.
		O.logger().Debug("no structures produced", zap.String("molecule", name), zap.String("run", runtype))
		return nil, nil
	}
	if err != nil {
		return nil, &Error{ErrNoStructures, Crest, name, err.Error(), []string{"sample"}, true}
	}
	return mols, nil
}

// Ensemble reads a multi-structure xyz file produced by CREST. Each structure gets the given
// name, charge and multiplicity, and the energy in its comment line, if any, as its electronic energy.
func (O *CrestHandle) Ensemble(path, name string, charge, multi int) ([]*chem.Molecule, error) {
	mols, comments, err := chem.XYZFileReadAll(path)
	if err != nil {
		return nil, err
	}
	for i, v := range mols {
		v.Name = name
		v.SetCharge(charge)
		v.SetMulti(multi)
		f := strings.Fields(comments[i])
		if len(f) == 0 {
			continue
		}
		e, err := strconv.ParseFloat(f[0], 64)
		if err != nil {
			O.logger().Debug("no energy in comment line", zap.String("file", path), zap.Int("structure", i))
			continue
		}
		v.Props.SetElectronic(e*chem.H2Kcal, O.Level())
	}
	return mols, nil
}

var _ Sampler = (*CrestHandle)(nil)
