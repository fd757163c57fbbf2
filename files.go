/*
 * files.go, part of oxpot.
 *
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

package chem

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// NameFromPath returns the molecule name for an xyz file, i.e. its base name without
// the .xyz extension.
func NameFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".xyz")
}

// XYZFileRead reads the first frame of an xyz file. The molecule gets its name
// from the file name, charge 0 and multiplicity 1.
func XYZFileRead(xyzname string) (*Molecule, error) {
	f, err := os.Open(xyzname)
	if err != nil {
		return nil, fmt.Errorf("XYZFileRead: %w", err)
	}
	defer f.Close()
	mol, _, err := readXYZFrame(bufio.NewReader(f), NameFromPath(xyzname))
	if err != nil {
		return nil, fmt.Errorf("XYZFileRead: %s: %w", xyzname, err)
	}
	return mol, nil
}

// XYZFileReadAll reads all the frames in a (possibly multi-frame) xyz file, such
// as the conformer ensembles written by CREST. It returns the molecules and their
// comment lines. The molecules are named after the file.
func XYZFileReadAll(xyzname string) ([]*Molecule, []string, error) {
	f, err := os.Open(xyzname)
	if err != nil {
		return nil, nil, fmt.Errorf("XYZFileReadAll: %w", err)
	}
	defer f.Close()
	return XYZReadAll(f, NameFromPath(xyzname))
}

// XYZReadAll reads all the frames from an xyz stream.
func XYZReadAll(r io.Reader, name string) ([]*Molecule, []string, error) {
	br := bufio.NewReader(r)
	mols := make([]*Molecule, 0, 10)
	comments := make([]string, 0, 10)
	for i := 0; ; i++ {
		mol, comment, err := readXYZFrame(br, name)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("XYZReadAll: frame %d: %w", i, err)
		}
		mols = append(mols, mol)
		comments = append(comments, comment)
	}
	if len(mols) == 0 {
		return nil, nil, fmt.Errorf("XYZReadAll: no frames found for %s", name)
	}
	return mols, comments, nil
}

func readline(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// readXYZFrame reads one frame. It returns io.EOF only if the stream ends
// before the count line. Blank lines before the count line are skipped.
func readXYZFrame(r *bufio.Reader, name string) (*Molecule, string, error) {
	var line string
	var err error
	for {
		line, err = readline(r)
		if err != nil {
			return nil, "", err
		}
		if strings.TrimSpace(line) != "" {
			break
		}
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || natoms <= 0 {
		return nil, "", fmt.Errorf("ill formatted xyz, bad atom count %q", line)
	}
	comment, err := readline(r)
	if err != nil {
		return nil, "", fmt.Errorf("ill formatted xyz, missing comment line: %v", err)
	}
	atoms := make([]*Atom, 0, natoms)
	lines := make([]string, 0, natoms)
	coords := mat.NewDense(natoms, 3, nil)
	for i := 0; i < natoms; i++ {
		line, err = readline(r)
		if err != nil {
			return nil, "", fmt.Errorf("ill formatted xyz, %d atoms expected but only %d found: %v", natoms, i, err)
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, "", fmt.Errorf("ill formatted xyz, atom line %d: %q", i+1, line)
		}
		for j := 0; j < 3; j++ {
			c, err := strconv.ParseFloat(fields[j+1], 64)
			if err != nil {
				return nil, "", fmt.Errorf("ill formatted xyz, atom line %d: %w", i+1, err)
			}
			coords.Set(i, j, c)
		}
		at := &Atom{Symbol: NormalSymbol(fields[0])}
		at.Mass, _ = Mass(at.Symbol) //Not error checking
		atoms = append(atoms, at)
		lines = append(lines, line)
	}
	mol, err := NewMolecule(name, atoms, coords, lines, 0, 1)
	return mol, comment, err
}

// XYZFileWrite writes the molecule to an xyz file with name xyzname, which will be
// created or overwritten. The geometry lines are written verbatim.
func XYZFileWrite(xyzname string, mol *Molecule) error {
	out, err := os.Create(xyzname)
	if err != nil {
		return fmt.Errorf("XYZFileWrite: %w", err)
	}
	defer out.Close()
	if err = XYZWrite(out, mol, ""); err != nil {
		return fmt.Errorf("XYZFileWrite: %s: %w", xyzname, err)
	}
	return nil
}

// XYZWrite writes the molecule in xyz format to out, with the given comment line.
func XYZWrite(out io.Writer, mol *Molecule, comment string) error {
	w := bufio.NewWriter(out)
	if _, err := fmt.Fprintf(w, "%d\n%s\n", mol.Len(), comment); err != nil {
		return err
	}
	for _, v := range mol.geometry {
		if _, err := w.WriteString(v + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}
