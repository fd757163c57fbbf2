/*
 * store.go, part of oxpot.
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
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	chem "github.com/rmera/oxpot"
	"github.com/rmera/oxpot/ladder"
	"github.com/vmihailenco/msgpack/v5"
	"gonum.org/v1/gonum/mat"
)

// ContainerExt is the extension of container files.
const ContainerExt = ".ctr"

// current version of the container file format
const containerVersion = 1

// The container files are msgpack-encoded snapshots, compressed with zstd.
type molSnapshot struct {
	Name            string              `msgpack:"name"`
	Charge          int                 `msgpack:"charge"`
	Multi           int                 `msgpack:"multi"`
	Symbols         []string            `msgpack:"symbols"`
	Coords          []float64           `msgpack:"coords"` //row major, 3 per atom
	Lines           []string            `msgpack:"lines"`
	Electronic      float64             `msgpack:"electronic"`
	ElectronicLevel string              `msgpack:"electronic_level"`
	Vibronic        float64             `msgpack:"vibronic"`
	VibronicLevel   string              `msgpack:"vibronic_level"`
	PKas            map[string]chem.PKa `msgpack:"pkas"`
}

type recordSnapshot struct {
	Mol    molSnapshot `msgpack:"mol"`
	PKa    float64     `msgpack:"pka"`
	Status int         `msgpack:"status"`
	Reason string      `msgpack:"reason"`
}

type containerSnapshot struct {
	Version  int              `msgpack:"version"`
	Name     string           `msgpack:"name"`
	Level    string           `msgpack:"level"`
	VibLevel string           `msgpack:"vib_level"`
	Singlets []recordSnapshot `msgpack:"singlets"`
	Radicals []recordSnapshot `msgpack:"radicals"`
}

func snapMolecule(m *chem.Molecule) molSnapshot {
	s := molSnapshot{
		Name:    m.Name,
		Charge:  m.Charge(),
		Multi:   m.Multi(),
		Symbols: m.Symbols(),
		Coords:  make([]float64, 0, 3*m.Len()),
		Lines:   m.Geometry(),
	}
	for i := 0; i < m.Len(); i++ {
		s.Coords = append(s.Coords, m.Coords().RawRowView(i)...)
	}
	if p := m.Props; p != nil {
		s.Electronic, s.ElectronicLevel = p.Electronic, p.ElectronicLevel
		s.Vibronic, s.VibronicLevel = p.Vibronic, p.VibronicLevel
		s.PKas = make(map[string]chem.PKa, len(p.PKas))
		for k, v := range p.PKas {
			s.PKas[k] = v
		}
	}
	return s
}

func (s molSnapshot) molecule() (*chem.Molecule, error) {
	if len(s.Coords) != 3*len(s.Symbols) {
		return nil, fmt.Errorf("%d coordinates for %d atoms in %s", len(s.Coords), len(s.Symbols), s.Name)
	}
	atoms := make([]*chem.Atom, 0, len(s.Symbols))
	for _, v := range s.Symbols {
		m, _ := chem.Mass(v)
		atoms = append(atoms, &chem.Atom{Symbol: v, Mass: m})
	}
	var coords *mat.Dense
	if len(atoms) > 0 {
		coords = mat.NewDense(len(atoms), 3, s.Coords)
	}
	mol, err := chem.NewMolecule(s.Name, atoms, coords, s.Lines, s.Charge, s.Multi)
	if err != nil {
		return nil, err
	}
	mol.Props.SetElectronic(s.Electronic, s.ElectronicLevel)
	mol.Props.SetVibronic(s.Vibronic, s.VibronicLevel)
	for k, v := range s.PKas {
		mol.Props.PKas[k] = v
	}
	return mol, nil
}

func snapLadder(recs []ladder.Deprotomer) []recordSnapshot {
	ret := make([]recordSnapshot, 0, len(recs))
	for _, v := range recs {
		ret = append(ret, recordSnapshot{Mol: snapMolecule(v.Mol), PKa: v.PKa, Status: int(v.Status), Reason: v.Reason})
	}
	return ret
}

func unsnapLadder(snaps []recordSnapshot) ([]ladder.Deprotomer, error) {
	ret := make([]ladder.Deprotomer, 0, len(snaps))
	for i, v := range snaps {
		mol, err := v.Mol.molecule()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		ret = append(ret, ladder.Deprotomer{Mol: mol, PKa: v.PKa, Status: ladder.Status(v.Status), Reason: v.Reason})
	}
	return ret, nil
}

// EncodeContainer writes c to w, in the container file format.
func EncodeContainer(w io.Writer, c *Container) error {
	snap := containerSnapshot{
		Version:  containerVersion,
		Name:     c.Name,
		Level:    c.Level,
		VibLevel: c.VibLevel,
		Singlets: snapLadder(c.Singlets),
		Radicals: snapLadder(c.Radicals),
	}
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return err
	}
	if err = msgpack.NewEncoder(zw).Encode(&snap); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// DecodeContainer reads a container written by EncodeContainer from r.
func DecodeContainer(r io.Reader) (*Container, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	var snap containerSnapshot
	if err = msgpack.NewDecoder(zr).Decode(&snap); err != nil {
		return nil, err
	}
	if snap.Version != containerVersion {
		return nil, fmt.Errorf("unsupported container version %d", snap.Version)
	}
	c := NewContainer(snap.Name)
	c.Level, c.VibLevel = snap.Level, snap.VibLevel
	if c.Singlets, err = unsnapLadder(snap.Singlets); err != nil {
		return nil, fmt.Errorf("singlets: %w", err)
	}
	if c.Radicals, err = unsnapLadder(snap.Radicals); err != nil {
		return nil, fmt.Errorf("radicals: %w", err)
	}
	return c, nil
}

// SaveContainer writes c to dir/<name>.ctr, creating dir if needed, and returns the file name.
func SaveContainer(dir string, c *Container) (string, error) {
	errid := "redox/SaveContainer"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%s: %w", errid, err)
	}
	path := filepath.Join(dir, c.Name+ContainerExt)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errid, err)
	}
	if err = EncodeContainer(f, c); err != nil {
		f.Close()
		return "", fmt.Errorf("%s: %s: %w", errid, path, err)
	}
	if err = f.Close(); err != nil {
		return "", fmt.Errorf("%s: %s: %w", errid, path, err)
	}
	return path, nil
}

// LoadContainer reads a container file written by SaveContainer.
func LoadContainer(path string) (*Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("redox/LoadContainer: %w", err)
	}
	defer f.Close()
	c, err := DecodeContainer(f)
	if err != nil {
		return nil, fmt.Errorf("redox/LoadContainer: %s: %w", path, err)
	}
	return c, nil
}
