/*
 * csv.go, part of oxpot.
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
	"encoding/csv"
	"io"
	"strconv"
	"sync"

	chem "github.com/rmera/oxpot"
)

// Header is the header line of the potentials table.
var Header = []string{"molname", "singlet_pKa", "radical_pKa", "pH", "potential"}

// CSVWriter writes the potentials of one or more molecules as a single table.
// The header is written before the first row. It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	w      *csv.Writer
	header bool
}

// NewCSVWriter returns a CSVWriter writing to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

func pkaField(p chem.PKa) string {
	if !p.Defined {
		return ""
	}
	return strconv.FormatFloat(p.Value, 'f', -1, 64)
}

// Write writes one row per sample, for the molecule name, and flushes.
func (W *CSVWriter) Write(name string, samples []Sample) error {
	W.mu.Lock()
	defer W.mu.Unlock()
	if !W.header {
		if err := W.w.Write(Header); err != nil {
			return err
		}
		W.header = true
	}
	for _, s := range samples {
		row := []string{
			name,
			pkaField(s.SingletPKa),
			pkaField(s.RadicalPKa),
			strconv.FormatFloat(s.PH, 'f', 1, 64),
			strconv.FormatFloat(s.Potential, 'f', -1, 64),
		}
		if err := W.w.Write(row); err != nil {
			return err
		}
	}
	W.w.Flush()
	return W.w.Error()
}

// WriteCSV writes the header and the potentials for the molecule name to w.
func WriteCSV(w io.Writer, name string, samples []Sample) error {
	return NewCSVWriter(w).Write(name, samples)
}
