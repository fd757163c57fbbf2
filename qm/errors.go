/*
 * errors.go, part of oxpot.
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

package qm

import (
	"errors"
	"fmt"
	"strings"
)

// Programs
const (
	XTB   = "XTB"
	Crest = "CREST"
	Orca  = "ORCA"
)

// Kinds of errors. Use errors.Is to check for them.
var (
	ErrMissingCharges = errors.New("Missing charges or coordinates")
	ErrCantInput      = errors.New("Can't build input file")
	ErrNotRunning     = errors.New("Couldn't run the program")
	ErrNotConverged   = errors.New("Calculation didn't terminate normally")
	ErrNoEnergy       = errors.New("Couldn't read energy from output")
	ErrNoFreeEnergy   = errors.New("Couldn't read free energy correction from output")
	ErrNoGeometry     = errors.New("Couldn't read geometry from output")
	ErrNoStructures   = errors.New("Couldn't read structures from output")
)

// Error is the error type returned by the QM handles. It keeps the
// program and input name involved, and a trail of the functions the error went through.
type Error struct {
	kind       error
	program    string
	inputname  string
	additional string
	deco       []string
	critical   bool
}

func (err *Error) Error() string {
	s := fmt.Sprintf("%s (%s/%s)", err.kind.Error(), err.program, err.inputname)
	if err.additional != "" {
		s += ": " + err.additional
	}
	if len(err.deco) > 0 {
		s += " [" + strings.Join(err.deco, " < ") + "]"
	}
	return s
}

// Decorate adds dec to the function trail of the error, and returns the trail.
// An empty string only returns the trail.
func (err *Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

// Critical returns false if the result of the calculation can still be used.
func (err *Error) Critical() bool { return err.critical }

// Program returns the name of the QM program that produced the error.
func (err *Error) Program() string { return err.program }

// InputName returns the name of the calculation that failed.
func (err *Error) InputName() string { return err.inputname }

func (err *Error) Unwrap() error { return err.kind }

// errDecorate adds the caller name to err, if err is an *Error. Other errors
// are wrapped.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		e.Decorate(caller)
		return err
	}
	return fmt.Errorf("%s: %w", caller, err)
}
