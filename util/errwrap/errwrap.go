// Propgen
// Copyright (C) James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package errwrap wraps and aggregates the errors of the compiler. Wrapping
// adds context to a single failure, and aggregation collects independent
// failures, such as one per property, so that all of them are reported at once.
package errwrap

import (
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Wrapf adds context to an error. A nil error stays nil.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// Append aggregates err onto reterr, and either can be nil, so it can be used
// as a `reterr += err` in loops. The aggregate prints one failure per line.
func Append(reterr, err error) error {
	if reterr == nil {
		return err // which might even be nil
	}
	if err == nil {
		return reterr
	}
	merr := multierror.Append(reterr, err)
	merr.ErrorFormat = listFormat
	return merr
}

// Errors returns the list of individual errors that were combined with Append.
// A single error is returned as a list of one, and nil gives an empty list.
func Errors(err error) []error {
	if err == nil {
		return []error{}
	}
	if merr, ok := err.(*multierror.Error); ok {
		return merr.WrappedErrors()
	}
	return []error{err}
}

// listFormat prints each error on its own line. Multi line errors are indented
// so that the next failure is easy to spot.
func listFormat(errs []error) string {
	lines := []string{}
	for _, err := range errs {
		msg := strings.ReplaceAll(err.Error(), "\n", "\n  ")
		lines = append(lines, "error: "+msg)
	}
	return strings.Join(lines, "\n")
}
