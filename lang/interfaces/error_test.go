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

package interfaces

import (
	"errors"
	"strings"
	"testing"

	"github.com/purpleidea/propgen/util/errwrap"
)

func TestStructFieldSetError0(t *testing.T) {
	err := &StructFieldSetError{
		Struct:  "Point",
		Missing: []string{"y"},
		Unknown: []string{"z", "w"},
	}
	s := err.Error()
	for _, x := range []string{"Point", "missing fields: y", "unknown fields: z, w"} {
		if !strings.Contains(s, x) {
			t.Errorf("message `%s` does not contain `%s`", s, x)
		}
	}

	wrapped := errwrap.Wrapf(err, "could not resolve")
	if !errors.Is(wrapped, ErrStructFieldSet) {
		t.Errorf("wrapped error did not match ErrStructFieldSet")
	}
	if errors.Is(wrapped, ErrTypeMismatch) {
		t.Errorf("wrapped error should not match ErrTypeMismatch")
	}
	var target *StructFieldSetError
	if !errors.As(wrapped, &target) || len(target.Unknown) != 2 {
		t.Errorf("could not recover the detailed error")
	}
}

func TestStructFieldSetError1(t *testing.T) {
	err := &StructFieldSetError{
		Struct:  "Point",
		Missing: []string{"x"},
	}
	if s := err.Error(); strings.Contains(s, "unknown") {
		t.Errorf("unexpected unknown section in: %s", s)
	}
}
