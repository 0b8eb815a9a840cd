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

package errwrap

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapfErr1(t *testing.T) {
	if err := Wrapf(nil, "whatever: %d", 42); err != nil {
		t.Errorf("expected nil result")
	}
}

func TestWrapfErr2(t *testing.T) {
	sentinel := fmt.Errorf("sentinel")
	err := Wrapf(sentinel, "while resolving %s", "p_foo")
	if !errors.Is(err, sentinel) {
		t.Errorf("expected the wrapped error to match the sentinel")
	}
	if s := err.Error(); s != "while resolving p_foo: sentinel" {
		t.Errorf("unexpected message: %s", s)
	}
}

func TestAppendErr1(t *testing.T) {
	if err := Append(nil, nil); err != nil {
		t.Errorf("expected nil result")
	}
}

func TestAppendErr2(t *testing.T) {
	reterr := fmt.Errorf("reterr")
	if err := Append(reterr, nil); err != reterr {
		t.Errorf("expected reterr")
	}
}

func TestAppendErr3(t *testing.T) {
	err := fmt.Errorf("err")
	if reterr := Append(nil, err); reterr != err {
		t.Errorf("expected err")
	}
}

func TestAppendErr4(t *testing.T) {
	err1 := fmt.Errorf("err1")
	err2 := fmt.Errorf("err2")
	reterr := Append(err1, err2)
	if !errors.Is(reterr, err1) || !errors.Is(reterr, err2) {
		t.Errorf("expected both errors to be found")
	}
	if l := len(Errors(reterr)); l != 2 {
		t.Errorf("expected two errors, got: %d", l)
	}
}

func TestErrors1(t *testing.T) {
	if l := len(Errors(nil)); l != 0 {
		t.Errorf("expected no errors, got: %d", l)
	}
	if l := len(Errors(fmt.Errorf("single"))); l != 1 {
		t.Errorf("expected one error, got: %d", l)
	}
}

func TestAppendFormat1(t *testing.T) {
	reterr := Append(nil, fmt.Errorf("err1"))
	reterr = Append(reterr, fmt.Errorf("err2\ndetail"))
	reterr = Append(reterr, Wrapf(fmt.Errorf("err3"), "context"))
	expect := "error: err1\nerror: err2\n  detail\nerror: context: err3"
	if s := reterr.Error(); s != expect {
		t.Errorf("unexpected message:\n%s\nexpected:\n%s", s, expect)
	}
	if l := len(Errors(reterr)); l != 3 {
		t.Errorf("expected three errors, got: %d", l)
	}
}
