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

package util

import (
	"reflect"
	"testing"
)

func TestStrInList0(t *testing.T) {
	if !StrInList("b", []string{"a", "b", "c"}) {
		t.Errorf("expected to find b")
	}
	if StrInList("d", []string{"a", "b", "c"}) {
		t.Errorf("did not expect to find d")
	}
	if StrInList("", nil) {
		t.Errorf("did not expect to find anything in a nil list")
	}
}

func TestStrRemoveDuplicatesInList0(t *testing.T) {
	in := []string{"a", "b", "a", "c", "b"}
	out := StrRemoveDuplicatesInList(in)
	if exp := []string{"a", "b", "c"}; !reflect.DeepEqual(out, exp) {
		t.Errorf("expected: %+v, got: %+v", exp, out)
	}
}

func TestStrSetDifference0(t *testing.T) {
	testCases := []struct {
		a, b []string
		exp  []string
	}{
		{[]string{"f_a", "f_b"}, []string{"f_a"}, []string{"f_b"}},
		{[]string{"f_c", "f_b", "f_c"}, []string{}, []string{"f_b", "f_c"}},
		{[]string{"f_a"}, []string{"f_a", "f_z"}, []string{}},
		{nil, []string{"f_a"}, []string{}},
	}
	for index, tc := range testCases {
		if out := StrSetDifference(tc.a, tc.b); !reflect.DeepEqual(out, tc.exp) {
			t.Errorf("test #%d: expected: %+v, got: %+v", index, tc.exp, out)
		}
	}
}

func TestIndent0(t *testing.T) {
	in := "a;\n\nb;\n"
	exp := "   a;\n\n   b;\n"
	if out := Indent("   ", in); out != exp {
		t.Errorf("expected: %q, got: %q", exp, out)
	}
	if out := Indent("   ", ""); out != "" {
		t.Errorf("expected empty output, got: %q", out)
	}
}

func TestTrimBlankLines0(t *testing.T) {
	in := "\n  \nfoo;\n\t\n  bar;\n\n"
	exp := "foo;\n  bar;"
	if out := TrimBlankLines(in); out != exp {
		t.Errorf("expected: %q, got: %q", exp, out)
	}
}
