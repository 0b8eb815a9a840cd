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

//go:build !root

package ir

import (
	"fmt"
	"strings"
	"testing"

	"github.com/purpleidea/propgen/lang/names"
	"github.com/purpleidea/propgen/lang/types"
	"github.com/purpleidea/propgen/util"
)

// stubRenderer renders each template as its name and the expression.
type stubRenderer struct {
	calls []string
}

func (obj *stubRenderer) Render(name string, data interface{}) (string, error) {
	obj.calls = append(obj.calls, name)
	return fmt.Sprintf("<%s %v>", name, data), nil
}

func TestLocalVars0(t *testing.T) {
	vars := NewLocalVars()

	type test struct { // an individual test
		name   string
		unique bool
		expect string // empty if we expect an error
	}
	testCases := []test{
		{"result", false, "Result"},
		{"result", false, "Result_1"},
		{"result", false, "Result_2"},
		{"map", true, "Map"},
		{"map", true, ""},
		{"map", false, "Map_1"},
		{"result", true, ""},
	}
	for index, tc := range testCases {
		v, err := vars.New(names.FromLower(tc.name), types.TypeBool, tc.unique)
		if tc.expect == "" {
			if err == nil {
				t.Errorf("test #%d: expected error, got: %s", index, v)
			}
			continue
		}
		if err != nil {
			t.Errorf("test #%d: unexpected error: %+v", index, err)
			continue
		}
		if s := v.String(); s != tc.expect {
			t.Errorf("test #%d: got: %s, expected: %s", index, s, tc.expect)
		}
	}

	got := []string{}
	for _, v := range vars.Vars() {
		got = append(got, v.String())
	}
	if s := strings.Join(got, ","); s != "Result,Result_1,Result_2,Map,Map_1" {
		t.Errorf("unexpected declaration order: %s", s)
	}
	if _, exists := vars.Get(names.FromLower("result_1")); !exists {
		t.Errorf("could not get result_1")
	}
	if _, err := vars.New(names.Name{}, types.TypeBool, false); err == nil {
		t.Errorf("expected an error for an empty name")
	}
	if _, err := vars.New(names.FromLower("x"), nil, false); err == nil {
		t.Errorf("expected an error for a nil type")
	}

	r := &stubRenderer{}
	if _, err := vars.Render(r); err != nil {
		t.Errorf("unexpected error: %+v", err)
	}
	if !util.StrInList("vars", r.calls) {
		t.Errorf("vars template was not used")
	}
}

func TestRenderSimple0(t *testing.T) {
	c := types.NewCatalogue()
	root, _ := c.NewNode("FooNode", nil, true)
	lit, _ := c.NewNode("Literal", root, false)
	field, _ := c.AddField(root, "parent_ref", root)
	point, _ := c.NewStruct("Point", nil)

	self := &ExprVar{Name: names.FromLower("self"), T: lit}
	access := &ExprFieldAccess{Receiver: self, Field: field}

	type test struct {
		name   string
		expr   Expr
		expect string
	}
	testCases := []test{}

	testCases = append(testCases, test{"var", self, "Self"})
	testCases = append(testCases, test{"field", access, "Self.F_Parent_Ref"})
	testCases = append(testCases, test{"cast", &ExprCast{Expr: self, T: root}, "Foo_Node (Self)"})
	testCases = append(testCases, test{"eq", &ExprEq{Left: access, Right: &ExprLiteral{V: types.NewNull(root)}}, "Self.F_Parent_Ref = null"})
	testCases = append(testCases, test{"is_a", &ExprIsA{Expr: access, Target: lit}, "Self.F_Parent_Ref.all in Literal_Type'Class"})
	testCases = append(testCases, test{"not", &ExprNot{Expr: &ExprLiteral{V: &types.BoolValue{V: true}}}, "not (True)"})
	testCases = append(testCases, test{"long", &ExprLiteral{V: &types.LongValue{V: 42}}, "42"})
	testCases = append(testCases, test{"new", &ExprNew{
		T: point,
		Fields: []*NewField{
			{Name: names.FromLower("y"), Value: &ExprLiteral{V: &types.LongValue{V: 2}}},
			{Name: names.FromLower("x"), Value: &ExprLiteral{V: &types.LongValue{V: 1}}},
		},
	}, "(F_X => 1, F_Y => 2)"})

	testNames := []string{}
	for index, tc := range testCases { // run all the tests
		if util.StrInList(tc.name, testNames) {
			t.Errorf("test #%d: duplicate sub test name of: %s", index, tc.name)
			continue
		}
		testNames = append(testNames, tc.name)

		t.Run(fmt.Sprintf("test #%d (%s)", index, tc.name), func(t *testing.T) {
			r := &stubRenderer{}
			out, err := Render(tc.expr, r)
			if err != nil {
				t.Errorf("test #%d: unexpected error: %+v", index, err)
				return
			}
			if out != tc.expect {
				t.Errorf("test #%d: got: `%s`, expected: `%s`", index, out, tc.expect)
			}
			if len(r.calls) != 0 {
				t.Errorf("test #%d: unexpected template calls: %v", index, r.calls)
			}
		})
	}
}

func TestRenderTemplated0(t *testing.T) {
	vars := NewLocalVars()
	result, _ := vars.New(names.FromLower("result"), types.TypeBool, false)
	result2, _ := vars.New(names.FromLower("result"), types.TypeBool, false)
	tru := &ExprLiteral{V: &types.BoolValue{V: true}}

	inner := &ExprIf{Cond: tru, Then: tru, Else: tru, Var: result}
	outer := &ExprEq{Left: inner, Right: &ExprIf{Cond: tru, Then: tru, Else: tru, Var: result2}}

	r := &stubRenderer{}
	out, err := Render(outer, r)
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("unexpected output: %s", out)
	}
	if !strings.HasPrefix(lines[0], "<if ") || !strings.HasPrefix(lines[1], "<if ") {
		t.Errorf("preambles are not rendered first: %s", out)
	}
	if lines[2] != "Result = Result_1" {
		t.Errorf("unexpected value expression: %s", lines[2])
	}
}
