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

package ast

import (
	"errors"
	"fmt"
	"testing"

	"github.com/purpleidea/propgen/lang/interfaces"
	"github.com/purpleidea/propgen/lang/ir"
	"github.com/purpleidea/propgen/util"
)

func TestSealDeep0(t *testing.T) {
	cond := Self().Field("a")
	then := Bool(true)
	els := Not(Self().Field("b"))
	b := If(cond, then, els)

	e1, err := b.Seal()
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	e2, err := b.Seal()
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if e1 != e2 {
		t.Errorf("seal is not idempotent")
	}

	for i, x := range []*Builder{b, cond, then, els} {
		if !x.Sealed() {
			t.Errorf("builder #%d is not sealed", i)
		}
		y := x.Field("c")
		if err := y.Err(); !errors.Is(err, interfaces.ErrIllegalMutation) {
			t.Errorf("builder #%d: expected illegal mutation, got: %v", i, err)
		}
		if _, err := y.Seal(); !errors.Is(err, interfaces.ErrIllegalMutation) {
			t.Errorf("builder #%d: seal should report illegal mutation, got: %v", i, err)
		}
	}

	// every node of the tree is visited, children first
	count := 0
	var last Expr
	if err := e1.Apply(func(x Expr) error {
		count++
		last = x
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if count != 7 { // if, field, self, bool, not, field, self
		t.Errorf("unexpected node count: %d", count)
	}
	if last != e1 {
		t.Errorf("the root should be visited last")
	}
}

func TestSealErrors0(t *testing.T) {
	_, m := testCatalogue(t)

	if _, err := If(Bool(true), nil, Bool(false)).Seal(); err == nil {
		t.Errorf("expected an error for a missing operand")
	}
	if _, err := Self().Set("x", Long(1)).Seal(); err == nil {
		t.Errorf("expected an error for set on a non literal")
	}
	if _, err := Self().Field("").Seal(); err == nil {
		t.Errorf("expected an error for an empty field name")
	}

	// errors are sticky
	bad := Self().Cast(nil)
	if bad.Err() == nil {
		t.Fatalf("expected an error for a cast without type")
	}
	if err := bad.Field("x").And(Bool(true)).Err(); err == nil {
		t.Errorf("error was not propagated")
	}
	if err := Bool(true).And(bad).Err(); err == nil {
		t.Errorf("error was not propagated from an operand")
	}

	// a literal can't contain itself
	n := New(m["Point"])
	n.Set("x", n)
	if _, err := n.Seal(); err == nil {
		t.Errorf("expected an error for a cycle")
	}

	// a sealed literal can't get more fields
	p := New(m["Point"]).Set("x", Long(1)).Set("y", Long(2))
	if _, err := p.Seal(); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if err := p.Set("z", Long(3)).Err(); !errors.Is(err, interfaces.ErrIllegalMutation) {
		t.Errorf("expected illegal mutation, got: %v", err)
	}
	e, _ := p.Seal()
	if s := e.String(); s != "new Point{x: 1, y: 2}" {
		t.Errorf("literal was changed: %s", s)
	}

	// set replaces an existing value in place
	q := New(m["Point"]).Set("y", Long(1)).Set("x", Long(2)).Set("y", Long(3))
	e, err := q.Seal()
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if s := e.String(); s != "new Point{y: 3, x: 2}" {
		t.Errorf("unexpected literal: %s", s)
	}
}

func TestSealedOperands0(t *testing.T) {
	_, m := testCatalogue(t)

	type test struct { // an individual test
		name  string
		build func(sealed *Builder) *Builder
	}
	testCases := []test{}

	testCases = append(testCases, test{"eq left", func(x *Builder) *Builder { return Eq(x, Long(1)) }})
	testCases = append(testCases, test{"eq right", func(x *Builder) *Builder { return Eq(Long(1), x) }})
	testCases = append(testCases, test{"not", func(x *Builder) *Builder { return Not(x) }})
	testCases = append(testCases, test{"if cond", func(x *Builder) *Builder { return If(x, Long(1), Long(2)) }})
	testCases = append(testCases, test{"if then", func(x *Builder) *Builder { return If(Bool(true), x, Long(2)) }})
	testCases = append(testCases, test{"if else", func(x *Builder) *Builder { return If(Bool(true), Long(1), x) }})
	testCases = append(testCases, test{"and right", func(x *Builder) *Builder { return Bool(true).And(x) }})
	testCases = append(testCases, test{"quantify predicate", func(x *Builder) *Builder {
		return Quantify(ir.QuantifierAll, Self().Field("exprs"), x, nil)
	}})
	testCases = append(testCases, test{"call argument", func(x *Builder) *Builder { return Self().Call(x) }})
	testCases = append(testCases, test{"set value", func(x *Builder) *Builder {
		return New(m["Point"]).Set("x", x).Set("y", Long(2))
	}})

	names := []string{}
	for index, tc := range testCases {
		if tc.name == "" {
			t.Errorf("test #%d: not named", index)
			continue
		}
		if util.StrInList(tc.name, names) {
			t.Errorf("test #%d: duplicate sub test name of: %s", index, tc.name)
			continue
		}
		names = append(names, tc.name)

		t.Run(fmt.Sprintf("test #%d (%s)", index, tc.name), func(t *testing.T) {
			sealed := Long(7)
			if _, err := sealed.Seal(); err != nil {
				t.Fatalf("unexpected error: %+v", err)
			}
			b := tc.build(sealed)
			if err := b.Err(); !errors.Is(err, interfaces.ErrIllegalMutation) {
				t.Errorf("expected illegal mutation, got: %v", err)
			}
			if _, err := b.Seal(); !errors.Is(err, interfaces.ErrIllegalMutation) {
				t.Errorf("seal should report illegal mutation, got: %v", err)
			}
		})
	}
}

func TestAttr0(t *testing.T) {
	_, m := testCatalogue(t)

	for _, name := range []string{"all", "any", "cast", "contains", "equals", "filter", "is_a", "is_null", "map", "mapcat"} {
		op, exists := LookupOp(name)
		if !exists {
			t.Errorf("op %s was not found", name)
			continue
		}
		if op.String() != name {
			t.Errorf("op %s has name %s", name, op)
		}
	}
	if _, exists := LookupOp("parent_node"); exists {
		t.Errorf("field names are not ops")
	}

	type test struct {
		name   string
		op     string
		args   Args
		expect string // empty if we expect an error
	}
	pred := func() *Builder { return Var().IsA(m["Literal"]) }
	testCases := []test{
		{"field", "parent_node", Args{}, "Self.parent_node"},
		{"field with args", "parent_node", Args{Exprs: []*Builder{Bool(true)}}, ""},
		{"all", "all", Args{Exprs: []*Builder{pred()}}, "Self.all(Item -> var.is_a(Literal))"},
		{"any named", "any", Args{Exprs: []*Builder{pred()}, Var: Vars.Get("e")}, "Self.any(I_E -> var.is_a(Literal))"},
		{"filter", "filter", Args{Exprs: []*Builder{pred()}}, "Self.map(Item -> var) if var.is_a(Literal)"},
		{"map", "map", Args{Exprs: []*Builder{Long(1)}}, "Self.map(Item -> 1)"},
		{"mapcat filter", "mapcat", Args{Exprs: []*Builder{Self()}, Filter: Bool(true)}, "Self.mapcat(Item -> Self) if true"},
		{"cast", "cast", Args{Type: m["Expr"]}, "Self.cast(Expr)"},
		{"cast without type", "cast", Args{}, ""},
		{"is_a", "is_a", Args{Type: m["Literal"]}, "Self.is_a(Literal)"},
		{"is_null", "is_null", Args{}, "Self.is_null"},
		{"is_null with var", "is_null", Args{Var: Vars.Get("e")}, ""},
		{"equals", "equals", Args{Exprs: []*Builder{Self()}}, "(Self == Self)"},
		{"contains", "contains", Args{Exprs: []*Builder{Self()}}, "Self.contains(Self)"},
		{"contains with filter", "contains", Args{Exprs: []*Builder{Self()}, Filter: Bool(true)}, ""},
		{"map without body", "map", Args{}, ""},
	}
	for index, tc := range testCases {
		e, err := Self().Attr(tc.op, tc.args).Seal()
		if tc.expect == "" {
			if err == nil {
				t.Errorf("test #%d (%s): expected error, got: %s", index, tc.name, e)
			}
			continue
		}
		if err != nil {
			t.Errorf("test #%d (%s): unexpected error: %+v", index, tc.name, err)
			continue
		}
		if s := e.String(); s != tc.expect {
			t.Errorf("test #%d (%s): got: %s, expected: %s", index, tc.name, s, tc.expect)
		}
	}
}

func TestVarsMemoized0(t *testing.T) {
	vars := NewInductionVars()
	if vars.Get("elem") != vars.Get("elem") {
		t.Errorf("variables are not memoized")
	}
	if vars.Get("elem") == vars.Get("other") {
		t.Errorf("different names gave the same variable")
	}
	if s := vars.Get("elem").String(); s != "I_Elem" {
		t.Errorf("unexpected name: %s", s)
	}
	if s := vars.Default().String(); s != "Item" {
		t.Errorf("unexpected default name: %s", s)
	}
	if vars.Default() != vars.Default() {
		t.Errorf("default variable is not memoized")
	}
	if s := vars.Membership().String(); s != "I_Membership_Test_Item" {
		t.Errorf("unexpected membership name: %s", s)
	}
}

func TestQuantifyBuilder0(t *testing.T) {
	e, err := Quantify(ir.QuantifierAll, Self(), Bool(true), nil).Seal()
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	q, ok := e.(*ExprQuantifier)
	if !ok || q.kind != ir.QuantifierAll {
		t.Errorf("unexpected expression: %s", e)
	}
	if _, err := Quantify(ir.QuantifierAny, nil, Bool(true), nil).Seal(); err == nil {
		t.Errorf("expected an error for a missing collection")
	}
	if s := Self().String(); s != "<unsealed>" {
		t.Errorf("unexpected builder string: %s", s)
	}
	var nilBuilder *Builder
	if nilBuilder.Err() == nil {
		t.Errorf("a nil builder should carry an error")
	}
}
