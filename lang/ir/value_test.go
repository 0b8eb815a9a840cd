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
	"testing"

	"github.com/purpleidea/propgen/lang/names"
	"github.com/purpleidea/propgen/lang/types"
)

type valueFixture struct {
	c     *types.Catalogue
	longs *types.Type // []integer
	vars  *LocalVars
	item  *ExprVar
}

func newValueFixture() *valueFixture {
	c := types.NewCatalogue()
	return &valueFixture{
		c:     c,
		longs: mustArray(c, types.TypeLong),
		vars:  NewLocalVars(),
		item:  &ExprVar{Name: names.FromLower("item"), T: types.TypeLong},
	}
}

func (obj *valueFixture) list(xs ...int64) *types.ListValue {
	l := types.NewList(obj.longs)
	for _, x := range xs {
		if err := l.Add(&types.LongValue{V: x}); err != nil {
			panic(err)
		}
	}
	return l
}

func (obj *valueFixture) tmp(name string, typ *types.Type) *LocalVar {
	v, err := obj.vars.New(names.FromLower(name), typ, false)
	if err != nil {
		panic(err)
	}
	return v
}

func (obj *valueFixture) quantifier(kind QuantifierKind, coll Expr, body Expr) *ExprQuantifier {
	return &ExprQuantifier{
		Kind:       kind,
		Collection: coll,
		Induction:  obj.item,
		Body:       body,
		Var:        obj.tmp("result", types.TypeBool),
	}
}

func TestMapIdentity0(t *testing.T) {
	f := newValueFixture()
	input := f.list(1, 2, 3)
	m := &ExprMap{
		Collection: &ExprLiteral{V: input},
		Induction:  f.item,
		Body:       f.item,
		Var:        f.tmp("map", f.longs),
	}
	v, err := m.Value(NewEnv(nil))
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if err := v.Cmp(input); err != nil {
		t.Errorf("identity map changed the input: %s: %+v", v, err)
	}
}

func TestMapFilter0(t *testing.T) {
	f := newValueFixture()
	one := &ExprLiteral{V: &types.LongValue{V: 1}}
	m := &ExprMap{
		Collection: &ExprLiteral{V: f.list(1, 2, 1, 3)},
		Induction:  f.item,
		Body:       f.item,
		Filter:     &ExprNot{Expr: &ExprEq{Left: f.item, Right: one}},
		Var:        f.tmp("map", f.longs),
	}
	v, err := m.Value(NewEnv(nil))
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if err := v.Cmp(f.list(2, 3)); err != nil {
		t.Errorf("unexpected filter result: %s", v)
	}
}

func TestMapcat0(t *testing.T) {
	f := newValueFixture()
	input := &ExprLiteral{V: f.list(4, 5, 6)}
	nested := mustArray(f.c, f.longs)
	inner := &ExprVar{Name: names.FromLower("x"), T: types.TypeLong}

	// the body produces [x] for each input element
	singleton := &ExprMap{
		Collection: &ExprLiteral{V: f.list(0)},
		Induction:  &ExprVar{Name: names.FromLower("unused"), T: types.TypeLong},
		Body:       inner,
		Var:        f.tmp("map", f.longs),
	}
	mapcat := &ExprMap{
		Collection: input,
		Induction:  inner,
		Body:       singleton,
		Concat:     true,
		Var:        f.tmp("map", f.longs),
	}
	mapped := &ExprMap{
		Collection: input,
		Induction:  inner,
		Body:       singleton,
		Var:        f.tmp("map", nested),
	}

	got, err := mapcat.Value(NewEnv(nil))
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	m, err := mapped.Value(NewEnv(nil))
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	flat := types.NewList(f.longs)
	for _, x := range m.List() {
		for _, y := range x.List() {
			if err := flat.Add(y); err != nil {
				t.Fatalf("unexpected error: %+v", err)
			}
		}
	}
	if err := got.Cmp(flat); err != nil {
		t.Errorf("mapcat %s is not map %s flattened: %+v", got, m, err)
	}
	if err := got.Cmp(f.list(4, 5, 6)); err != nil {
		t.Errorf("unexpected mapcat result: %s", got)
	}
}

func TestQuantifierEmpty0(t *testing.T) {
	f := newValueFixture()
	empty := &ExprLiteral{V: f.list()}
	never := &ExprLiteral{V: &types.BoolValue{V: false}}

	v, err := f.quantifier(QuantifierAny, empty, never).Value(NewEnv(nil))
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if v.Bool() {
		t.Errorf("any over an empty collection should be false")
	}

	v, err = f.quantifier(QuantifierAll, empty, never).Value(NewEnv(nil))
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if !v.Bool() {
		t.Errorf("all over an empty collection should be true")
	}
}

func TestContainsIsAnyEq0(t *testing.T) {
	f := newValueFixture()
	membership := &ExprVar{Name: names.FromLower("i_membership_test_item"), T: types.TypeLong}

	inputs := [][]int64{{}, {1}, {1, 2, 3}, {3, 3}, {7, 8}}
	items := []int64{1, 3, 9}
	for _, in := range inputs {
		for _, item := range items {
			coll := &ExprLiteral{V: f.list(in...)}
			lit := &ExprLiteral{V: &types.LongValue{V: item}}

			contains := &ExprQuantifier{
				Kind:       QuantifierAny,
				Collection: coll,
				Induction:  membership,
				Body:       &ExprEq{Left: membership, Right: lit},
				Var:        f.tmp("result", types.TypeBool),
			}
			v, err := contains.Value(NewEnv(nil))
			if err != nil {
				t.Fatalf("unexpected error: %+v", err)
			}
			expect := false
			for _, x := range in {
				if x == item {
					expect = true
				}
			}
			if v.Bool() != expect {
				t.Errorf("contains(%v, %d) = %t", in, item, v.Bool())
			}
		}
	}
}

func TestEnvShadowing0(t *testing.T) {
	x := names.FromLower("x")
	env := NewEnv(nil).With(x, &types.LongValue{V: 1})
	inner := env.With(x, &types.LongValue{V: 2})
	if v, _ := inner.Lookup(x); v.Long() != 2 {
		t.Errorf("inner binding is not visible")
	}
	if v, _ := env.Lookup(x); v.Long() != 1 {
		t.Errorf("outer binding was changed")
	}
	if _, err := (&ExprVar{Name: names.FromLower("y"), T: types.TypeLong}).Value(env); err == nil {
		t.Errorf("expected an error for an unknown variable")
	}
}

func TestIfValue0(t *testing.T) {
	c := types.NewCatalogue()
	root, _ := c.NewNode("FooNode", nil, true)
	lit, _ := c.NewNode("Literal", root, false)
	field, _ := c.AddField(root, "parent_ref", root)

	node := &types.NodeValue{T: lit, V: map[string]types.Value{"parent_ref": types.NewNull(root)}}
	self := &ExprVar{Name: names.FromLower("self"), T: lit}
	parent := &ExprFieldAccess{Receiver: self, Field: field}
	vars := NewLocalVars()
	result, _ := vars.New(names.FromLower("result"), types.TypeBool, false)

	// if self.parent_ref is a literal then false else self is a literal
	e := &ExprIf{
		Cond: &ExprIsA{Expr: parent, Target: lit},
		Then: &ExprLiteral{V: &types.BoolValue{V: false}},
		Else: &ExprIsA{Expr: self, Target: lit},
		Var:  result,
	}
	v, err := e.Value(NewEnv(node))
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if !v.Bool() {
		t.Errorf("expected true")
	}

	// a field of a null node can't be read
	deref := &ExprFieldAccess{Receiver: parent, Field: field}
	if _, err := deref.Value(NewEnv(node)); err == nil {
		t.Errorf("expected an error for a null dereference")
	}
}

func mustArray(c *types.Catalogue, elem *types.Type) *types.Type {
	typ, err := c.ArrayOf(elem)
	if err != nil {
		panic(err)
	}
	return typ
}
