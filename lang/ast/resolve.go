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

package ast

import (
	"fmt"

	"github.com/purpleidea/propgen/lang/interfaces"
	"github.com/purpleidea/propgen/lang/ir"
	"github.com/purpleidea/propgen/lang/names"
	"github.com/purpleidea/propgen/lang/types"
	"github.com/purpleidea/propgen/util"
	"github.com/purpleidea/propgen/util/errwrap"
)

// Names of the temporaries that the resolver allocates.
const (
	resultVarName = "result"
	mapVarName    = "map"
)

// Resolve type checks an expression and turns it into a resolved expression.
// The receiver must be bound if the expression uses it, and a property must be
// bound if the expression needs temporaries.
func (obj *Context) Resolve(expr Expr) (ir.Expr, error) {
	if expr == nil {
		return nil, fmt.Errorf("nil expression")
	}
	if obj.Debug {
		obj.logf("resolve: %s", expr)
	}

	switch x := expr.(type) {
	case *ExprFieldAccess:
		return obj.resolveFieldAccess(x)
	case *ExprCall:
		return nil, errwrap.Wrapf(interfaces.ErrNotImplemented, "can't resolve call %s", x)
	case *ExprBinaryBool:
		return obj.resolveBinaryBool(x)
	case *ExprCast:
		return obj.resolveCast(x)
	case *ExprContains:
		return obj.resolveContains(x)
	case *ExprEq:
		return obj.resolveEq(x)
	case *ExprIf:
		return obj.resolveIf(x)
	case *ExprIsA:
		return obj.resolveIsA(x)
	case *ExprIsNull:
		return obj.resolveIsNull(x)
	case *ExprMap:
		return obj.resolveMap(x)
	case *ExprNew:
		return obj.resolveNew(x)
	case *ExprNot:
		return obj.resolveNot(x)
	case *ExprQuantifier:
		return obj.resolveQuantifier(x)
	case *ExprPlaceHolder:
		if obj.self == nil {
			return nil, errwrap.Wrapf(interfaces.ErrNotBound, "%s is used outside of a property", x)
		}
		return &ir.ExprVar{Name: x.name, T: obj.self}, nil
	case *InductionVar:
		b, exists := obj.lookup(x)
		if !exists {
			return nil, errwrap.Wrapf(interfaces.ErrReentrantBinding, "induction variable %s is not bound", x)
		}
		return &ir.ExprVar{Name: x.name, T: b.typ}, nil
	case *ExprDefaultVar:
		b, exists := obj.lookup(nil)
		if !exists {
			return nil, errwrap.Wrapf(interfaces.ErrReentrantBinding, "%s is used outside of a collection expression", x)
		}
		return &ir.ExprVar{Name: b.v.name, T: b.typ}, nil
	case *ExprLiteral:
		return &ir.ExprLiteral{V: x.value}, nil
	}

	return nil, fmt.Errorf("unhandled expression %T", expr)
}

// resolveBool resolves an expression which must be boolean. The what argument
// names the role of the expression for the error message.
func (obj *Context) resolveBool(expr Expr, what string) (ir.Expr, error) {
	e, err := obj.Resolve(expr)
	if err != nil {
		return nil, err
	}
	if err := e.Type().Cmp(types.TypeBool); err != nil {
		return nil, errwrap.Wrapf(interfaces.ErrTypeMismatch, "%s must be %s, got %s", what, types.TypeBool, e.Type())
	}
	return e, nil
}

// resolveNode resolves an expression which must have a node type.
func (obj *Context) resolveNode(expr Expr, what string) (ir.Expr, error) {
	e, err := obj.Resolve(expr)
	if err != nil {
		return nil, err
	}
	if !e.Type().IsNode() {
		return nil, errwrap.Wrapf(interfaces.ErrTypeMismatch, "%s must be a node, got %s", what, e.Type())
	}
	return e, nil
}

// resolveCollection resolves the collection of a collection expression, and
// returns it with its element type.
func (obj *Context) resolveCollection(expr Expr) (ir.Expr, *types.Type, error) {
	e, err := obj.Resolve(expr)
	if err != nil {
		return nil, nil, err
	}
	if !e.Type().IsCollection() {
		return nil, nil, errwrap.Wrapf(interfaces.ErrInvalidCollection, "%s has type %s", expr, e.Type())
	}
	return e, e.Type().ElementType(), nil
}

func (obj *Context) resolveFieldAccess(x *ExprFieldAccess) (ir.Expr, error) {
	recv, err := obj.Resolve(x.receiver)
	if err != nil {
		return nil, err
	}
	typ := recv.Type()
	f, exists := typ.LookupField(x.name)
	if !exists {
		return nil, errwrap.Wrapf(interfaces.ErrUnresolvedField, "type %s has no field named %s", typ, x.name)
	}
	if f.Type == nil {
		return nil, errwrap.Wrapf(interfaces.ErrTypeCurrentlyUnknown, "property %s of %s", x.name, f.Owner)
	}
	return &ir.ExprFieldAccess{Receiver: recv, Field: f}, nil
}

// resolveBinaryBool turns "l and r" into "if l then r else false", and "l or
// r" into "if l then true else r", so that the right side is only evaluated
// when it is needed.
func (obj *Context) resolveBinaryBool(x *ExprBinaryBool) (ir.Expr, error) {
	left, err := obj.resolveBool(x.left, fmt.Sprintf("left operand of %s", x.op))
	if err != nil {
		return nil, err
	}
	right, err := obj.resolveBool(x.right, fmt.Sprintf("right operand of %s", x.op))
	if err != nil {
		return nil, err
	}
	v, err := obj.newVar(resultVarName, types.TypeBool)
	if err != nil {
		return nil, err
	}
	if x.op == BoolAnd {
		return &ir.ExprIf{
			Cond: left,
			Then: right,
			Else: &ir.ExprLiteral{V: &types.BoolValue{V: false}},
			Var:  v,
		}, nil
	}
	return &ir.ExprIf{
		Cond: left,
		Then: &ir.ExprLiteral{V: &types.BoolValue{V: true}},
		Else: right,
		Var:  v,
	}, nil
}

func (obj *Context) resolveCast(x *ExprCast) (ir.Expr, error) {
	e, err := obj.resolveNode(x.expr, "operand of cast")
	if err != nil {
		return nil, err
	}
	if !x.target.IsNode() {
		return nil, errwrap.Wrapf(interfaces.ErrTypeMismatch, "can't cast to %s, which is not a node", x.target)
	}
	return &ir.ExprCast{Expr: e, T: x.target}, nil
}

func (obj *Context) resolveIsA(x *ExprIsA) (ir.Expr, error) {
	e, err := obj.resolveNode(x.expr, "operand of is_a")
	if err != nil {
		return nil, err
	}
	if !x.target.IsNode() {
		return nil, errwrap.Wrapf(interfaces.ErrTypeMismatch, "is_a target %s is not a node", x.target)
	}
	return &ir.ExprIsA{Expr: e, Target: x.target}, nil
}

func (obj *Context) resolveIsNull(x *ExprIsNull) (ir.Expr, error) {
	e, err := obj.resolveNode(x.expr, "operand of is_null")
	if err != nil {
		return nil, err
	}
	return eq(e, &ir.ExprLiteral{V: types.NewNull(e.Type())})
}

func (obj *Context) resolveEq(x *ExprEq) (ir.Expr, error) {
	left, err := obj.Resolve(x.left)
	if err != nil {
		return nil, err
	}
	right, err := obj.Resolve(x.right)
	if err != nil {
		return nil, err
	}
	return eq(left, right)
}

// eq builds an equality test. Nodes can be compared if one type derives from
// the other, and the narrower side is cast to the wider type. Other types must
// match exactly.
func eq(left, right ir.Expr) (ir.Expr, error) {
	lt, rt := left.Type(), right.Type()
	if lt.IsNode() != rt.IsNode() {
		return nil, errwrap.Wrapf(interfaces.ErrTypeMismatch, "can't compare %s with %s", lt, rt)
	}
	if !lt.IsNode() {
		if err := lt.Cmp(rt); err != nil {
			return nil, errwrap.Wrapf(interfaces.ErrTypeMismatch, "can't compare %s with %s", lt, rt)
		}
		return &ir.ExprEq{Left: left, Right: right}, nil
	}

	switch {
	case lt.Cmp(rt) == nil:
		// same type, nothing to do
	case lt.IsSubclassOf(rt):
		left = &ir.ExprCast{Expr: left, T: rt}
	case rt.IsSubclassOf(lt):
		right = &ir.ExprCast{Expr: right, T: lt}
	default:
		return nil, errwrap.Wrapf(interfaces.ErrTypeMismatch, "%s and %s values are never equal", lt, rt)
	}
	return &ir.ExprEq{Left: left, Right: right}, nil
}

func (obj *Context) resolveIf(x *ExprIf) (ir.Expr, error) {
	cond, err := obj.resolveBool(x.cond, "condition of if")
	if err != nil {
		return nil, err
	}
	then, err := obj.Resolve(x.then)
	if err != nil {
		return nil, err
	}
	els, err := obj.Resolve(x.els)
	if err != nil {
		return nil, err
	}

	tt, et := then.Type(), els.Type()
	typ := tt
	if tt.IsNode() && et.IsNode() {
		typ = types.CommonAncestor(tt, et)
		if typ == nil {
			return nil, errwrap.Wrapf(interfaces.ErrTypeMismatch, "branches of if have no common type (%s and %s)", tt, et)
		}
		if tt.Cmp(typ) != nil {
			then = &ir.ExprCast{Expr: then, T: typ}
		}
		if et.Cmp(typ) != nil {
			els = &ir.ExprCast{Expr: els, T: typ}
		}
	} else if err := tt.Cmp(et); err != nil {
		return nil, errwrap.Wrapf(interfaces.ErrTypeMismatch, "branches of if have different types (%s and %s)", tt, et)
	}

	v, err := obj.newVar(resultVarName, typ)
	if err != nil {
		return nil, err
	}
	return &ir.ExprIf{Cond: cond, Then: then, Else: els, Var: v}, nil
}

func (obj *Context) resolveNot(x *ExprNot) (ir.Expr, error) {
	e, err := obj.resolveBool(x.expr, "operand of not")
	if err != nil {
		return nil, err
	}
	return &ir.ExprNot{Expr: e}, nil
}

func (obj *Context) resolveMap(x *ExprMap) (ir.Expr, error) {
	coll, elem, err := obj.resolveCollection(x.collection)
	if err != nil {
		return nil, err
	}
	v := x.induction
	if v == nil {
		v = Vars.Default()
	}

	var body, filter ir.Expr
	if err := obj.withInductionVar(v, elem, func() error {
		var err error
		if body, err = obj.Resolve(x.body); err != nil {
			return err
		}
		if x.filter == nil {
			return nil
		}
		filter, err = obj.resolveBool(x.filter, "filter")
		return err
	}); err != nil {
		return nil, err
	}

	result := body.Type()
	if x.concat {
		if !result.IsCollection() {
			return nil, errwrap.Wrapf(interfaces.ErrTypeMismatch, "body of mapcat must be a collection, got %s", result)
		}
		result = result.ElementType()
	}
	typ, err := obj.Catalogue.ArrayOf(result)
	if err != nil {
		return nil, errwrap.Wrapf(err, "can't build the result type of %s", x)
	}

	tmp, err := obj.newVar(mapVarName, typ)
	if err != nil {
		return nil, err
	}
	return &ir.ExprMap{
		Collection: coll,
		Induction:  &ir.ExprVar{Name: v.name, T: elem},
		Body:       body,
		Filter:     filter,
		Concat:     x.concat,
		Var:        tmp,
	}, nil
}

func (obj *Context) resolveQuantifier(x *ExprQuantifier) (ir.Expr, error) {
	coll, elem, err := obj.resolveCollection(x.collection)
	if err != nil {
		return nil, err
	}
	v := x.induction
	if v == nil {
		v = Vars.Default()
	}

	var predicate ir.Expr
	if err := obj.withInductionVar(v, elem, func() error {
		var err error
		predicate, err = obj.resolveBool(x.predicate, fmt.Sprintf("predicate of %s", x.kind))
		return err
	}); err != nil {
		return nil, err
	}

	tmp, err := obj.newVar(resultVarName, types.TypeBool)
	if err != nil {
		return nil, err
	}
	return &ir.ExprQuantifier{
		Kind:       x.kind,
		Collection: coll,
		Induction:  &ir.ExprVar{Name: v.name, T: elem},
		Body:       predicate,
		Var:        tmp,
	}, nil
}

// resolveContains resolves "c.contains(item)" as "c.any(x -> x == item)". The
// item is resolved outside of the loop.
func (obj *Context) resolveContains(x *ExprContains) (ir.Expr, error) {
	item, err := obj.Resolve(x.item)
	if err != nil {
		return nil, err
	}
	coll, elem, err := obj.resolveCollection(x.collection)
	if err != nil {
		return nil, err
	}
	v := Vars.Membership()
	induction := &ir.ExprVar{Name: v.name, T: elem}

	var predicate ir.Expr
	if err := obj.withInductionVar(v, elem, func() error {
		var err error
		predicate, err = eq(induction, item)
		return err
	}); err != nil {
		return nil, errwrap.Wrapf(err, "can't test if %s contains %s", x.collection, x.item)
	}

	tmp, err := obj.newVar(resultVarName, types.TypeBool)
	if err != nil {
		return nil, err
	}
	return &ir.ExprQuantifier{
		Kind:       ir.QuantifierAny,
		Collection: coll,
		Induction:  induction,
		Body:       predicate,
		Var:        tmp,
	}, nil
}

// resolveNew checks a struct literal against the declared fields. The missing,
// unknown and repeated fields are reported together, and then every field type
// is checked.
func (obj *Context) resolveNew(x *ExprNew) (ir.Expr, error) {
	if !x.target.IsStruct() {
		return nil, errwrap.Wrapf(interfaces.ErrTypeMismatch, "%s is not a struct type", x.target)
	}

	fields := []*ir.NewField{}
	for _, f := range x.fields {
		e, err := obj.Resolve(f.value)
		if err != nil {
			return nil, errwrap.Wrapf(err, "field %s of %s", f.name, x.target)
		}
		fields = append(fields, &ir.NewField{Name: names.FromLower(f.name), Value: e})
	}

	declared := []string{}
	for _, f := range x.target.AllFields() {
		declared = append(declared, f.Name.Lower())
	}
	supplied := []string{}
	duplicate := []string{}
	for _, f := range fields {
		name := f.Name.Lower()
		if util.StrInList(name, supplied) {
			if !util.StrInList(name, duplicate) {
				duplicate = append(duplicate, name)
			}
			continue
		}
		supplied = append(supplied, name)
	}
	missing := util.StrSetDifference(declared, supplied)
	unknown := util.StrSetDifference(supplied, declared)
	if len(missing) > 0 || len(unknown) > 0 || len(duplicate) > 0 {
		return nil, &interfaces.StructFieldSetError{
			Struct:    x.target.String(),
			Missing:   missing,
			Unknown:   unknown,
			Duplicate: duplicate,
		}
	}

	var reterr error
	decl := x.target.FieldsDict()
	for _, f := range fields {
		expect := decl[f.Name.Lower()].Type
		if !f.Value.Type().IsSubclassOf(expect) {
			err := errwrap.Wrapf(interfaces.ErrTypeMismatch, "field %s of %s must be %s, got %s", f.Name.Lower(), x.target, expect, f.Value.Type())
			reterr = errwrap.Append(reterr, err)
		}
	}
	if reterr != nil {
		return nil, reterr
	}

	return &ir.ExprNew{T: x.target, Fields: fields}, nil
}
