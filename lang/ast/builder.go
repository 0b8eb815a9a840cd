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
	"github.com/purpleidea/propgen/util/errwrap"
)

// Builder accumulates an expression tree. Every sugar method returns a new
// builder which owns its operands. Once Seal is called, the builder and all of
// the builders it owns are frozen: further sugar on any of them, or using one
// as an operand, gives a builder which carries ErrIllegalMutation. Errors are sticky, they are reported by Err
// and by Seal on the builder and every builder derived from it.
type Builder struct {
	err     error
	sealed  bool
	sealing bool // true while the children are sealed, to detect cycles
	expr    Expr // the result of Seal

	children []*Builder // nil entries are allowed for optional operands
	build    func(children []Expr) (Expr, error)

	// only used by struct literals
	target *types.Type
	fields []string // in the same order as children
}

// leaf returns a builder for an expression without operands.
func leaf(expr Expr) *Builder {
	return &Builder{
		build: func([]Expr) (Expr, error) { return expr, nil },
	}
}

// failed returns a builder which carries an error.
func failed(err error) *Builder {
	return &Builder{err: err}
}

// Err returns the error that this builder carries, if any.
func (obj *Builder) Err() error {
	if obj == nil {
		return fmt.Errorf("nil expression")
	}
	return obj.err
}

// Sealed returns true if Seal was successfully called on this builder, or on a
// builder which owns it.
func (obj *Builder) Sealed() bool { return obj != nil && obj.sealed }

// String returns a short representation of this builder.
func (obj *Builder) String() string {
	switch {
	case obj == nil:
		return "<nil>"
	case obj.err != nil:
		return fmt.Sprintf("<error: %s>", obj.err)
	case obj.sealed:
		return obj.expr.String()
	}
	return "<unsealed>"
}

// check returns an error if this builder can't be extended.
func (obj *Builder) check() error {
	if obj == nil {
		return fmt.Errorf("nil expression")
	}
	if obj.err != nil {
		return obj.err
	}
	if obj.sealed {
		return errwrap.Wrapf(interfaces.ErrIllegalMutation, "cannot extend %s", obj.expr)
	}
	return nil
}

// derive returns a new builder which owns this one and the operands. Nil
// operands are kept as missing optional operands. A sealed operand already
// belongs to another tree, so it is rejected in every position.
func (obj *Builder) derive(build func([]Expr) (Expr, error), operands ...*Builder) *Builder {
	if err := obj.check(); err != nil {
		return failed(err)
	}
	for _, x := range operands {
		if x == nil {
			continue
		}
		if err := x.check(); err != nil {
			return failed(err)
		}
	}
	return &Builder{
		children: append([]*Builder{obj}, operands...),
		build:    build,
	}
}

// Seal freezes this builder and every builder it owns, and returns the
// immutable tree. Calling it again returns the same tree.
func (obj *Builder) Seal() (Expr, error) {
	if obj == nil {
		return nil, fmt.Errorf("nil expression")
	}
	if obj.err != nil {
		return nil, obj.err
	}
	if obj.sealed {
		return obj.expr, nil
	}
	if obj.sealing {
		return nil, fmt.Errorf("expression contains itself")
	}
	obj.sealing = true
	defer func() { obj.sealing = false }()

	exprs := []Expr{}
	for _, x := range obj.children {
		if x == nil {
			exprs = append(exprs, nil)
			continue
		}
		expr, err := x.Seal()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	expr, err := obj.build(exprs)
	if err != nil {
		return nil, err
	}
	obj.expr = expr
	obj.sealed = true
	return expr, nil
}

// Self returns the receiver placeholder.
func Self() *Builder {
	return leaf(&ExprPlaceHolder{name: names.FromLower("self")})
}

// Var returns the anonymous induction variable, which is the element of the
// innermost enclosing collection expression.
func Var() *Builder {
	return leaf(&ExprDefaultVar{})
}

// Bool returns a boolean constant.
func Bool(b bool) *Builder {
	return leaf(&ExprLiteral{value: &types.BoolValue{V: b}})
}

// Long returns an integer constant.
func Long(i int64) *Builder {
	return leaf(&ExprLiteral{value: &types.LongValue{V: i}})
}

// If returns the then value if the condition is true, and the else value
// otherwise.
func If(cond, then, els *Builder) *Builder {
	return cond.derive(func(x []Expr) (Expr, error) {
		return &ExprIf{cond: x[0], then: x[1], els: x[2]}, nil
	}, nonNil(then), nonNil(els))
}

// Not negates a boolean expression.
func Not(expr *Builder) *Builder {
	return expr.derive(func(x []Expr) (Expr, error) {
		return &ExprNot{expr: x[0]}, nil
	})
}

// Eq compares two expressions.
func Eq(left, right *Builder) *Builder {
	return left.derive(func(x []Expr) (Expr, error) {
		return &ExprEq{left: x[0], right: x[1]}, nil
	}, nonNil(right))
}

// New returns a struct literal of the given type. The fields are added with
// Set before the builder is sealed.
func New(target *types.Type) *Builder {
	if target == nil {
		return failed(fmt.Errorf("struct literal without type"))
	}
	obj := &Builder{
		target: target,
		fields: []string{},
	}
	obj.build = func(x []Expr) (Expr, error) {
		e := &ExprNew{target: obj.target}
		for i, name := range obj.fields {
			e.fields = append(e.fields, &newField{name: name, value: x[i]})
		}
		return e, nil
	}
	return obj
}

// Quantify tests a predicate on the elements of a collection. A nil variable
// stands for the default one.
func Quantify(kind ir.QuantifierKind, collection, predicate *Builder, v *InductionVar) *Builder {
	return collection.derive(func(x []Expr) (Expr, error) {
		return &ExprQuantifier{kind: kind, collection: x[0], predicate: x[1], induction: v}, nil
	}, nonNil(predicate))
}

// nonNil turns a missing mandatory operand into an error builder.
func nonNil(b *Builder) *Builder {
	if b == nil {
		return failed(fmt.Errorf("missing operand"))
	}
	return b
}

// Set adds a field to a struct literal, or replaces its value. It returns the
// same builder, so that calls can be chained.
func (obj *Builder) Set(name string, value *Builder) *Builder {
	if err := obj.check(); err != nil {
		return failed(err)
	}
	if obj.target == nil {
		return failed(fmt.Errorf("fields can only be set on a struct literal"))
	}
	if name == "" {
		return failed(fmt.Errorf("empty field name in a literal of %s", obj.target))
	}
	if err := nonNil(value).check(); err != nil {
		obj.err = err
		return obj
	}
	key := names.FromLower(name).Lower()
	for i, x := range obj.fields {
		if names.FromLower(x).Lower() == key {
			obj.children[i] = value
			return obj
		}
	}
	obj.fields = append(obj.fields, name)
	obj.children = append(obj.children, value)
	return obj
}

// Field accesses a field or a property of this expression.
func (obj *Builder) Field(name string) *Builder {
	if name == "" {
		return failed(fmt.Errorf("empty field name"))
	}
	return obj.derive(func(x []Expr) (Expr, error) {
		return &ExprFieldAccess{receiver: x[0], name: name}, nil
	})
}

// Call calls this expression with arguments.
func (obj *Builder) Call(args ...*Builder) *Builder {
	operands := []*Builder{}
	for _, x := range args {
		operands = append(operands, nonNil(x))
	}
	return obj.derive(func(x []Expr) (Expr, error) {
		return &ExprCall{receiver: x[0], args: x[1:]}, nil
	}, operands...)
}

// And is true if both this expression and the other one are true. The other
// one is only evaluated if this one is true.
func (obj *Builder) And(other *Builder) *Builder {
	return obj.binaryBool(BoolAnd, other)
}

// Or is true if this expression or the other one is true. The other one is
// only evaluated if this one is false.
func (obj *Builder) Or(other *Builder) *Builder {
	return obj.binaryBool(BoolOr, other)
}

func (obj *Builder) binaryBool(op BoolOp, other *Builder) *Builder {
	return obj.derive(func(x []Expr) (Expr, error) {
		return &ExprBinaryBool{op: op, left: x[0], right: x[1]}, nil
	}, nonNil(other))
}

// Cast converts this node expression to another node type.
func (obj *Builder) Cast(target *types.Type) *Builder {
	if target == nil {
		return failed(fmt.Errorf("cast without a target type"))
	}
	return obj.derive(func(x []Expr) (Expr, error) {
		return &ExprCast{expr: x[0], target: target}, nil
	})
}

// IsA tests if this node expression has the target type.
func (obj *Builder) IsA(target *types.Type) *Builder {
	if target == nil {
		return failed(fmt.Errorf("is_a without a target type"))
	}
	return obj.derive(func(x []Expr) (Expr, error) {
		return &ExprIsA{expr: x[0], target: target}, nil
	})
}

// IsNull tests if this node expression is null.
func (obj *Builder) IsNull() *Builder {
	return obj.derive(func(x []Expr) (Expr, error) {
		return &ExprIsNull{expr: x[0]}, nil
	})
}

// Equals compares this expression to the other one.
func (obj *Builder) Equals(other *Builder) *Builder {
	return Eq(obj, other)
}

// Contains tests if the item is an element of this collection.
func (obj *Builder) Contains(item *Builder) *Builder {
	return obj.derive(func(x []Expr) (Expr, error) {
		return &ExprContains{collection: x[0], item: x[1]}, nil
	}, nonNil(item))
}

// Map evaluates the body for each element of this collection that passes the
// filter. The filter and the variable are optional.
func (obj *Builder) Map(body, filter *Builder, v *InductionVar) *Builder {
	return obj.mapper(body, filter, v, false)
}

// Mapcat is like Map, but the body returns collections which are concatenated.
func (obj *Builder) Mapcat(body, filter *Builder, v *InductionVar) *Builder {
	return obj.mapper(body, filter, v, true)
}

func (obj *Builder) mapper(body, filter *Builder, v *InductionVar, concat bool) *Builder {
	return obj.derive(func(x []Expr) (Expr, error) {
		return &ExprMap{collection: x[0], body: x[1], filter: x[2], induction: v, concat: concat}, nil
	}, nonNil(body), filter)
}

// Filter keeps the elements of this collection which satisfy the predicate.
func (obj *Builder) Filter(predicate *Builder, v *InductionVar) *Builder {
	body := Var()
	if v != nil {
		body = v.Ref()
	}
	return obj.Map(body, nonNil(predicate), v)
}

// All is true if every element of this collection satisfies the predicate.
func (obj *Builder) All(predicate *Builder, v *InductionVar) *Builder {
	return Quantify(ir.QuantifierAll, obj, predicate, v)
}

// Any is true if some element of this collection satisfies the predicate.
func (obj *Builder) Any(predicate *Builder, v *InductionVar) *Builder {
	return Quantify(ir.QuantifierAny, obj, predicate, v)
}
