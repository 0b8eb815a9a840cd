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

// Package ast contains the unresolved expression tree of the property language.
// Trees are built with a mutable Builder, sealed into immutable Expr values,
// and then resolved against a type catalogue into the typed ir package tree.
package ast

import (
	"fmt"
	"sort"
	"strings"

	"github.com/purpleidea/propgen/lang/ir"
	"github.com/purpleidea/propgen/lang/names"
	"github.com/purpleidea/propgen/lang/types"
)

// Expr is a sealed, unresolved expression. The set of implementations is
// closed: they all live in this package, and Context.Resolve handles each one.
// None of them have mutators, so a sealed tree can be shared freely.
type Expr interface {
	fmt.Stringer

	// Apply is a general purpose iterator method that operates on any node
	// of the tree. Children are visited before their parent.
	Apply(fn func(Expr) error) error

	isExpr()
}

// FieldNames returns the sorted names of the fields and properties that this
// expression accesses anywhere in its tree.
func FieldNames(expr Expr) []string {
	result := []string{}
	_ = expr.Apply(func(x Expr) error {
		f, ok := x.(*ExprFieldAccess)
		if !ok {
			return nil
		}
		for _, name := range result {
			if name == f.name {
				return nil
			}
		}
		result = append(result, f.name)
		return nil
	})
	sort.Strings(result)
	return result
}

// apply runs Apply on each non nil child, and then fn on the node itself.
func apply(self Expr, fn func(Expr) error, children ...Expr) error {
	for _, x := range children {
		if x == nil {
			continue
		}
		if err := x.Apply(fn); err != nil {
			return err
		}
	}
	return fn(self)
}

// BoolOp is the operator of a binary boolean expression.
type BoolOp int

const (
	// BoolAnd is the short circuit conjunction.
	BoolAnd BoolOp = iota
	// BoolOr is the short circuit disjunction.
	BoolOr
)

// String returns the name of the operator.
func (obj BoolOp) String() string {
	if obj == BoolAnd {
		return "and"
	}
	return "or"
}

// ExprFieldAccess reads a field or a property of the receiver. The name is only
// checked during resolution.
type ExprFieldAccess struct {
	receiver Expr
	name     string
}

func (obj *ExprFieldAccess) isExpr() {}

// Name returns the name of the accessed field.
func (obj *ExprFieldAccess) Name() string { return obj.name }

// String returns a short representation of this expression.
func (obj *ExprFieldAccess) String() string {
	return fmt.Sprintf("%s.%s", obj.receiver, obj.name)
}

// Apply is a general purpose iterator method that operates on any AST node.
func (obj *ExprFieldAccess) Apply(fn func(Expr) error) error {
	return apply(obj, fn, obj.receiver)
}

// ExprCall is a call on the receiver. It can be built, but not resolved yet.
type ExprCall struct {
	receiver Expr
	args     []Expr
}

func (obj *ExprCall) isExpr() {}

// String returns a short representation of this expression.
func (obj *ExprCall) String() string {
	return fmt.Sprintf("%s(%s)", obj.receiver, join(obj.args))
}

// Apply is a general purpose iterator method that operates on any AST node.
func (obj *ExprCall) Apply(fn func(Expr) error) error {
	return apply(obj, fn, append([]Expr{obj.receiver}, obj.args...)...)
}

// ExprBinaryBool is a short circuit boolean operation. It resolves into an if
// expression.
type ExprBinaryBool struct {
	op    BoolOp
	left  Expr
	right Expr
}

func (obj *ExprBinaryBool) isExpr() {}

// String returns a short representation of this expression.
func (obj *ExprBinaryBool) String() string {
	return fmt.Sprintf("(%s %s %s)", obj.left, obj.op, obj.right)
}

// Apply is a general purpose iterator method that operates on any AST node.
func (obj *ExprBinaryBool) Apply(fn func(Expr) error) error {
	return apply(obj, fn, obj.left, obj.right)
}

// ExprCast converts a node to another node type.
type ExprCast struct {
	expr   Expr
	target *types.Type
}

func (obj *ExprCast) isExpr() {}

// String returns a short representation of this expression.
func (obj *ExprCast) String() string {
	return fmt.Sprintf("%s.cast(%s)", obj.expr, obj.target)
}

// Apply is a general purpose iterator method that operates on any AST node.
func (obj *ExprCast) Apply(fn func(Expr) error) error {
	return apply(obj, fn, obj.expr)
}

// ExprContains tests if an item is an element of a collection.
type ExprContains struct {
	collection Expr
	item       Expr
}

func (obj *ExprContains) isExpr() {}

// String returns a short representation of this expression.
func (obj *ExprContains) String() string {
	return fmt.Sprintf("%s.contains(%s)", obj.collection, obj.item)
}

// Apply is a general purpose iterator method that operates on any AST node.
func (obj *ExprContains) Apply(fn func(Expr) error) error {
	return apply(obj, fn, obj.collection, obj.item)
}

// ExprEq compares two values.
type ExprEq struct {
	left  Expr
	right Expr
}

func (obj *ExprEq) isExpr() {}

// String returns a short representation of this expression.
func (obj *ExprEq) String() string {
	return fmt.Sprintf("(%s == %s)", obj.left, obj.right)
}

// Apply is a general purpose iterator method that operates on any AST node.
func (obj *ExprEq) Apply(fn func(Expr) error) error {
	return apply(obj, fn, obj.left, obj.right)
}

// ExprIf picks one of two values depending on a condition.
type ExprIf struct {
	cond Expr
	then Expr
	els  Expr
}

func (obj *ExprIf) isExpr() {}

// String returns a short representation of this expression.
func (obj *ExprIf) String() string {
	return fmt.Sprintf("if(%s, %s, %s)", obj.cond, obj.then, obj.els)
}

// Apply is a general purpose iterator method that operates on any AST node.
func (obj *ExprIf) Apply(fn func(Expr) error) error {
	return apply(obj, fn, obj.cond, obj.then, obj.els)
}

// ExprIsA tests the dynamic type of a node.
type ExprIsA struct {
	expr   Expr
	target *types.Type
}

func (obj *ExprIsA) isExpr() {}

// String returns a short representation of this expression.
func (obj *ExprIsA) String() string {
	return fmt.Sprintf("%s.is_a(%s)", obj.expr, obj.target)
}

// Apply is a general purpose iterator method that operates on any AST node.
func (obj *ExprIsA) Apply(fn func(Expr) error) error {
	return apply(obj, fn, obj.expr)
}

// ExprIsNull tests if a node is null.
type ExprIsNull struct {
	expr Expr
}

func (obj *ExprIsNull) isExpr() {}

// String returns a short representation of this expression.
func (obj *ExprIsNull) String() string {
	return fmt.Sprintf("%s.is_null", obj.expr)
}

// Apply is a general purpose iterator method that operates on any AST node.
func (obj *ExprIsNull) Apply(fn func(Expr) error) error {
	return apply(obj, fn, obj.expr)
}

// ExprMap evaluates the body for each element of a collection. The filter is
// optional. If the induction variable is nil, the default one is used.
type ExprMap struct {
	collection Expr
	body       Expr
	filter     Expr
	induction  *InductionVar
	concat     bool
}

func (obj *ExprMap) isExpr() {}

// String returns a short representation of this expression.
func (obj *ExprMap) String() string {
	op := "map"
	if obj.concat {
		op = "mapcat"
	}
	s := fmt.Sprintf("%s.%s(%s -> %s)", obj.collection, op, varString(obj.induction), obj.body)
	if obj.filter != nil {
		s += fmt.Sprintf(" if %s", obj.filter)
	}
	return s
}

// Apply is a general purpose iterator method that operates on any AST node.
func (obj *ExprMap) Apply(fn func(Expr) error) error {
	return apply(obj, fn, obj.collection, obj.body, obj.filter)
}

// newField is a field assignment of a struct literal.
type newField struct {
	name  string
	value Expr
}

// ExprNew is a struct literal. The fields are kept in the order they were set.
type ExprNew struct {
	target *types.Type
	fields []*newField
}

func (obj *ExprNew) isExpr() {}

// String returns a short representation of this expression.
func (obj *ExprNew) String() string {
	s := []string{}
	for _, f := range obj.fields {
		s = append(s, fmt.Sprintf("%s: %s", f.name, f.value))
	}
	return fmt.Sprintf("new %s{%s}", obj.target, strings.Join(s, ", "))
}

// Apply is a general purpose iterator method that operates on any AST node.
func (obj *ExprNew) Apply(fn func(Expr) error) error {
	exprs := []Expr{}
	for _, f := range obj.fields {
		exprs = append(exprs, f.value)
	}
	return apply(obj, fn, exprs...)
}

// ExprNot negates a boolean.
type ExprNot struct {
	expr Expr
}

func (obj *ExprNot) isExpr() {}

// String returns a short representation of this expression.
func (obj *ExprNot) String() string {
	return fmt.Sprintf("not(%s)", obj.expr)
}

// Apply is a general purpose iterator method that operates on any AST node.
func (obj *ExprNot) Apply(fn func(Expr) error) error {
	return apply(obj, fn, obj.expr)
}

// ExprQuantifier tests a predicate on all or any of the elements of a
// collection. If the induction variable is nil, the default one is used.
type ExprQuantifier struct {
	kind       ir.QuantifierKind
	collection Expr
	predicate  Expr
	induction  *InductionVar
}

func (obj *ExprQuantifier) isExpr() {}

// String returns a short representation of this expression.
func (obj *ExprQuantifier) String() string {
	return fmt.Sprintf("%s.%s(%s -> %s)", obj.collection, obj.kind, varString(obj.induction), obj.predicate)
}

// Apply is a general purpose iterator method that operates on any AST node.
func (obj *ExprQuantifier) Apply(fn func(Expr) error) error {
	return apply(obj, fn, obj.collection, obj.predicate)
}

// ExprPlaceHolder is the receiver of the property, the node that the property
// is evaluated on. Its type is bound by Context.WithSelf.
type ExprPlaceHolder struct {
	name names.Name
}

func (obj *ExprPlaceHolder) isExpr() {}

// String returns a short representation of this expression.
func (obj *ExprPlaceHolder) String() string { return obj.name.CamelWithUnderscores() }

// Apply is a general purpose iterator method that operates on any AST node.
func (obj *ExprPlaceHolder) Apply(fn func(Expr) error) error { return fn(obj) }

// ExprLiteral is a boolean or integer constant.
type ExprLiteral struct {
	value types.Value
}

func (obj *ExprLiteral) isExpr() {}

// String returns a short representation of this expression.
func (obj *ExprLiteral) String() string { return obj.value.String() }

// Apply is a general purpose iterator method that operates on any AST node.
func (obj *ExprLiteral) Apply(fn func(Expr) error) error { return fn(obj) }

// ExprDefaultVar is the anonymous induction variable. It refers to the element
// of the innermost enclosing collection expression.
type ExprDefaultVar struct{}

func (obj *ExprDefaultVar) isExpr() {}

// String returns a short representation of this expression.
func (obj *ExprDefaultVar) String() string { return "var" }

// Apply is a general purpose iterator method that operates on any AST node.
func (obj *ExprDefaultVar) Apply(fn func(Expr) error) error { return fn(obj) }

func join(exprs []Expr) string {
	s := []string{}
	for _, x := range exprs {
		s = append(s, x.String())
	}
	return strings.Join(s, ", ")
}

func varString(v *InductionVar) string {
	if v == nil {
		return Vars.Default().String()
	}
	return v.String()
}
