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

// Package ir contains the resolved expression tree. Every node has a concrete
// result type and renders to target code as a preamble of statements followed
// by a value expression. Composite nodes render the preambles of their
// children before their own, so that they compose by concatenation only.
package ir

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/purpleidea/propgen/lang/interfaces"
	"github.com/purpleidea/propgen/lang/names"
	"github.com/purpleidea/propgen/lang/types"
)

// Expr is a resolved expression. The set of implementations is closed, use a
// type switch on the pointer types of this package to inspect a tree.
type Expr interface {
	fmt.Stringer

	// Type returns the result type of this expression.
	Type() *types.Type

	// RenderPre returns the statements that need to run before the value
	// expression can be evaluated. It is often empty.
	RenderPre(interfaces.Renderer) (string, error)

	// RenderExpr returns the value expression.
	RenderExpr(interfaces.Renderer) (string, error)

	// Value statically evaluates this expression in an environment.
	Value(*Env) (types.Value, error)

	isExpr()
}

// Render renders both the preamble and the value expression of e, separated by
// a newline. The preamble is omitted when it is empty.
func Render(e Expr, r interfaces.Renderer) (string, error) {
	pre, err := e.RenderPre(r)
	if err != nil {
		return "", err
	}
	expr, err := e.RenderExpr(r)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(pre) == "" {
		return expr, nil
	}
	return pre + "\n" + expr, nil
}

// RenderPres concatenates the preambles of each expression in order. Nil
// expressions and empty preambles are skipped.
func RenderPres(r interfaces.Renderer, exprs ...Expr) (string, error) {
	s := []string{}
	for _, e := range exprs {
		if e == nil {
			continue
		}
		pre, err := e.RenderPre(r)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(pre) == "" {
			continue
		}
		s = append(s, pre)
	}
	return strings.Join(s, "\n"), nil
}

// typeName is the identifier of a type in the generated code.
func typeName(t *types.Type) string {
	return t.TypeName().CamelWithUnderscores()
}

// ExprVar is a reference to a variable: the receiver, an induction variable or
// a local variable of the property.
type ExprVar struct {
	Name names.Name
	T    *types.Type
}

func (obj *ExprVar) isExpr() {}

// String returns a short representation of this expression.
func (obj *ExprVar) String() string { return obj.Name.CamelWithUnderscores() }

// Type returns the type of the variable.
func (obj *ExprVar) Type() *types.Type { return obj.T }

// RenderPre returns an empty preamble.
func (obj *ExprVar) RenderPre(interfaces.Renderer) (string, error) { return "", nil }

// RenderExpr returns the variable name.
func (obj *ExprVar) RenderExpr(interfaces.Renderer) (string, error) {
	return obj.Name.CamelWithUnderscores(), nil
}

// ExprFieldAccess reads a field or calls a property of a node or struct.
type ExprFieldAccess struct {
	Receiver Expr
	Field    *types.Field
}

func (obj *ExprFieldAccess) isExpr() {}

// String returns a short representation of this expression.
func (obj *ExprFieldAccess) String() string {
	return fmt.Sprintf("%s.%s", obj.Receiver, obj.Field.FullName().CamelWithUnderscores())
}

// Type returns the type of the field.
func (obj *ExprFieldAccess) Type() *types.Type { return obj.Field.Type }

// RenderPre returns the preamble of the receiver.
func (obj *ExprFieldAccess) RenderPre(r interfaces.Renderer) (string, error) {
	return obj.Receiver.RenderPre(r)
}

// RenderExpr returns the dotted access.
func (obj *ExprFieldAccess) RenderExpr(r interfaces.Renderer) (string, error) {
	recv, err := obj.Receiver.RenderExpr(r)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.%s", recv, obj.Field.FullName().CamelWithUnderscores()), nil
}

// ExprCast converts a node value to another node type.
type ExprCast struct {
	Expr Expr
	T    *types.Type
}

func (obj *ExprCast) isExpr() {}

// String returns a short representation of this expression.
func (obj *ExprCast) String() string { return fmt.Sprintf("cast(%s, %s)", obj.Expr, obj.T) }

// Type returns the target type of the cast.
func (obj *ExprCast) Type() *types.Type { return obj.T }

// RenderPre returns the preamble of the operand.
func (obj *ExprCast) RenderPre(r interfaces.Renderer) (string, error) {
	return obj.Expr.RenderPre(r)
}

// RenderExpr returns the type conversion.
func (obj *ExprCast) RenderExpr(r interfaces.Renderer) (string, error) {
	expr, err := obj.Expr.RenderExpr(r)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s (%s)", typeName(obj.T), expr), nil
}

// ExprEq compares two values of the same type.
type ExprEq struct {
	Left  Expr
	Right Expr
}

func (obj *ExprEq) isExpr() {}

// String returns a short representation of this expression.
func (obj *ExprEq) String() string { return fmt.Sprintf("(%s = %s)", obj.Left, obj.Right) }

// Type returns the boolean type.
func (obj *ExprEq) Type() *types.Type { return types.TypeBool }

// RenderPre returns the preambles of both operands, left first.
func (obj *ExprEq) RenderPre(r interfaces.Renderer) (string, error) {
	return RenderPres(r, obj.Left, obj.Right)
}

// RenderExpr returns the comparison.
func (obj *ExprEq) RenderExpr(r interfaces.Renderer) (string, error) {
	l, err := obj.Left.RenderExpr(r)
	if err != nil {
		return "", err
	}
	rr, err := obj.Right.RenderExpr(r)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s = %s", l, rr), nil
}

// ExprIf picks one of two values. The chosen branch is assigned to Var, which
// is also the value of this expression.
type ExprIf struct {
	Cond Expr
	Then Expr
	Else Expr
	Var  *LocalVar
}

func (obj *ExprIf) isExpr() {}

// String returns a short representation of this expression.
func (obj *ExprIf) String() string {
	return fmt.Sprintf("if(%s, %s, %s)", obj.Cond, obj.Then, obj.Else)
}

// Type returns the type of the result variable.
func (obj *ExprIf) Type() *types.Type { return obj.Var.Type }

// RenderPre renders the "if" template.
func (obj *ExprIf) RenderPre(r interfaces.Renderer) (string, error) {
	return r.Render("if", obj)
}

// RenderExpr returns the name of the result variable.
func (obj *ExprIf) RenderExpr(interfaces.Renderer) (string, error) {
	return obj.Var.String(), nil
}

// ExprIsA tests the dynamic type of a node.
type ExprIsA struct {
	Expr   Expr
	Target *types.Type
}

func (obj *ExprIsA) isExpr() {}

// String returns a short representation of this expression.
func (obj *ExprIsA) String() string { return fmt.Sprintf("is_a(%s, %s)", obj.Expr, obj.Target) }

// Type returns the boolean type.
func (obj *ExprIsA) Type() *types.Type { return types.TypeBool }

// RenderPre returns the preamble of the operand.
func (obj *ExprIsA) RenderPre(r interfaces.Renderer) (string, error) {
	return obj.Expr.RenderPre(r)
}

// RenderExpr returns the class membership test.
func (obj *ExprIsA) RenderExpr(r interfaces.Renderer) (string, error) {
	expr, err := obj.Expr.RenderExpr(r)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.all in %s_Type'Class", expr, typeName(obj.Target)), nil
}

// ExprLiteral is a constant. A null node literal has a null node value.
type ExprLiteral struct {
	V types.Value
}

func (obj *ExprLiteral) isExpr() {}

// String returns a short representation of this expression.
func (obj *ExprLiteral) String() string { return obj.V.String() }

// Type returns the type of the constant.
func (obj *ExprLiteral) Type() *types.Type { return obj.V.Type() }

// RenderPre returns an empty preamble.
func (obj *ExprLiteral) RenderPre(interfaces.Renderer) (string, error) { return "", nil }

// RenderExpr returns the constant in target syntax.
func (obj *ExprLiteral) RenderExpr(interfaces.Renderer) (string, error) {
	switch v := obj.V.(type) {
	case *types.BoolValue:
		if v.V {
			return "True", nil
		}
		return "False", nil
	case *types.LongValue:
		return strconv.FormatInt(v.V, 10), nil
	case *types.NodeValue:
		if v.IsNull() {
			return "null", nil
		}
	}
	return "", fmt.Errorf("can't render a literal of type %s", obj.V.Type())
}

// ExprMap builds an array from a collection. The body is evaluated for each
// element bound to Induction, for the elements that pass the optional filter.
// When Concat is true the body returns collections which get flattened.
type ExprMap struct {
	Collection Expr
	Induction  *ExprVar
	Body       Expr
	Filter     Expr // optional
	Concat     bool
	Var        *LocalVar
}

func (obj *ExprMap) isExpr() {}

// String returns a short representation of this expression.
func (obj *ExprMap) String() string {
	s := fmt.Sprintf("map(%s, %s -> %s)", obj.Collection, obj.Induction, obj.Body)
	if obj.Concat {
		s = "concat_" + s
	}
	if obj.Filter != nil {
		s += fmt.Sprintf(" if %s", obj.Filter)
	}
	return s
}

// Type returns the array type of the result variable.
func (obj *ExprMap) Type() *types.Type { return obj.Var.Type }

// RenderPre renders the "map" template.
func (obj *ExprMap) RenderPre(r interfaces.Renderer) (string, error) {
	return r.Render("map", obj)
}

// RenderExpr returns the name of the result variable.
func (obj *ExprMap) RenderExpr(interfaces.Renderer) (string, error) {
	return obj.Var.String(), nil
}

// NewField is one field assignment of a struct literal.
type NewField struct {
	Name  names.Name // field name without the F_ prefix
	Value Expr
}

// FullName returns the name of this field in the generated code.
func (obj *NewField) FullName() names.Name { return types.FieldName(obj.Name) }

// ExprNew is a struct literal. Fields are kept in the order they were given.
type ExprNew struct {
	T      *types.Type
	Fields []*NewField
}

func (obj *ExprNew) isExpr() {}

// Sorted returns the fields sorted by their name in the generated code.
func (obj *ExprNew) Sorted() []*NewField {
	fields := []*NewField{}
	fields = append(fields, obj.Fields...)
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].FullName().Lower() < fields[j].FullName().Lower()
	})
	return fields
}

// String returns a short representation of this expression.
func (obj *ExprNew) String() string {
	s := []string{}
	for _, f := range obj.Sorted() {
		s = append(s, fmt.Sprintf("%s: %s", f.Name.Lower(), f.Value))
	}
	return fmt.Sprintf("new %s{%s}", obj.T, strings.Join(s, ", "))
}

// Type returns the struct type.
func (obj *ExprNew) Type() *types.Type { return obj.T }

// RenderPre returns the preambles of the values, in the order they were given.
func (obj *ExprNew) RenderPre(r interfaces.Renderer) (string, error) {
	exprs := []Expr{}
	for _, f := range obj.Fields {
		exprs = append(exprs, f.Value)
	}
	return RenderPres(r, exprs...)
}

// RenderExpr returns the aggregate, with the fields sorted by name.
func (obj *ExprNew) RenderExpr(r interfaces.Renderer) (string, error) {
	s := []string{}
	for _, f := range obj.Sorted() {
		expr, err := f.Value.RenderExpr(r)
		if err != nil {
			return "", err
		}
		s = append(s, fmt.Sprintf("%s => %s", f.FullName().CamelWithUnderscores(), expr))
	}
	return fmt.Sprintf("(%s)", strings.Join(s, ", ")), nil
}

// ExprNot negates a boolean.
type ExprNot struct {
	Expr Expr
}

func (obj *ExprNot) isExpr() {}

// String returns a short representation of this expression.
func (obj *ExprNot) String() string { return fmt.Sprintf("not(%s)", obj.Expr) }

// Type returns the boolean type.
func (obj *ExprNot) Type() *types.Type { return types.TypeBool }

// RenderPre returns the preamble of the operand.
func (obj *ExprNot) RenderPre(r interfaces.Renderer) (string, error) {
	return obj.Expr.RenderPre(r)
}

// RenderExpr returns the negation.
func (obj *ExprNot) RenderExpr(r interfaces.Renderer) (string, error) {
	expr, err := obj.Expr.RenderExpr(r)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("not (%s)", expr), nil
}

// QuantifierKind says whether a quantifier needs all the elements or any one.
type QuantifierKind int

const (
	// QuantifierAll is true if every element satisfies the predicate.
	QuantifierAll QuantifierKind = iota
	// QuantifierAny is true if some element satisfies the predicate.
	QuantifierAny
)

// String returns the name of the quantifier.
func (obj QuantifierKind) String() string {
	if obj == QuantifierAll {
		return "all"
	}
	return "any"
}

// ExprQuantifier evaluates a predicate on the elements of a collection.
type ExprQuantifier struct {
	Kind       QuantifierKind
	Collection Expr
	Induction  *ExprVar
	Body       Expr
	Var        *LocalVar
}

func (obj *ExprQuantifier) isExpr() {}

// String returns a short representation of this expression.
func (obj *ExprQuantifier) String() string {
	return fmt.Sprintf("%s(%s, %s -> %s)", obj.Kind, obj.Collection, obj.Induction, obj.Body)
}

// Type returns the boolean type.
func (obj *ExprQuantifier) Type() *types.Type { return types.TypeBool }

// IsAll is a convenience for the templates.
func (obj *ExprQuantifier) IsAll() bool { return obj.Kind == QuantifierAll }

// RenderPre renders the "quantifier" template.
func (obj *ExprQuantifier) RenderPre(r interfaces.Renderer) (string, error) {
	return r.Render("quantifier", obj)
}

// RenderExpr returns the name of the result variable.
func (obj *ExprQuantifier) RenderExpr(interfaces.Renderer) (string, error) {
	return obj.Var.String(), nil
}
