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

package ir

import (
	"fmt"

	"github.com/purpleidea/propgen/lang/interfaces"
	"github.com/purpleidea/propgen/lang/names"
	"github.com/purpleidea/propgen/lang/types"
	"github.com/purpleidea/propgen/util/errwrap"
)

// Env holds the values of the variables for a static evaluation. Envs are
// immutable, With returns a new one.
type Env struct {
	parent *Env
	name   string
	value  types.Value
}

// NewEnv returns an environment where the receiver has this value. The value
// may be nil if the expression doesn't use the receiver.
func NewEnv(self types.Value) *Env {
	if self == nil {
		return &Env{}
	}
	return (&Env{}).With(names.FromLower("self"), self)
}

// With returns a new environment where the variable has this value. It hides
// any previous value of the same variable.
func (obj *Env) With(name names.Name, value types.Value) *Env {
	return &Env{
		parent: obj,
		name:   name.Lower(),
		value:  value,
	}
}

// Lookup returns the innermost value of this variable.
func (obj *Env) Lookup(name names.Name) (types.Value, bool) {
	for e := obj; e != nil; e = e.parent {
		if e.value != nil && e.name == name.Lower() {
			return e.value, true
		}
	}
	return nil, false
}

// Value returns the value of the variable.
func (obj *ExprVar) Value(env *Env) (types.Value, error) {
	v, exists := env.Lookup(obj.Name)
	if !exists {
		return nil, errwrap.Wrapf(interfaces.ErrValueCurrentlyUnknown, "variable %s", obj.Name)
	}
	return v, nil
}

// Value returns the value of the field. Properties are looked up like the
// fields, under their name without prefix.
func (obj *ExprFieldAccess) Value(env *Env) (types.Value, error) {
	recv, err := obj.Receiver.Value(env)
	if err != nil {
		return nil, err
	}
	if recv.IsNull() {
		return nil, fmt.Errorf("access to %s of a null %s", obj.Field.Name.Lower(), recv.Type())
	}
	v, exists := recv.Fields()[obj.Field.Name.Lower()]
	if !exists {
		return nil, errwrap.Wrapf(interfaces.ErrValueCurrentlyUnknown, "field %s of %s", obj.Field.Name.Lower(), recv.Type())
	}
	return v, nil
}

// Value returns the value of the operand, which keeps its dynamic type.
func (obj *ExprCast) Value(env *Env) (types.Value, error) {
	return obj.Expr.Value(env)
}

// Value returns true if both operands are equal.
func (obj *ExprEq) Value(env *Env) (types.Value, error) {
	l, err := obj.Left.Value(env)
	if err != nil {
		return nil, err
	}
	r, err := obj.Right.Value(env)
	if err != nil {
		return nil, err
	}
	return &types.BoolValue{V: l.Cmp(r) == nil}, nil
}

// Value evaluates the condition and then only the branch that is taken.
func (obj *ExprIf) Value(env *Env) (types.Value, error) {
	cond, err := obj.Cond.Value(env)
	if err != nil {
		return nil, err
	}
	if cond.Bool() {
		return obj.Then.Value(env)
	}
	return obj.Else.Value(env)
}

// Value returns true if the operand is a non null node of the target type.
func (obj *ExprIsA) Value(env *Env) (types.Value, error) {
	v, err := obj.Expr.Value(env)
	if err != nil {
		return nil, err
	}
	if v.IsNull() {
		return &types.BoolValue{V: false}, nil
	}
	return &types.BoolValue{V: v.Type().IsSubclassOf(obj.Target)}, nil
}

// Value returns the constant.
func (obj *ExprLiteral) Value(*Env) (types.Value, error) { return obj.V, nil }

// Value evaluates the body for each element of the collection.
func (obj *ExprMap) Value(env *Env) (types.Value, error) {
	coll, err := obj.Collection.Value(env)
	if err != nil {
		return nil, err
	}
	result := types.NewList(obj.Type())
	for i, elem := range coll.List() {
		inner := env.With(obj.Induction.Name, elem)
		if obj.Filter != nil {
			keep, err := obj.Filter.Value(inner)
			if err != nil {
				return nil, errwrap.Wrapf(err, "filter of element %d", i)
			}
			if !keep.Bool() {
				continue
			}
		}
		v, err := obj.Body.Value(inner)
		if err != nil {
			return nil, errwrap.Wrapf(err, "body of element %d", i)
		}
		values := []types.Value{v}
		if obj.Concat {
			values = v.List()
		}
		for _, x := range values {
			if err := result.Add(x); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

// Value returns the struct built from the field values.
func (obj *ExprNew) Value(env *Env) (types.Value, error) {
	fields := make(map[string]types.Value)
	for _, f := range obj.Fields {
		v, err := f.Value.Value(env)
		if err != nil {
			return nil, errwrap.Wrapf(err, "field %s", f.Name.Lower())
		}
		fields[f.Name.Lower()] = v
	}
	return &types.StructValue{T: obj.T, V: fields}, nil
}

// Value returns the negation of the operand.
func (obj *ExprNot) Value(env *Env) (types.Value, error) {
	v, err := obj.Expr.Value(env)
	if err != nil {
		return nil, err
	}
	return &types.BoolValue{V: !v.Bool()}, nil
}

// Value evaluates the predicate on the elements until the result is known.
func (obj *ExprQuantifier) Value(env *Env) (types.Value, error) {
	coll, err := obj.Collection.Value(env)
	if err != nil {
		return nil, err
	}
	// ALL stops on the first false, ANY on the first true
	stop := obj.Kind == QuantifierAny
	for i, elem := range coll.List() {
		v, err := obj.Body.Value(env.With(obj.Induction.Name, elem))
		if err != nil {
			return nil, errwrap.Wrapf(err, "predicate of element %d", i)
		}
		if v.Bool() == stop {
			return &types.BoolValue{V: stop}, nil
		}
	}
	return &types.BoolValue{V: !stop}, nil
}
