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

package types

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/purpleidea/propgen/util/errwrap"
)

// Value represents an interface to get values out of each type. Values are only
// used to statically evaluate resolved expressions, the generated code does not
// use them.
type Value interface {
	fmt.Stringer // String() string (for display purposes)
	Type() *Type
	Cmp(Value) error // error if the two values aren't the same
	Bool() bool
	Long() int64
	List() []Value
	Fields() map[string]Value
	IsNull() bool
}

// base implements the methods that each value kind doesn't support.
type base struct{}

// Bool represents the value of this type as a bool if it is one. If this is not
// a bool, then this panics.
func (obj *base) Bool() bool {
	panic("not a bool")
}

// Long represents the value of this type as an integer if it is one. If this is
// not an integer, then this panics.
func (obj *base) Long() int64 {
	panic("not a long")
}

// List represents the value of this type as a list if it is one. If this is not
// a collection, then this panics.
func (obj *base) List() []Value {
	panic("not a list")
}

// Fields represents the value of this type as a field map if it is a node or a
// struct. Otherwise this panics.
func (obj *base) Fields() map[string]Value {
	panic("not a record")
}

// IsNull is false for everything except node values without a node.
func (obj *base) IsNull() bool { return false }

// cmpTypes is the common preamble of each Cmp method.
func cmpTypes(a, b Value) error {
	if a == nil || b == nil {
		return fmt.Errorf("cannot cmp to nil")
	}
	if err := a.Type().Cmp(b.Type()); err != nil {
		return errwrap.Wrapf(err, "cannot cmp types")
	}
	return nil
}

// BoolValue represents a boolean value.
type BoolValue struct {
	base
	V bool
}

// String returns a visual representation of this value.
func (obj *BoolValue) String() string {
	return strconv.FormatBool(obj.V) // true or false
}

// Type returns the type data structure that represents this type.
func (obj *BoolValue) Type() *Type { return TypeBool }

// Cmp returns an error if this value isn't the same as the arg passed in.
func (obj *BoolValue) Cmp(val Value) error {
	if err := cmpTypes(obj, val); err != nil {
		return err
	}
	if obj.V != val.Bool() {
		return fmt.Errorf("values are different")
	}
	return nil
}

// Bool represents the value of this type as a bool.
func (obj *BoolValue) Bool() bool { return obj.V }

// LongValue represents an integer value.
type LongValue struct {
	base
	V int64
}

// String returns a visual representation of this value.
func (obj *LongValue) String() string {
	return strconv.FormatInt(obj.V, 10)
}

// Type returns the type data structure that represents this type.
func (obj *LongValue) Type() *Type { return TypeLong }

// Cmp returns an error if this value isn't the same as the arg passed in.
func (obj *LongValue) Cmp(val Value) error {
	if err := cmpTypes(obj, val); err != nil {
		return err
	}
	if obj.V != val.Long() {
		return fmt.Errorf("values are different")
	}
	return nil
}

// Long represents the value of this type as an integer.
func (obj *LongValue) Long() int64 { return obj.V }

// ListValue represents an array or a list value.
type ListValue struct {
	base
	V []Value // all elements must have type T.Val
	T *Type
}

// NewList creates a new empty collection with the specified collection type.
func NewList(t *Type) *ListValue {
	if !t.IsCollection() {
		return nil // sanity check
	}
	return &ListValue{
		T: t,
		V: []Value{},
	}
}

// String returns a visual representation of this value.
func (obj *ListValue) String() string {
	var s []string
	for _, x := range obj.V {
		s = append(s, x.String())
	}
	return fmt.Sprintf("[%s]", strings.Join(s, ", "))
}

// Type returns the type data structure that represents this type.
func (obj *ListValue) Type() *Type { return obj.T }

// Cmp returns an error if this value isn't the same as the arg passed in.
func (obj *ListValue) Cmp(val Value) error {
	if err := cmpTypes(obj, val); err != nil {
		return err
	}
	cmp := val.List()
	if len(obj.V) != len(cmp) {
		return fmt.Errorf("values have different lengths")
	}
	for i := range obj.V {
		if err := obj.V[i].Cmp(cmp[i]); err != nil {
			return errwrap.Wrapf(err, "index %d did not cmp", i)
		}
	}
	return nil
}

// List represents the value of this type as a list.
func (obj *ListValue) List() []Value { return obj.V }

// Add adds an element to this list. It errors if the type does not match.
func (obj *ListValue) Add(v Value) error {
	if !v.Type().IsSubclassOf(obj.T.Val) {
		return fmt.Errorf("value of type %s does not match element type %s", v.Type(), obj.T.Val)
	}
	obj.V = append(obj.V, v)
	return nil
}

// NodeValue represents a node. Two node values are only equal if they are the
// same node, or if they are both null. A null node has a nil field map.
type NodeValue struct {
	base
	T *Type
	V map[string]Value // keyed by lower case field name
}

// NewNull creates a null node value of the specified type.
func NewNull(t *Type) *NodeValue {
	return &NodeValue{T: t}
}

// String returns a visual representation of this value.
func (obj *NodeValue) String() string {
	if obj.V == nil {
		return "null"
	}
	return fmt.Sprintf("<%s %s>", obj.T, fieldsString(obj.V))
}

// Type returns the type data structure that represents this type.
func (obj *NodeValue) Type() *Type { return obj.T }

// Cmp returns an error if this isn't the same node as the arg passed in. Nodes
// are compared by identity, so the types only need to be related.
func (obj *NodeValue) Cmp(val Value) error {
	if val == nil {
		return fmt.Errorf("cannot cmp to nil")
	}
	x, ok := val.(*NodeValue)
	if !ok {
		return fmt.Errorf("cannot cmp a node to %s", val.Type())
	}
	if obj.IsNull() && x.IsNull() {
		return nil
	}
	if obj != x {
		return fmt.Errorf("nodes are different")
	}
	return nil
}

// Fields returns the field values of this node.
func (obj *NodeValue) Fields() map[string]Value {
	if obj.V == nil {
		panic("null node has no fields")
	}
	return obj.V
}

// IsNull returns true if this value doesn't reference a node.
func (obj *NodeValue) IsNull() bool { return obj.V == nil }

// StructValue represents a struct value.
type StructValue struct {
	base
	T *Type
	V map[string]Value // keyed by lower case field name
}

// String returns a visual representation of this value.
func (obj *StructValue) String() string {
	return fmt.Sprintf("%s%s", obj.T, fieldsString(obj.V))
}

// Type returns the type data structure that represents this type.
func (obj *StructValue) Type() *Type { return obj.T }

// Cmp returns an error if this value isn't the same as the arg passed in.
func (obj *StructValue) Cmp(val Value) error {
	if err := cmpTypes(obj, val); err != nil {
		return err
	}
	cmp := val.Fields()
	if len(obj.V) != len(cmp) {
		return fmt.Errorf("struct field count differs")
	}
	for k, v := range obj.V {
		x, exists := cmp[k]
		if !exists {
			return fmt.Errorf("field %s is missing", k)
		}
		if err := v.Cmp(x); err != nil {
			return errwrap.Wrapf(err, "field %s did not cmp", k)
		}
	}
	return nil
}

// Fields returns the field values of this struct.
func (obj *StructValue) Fields() map[string]Value { return obj.V }

func fieldsString(m map[string]Value) string {
	keys := []string{}
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys) // deterministic order
	s := []string{}
	for _, k := range keys {
		s = append(s, fmt.Sprintf("%s: %s", k, m[k]))
	}
	return fmt.Sprintf("{%s}", strings.Join(s, "; "))
}
