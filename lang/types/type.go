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

// Package types describes the types that the generated code manipulates. It is
// the catalogue which the expression resolver consults for subclassing, field
// tables and collection element types.
package types

import (
	"fmt"

	"github.com/purpleidea/propgen/lang/names"
)

// Basic types defined here as a convenience for use with Type.Cmp(X).
var (
	TypeBool = &Type{Kind: KindBool, Name: names.FromLower("boolean")}
	TypeLong = &Type{Kind: KindLong, Name: names.FromLower("integer")}
)

// The Kind represents the base type of each value.
type Kind int

// Each Kind represents a type in the type system.
const (
	KindNil Kind = iota
	KindBool
	KindLong
	KindNode   // a node in the tree, these can be subclassed
	KindStruct // a plain record, these can't be subclassed
	KindArray  // an array of values, produced by map expressions
	KindList   // a list of nodes, produced by the parser
)

// String returns a human readable name for the kind.
func (obj Kind) String() string {
	switch obj {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindLong:
		return "long"
	case KindNode:
		return "node"
	case KindStruct:
		return "struct"
	case KindArray:
		return "array"
	case KindList:
		return "list"
	}
	return fmt.Sprintf("kind(%d)", int(obj))
}

// Type is the datastructure representing any type. It can be recursive for
// the collection types.
type Type struct {
	Kind Kind

	// Name is set for every kind except the collections, whose name is
	// derived from their element type.
	Name names.Name

	Parent   *Type    // if Kind == Node, nil for the root node type
	Abstract bool     // if Kind == Node
	Val      *Type    // if Kind == Array or List, the element type
	Fields   []*Field // if Kind == Node or Struct, declared fields in order
}

// Field is a named member of a node or struct type. Properties that are
// attached to node types are fields too, so that field access expressions can
// reach them.
type Field struct {
	Name     names.Name
	Type     *Type // nil for a property which has not been rendered yet
	Owner    *Type
	Property bool
}

// FullName returns the name that is used in the generated code. Parse fields
// and struct fields use the F_ prefix, properties the P_ prefix.
func (obj *Field) FullName() names.Name {
	if obj.Property {
		return names.FromLower("p").Add(obj.Name)
	}
	return FieldName(obj.Name)
}

// String returns a short representation of this field.
func (obj *Field) String() string {
	typ := "?"
	if obj.Type != nil {
		typ = obj.Type.String()
	}
	return fmt.Sprintf("%s.%s: %s", obj.Owner, obj.FullName(), typ)
}

// FieldName normalizes a user facing field name into the form it has in the
// generated code, eg: "a" becomes "F_A".
func FieldName(name names.Name) names.Name {
	return names.FromLower("f").Add(name)
}

// TypeName returns the identifier of this type.
func (obj *Type) TypeName() names.Name {
	switch obj.Kind {
	case KindArray:
		if obj.Val == nil {
			panic("malformed array type")
		}
		return obj.Val.TypeName().Add(names.FromLower("array"))
	case KindList:
		if obj.Val == nil {
			panic("malformed list type")
		}
		return obj.Val.TypeName().Add(names.FromLower("list"))
	}
	return obj.Name
}

// String returns the textual representation for this type.
func (obj *Type) String() string {
	if obj == nil {
		return "<nil>"
	}
	return obj.TypeName().Camel()
}

// Cmp compares this type to another. Named types are compared by kind and
// name, collections recursively by element type.
func (obj *Type) Cmp(typ *Type) error {
	if obj == nil || typ == nil {
		return fmt.Errorf("cannot compare to nil")
	}
	if obj.Kind != typ.Kind {
		return fmt.Errorf("base kind does not match (%s != %s)", obj.Kind, typ.Kind)
	}

	switch obj.Kind {
	case KindArray, KindList:
		if obj.Val == nil || typ.Val == nil {
			panic("malformed collection type")
		}
		return obj.Val.Cmp(typ.Val)
	}

	if obj.Name != typ.Name {
		return fmt.Errorf("type %s does not match %s", obj, typ)
	}
	return nil
}

// IsNode returns true if this is a node type.
func (obj *Type) IsNode() bool { return obj != nil && obj.Kind == KindNode }

// IsStruct returns true if this is a plain struct type. Node types are not
// included.
func (obj *Type) IsStruct() bool { return obj != nil && obj.Kind == KindStruct }

// IsCollection returns true if this type can be iterated on.
func (obj *Type) IsCollection() bool {
	return obj != nil && (obj.Kind == KindArray || obj.Kind == KindList)
}

// ElementType returns the element type of a collection, and nil otherwise.
func (obj *Type) ElementType() *Type {
	if !obj.IsCollection() {
		return nil
	}
	return obj.Val
}

// Ancestors returns this node type followed by its parents, up to the root.
// Other kinds return just themselves.
func (obj *Type) Ancestors() []*Type {
	result := []*Type{}
	for t := obj; t != nil; t = t.Parent {
		result = append(result, t)
		if t.Kind != KindNode {
			break
		}
	}
	return result
}

// IsSubclassOf returns true if a value of this type can be used where a value
// of the other type is expected: they are the same type, or this is a node type
// that derives from the other one.
func (obj *Type) IsSubclassOf(typ *Type) bool {
	if obj == nil || typ == nil {
		return false
	}
	if !obj.IsNode() || !typ.IsNode() {
		return obj.Cmp(typ) == nil
	}
	for _, t := range obj.Ancestors() {
		if t.Cmp(typ) == nil {
			return true
		}
	}
	return false
}

// CommonAncestor returns the nearest node type that both a and b derive from.
// It returns nil if there is none, or if either one isn't a node type.
func CommonAncestor(a, b *Type) *Type {
	if !a.IsNode() || !b.IsNode() {
		return nil
	}
	for _, t := range b.Ancestors() {
		if a.IsSubclassOf(t) {
			return t
		}
	}
	return nil
}

// AllFields returns every field of this type, inherited ones first. Fields
// which are overridden by a subclass keep the position of the parent field.
func (obj *Type) AllFields() []*Field {
	if obj == nil {
		return []*Field{}
	}
	if obj.Kind != KindNode && obj.Kind != KindStruct {
		return []*Field{}
	}
	result := []*Field{}
	if obj.Kind == KindNode && obj.Parent != nil {
		result = append(result, obj.Parent.AllFields()...)
	}
	for _, f := range obj.Fields {
		replaced := false
		for i, x := range result {
			if x.Name == f.Name {
				result[i] = f
				replaced = true
				break
			}
		}
		if !replaced {
			result = append(result, f)
		}
	}
	return result
}

// FieldsDict returns the full (inherited) field table of this type, keyed by
// the lower case field name.
func (obj *Type) FieldsDict() map[string]*Field {
	m := make(map[string]*Field)
	for _, f := range obj.AllFields() {
		m[f.Name.Lower()] = f
	}
	return m
}

// LookupField returns the field with this name, searching inherited fields.
func (obj *Type) LookupField(name string) (*Field, bool) {
	f, exists := obj.FieldsDict()[names.FromLower(name).Lower()]
	return f, exists
}
