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
	"strings"

	"github.com/purpleidea/propgen/lang/names"
)

// Catalogue stores every type of a language. Node types must be declared after
// their parent, so the declaration order is also a valid hierarchy order.
type Catalogue struct {
	types map[string]*Type // keyed by lower case name
	order []*Type          // in declaration order
	root  *Type
}

// NewCatalogue returns an empty catalogue which already knows the basic types.
func NewCatalogue() *Catalogue {
	obj := &Catalogue{
		types: make(map[string]*Type),
	}
	obj.add(TypeBool)
	obj.add(TypeLong)
	return obj
}

func (obj *Catalogue) add(typ *Type) {
	obj.types[typ.TypeName().Lower()] = typ
	obj.order = append(obj.order, typ)
}

func (obj *Catalogue) declare(name string) (names.Name, error) {
	if name == "" {
		return names.Name{}, fmt.Errorf("empty type name")
	}
	n := names.FromCamel(name)
	if _, exists := obj.types[n.Lower()]; exists {
		return names.Name{}, fmt.Errorf("type %s is already declared", n.Camel())
	}
	return n, nil
}

// Root returns the root node type, or nil if no node type was declared.
func (obj *Catalogue) Root() *Type { return obj.root }

// NewNode declares a node type. The first node type must be the root and have
// no parent. Every other node type must derive from a node type.
func (obj *Catalogue) NewNode(name string, parent *Type, abstract bool) (*Type, error) {
	n, err := obj.declare(name)
	if err != nil {
		return nil, err
	}
	if parent == nil && obj.root != nil {
		return nil, fmt.Errorf("node type %s must derive from %s", n.Camel(), obj.root)
	}
	if parent != nil {
		if parent.IsStruct() {
			return nil, fmt.Errorf("struct types cannot be subclassed (%s derives from %s)", n.Camel(), parent)
		}
		if !parent.IsNode() {
			return nil, fmt.Errorf("node type %s cannot derive from %s", n.Camel(), parent)
		}
		if x, exists := obj.types[parent.Name.Lower()]; !exists || x != parent {
			return nil, fmt.Errorf("parent %s is not part of this catalogue", parent)
		}
	}

	typ := &Type{
		Kind:     KindNode,
		Name:     n,
		Parent:   parent,
		Abstract: abstract,
	}
	if parent == nil {
		obj.root = typ
	}
	obj.add(typ)
	return typ, nil
}

// NewStruct declares a struct type. Struct types cannot be subclassed, so any
// base type is an error.
func (obj *Catalogue) NewStruct(name string, base *Type) (*Type, error) {
	n, err := obj.declare(name)
	if err != nil {
		return nil, err
	}
	if base != nil {
		return nil, fmt.Errorf("struct types cannot be subclassed (%s derives from %s)", n.Camel(), base)
	}
	typ := &Type{
		Kind: KindStruct,
		Name: n,
	}
	obj.add(typ)
	return typ, nil
}

// AddField adds a field to a node or struct type. Fields can't be overridden,
// so the name must be unused in the whole inherited table.
func (obj *Catalogue) AddField(owner *Type, name string, typ *Type) (*Field, error) {
	if !owner.IsNode() && !owner.IsStruct() {
		return nil, fmt.Errorf("type %s cannot have fields", owner)
	}
	if typ == nil {
		return nil, fmt.Errorf("field %s of %s has no type", name, owner)
	}
	n := names.FromLower(name)
	if n.IsEmpty() {
		return nil, fmt.Errorf("empty field name in %s", owner)
	}
	if _, exists := owner.LookupField(n.Lower()); exists {
		return nil, fmt.Errorf("%s already has a field named %s", owner, n.Lower())
	}
	f := &Field{
		Name:  n,
		Type:  typ,
		Owner: owner,
	}
	owner.Fields = append(owner.Fields, f)
	return f, nil
}

// AddProperty adds a property entry to the field table of a node type. The
// type can be nil if it is only known once the property is rendered. A
// property can override an inherited property, but not a field.
func (obj *Catalogue) AddProperty(owner *Type, name string, typ *Type) (*Field, error) {
	if !owner.IsNode() {
		return nil, fmt.Errorf("properties can only be attached to node types, not %s", owner)
	}
	n := names.FromLower(name)
	if n.IsEmpty() {
		return nil, fmt.Errorf("empty property name in %s", owner)
	}
	for _, f := range owner.Fields { // declared here, not inherited
		if f.Name == n {
			return nil, fmt.Errorf("%s already declares %s", owner, n.Lower())
		}
	}
	if f, exists := owner.LookupField(n.Lower()); exists {
		if !f.Property {
			return nil, fmt.Errorf("property %s of %s overrides a field", n.Lower(), owner)
		}
		if f.Type != nil && typ != nil && f.Type.Cmp(typ) != nil {
			return nil, fmt.Errorf("property %s of %s returns %s but overrides one returning %s", n.Lower(), owner, typ, f.Type)
		}
	}
	f := &Field{
		Name:     n,
		Type:     typ,
		Owner:    owner,
		Property: true,
	}
	owner.Fields = append(owner.Fields, f)
	return f, nil
}

// ArrayOf returns the array type for this element type. Array types are created
// on demand and registered, so that the same array type is always returned. It
// fails if the name of the array type is already used by a declared type.
func (obj *Catalogue) ArrayOf(elem *Type) (*Type, error) {
	if elem == nil {
		return nil, fmt.Errorf("array of nothing")
	}
	return obj.collection(&Type{
		Kind: KindArray,
		Val:  elem,
	})
}

// ListOf returns the list type for this node type. Lists only hold nodes.
func (obj *Catalogue) ListOf(elem *Type) (*Type, error) {
	if elem == nil || !elem.IsNode() {
		return nil, fmt.Errorf("lists can only contain nodes, not %s", elem)
	}
	return obj.collection(&Type{
		Kind: KindList,
		Val:  elem,
	})
}

// collection returns the registered equivalent of this collection type, or
// registers it.
func (obj *Catalogue) collection(typ *Type) (*Type, error) {
	name := typ.TypeName()
	x, exists := obj.types[name.Lower()]
	if !exists {
		obj.add(typ)
		return typ, nil
	}
	if x.Cmp(typ) != nil {
		return nil, fmt.Errorf("%s of %s would be named %s, which is already declared", typ.Kind, typ.Val, name.Camel())
	}
	return x, nil
}

// Lookup returns the type with this name. The name can use the collection
// forms: `[]T` for an array of T and `list{T}` for a list of T.
func (obj *Catalogue) Lookup(name string) (*Type, error) {
	s := strings.TrimSpace(name)
	if strings.HasPrefix(s, "[]") {
		elem, err := obj.Lookup(s[len("[]"):])
		if err != nil {
			return nil, err
		}
		return obj.ArrayOf(elem)
	}
	if strings.HasPrefix(s, "list{") && strings.HasSuffix(s, "}") {
		elem, err := obj.Lookup(s[len("list{") : len(s)-1])
		if err != nil {
			return nil, err
		}
		return obj.ListOf(elem)
	}
	if s == "" {
		return nil, fmt.Errorf("empty type name")
	}
	switch s { // aliases for the basic types
	case "bool":
		return TypeBool, nil
	case "long", "int":
		return TypeLong, nil
	}
	typ, exists := obj.types[names.FromCamel(s).Lower()]
	if !exists {
		return nil, fmt.Errorf("unknown type %s", s)
	}
	return typ, nil
}

// Nodes returns the node types in declaration order. Parents always come
// before their subclasses.
func (obj *Catalogue) Nodes() []*Type {
	result := []*Type{}
	for _, t := range obj.order {
		if t.IsNode() {
			result = append(result, t)
		}
	}
	return result
}

// Subclasses returns the node types which derive (directly or not) from this
// one, in declaration order.
func (obj *Catalogue) Subclasses(typ *Type) []*Type {
	result := []*Type{}
	for _, t := range obj.Nodes() {
		if t != typ && t.IsSubclassOf(typ) {
			result = append(result, t)
		}
	}
	return result
}
