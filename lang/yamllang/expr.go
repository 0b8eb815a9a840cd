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

package yamllang

import (
	"fmt"
	"sort"

	"github.com/purpleidea/propgen/lang/ast"
	"github.com/purpleidea/propgen/lang/types"
	"github.com/purpleidea/propgen/util/errwrap"
)

// Expr is an expression tree. Exactly one of the keys must be set. For
// example, the expression `Self.parent_node.is_null` is written as:
//
//	is_null:
//	  field: {of: {self: true}, name: parent_node}
type Expr struct {
	Self bool   `yaml:"self"`
	Var  *Var   `yaml:"var"`
	Bool *bool  `yaml:"bool"`
	Long *int64 `yaml:"long"`

	Field *FieldExpr `yaml:"field"`
	Call  *CallExpr  `yaml:"call"`
	Attr  *AttrExpr  `yaml:"attr"`

	And []*Expr `yaml:"and"`
	Or  []*Expr `yaml:"or"`
	Not *Expr   `yaml:"not"`
	Eq  []*Expr `yaml:"eq"`
	If  *IfExpr `yaml:"if"`

	IsA      *TypeExpr     `yaml:"is_a"`
	Cast     *TypeExpr     `yaml:"cast"`
	IsNull   *Expr         `yaml:"is_null"`
	Contains *ContainsExpr `yaml:"contains"`

	Map    *MapExpr `yaml:"map"`
	Mapcat *MapExpr `yaml:"mapcat"`
	Filter *MapExpr `yaml:"filter"`
	All    *MapExpr `yaml:"all"`
	Any    *MapExpr `yaml:"any"`

	New *NewExpr `yaml:"new"`
}

// Var refers to an induction variable. An empty name is the innermost one.
type Var struct {
	Name string `yaml:"name"`
}

// FieldExpr reads a field or a property.
type FieldExpr struct {
	Of   *Expr  `yaml:"of"`
	Name string `yaml:"name"`
}

// CallExpr calls a property with arguments.
type CallExpr struct {
	Of   *Expr   `yaml:"of"`
	Name string  `yaml:"name"`
	Args []*Expr `yaml:"args"`
}

// AttrExpr applies an operation by name, or reads a field if the name is not
// one of the operations.
type AttrExpr struct {
	Of     *Expr   `yaml:"of"`
	Name   string  `yaml:"name"`
	Args   []*Expr `yaml:"args"`
	Type   string  `yaml:"type"`
	Filter *Expr   `yaml:"filter"`
	Var    string  `yaml:"var"`
}

// IfExpr picks one of two values.
type IfExpr struct {
	Cond *Expr `yaml:"cond"`
	Then *Expr `yaml:"then"`
	Else *Expr `yaml:"else"`
}

// TypeExpr is an operation on a node with a target type.
type TypeExpr struct {
	Of   *Expr  `yaml:"of"`
	Type string `yaml:"type"`
}

// ContainsExpr tests if a collection contains an item.
type ContainsExpr struct {
	Of   *Expr `yaml:"of"`
	Item *Expr `yaml:"item"`
}

// MapExpr is a collection operation. Body is the mapped value, or the
// predicate of filter, all and any. Filter is only used by map and mapcat.
type MapExpr struct {
	Of     *Expr  `yaml:"of"`
	Var    string `yaml:"var"`
	Body   *Expr  `yaml:"body"`
	Filter *Expr  `yaml:"filter"`
}

// NewField is a field of a struct literal.
type NewField struct {
	Name  string `yaml:"name"`
	Value *Expr  `yaml:"value"`
}

// NewExpr is a struct literal. The fields are evaluated in this order.
type NewExpr struct {
	Type   string      `yaml:"type"`
	Fields []*NewField `yaml:"fields"`
}

// keys returns the names of the keys which are set.
func (obj *Expr) keys() []string {
	set := map[string]bool{
		"self":     obj.Self,
		"var":      obj.Var != nil,
		"bool":     obj.Bool != nil,
		"long":     obj.Long != nil,
		"field":    obj.Field != nil,
		"call":     obj.Call != nil,
		"attr":     obj.Attr != nil,
		"and":      obj.And != nil,
		"or":       obj.Or != nil,
		"not":      obj.Not != nil,
		"eq":       obj.Eq != nil,
		"if":       obj.If != nil,
		"is_a":     obj.IsA != nil,
		"cast":     obj.Cast != nil,
		"is_null":  obj.IsNull != nil,
		"contains": obj.Contains != nil,
		"map":      obj.Map != nil,
		"mapcat":   obj.Mapcat != nil,
		"filter":   obj.Filter != nil,
		"all":      obj.All != nil,
		"any":      obj.Any != nil,
		"new":      obj.New != nil,
	}
	keys := []string{}
	for k, v := range set {
		if v {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// inductionVar returns the named induction variable, or nil for the default.
func inductionVar(name string) *ast.InductionVar {
	if name == "" {
		return nil
	}
	return ast.Vars.Get(name)
}

// Builder converts the tree into an expression builder. Type names are looked
// up in the catalogue. Type errors are left to the resolver.
func (obj *Expr) Builder(c *types.Catalogue) (*ast.Builder, error) {
	if obj == nil {
		return nil, fmt.Errorf("missing expression")
	}
	keys := obj.keys()
	if len(keys) != 1 {
		return nil, fmt.Errorf("expression must have exactly one key, got: %v", keys)
	}

	// sub converts the operands, and stops at the first error
	var reterr error
	sub := func(x *Expr) *ast.Builder {
		if reterr != nil {
			return nil
		}
		b, err := x.Builder(c)
		if err != nil {
			reterr = err
		}
		return b
	}
	lookup := func(name string) *types.Type {
		if reterr != nil {
			return nil
		}
		t, err := c.Lookup(name)
		if err != nil {
			reterr = err
		}
		return t
	}
	optional := func(x *Expr) *ast.Builder {
		if x == nil {
			return nil
		}
		return sub(x)
	}
	wrap := func(b *ast.Builder) (*ast.Builder, error) {
		if reterr != nil {
			return nil, errwrap.Wrapf(reterr, "in %s", keys[0])
		}
		if err := b.Err(); err != nil {
			return nil, errwrap.Wrapf(err, "in %s", keys[0])
		}
		return b, nil
	}

	switch {
	case obj.Self:
		return ast.Self(), nil

	case obj.Var != nil:
		if obj.Var.Name == "" {
			return ast.Var(), nil
		}
		return ast.Vars.Get(obj.Var.Name).Ref(), nil

	case obj.Bool != nil:
		return ast.Bool(*obj.Bool), nil

	case obj.Long != nil:
		return ast.Long(*obj.Long), nil

	case obj.Field != nil:
		return wrap(sub(obj.Field.Of).Field(obj.Field.Name))

	case obj.Call != nil:
		args := []*ast.Builder{}
		for _, x := range obj.Call.Args {
			args = append(args, sub(x))
		}
		return wrap(sub(obj.Call.Of).Field(obj.Call.Name).Call(args...))

	case obj.Attr != nil:
		args := ast.Args{
			Filter: optional(obj.Attr.Filter),
			Var:    inductionVar(obj.Attr.Var),
		}
		for _, x := range obj.Attr.Args {
			args.Exprs = append(args.Exprs, sub(x))
		}
		if obj.Attr.Type != "" {
			args.Type = lookup(obj.Attr.Type)
		}
		return wrap(sub(obj.Attr.Of).Attr(obj.Attr.Name, args))

	case obj.And != nil, obj.Or != nil:
		operands, and := obj.Or, false
		if obj.And != nil {
			operands, and = obj.And, true
		}
		if len(operands) < 2 {
			return nil, fmt.Errorf("%s needs at least two operands", keys[0])
		}
		b := sub(operands[0])
		for _, x := range operands[1:] {
			if and {
				b = b.And(sub(x))
				continue
			}
			b = b.Or(sub(x))
		}
		return wrap(b)

	case obj.Not != nil:
		return wrap(ast.Not(sub(obj.Not)))

	case obj.Eq != nil:
		if len(obj.Eq) != 2 {
			return nil, fmt.Errorf("eq needs two operands, got %d", len(obj.Eq))
		}
		return wrap(ast.Eq(sub(obj.Eq[0]), sub(obj.Eq[1])))

	case obj.If != nil:
		return wrap(ast.If(sub(obj.If.Cond), sub(obj.If.Then), sub(obj.If.Else)))

	case obj.IsA != nil:
		return wrap(sub(obj.IsA.Of).IsA(lookup(obj.IsA.Type)))

	case obj.Cast != nil:
		return wrap(sub(obj.Cast.Of).Cast(lookup(obj.Cast.Type)))

	case obj.IsNull != nil:
		return wrap(sub(obj.IsNull).IsNull())

	case obj.Contains != nil:
		return wrap(sub(obj.Contains.Of).Contains(sub(obj.Contains.Item)))

	case obj.Map != nil:
		x := obj.Map
		return wrap(sub(x.Of).Map(sub(x.Body), optional(x.Filter), inductionVar(x.Var)))

	case obj.Mapcat != nil:
		x := obj.Mapcat
		return wrap(sub(x.Of).Mapcat(sub(x.Body), optional(x.Filter), inductionVar(x.Var)))

	case obj.Filter != nil:
		x := obj.Filter
		return wrap(sub(x.Of).Filter(sub(x.Body), inductionVar(x.Var)))

	case obj.All != nil:
		x := obj.All
		return wrap(sub(x.Of).All(sub(x.Body), inductionVar(x.Var)))

	case obj.Any != nil:
		x := obj.Any
		return wrap(sub(x.Of).Any(sub(x.Body), inductionVar(x.Var)))

	case obj.New != nil:
		b := ast.New(lookup(obj.New.Type))
		for _, f := range obj.New.Fields {
			b = b.Set(f.Name, sub(f.Value))
		}
		return wrap(b)
	}

	return nil, fmt.Errorf("unhandled expression: %v", keys)
}
