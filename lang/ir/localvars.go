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
)

// LocalVar is a variable declared in the body of a property. The resolver
// allocates them for the temporaries that hold the result of if, map and
// quantifier expressions.
type LocalVar struct {
	Name names.Name
	Type *types.Type
}

// String returns the name of the variable in the generated code.
func (obj *LocalVar) String() string { return obj.Name.CamelWithUnderscores() }

// Ref returns an expression which reads this variable.
func (obj *LocalVar) Ref() *ExprVar {
	return &ExprVar{Name: obj.Name, T: obj.Type}
}

// LocalVars is the namespace of the local variables of one property.
type LocalVars struct {
	vars  []*LocalVar
	index map[string]*LocalVar // keyed by lower case name
}

// NewLocalVars returns an empty namespace.
func NewLocalVars() *LocalVars {
	return &LocalVars{
		vars:  []*LocalVar{},
		index: make(map[string]*LocalVar),
	}
}

// New declares a variable. If unique is true, the name must not be taken yet.
// Otherwise a numeric suffix is appended to the name until it is unused, eg:
// Result, Result_1, Result_2.
func (obj *LocalVars) New(name names.Name, typ *types.Type, unique bool) (*LocalVar, error) {
	if name.IsEmpty() {
		return nil, fmt.Errorf("empty local variable name")
	}
	if typ == nil {
		return nil, fmt.Errorf("local variable %s has no type", name)
	}
	if _, exists := obj.index[name.Lower()]; exists && unique {
		return nil, fmt.Errorf("local variable %s is already declared", name)
	}
	n := name
	for i := 1; ; i++ {
		if _, exists := obj.index[n.Lower()]; !exists {
			break
		}
		n = name.Suffix(i)
	}
	v := &LocalVar{
		Name: n,
		Type: typ,
	}
	obj.vars = append(obj.vars, v)
	obj.index[n.Lower()] = v
	return v, nil
}

// Get returns the variable with this name.
func (obj *LocalVars) Get(name names.Name) (*LocalVar, bool) {
	v, exists := obj.index[name.Lower()]
	return v, exists
}

// Vars returns the variables in declaration order.
func (obj *LocalVars) Vars() []*LocalVar {
	result := []*LocalVar{}
	result = append(result, obj.vars...)
	return result
}

// Len returns the number of declared variables.
func (obj *LocalVars) Len() int { return len(obj.vars) }

// Render renders the declarations of the variables with the "vars" template.
func (obj *LocalVars) Render(r interfaces.Renderer) (string, error) {
	return r.Render("vars", obj.Vars())
}
