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
	"sync"

	"github.com/purpleidea/propgen/lang/names"
)

const (
	// DefaultVarName is the name of the induction variable that collection
	// expressions use when none is given.
	DefaultVarName = "item"

	// MembershipVarName is the key of the induction variable of contains
	// expressions.
	MembershipVarName = "membership_test_item"
)

// Vars is the registry of the induction variables. Getting the same name twice
// returns the same variable.
var Vars = NewInductionVars()

// InductionVar is the element of a collection expression, bound while its body
// is resolved. Variables are compared by identity, so always get them from an
// InductionVars registry.
type InductionVar struct {
	name names.Name
}

func (obj *InductionVar) isExpr() {}

// Name returns the name of this variable in the generated code.
func (obj *InductionVar) Name() names.Name { return obj.name }

// String returns a short representation of this expression.
func (obj *InductionVar) String() string { return obj.name.CamelWithUnderscores() }

// Apply is a general purpose iterator method that operates on any AST node.
func (obj *InductionVar) Apply(fn func(Expr) error) error { return fn(obj) }

// Ref returns a builder which refers to this variable.
func (obj *InductionVar) Ref() *Builder {
	return leaf(obj)
}

// InductionVars memoizes induction variables by name.
type InductionVars struct {
	mutex *sync.Mutex
	vars  map[string]*InductionVar
}

// NewInductionVars returns an empty registry.
func NewInductionVars() *InductionVars {
	return &InductionVars{
		mutex: &sync.Mutex{},
		vars:  make(map[string]*InductionVar),
	}
}

func (obj *InductionVars) get(name names.Name) *InductionVar {
	obj.mutex.Lock()
	defer obj.mutex.Unlock()
	if v, exists := obj.vars[name.Lower()]; exists {
		return v
	}
	v := &InductionVar{name: name}
	obj.vars[name.Lower()] = v
	return v
}

// Get returns the variable for this lower case name. Its name in the generated
// code gets an I_ prefix, eg: "elem" is I_Elem.
func (obj *InductionVars) Get(name string) *InductionVar {
	return obj.get(names.FromLower("i").Add(names.FromLower(name)))
}

// Default returns the variable used by collection expressions which don't name
// one.
func (obj *InductionVars) Default() *InductionVar {
	return obj.get(names.FromLower(DefaultVarName))
}

// Membership returns the variable used by contains expressions.
func (obj *InductionVars) Membership() *InductionVar {
	return obj.Get(MembershipVarName)
}
