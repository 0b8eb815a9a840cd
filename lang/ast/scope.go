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

// binding is an entry of the induction variable stack.
type binding struct {
	v   *InductionVar
	typ *types.Type
}

// Context is a resolution session. It holds the type of the receiver, the local
// variables of the property being rendered, and the stack of the induction
// variables of the enclosing collection expressions. The receiver and the
// property are single slots which can't be bound twice, so properties can't be
// rendered from within each other. A context must only be used by one
// goroutine at a time.
type Context struct {
	Catalogue *types.Catalogue

	Debug bool
	Logf  func(format string, v ...interface{})

	self     *types.Type
	property *ir.LocalVars
	stack    []*binding
}

func (obj *Context) logf(format string, v ...interface{}) {
	if obj.Logf == nil {
		return
	}
	obj.Logf(format, v...)
}

// Receiver returns the type the receiver is bound to, or nil.
func (obj *Context) Receiver() *types.Type { return obj.self }

// Property returns the local variables of the bound property, or nil.
func (obj *Context) Property() *ir.LocalVars { return obj.property }

// Depth returns the number of bound induction variables.
func (obj *Context) Depth() int { return len(obj.stack) }

// WithSelf binds the receiver to a node type while fn runs. The binding is
// removed when fn returns, even if it fails or panics.
func (obj *Context) WithSelf(typ *types.Type, fn func() error) error {
	if obj.self != nil {
		return errwrap.Wrapf(interfaces.ErrReentrantBinding, "receiver is already bound to %s", obj.self)
	}
	if !typ.IsNode() {
		return fmt.Errorf("receiver must be a node type, not %s", typ)
	}
	obj.self = typ
	defer func() { obj.self = nil }()
	return fn()
}

// WithProperty makes vars the namespace for the temporaries allocated while fn
// runs. The binding is removed when fn returns, even if it fails or panics.
func (obj *Context) WithProperty(vars *ir.LocalVars, fn func() error) error {
	if obj.property != nil {
		return errwrap.Wrapf(interfaces.ErrReentrantBinding, "a property is already being rendered")
	}
	if vars == nil {
		return fmt.Errorf("nil local variables")
	}
	obj.property = vars
	defer func() { obj.property = nil }()
	return fn()
}

// withInductionVar pushes a binding while fn runs. Unlike the receiver, these
// bindings nest.
func (obj *Context) withInductionVar(v *InductionVar, typ *types.Type, fn func() error) error {
	depth := len(obj.stack)
	obj.stack = append(obj.stack, &binding{v: v, typ: typ})
	defer func() { obj.stack = obj.stack[:depth] }()
	if obj.Debug {
		obj.logf("bind %s: %s (depth %d)", v, typ, depth+1)
	}
	return fn()
}

// lookup returns the innermost binding of the variable. A nil variable matches
// the innermost binding of any variable.
func (obj *Context) lookup(v *InductionVar) (*binding, bool) {
	for i := len(obj.stack) - 1; i >= 0; i-- {
		if v == nil || obj.stack[i].v == v {
			return obj.stack[i], true
		}
	}
	return nil, false
}

// newVar allocates a temporary in the namespace of the bound property. The
// name gets a suffix if it is taken already.
func (obj *Context) newVar(name string, typ *types.Type) (*ir.LocalVar, error) {
	if obj.property == nil {
		return nil, errwrap.Wrapf(interfaces.ErrNotBound, "no property to allocate %s in", name)
	}
	return obj.property.New(names.FromLower(name), typ, false)
}
