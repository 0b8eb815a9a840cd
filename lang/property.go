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

package lang

import (
	"fmt"

	"github.com/purpleidea/propgen/lang/ast"
	"github.com/purpleidea/propgen/lang/interfaces"
	"github.com/purpleidea/propgen/lang/ir"
	"github.com/purpleidea/propgen/lang/names"
	"github.com/purpleidea/propgen/lang/types"
	"github.com/purpleidea/propgen/util/errwrap"

	"github.com/davecgh/go-spew/spew"
)

// Property is a computed member of a node type. Its value is given by an
// expression which is resolved with the receiver bound to the owner type.
type Property struct {
	// Name is the lower case name of the property, eg: is_leaf.
	Name string

	// Doc is an optional documentation string for the declaration.
	Doc string

	// Expr is the body of the property. It must be nil for abstract and
	// external properties, and set for every other one.
	Expr *ast.Builder

	// Type is the declared return type. It is optional for properties with
	// a body, in which case the type of the body is used.
	Type *types.Type

	// Private properties are only declared in the body.
	Private bool

	// External properties are implemented by hand, only their declaration
	// is generated.
	External bool

	// Abstract properties must be overridden by every concrete subclass of
	// their owner.
	Abstract bool

	owner    *types.Type
	field    *types.Field
	vars     *ir.LocalVars
	resolved ir.Expr
	result   *types.Type // the final return type
	decl     string
	def      string
}

// renderData is what the decl and def templates receive.
type renderData struct {
	Name     string
	Doc      string
	Owner    *types.Type
	Type     *types.Type
	Abstract bool
	Vars     string
	Pre      string
	Result   string
}

// FullName returns the name of the property in the generated code, eg:
// P_Is_Leaf.
func (obj *Property) FullName() names.Name {
	return names.FromLower("p").Add(names.FromLower(obj.Name))
}

// String returns the qualified name of this property.
func (obj *Property) String() string {
	if obj.owner == nil {
		return obj.FullName().String()
	}
	return fmt.Sprintf("%s.%s", obj.owner, obj.FullName())
}

// Owner returns the node type this property was added to.
func (obj *Property) Owner() *types.Type { return obj.owner }

// Resolved returns the resolved body, once the property was rendered.
func (obj *Property) Resolved() ir.Expr { return obj.resolved }

// Vars returns the local variables of the rendered body.
func (obj *Property) Vars() *ir.LocalVars { return obj.vars }

// ResultType returns the return type once the property was rendered, or the
// declared type.
func (obj *Property) ResultType() *types.Type {
	if obj.result != nil {
		return obj.result
	}
	return obj.Type
}

// Decl returns the rendered declaration.
func (obj *Property) Decl() string { return obj.decl }

// Def returns the rendered definition. It is empty for abstract and external
// properties.
func (obj *Property) Def() string { return obj.def }

// Validate checks the combination of flags of this property, independently of
// its owner.
func (obj *Property) Validate() error {
	if obj.Name == "" {
		return fmt.Errorf("property without a name")
	}
	if obj.External && obj.Abstract {
		return fmt.Errorf("property %s can't be both external and abstract", obj.Name)
	}
	if obj.External || obj.Abstract {
		if obj.Type == nil {
			return fmt.Errorf("property %s has no body, so it needs a type", obj.Name)
		}
		if obj.Expr != nil {
			return fmt.Errorf("property %s can't have a body", obj.Name)
		}
		return nil
	}
	if obj.Expr == nil {
		return fmt.Errorf("property %s has no body", obj.Name)
	}
	return nil
}

// Render resolves the body of the property with the receiver bound to the
// owner type, and renders the declaration and the definition. It can be
// called again after a failure, eg: once the types it depends on are known.
func (obj *Property) Render(ctx *ast.Context, owner *types.Type, r interfaces.Renderer) error {
	if err := obj.Validate(); err != nil {
		return err
	}
	obj.owner = owner
	data := &renderData{
		Name:     obj.FullName().String(),
		Doc:      obj.Doc,
		Owner:    owner,
		Type:     obj.Type,
		Abstract: obj.Abstract,
	}

	if obj.External || obj.Abstract {
		decl, err := r.Render("decl", data)
		if err != nil {
			return errwrap.Wrapf(err, "could not render the declaration of %s", obj)
		}
		obj.result = obj.Type
		obj.decl = decl
		return nil
	}

	expr, err := obj.Expr.Seal()
	if err != nil {
		return errwrap.Wrapf(err, "invalid expression")
	}

	vars := ir.NewLocalVars()
	var resolved ir.Expr
	if err := ctx.WithSelf(owner, func() error {
		return ctx.WithProperty(vars, func() error {
			var err error
			resolved, err = ctx.Resolve(expr)
			return err
		})
	}); err != nil {
		return err
	}
	if ctx.Debug && ctx.Logf != nil {
		ctx.Logf("resolved %s: %s", obj, spew.Sdump(resolved))
	}

	typ := resolved.Type()
	if obj.Type != nil {
		if !typ.IsSubclassOf(obj.Type) {
			return errwrap.Wrapf(interfaces.ErrTypeMismatch, "%s returns %s, got %s", obj, obj.Type, typ)
		}
		if typ.Cmp(obj.Type) != nil {
			resolved = &ir.ExprCast{Expr: resolved, T: obj.Type}
		}
		typ = obj.Type
	}
	data.Type = typ

	pre, err := resolved.RenderPre(r)
	if err != nil {
		return errwrap.Wrapf(err, "could not render the body of %s", obj)
	}
	result, err := resolved.RenderExpr(r)
	if err != nil {
		return errwrap.Wrapf(err, "could not render the body of %s", obj)
	}
	decls, err := vars.Render(r)
	if err != nil {
		return errwrap.Wrapf(err, "could not render the variables of %s", obj)
	}
	data.Pre = pre
	data.Result = result
	data.Vars = decls

	decl, err := r.Render("decl", data)
	if err != nil {
		return errwrap.Wrapf(err, "could not render the declaration of %s", obj)
	}
	def, err := r.Render("def", data)
	if err != nil {
		return errwrap.Wrapf(err, "could not render the definition of %s", obj)
	}

	obj.vars = vars
	obj.resolved = resolved
	obj.result = typ
	obj.decl = decl
	obj.def = def
	return nil
}
