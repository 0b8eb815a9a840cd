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

// Package lang is the property compiler. A Language holds the node types and
// the properties that are attached to them, and renders every property to
// target code.
package lang

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/purpleidea/propgen/lang/ast"
	"github.com/purpleidea/propgen/lang/interfaces"
	"github.com/purpleidea/propgen/lang/names"
	"github.com/purpleidea/propgen/lang/types"
	"github.com/purpleidea/propgen/util/errwrap"

	"github.com/spf13/afero"
)

const (
	// SpecFile is the name of the file with the declarations.
	SpecFile = "properties.ads"

	// BodyFile is the name of the file with the definitions.
	BodyFile = "properties.adb"
)

// Language is the main compiler object. Run Init before anything else.
type Language struct {
	Catalogue *types.Catalogue
	Renderer  interfaces.Renderer

	Debug bool
	Logf  func(format string, v ...interface{})

	properties []*Property                 // in the order they were added
	byField    map[*types.Field]*Property  // field table entry of each one
	byOwner    map[*types.Type][]*Property // keyed by owner type
}

// Init validates the struct and prepares it for use.
func (obj *Language) Init() error {
	if obj.Catalogue == nil {
		return fmt.Errorf("the Catalogue is missing")
	}
	if obj.Renderer == nil {
		return fmt.Errorf("the Renderer is missing")
	}
	if obj.Logf == nil {
		obj.Logf = func(format string, v ...interface{}) {} // noop
	}
	obj.properties = []*Property{}
	obj.byField = make(map[*types.Field]*Property)
	obj.byOwner = make(map[*types.Type][]*Property)
	return nil
}

// AddProperty attaches a property to a node type. The property becomes part of
// the field table of the owner, so that other properties can refer to it.
func (obj *Language) AddProperty(owner *types.Type, p *Property) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if !owner.IsNode() {
		return fmt.Errorf("property %s can't be attached to %s, which is not a node", p.Name, owner)
	}
	if p.Abstract && !owner.Abstract {
		return fmt.Errorf("abstract property %s needs an abstract owner, but %s is concrete", p.Name, owner)
	}
	if p.owner != nil {
		return fmt.Errorf("property %s is already attached to %s", p.Name, p.owner)
	}
	field, err := obj.Catalogue.AddProperty(owner, p.Name, p.Type)
	if err != nil {
		return err
	}
	p.owner = owner
	p.field = field
	obj.properties = append(obj.properties, p)
	obj.byField[field] = p
	obj.byOwner[owner] = append(obj.byOwner[owner], p)
	return nil
}

// Properties returns the properties of a node type, in the order they were
// added. A nil type returns every property.
func (obj *Language) Properties(owner *types.Type) []*Property {
	result := []*Property{}
	if owner == nil {
		return append(result, obj.properties...)
	}
	return append(result, obj.byOwner[owner]...)
}

// checkAbstract returns an error for each concrete node type that inherits an
// abstract property without overriding it.
func (obj *Language) checkAbstract() error {
	var reterr error
	for _, p := range obj.ordered() {
		if !p.Abstract {
			continue
		}
		for _, t := range obj.Catalogue.Subclasses(p.owner) {
			if t.Abstract {
				continue
			}
			f, exists := t.LookupField(p.Name)
			if !exists || obj.byField[f] != p {
				continue // overridden on the way down
			}
			err := fmt.Errorf("concrete type %s must override abstract property %s", t, p)
			reterr = errwrap.Append(reterr, err)
		}
	}
	return reterr
}

// checkOverride returns an error if the property overrides an inherited one,
// but returns a different type.
func (obj *Language) checkOverride(p *Property) error {
	if p.owner.Parent == nil {
		return nil
	}
	f, exists := p.owner.Parent.LookupField(p.Name)
	if !exists {
		return nil
	}
	parent, exists := obj.byField[f]
	if !exists || parent.ResultType() == nil {
		return nil
	}
	if err := p.ResultType().Cmp(parent.ResultType()); err != nil {
		return errwrap.Wrapf(interfaces.ErrTypeMismatch, "%s returns %s, but overrides %s which returns %s", p, p.ResultType(), parent, parent.ResultType())
	}
	return nil
}

// Render renders every property. Properties which refer to properties whose
// type is only known once they are rendered are retried, as long as each pass
// makes progress. All of the errors are returned together.
func (obj *Language) Render() (*Output, error) {
	if err := obj.checkAbstract(); err != nil {
		return nil, err
	}

	ctx := &ast.Context{
		Catalogue: obj.Catalogue,
		Debug:     obj.Debug,
		Logf: func(format string, v ...interface{}) {
			obj.Logf("resolve: "+format, v...)
		},
	}

	pending := obj.ordered()
	failures := make(map[*Property]error)
	for pass := 1; len(pending) > 0; pass++ {
		obj.Logf("pass %d: %d properties to render", pass, len(pending))
		retry := []*Property{}
		for _, p := range pending {
			err := p.Render(ctx, p.owner, obj.Renderer)
			if err == nil {
				p.field.Type = p.ResultType()
				delete(failures, p)
				continue
			}
			failures[p] = err
			if errors.Is(err, interfaces.ErrTypeCurrentlyUnknown) {
				retry = append(retry, p)
			}
		}
		if len(retry) == len(pending) || len(retry) == 0 {
			break // no progress, or nothing left to retry
		}
		pending = retry
	}

	var reterr error
	for _, p := range obj.ordered() {
		if err, exists := failures[p]; exists {
			if deps := obj.waitingFor(p, failures); len(deps) > 0 {
				err = errwrap.Wrapf(err, "waiting for %s", strings.Join(deps, ", "))
			}
			reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "could not render %s", p))
			continue
		}
		if err := obj.checkOverride(p); err != nil {
			reterr = errwrap.Append(reterr, err)
		}
	}
	if reterr != nil {
		return nil, reterr
	}

	output := &Output{}
	for _, p := range obj.ordered() {
		output.Properties = append(output.Properties, &Rendered{
			Owner:   p.owner.String(),
			Name:    p.FullName().String(),
			Private: p.Private,
			Decl:    p.Decl(),
			Def:     p.Def(),
		})
	}
	return output, nil
}

// waitingFor returns the names of the failed properties that this property
// reads, when it failed because their type is unknown.
func (obj *Language) waitingFor(p *Property, failures map[*Property]error) []string {
	if !errors.Is(failures[p], interfaces.ErrTypeCurrentlyUnknown) || p.Expr == nil {
		return nil
	}
	expr, err := p.Expr.Seal()
	if err != nil {
		return nil
	}
	read := ast.FieldNames(expr)
	result := []string{}
	for _, q := range obj.ordered() {
		if _, failed := failures[q]; !failed {
			continue
		}
		for _, name := range read {
			if names.FromLower(name).Lower() == names.FromLower(q.Name).Lower() {
				result = append(result, q.FullName().String())
				break
			}
		}
	}
	return result
}

// ordered returns the properties grouped by owner, in the declaration order of
// the node types, so that parents come first.
func (obj *Language) ordered() []*Property {
	result := []*Property{}
	for _, t := range obj.Catalogue.Nodes() {
		result = append(result, obj.byOwner[t]...)
	}
	return result
}

// Rendered is the generated code of one property.
type Rendered struct {
	Owner   string
	Name    string
	Private bool
	Decl    string
	Def     string
}

// Output is the generated code of a language.
type Output struct {
	Properties []*Rendered
}

// Spec returns the declarations of the public properties.
func (obj *Output) Spec() string {
	s := []string{}
	for _, x := range obj.Properties {
		if x.Private {
			continue
		}
		s = append(s, x.Decl)
	}
	return joinSections(s)
}

// Body returns the declarations of the private properties, followed by every
// definition.
func (obj *Output) Body() string {
	s := []string{}
	for _, x := range obj.Properties {
		if x.Private {
			s = append(s, x.Decl)
		}
	}
	for _, x := range obj.Properties {
		if x.Def == "" {
			continue
		}
		s = append(s, x.Def)
	}
	return joinSections(s)
}

// Write writes the spec and the body files into a directory.
func (obj *Output) Write(fs afero.Fs, dir string) error {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return errwrap.Wrapf(err, "could not make the output dir")
	}
	files := map[string]string{
		SpecFile: obj.Spec(),
		BodyFile: obj.Body(),
	}
	for name, content := range files {
		p := path.Join(dir, name)
		if err := afero.WriteFile(fs, p, []byte(content), 0644); err != nil {
			return errwrap.Wrapf(err, "could not write %s", p)
		}
	}
	return nil
}

// joinSections joins the sections with a blank line, and ends with a newline.
func joinSections(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return strings.Join(s, "\n\n") + "\n"
}
