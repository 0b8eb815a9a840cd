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

// Package yamllang loads a language description from a yaml file: the node
// and struct types, and the properties with their expression trees.
package yamllang

import (
	"fmt"
	"strings"

	"github.com/purpleidea/propgen/lang"
	"github.com/purpleidea/propgen/lang/interfaces"
	"github.com/purpleidea/propgen/lang/types"
	"github.com/purpleidea/propgen/util/errwrap"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

// Field is a field of a node or of a struct type.
type Field struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Node is the description of a node type. Every node type but the root must
// name its base, which must be declared above it.
type Node struct {
	Name     string   `yaml:"name"`
	Base     string   `yaml:"base"`
	Abstract bool     `yaml:"abstract"`
	Fields   []*Field `yaml:"fields"`
}

// Struct is the description of a struct type. Struct types can't be
// subclassed, so a base is an error.
type Struct struct {
	Name   string   `yaml:"name"`
	Base   string   `yaml:"base"`
	Fields []*Field `yaml:"fields"`
}

// Property is the description of a property.
type Property struct {
	Owner    string `yaml:"owner"`
	Name     string `yaml:"name"`
	Doc      string `yaml:"doc"`
	Type     string `yaml:"type"`
	Private  bool   `yaml:"private"`
	External bool   `yaml:"external"`
	Abstract bool   `yaml:"abstract"`
	Expr     *Expr  `yaml:"expr"`
}

// Config is the data structure of a language description.
type Config struct {
	Language   string      `yaml:"language"`
	Comment    string      `yaml:"comment"`
	Nodes      []*Node     `yaml:"nodes"`
	Structs    []*Struct   `yaml:"structs"`
	Properties []*Property `yaml:"properties"`
}

// Parse parses a data stream into the config structure.
func (obj *Config) Parse(data []byte) error {
	if err := yaml.UnmarshalStrict(data, obj); err != nil {
		return errwrap.Wrapf(err, "could not parse the language")
	}
	if obj.Language == "" {
		return fmt.Errorf("language config: missing language name")
	}
	if len(obj.Nodes) == 0 {
		return fmt.Errorf("language config: no node types")
	}
	return nil
}

// ParseFile reads and parses a language description.
func ParseFile(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errwrap.Wrapf(err, "could not read %s", path)
	}
	obj := &Config{}
	if err := obj.Parse(data); err != nil {
		return nil, errwrap.Wrapf(err, "invalid language in %s", path)
	}
	return obj, nil
}

// Catalogue declares every type of the description. Types are declared first,
// and fields afterwards, so that fields can refer to any type.
func (obj *Config) Catalogue() (*types.Catalogue, error) {
	c := types.NewCatalogue()
	for _, x := range obj.Nodes {
		var base *types.Type
		if x.Base != "" {
			t, err := c.Lookup(x.Base)
			if err != nil {
				return nil, errwrap.Wrapf(err, "base of %s", x.Name)
			}
			base = t
		}
		if _, err := c.NewNode(x.Name, base, x.Abstract); err != nil {
			return nil, err
		}
	}
	for _, x := range obj.Structs {
		var base *types.Type
		if x.Base != "" {
			t, err := c.Lookup(x.Base)
			if err != nil {
				return nil, errwrap.Wrapf(err, "base of %s", x.Name)
			}
			base = t
		}
		if _, err := c.NewStruct(x.Name, base); err != nil {
			return nil, err
		}
	}

	var reterr error
	addFields := func(name string, fields []*Field) {
		owner, err := c.Lookup(name)
		if err != nil {
			reterr = errwrap.Append(reterr, err)
			return
		}
		for _, f := range fields {
			typ, err := c.Lookup(f.Type)
			if err != nil {
				reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "field %s of %s", f.Name, name))
				continue
			}
			if _, err := c.AddField(owner, f.Name, typ); err != nil {
				reterr = errwrap.Append(reterr, err)
			}
		}
	}
	for _, x := range obj.Nodes {
		addFields(x.Name, x.Fields)
	}
	for _, x := range obj.Structs {
		addFields(x.Name, x.Fields)
	}
	if reterr != nil {
		return nil, reterr
	}
	return c, nil
}

// NewLanguage builds the language. The Debug and Logf fields of the result are
// left to the caller, and it still has to be rendered.
func (obj *Config) NewLanguage(r interfaces.Renderer) (*lang.Language, error) {
	c, err := obj.Catalogue()
	if err != nil {
		return nil, err
	}
	l := &lang.Language{
		Catalogue: c,
		Renderer:  r,
	}
	if err := l.Init(); err != nil {
		return nil, err
	}

	var reterr error
	for i, x := range obj.Properties {
		p, owner, err := x.property(c)
		if err != nil {
			reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "property #%d (%s)", i, x.Name))
			continue
		}
		if err := l.AddProperty(owner, p); err != nil {
			reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "property #%d (%s)", i, x.Name))
		}
	}
	if reterr != nil {
		return nil, reterr
	}
	return l, nil
}

// property builds the property and looks up its owner.
func (obj *Property) property(c *types.Catalogue) (*lang.Property, *types.Type, error) {
	owner, err := c.Lookup(obj.Owner)
	if err != nil {
		return nil, nil, errwrap.Wrapf(err, "unknown owner")
	}
	p := &lang.Property{
		Name:     obj.Name,
		Doc:      strings.TrimSpace(obj.Doc),
		Private:  obj.Private,
		External: obj.External,
		Abstract: obj.Abstract,
	}
	if obj.Type != "" {
		typ, err := c.Lookup(obj.Type)
		if err != nil {
			return nil, nil, err
		}
		p.Type = typ
	}
	if obj.Expr != nil {
		b, err := obj.Expr.Builder(c)
		if err != nil {
			return nil, nil, err
		}
		p.Expr = b
	}
	return p, owner, nil
}
