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

// Package names implements the identifier conventions used by the generator.
// A Name is stored as a list of lower case words, and can be printed in the
// different cases that the generated code needs.
package names

import (
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
)

// Name is an identifier made of words. The zero value is the empty name.
type Name struct {
	// base is the lower case, underscore separated form, eg: foo_node.
	base string
}

// FromLower builds a name from its lower case form, eg: "foo_node".
func FromLower(s string) Name {
	return Name{base: strcase.ToSnake(s)}
}

// FromCamel builds a name from its camel case form, eg: "FooNode".
func FromCamel(s string) Name {
	return Name{base: strcase.ToSnake(s)}
}

// FromCamelWithUnderscores builds a name from its ada-like form, eg:
// "Foo_Node".
func FromCamelWithUnderscores(s string) Name {
	return Name{base: strings.ToLower(s)}
}

// IsEmpty returns true if this name has no words.
func (obj Name) IsEmpty() bool { return obj.base == "" }

// Lower returns the name as "foo_node".
func (obj Name) Lower() string { return obj.base }

// Camel returns the name as "FooNode".
func (obj Name) Camel() string { return strcase.ToCamel(obj.base) }

// CamelWithUnderscores returns the name as "Foo_Node". This is the form used
// for identifiers in the generated code.
func (obj Name) CamelWithUnderscores() string {
	words := strings.Split(obj.base, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[0:1]) + w[1:]
	}
	return strings.Join(words, "_")
}

// String returns the ada-like form for display purposes.
func (obj Name) String() string { return obj.CamelWithUnderscores() }

// Add returns a new name made of the words of this name followed by the words
// of the other one. Either side may be empty.
func (obj Name) Add(other Name) Name {
	if obj.base == "" {
		return other
	}
	if other.base == "" {
		return obj
	}
	return Name{base: obj.base + "_" + other.base}
}

// Suffix returns a new name with a numeric word appended, eg: result_2.
func (obj Name) Suffix(i int) Name {
	return obj.Add(Name{base: strconv.Itoa(i)})
}

// HasPrefix returns true if the first words of this name are the words of the
// prefix.
func (obj Name) HasPrefix(prefix Name) bool {
	if prefix.base == "" {
		return true
	}
	return obj.base == prefix.base || strings.HasPrefix(obj.base, prefix.base+"_")
}
