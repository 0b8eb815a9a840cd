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

package interfaces

import (
	"fmt"
	"strings"

	"github.com/purpleidea/propgen/util"
)

const (
	// ErrIllegalMutation is returned when an expression builder is changed
	// after it was sealed. Sealed expressions are shared by the resolver, so
	// they must never change.
	ErrIllegalMutation = util.Error("expression was mutated after it was sealed")

	// ErrTypeMismatch is returned when an operand doesn't have the type that
	// the operation expects, eg: a non boolean condition in an if.
	ErrTypeMismatch = util.Error("type mismatch")

	// ErrInvalidCollection is returned when a collection operation is used
	// on something which isn't a collection.
	ErrInvalidCollection = util.Error("invalid collection")

	// ErrUnresolvedField is returned when a field access names a field that
	// the receiver type doesn't have.
	ErrUnresolvedField = util.Error("unresolved field")

	// ErrStructFieldSet is returned when a struct literal doesn't provide
	// exactly the set of fields that the struct type declares. Use
	// errors.Is with it, the actual error is a *StructFieldSetError.
	ErrStructFieldSet = util.Error("invalid set of struct fields")

	// ErrReentrantBinding is returned when a binding is made while the same
	// binding is already active, or when an induction variable is used out of
	// its binding.
	ErrReentrantBinding = util.Error("reentrant binding")

	// ErrNotBound is returned when the resolver needs the receiver or the
	// current property, but the context has no such binding.
	ErrNotBound = util.Error("context is not bound")

	// ErrTypeCurrentlyUnknown is returned when an expression refers to a
	// property whose type isn't known yet, because it has not been rendered
	// and it was not declared with an explicit type.
	ErrTypeCurrentlyUnknown = util.Error("type is currently unknown")

	// ErrValueCurrentlyUnknown is returned when a resolved expression is
	// statically evaluated, but the environment doesn't know the value of
	// something it needs, eg: a property which has no precomputed value.
	ErrValueCurrentlyUnknown = util.Error("value is currently unknown")

	// ErrNotImplemented is returned for expression kinds which exist in the
	// tree but can't be resolved yet.
	ErrNotImplemented = util.Error("not implemented")
)

// StructFieldSetError is the detailed form of ErrStructFieldSet. It lists the
// fields that a struct literal forgot, the ones it named but which don't exist
// and the ones it named more than once, so that all can be reported at once.
type StructFieldSetError struct {
	Struct    string
	Missing   []string
	Unknown   []string
	Duplicate []string
}

// Error returns the message of this error.
func (obj *StructFieldSetError) Error() string {
	s := []string{}
	if len(obj.Missing) > 0 {
		s = append(s, fmt.Sprintf("missing fields: %s", strings.Join(obj.Missing, ", ")))
	}
	if len(obj.Unknown) > 0 {
		s = append(s, fmt.Sprintf("unknown fields: %s", strings.Join(obj.Unknown, ", ")))
	}
	if len(obj.Duplicate) > 0 {
		s = append(s, fmt.Sprintf("duplicate fields: %s", strings.Join(obj.Duplicate, ", ")))
	}
	return fmt.Sprintf("%s for %s: %s", ErrStructFieldSet, obj.Struct, strings.Join(s, "; "))
}

// Is makes errors.Is match this error against ErrStructFieldSet.
func (obj *StructFieldSetError) Is(target error) bool {
	return target == ErrStructFieldSet
}
