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

	"github.com/purpleidea/propgen/lang/types"
)

// Op is one of the named operations that Attr recognizes. Every other name is
// a field access.
type Op int

// These are all the named operations.
const (
	OpAll Op = iota
	OpAny
	OpCast
	OpContains
	OpEquals
	OpFilter
	OpIsA
	OpIsNull
	OpMap
	OpMapcat
)

var opNames = map[Op]string{
	OpAll:      "all",
	OpAny:      "any",
	OpCast:     "cast",
	OpContains: "contains",
	OpEquals:   "equals",
	OpFilter:   "filter",
	OpIsA:      "is_a",
	OpIsNull:   "is_null",
	OpMap:      "map",
	OpMapcat:   "mapcat",
}

// String returns the name of the operation.
func (obj Op) String() string {
	if s, exists := opNames[obj]; exists {
		return s
	}
	return fmt.Sprintf("op(%d)", int(obj))
}

// LookupOp returns the operation with this name, if it is one.
func LookupOp(name string) (Op, bool) {
	for op, s := range opNames {
		if s == name {
			return op, true
		}
	}
	return 0, false
}

// Args are the operands of a named operation. Each operation uses a subset of
// them, see Attr.
type Args struct {
	// Exprs are the positional operands: the body of map and mapcat, the
	// predicate of all, any and filter, the item of contains and the other
	// side of equals.
	Exprs []*Builder

	// Type is the target type of cast and is_a.
	Type *types.Type

	// Filter is the optional filter of map and mapcat.
	Filter *Builder

	// Var is the optional induction variable of the collection operations.
	Var *InductionVar
}

// Attr applies the named operation to this expression. Names which are not
// operations become field accesses, which must then have no arguments.
func (obj *Builder) Attr(name string, args Args) *Builder {
	op, exists := LookupOp(name)
	if !exists {
		if err := args.expect(name, 0, false); err != nil {
			return failed(err)
		}
		return obj.Field(name)
	}

	switch op {
	case OpAll, OpAny, OpFilter:
		if err := args.expect(name, 1, false); err != nil {
			return failed(err)
		}
		if op == OpAll {
			return obj.All(args.Exprs[0], args.Var)
		}
		if op == OpAny {
			return obj.Any(args.Exprs[0], args.Var)
		}
		return obj.Filter(args.Exprs[0], args.Var)

	case OpMap, OpMapcat:
		if err := args.expect(name, 1, false); err != nil {
			return failed(err)
		}
		if op == OpMap {
			return obj.Map(args.Exprs[0], args.Filter, args.Var)
		}
		return obj.Mapcat(args.Exprs[0], args.Filter, args.Var)

	case OpCast, OpIsA:
		if err := args.expect(name, 0, true); err != nil {
			return failed(err)
		}
		if op == OpCast {
			return obj.Cast(args.Type)
		}
		return obj.IsA(args.Type)

	case OpContains, OpEquals:
		if err := args.expect(name, 1, false); err != nil {
			return failed(err)
		}
		if op == OpContains {
			return obj.Contains(args.Exprs[0])
		}
		return obj.Equals(args.Exprs[0])

	case OpIsNull:
		if err := args.expect(name, 0, false); err != nil {
			return failed(err)
		}
		return obj.IsNull()
	}

	return failed(fmt.Errorf("unhandled operation %s", op))
}

// expect validates the arguments of an operation. Filter and Var are only
// allowed on the collection operations.
func (obj Args) expect(name string, exprs int, typ bool) error {
	if len(obj.Exprs) != exprs {
		return fmt.Errorf("%s expects %d operand(s), got %d", name, exprs, len(obj.Exprs))
	}
	if typ && obj.Type == nil {
		return fmt.Errorf("%s expects a type", name)
	}
	if !typ && obj.Type != nil {
		return fmt.Errorf("%s doesn't take a type", name)
	}
	op, isOp := LookupOp(name)
	mapper := isOp && (op == OpMap || op == OpMapcat)
	collection := mapper || isOp && (op == OpAll || op == OpAny || op == OpFilter)
	if obj.Var != nil && !collection {
		return fmt.Errorf("%s doesn't take an induction variable", name)
	}
	if obj.Filter != nil && !mapper {
		return fmt.Errorf("%s doesn't take a filter", name)
	}
	return nil
}
