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

// Package util contains a collection of miscellaneous utility functions.
package util

import (
	"sort"
)

// Error is a constant error type that implements error.
type Error string

// Error fulfills the error interface of this type.
func (e Error) Error() string { return string(e) }

// StrInList returns true if a string exists inside a list, otherwise false.
func StrInList(needle string, haystack []string) bool {
	for _, x := range haystack {
		if needle == x {
			return true
		}
	}
	return false
}

// StrRemoveDuplicatesInList removes any duplicate values in the list. This
// implementation is possibly sub-optimal (O(n^2)?) but preserves ordering.
func StrRemoveDuplicatesInList(list []string) []string {
	unique := []string{}
	for _, x := range list {
		if !StrInList(x, unique) {
			unique = append(unique, x)
		}
	}
	return unique
}

// StrFilterElementsInList removes any of the elements in filter, if they exist
// in the list.
func StrFilterElementsInList(filter []string, list []string) []string {
	result := []string{}
	for _, x := range list {
		if !StrInList(x, filter) {
			result = append(result, x)
		}
	}
	return result
}

// StrSetDifference returns the sorted list of elements that are in list1 but
// not in list2. Duplicates are removed.
func StrSetDifference(list1 []string, list2 []string) []string {
	result := StrRemoveDuplicatesInList(StrFilterElementsInList(list2, list1))
	sort.Strings(result) // deterministic order
	return result
}

// Indent prefixes every non-empty line of the input with the given prefix.
// Empty lines are kept empty so that generated code has no trailing spaces.
func Indent(prefix, s string) string {
	if s == "" {
		return ""
	}
	out := []byte{}
	start := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if start && c != '\n' {
			out = append(out, prefix...)
		}
		out = append(out, c)
		start = c == '\n'
	}
	return string(out)
}

// TrimBlankLines removes any lines that only contain whitespace. Rendered
// templates often produce them when an optional section is empty.
func TrimBlankLines(s string) string {
	lines := []string{}
	line := []byte{}
	blank := true
	flush := func() {
		if !blank {
			lines = append(lines, string(line))
		}
		line = line[:0]
		blank = true
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\n' {
			flush()
			continue
		}
		if c != ' ' && c != '\t' && c != '\r' {
			blank = false
		}
		line = append(line, c)
	}
	flush()

	result := ""
	for i, l := range lines {
		if i > 0 {
			result += "\n"
		}
		result += l
	}
	return result
}
