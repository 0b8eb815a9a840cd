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

package util

import (
	"strings"
)

// Code removes the tab indentation of the first non-empty line from every line
// of a backtick enclosed heredoc, so that expected output can be written
// inline in tests. A leading empty line is dropped.
func Code(code string) string {
	lines := strings.Split(code, "\n")
	if len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	strip := ""
	for _, x := range lines {
		if x == "" {
			continue
		}
		strip = x[:len(x)-len(strings.TrimLeft(x, "\t"))]
		break
	}
	for i, x := range lines {
		lines[i] = strings.TrimPrefix(x, strip)
	}
	return strings.Join(lines, "\n")
}
