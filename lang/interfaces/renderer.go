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

// Renderer turns a named template and its data into target code. Resolved
// expressions which need statements ahead of their value (if, map and
// quantifier expressions) use a Renderer to produce them.
type Renderer interface {
	// Render executes the template with this name. It errors if there is
	// no such template, or if the template fails on the data.
	Render(name string, data interface{}) (string, error)
}
