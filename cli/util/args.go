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

// RenderArgs is the render CLI parsing structure and type of the parsed
// result.
type RenderArgs struct {
	// Config is the path of the yaml language description.
	Config string `arg:"positional,required" help:"path of the language description"`

	Output string `arg:"-o,--output" default:"." help:"directory the generated files are written to"`

	Templates string `arg:"--templates" help:"directory with templates which override the builtin ones"`

	Dump bool `arg:"--dump" help:"print the resolved expression of each property"`

	DryRun bool `arg:"--dry-run" help:"render, but print the generated code instead of writing it"`

	Watch bool `arg:"--watch" help:"render again each time the language or a template changes"`
}

// CheckArgs is the check CLI parsing structure and type of the parsed result.
type CheckArgs struct {
	// Config is the path of the yaml language description.
	Config string `arg:"positional,required" help:"path of the language description"`
}
