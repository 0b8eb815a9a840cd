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

// Package util has some CLI related utility code.
package util

import (
	"fmt"
	"log"
	"os"
	"reflect"
	"strings"

	"github.com/purpleidea/propgen/util/errwrap"
)

// CliParseError returns a consistent error if we have a CLI parsing issue.
func CliParseError(err error) error {
	return errwrap.Wrapf(err, "cli parse error")
}

// Flags are some constant flags which are used throughout the program.
type Flags struct {
	Debug   bool // add additional log messages
	Verbose bool // add extra log message output

	Logf func(format string, v ...interface{})
}

// Data is a struct of values that we usually pass to the main CLI function.
type Data struct {
	Program string
	Version string
	Copying string
	Tagline string
	Flags   Flags
	Args    []string // os.Args usually
}

// LookupSubcommand returns the name of the subcommand in the obj, of a struct.
// It returns an empty string if a specific name was not found.
func LookupSubcommand(obj interface{}, st interface{}) string {
	val := reflect.ValueOf(obj)
	if val.Kind() == reflect.Ptr { // max one de-referencing
		val = val.Elem()
	}

	v := reflect.ValueOf(st) // value of the struct
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := val.Field(i) // value of the field
		if !f.CanInterface() || f.Interface() != v.Interface() {
			continue
		}
		alias, ok := typ.Field(i).Tag.Lookup("arg")
		if !ok {
			continue
		}
		for _, s := range strings.Split(alias, ",") {
			if name := strings.TrimPrefix(s, "subcommand:"); name != s {
				return name // found
			}
		}
	}
	return "" // not found
}

// Hello sets up the logger and prints the program name and version.
func Hello(program, version string, flags Flags) {
	logFlags := log.LstdFlags
	if flags.Debug {
		logFlags = logFlags + log.Lshortfile
	}
	logFlags = logFlags - log.Ldate // remove the date for now
	log.SetFlags(logFlags)
	log.SetOutput(os.Stderr)

	if program == "" {
		program = "<unknown>"
	}
	if flags.Verbose {
		fmt.Fprintf(os.Stderr, "This is: %s, version: %s\n", program, version)
	}
}
