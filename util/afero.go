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
	"fmt"
	"io"
	"path"
	"sort"

	"github.com/spf13/afero"
)

// FsTree returns a string representation of the file system tree similar to the
// well-known `tree` command.
func FsTree(fs afero.Fs, name string) (string, error) {
	s, err := fsTree(fs, path.Clean(name), "")
	if err != nil {
		return "", err
	}
	return ".\n" + s, nil
}

func fsTree(fs afero.Fs, name string, indent string) (string, error) {
	dir, err := fs.Open(name)
	if err != nil {
		return "", err
	}
	defer dir.Close()

	infos, err := dir.Readdir(-1)
	if err != nil && err != io.EOF {
		return "", err
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })

	str := ""
	for i, fi := range infos {
		header, next := "├── ", "│   "
		if i == len(infos)-1 { // last
			header, next = "└── ", "    "
		}
		p := fi.Name()
		if fi.IsDir() {
			p += "/" // identify as a dir
		}
		str += fmt.Sprintf("%s%s%s\n", indent, header, p)
		if !fi.IsDir() {
			continue
		}
		s, err := fsTree(fs, path.Join(name, fi.Name()), indent+next)
		if err != nil {
			return "", err
		}
		str += s
	}
	return str, nil
}
