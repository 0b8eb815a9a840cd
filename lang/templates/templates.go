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

// Package templates renders resolved expressions and properties to Ada source
// code with text/template. The default templates are embedded, and each one
// can be replaced by a file of the same name from a template directory.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"text/template"

	"github.com/purpleidea/propgen/lang/ir"
	"github.com/purpleidea/propgen/lang/names"
	"github.com/purpleidea/propgen/lang/types"
	"github.com/purpleidea/propgen/util"
	"github.com/purpleidea/propgen/util/errwrap"

	"github.com/spf13/afero"
	"github.com/yalue/merged_fs"
)

// Extension is the file extension of the template files.
const Extension = ".tmpl"

//go:embed ada/*.tmpl
var ada embed.FS

// Ada is a renderer for the Ada target language. Build one with NewAda.
type Ada struct {
	Debug bool
	Logf  func(format string, v ...interface{})

	tmpl *template.Template
}

// NewAda returns a renderer loaded with the embedded templates.
func NewAda() (*Ada, error) {
	obj := &Ada{
		Logf: func(format string, v ...interface{}) {}, // noop
	}
	obj.tmpl = template.New("ada").Funcs(obj.funcs())
	sub, err := fs.Sub(ada, "ada")
	if err != nil {
		return nil, err
	}
	if err := obj.load(sub, "."); err != nil {
		return nil, errwrap.Wrapf(err, "could not load the embedded templates")
	}
	return obj, nil
}

// Override reloads the templates from a directory merged over the embedded
// ones. Only the names which have a file in the directory are replaced. The
// previous templates are kept if any of them fails to parse.
func (obj *Ada) Override(afs afero.Fs, dir string) error {
	if fi, err := afs.Stat(dir); err != nil {
		return errwrap.Wrapf(err, "no template directory")
	} else if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	sub, err := fs.Sub(ada, "ada")
	if err != nil {
		return err
	}
	over := afero.NewIOFS(afero.NewBasePathFs(afs, dir))
	merged := merged_fs.MergeMultiple(over, sub) // the directory comes first

	prev := obj.tmpl
	obj.tmpl = template.New("ada").Funcs(obj.funcs())
	if err := obj.load(merged, "."); err != nil {
		obj.tmpl = prev
		return errwrap.Wrapf(err, "could not load the templates of %s", dir)
	}
	return nil
}

func (obj *Ada) load(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return err
	}
	for _, x := range entries {
		if x.IsDir() || !strings.HasSuffix(x.Name(), Extension) {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, x.Name()))
		if err != nil {
			return err
		}
		if err := obj.parse(x.Name(), data); err != nil {
			return err
		}
	}
	return nil
}

func (obj *Ada) parse(filename string, data []byte) error {
	name := strings.TrimSuffix(filename, Extension)
	if obj.Debug {
		obj.Logf("loading template: %s", name)
	}
	if _, err := obj.tmpl.New(name).Parse(string(data)); err != nil {
		return errwrap.Wrapf(err, "could not parse template %s", name)
	}
	return nil
}

// Names returns the sorted names of the loaded templates.
func (obj *Ada) Names() []string {
	result := []string{}
	for _, t := range obj.tmpl.Templates() {
		if t.Name() == "ada" || t.Tree == nil {
			continue
		}
		result = append(result, t.Name())
	}
	sort.Strings(result)
	return result
}

// Render executes the named template on the data. Lines which are left blank
// by empty sections are removed from the output.
func (obj *Ada) Render(name string, data interface{}) (string, error) {
	t := obj.tmpl.Lookup(name)
	if t == nil {
		return "", fmt.Errorf("no template named %s", name)
	}
	buf := &bytes.Buffer{}
	if err := t.Execute(buf, data); err != nil {
		return "", errwrap.Wrapf(err, "template %s failed", name)
	}
	return util.TrimBlankLines(buf.String()), nil
}

func (obj *Ada) funcs() template.FuncMap {
	return template.FuncMap{
		"pre": func(e ir.Expr) (string, error) {
			return e.RenderPre(obj)
		},
		"expr": func(e ir.Expr) (string, error) {
			return e.RenderExpr(obj)
		},
		"render": func(name string, data interface{}) (string, error) {
			return obj.Render(name, data)
		},
		"name": func(n names.Name) string {
			return n.CamelWithUnderscores()
		},
		"typename": func(t *types.Type) (string, error) {
			if t == nil {
				return "", fmt.Errorf("missing type")
			}
			return t.TypeName().CamelWithUnderscores(), nil
		},
		"elemtype": func(t *types.Type) (*types.Type, error) {
			if !t.IsCollection() {
				return nil, fmt.Errorf("type %s is not a collection", t)
			}
			return t.ElementType(), nil
		},
		"indent": func(n int, s string) string {
			return util.Indent(strings.Repeat(" ", n), s)
		},
		"comment": func(s string) string {
			s = strings.TrimSpace(s)
			if s == "" {
				return ""
			}
			return util.Indent("-- ", s)
		},
	}
}
