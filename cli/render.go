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

package cli

import (
	"context"
	"fmt"

	cliUtil "github.com/purpleidea/propgen/cli/util"
	"github.com/purpleidea/propgen/lang"
	"github.com/purpleidea/propgen/lang/templates"
	"github.com/purpleidea/propgen/lang/yamllang"
	"github.com/purpleidea/propgen/util"
	"github.com/purpleidea/propgen/util/errwrap"

	"github.com/sanity-io/litter"
	"github.com/spf13/afero"
)

// build loads the language description and the templates, and renders every
// property.
func build(ctx context.Context, fs afero.Fs, data *cliUtil.Data, name string, args *cliUtil.RenderArgs) (*lang.Language, *lang.Output, error) {
	Logf := func(format string, v ...interface{}) {
		data.Flags.Logf(name+": "+format, v...)
	}

	path, err := util.ExpandHome(args.Config)
	if err != nil {
		return nil, nil, err
	}
	config, err := yamllang.ParseFile(fs, path)
	if err != nil {
		return nil, nil, err
	}
	Logf("loaded language %s", config.Language)

	ada, err := templates.NewAda()
	if err != nil {
		return nil, nil, err
	}
	ada.Debug = data.Flags.Debug
	ada.Logf = func(format string, v ...interface{}) {
		Logf("templates: "+format, v...)
	}
	if args.Templates != "" {
		dir, err := util.ExpandHome(args.Templates)
		if err != nil {
			return nil, nil, err
		}
		if err := ada.Override(fs, dir); err != nil {
			return nil, nil, errwrap.Wrapf(err, "could not load the templates")
		}
	}

	l, err := config.NewLanguage(ada)
	if err != nil {
		return nil, nil, errwrap.Wrapf(err, "invalid language")
	}
	l.Debug = data.Flags.Debug
	l.Logf = func(format string, v ...interface{}) {
		Logf("lang: "+format, v...)
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	output, err := l.Render()
	if err != nil {
		return nil, nil, err
	}
	Logf("rendered %d properties", len(output.Properties))
	return l, output, nil
}

// render is the run for the `render` subcommand.
func render(ctx context.Context, data *cliUtil.Data, name string, args *cliUtil.RenderArgs) (bool, error) {
	cliUtil.Hello(data.Program, data.Version, data.Flags) // say hello!
	fs := afero.NewOsFs()

	once := func() error {
		l, output, err := build(ctx, fs, data, name, args)
		if err != nil {
			return err
		}
		if args.Dump {
			dump := litter.Options{
				HidePrivateFields: true,
				StripPackageNames: true,
			}
			for _, p := range l.Properties(nil) {
				if p.Resolved() == nil {
					continue // external or abstract
				}
				fmt.Printf("%s:\n%s\n", p, dump.Sdump(p.Resolved()))
			}
		}

		if args.DryRun {
			fmt.Printf("-- %s --\n%s", lang.SpecFile, output.Spec())
			fmt.Printf("-- %s --\n%s", lang.BodyFile, output.Body())
			return nil
		}

		dir, err := util.ExpandHome(args.Output)
		if err != nil {
			return err
		}
		if err := output.Write(fs, dir); err != nil {
			return err
		}
		if data.Flags.Debug {
			tree, err := util.FsTree(fs, dir)
			if err != nil {
				return err
			}
			data.Flags.Logf("%s: output:\n%s", name, tree)
		}
		return nil
	}

	if !args.Watch {
		if err := once(); err != nil {
			return false, err
		}
		return true, nil
	}

	// in watch mode, a broken language is reported and fixed by an edit
	if err := once(); err != nil {
		data.Flags.Logf("%s: error: %+v", name, err)
	}
	watcher, err := NewConfigWatcher()
	if err != nil {
		return false, err
	}
	defer watcher.Close()
	watcher.Logf = func(format string, v ...interface{}) {
		data.Flags.Logf(name+": watch: "+format, v...)
	}
	config, err := util.ExpandHome(args.Config)
	if err != nil {
		return false, err
	}
	if err := watcher.AddFile(config); err != nil {
		return false, err
	}
	if args.Templates != "" {
		dir, err := util.ExpandHome(args.Templates)
		if err != nil {
			return false, err
		}
		if err := watcher.AddTemplates(dir); err != nil {
			return false, err
		}
	}
	if err := watcher.Run(ctx, func(string) error { return once() }); err != nil {
		return false, err
	}
	return true, nil
}

// check is the run for the `check` subcommand.
func check(ctx context.Context, data *cliUtil.Data, name string, args *cliUtil.RenderArgs) (bool, error) {
	cliUtil.Hello(data.Program, data.Version, data.Flags) // say hello!
	if _, _, err := build(ctx, afero.NewOsFs(), data, name, args); err != nil {
		return false, err
	}
	fmt.Printf("%s: ok\n", args.Config)
	return true, nil
}
