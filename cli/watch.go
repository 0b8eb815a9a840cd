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
	"path/filepath"
	"strings"

	"github.com/purpleidea/propgen/lang/templates"
	"github.com/purpleidea/propgen/util/errwrap"

	"github.com/fsnotify/fsnotify"
)

// ConfigWatcher sends the name of a watched file anytime it changes. The
// parent directories are watched, so that files which editors replace by a
// rename are still seen.
type ConfigWatcher struct {
	Logf func(format string, v ...interface{})

	watcher *fsnotify.Watcher
	files   map[string]bool // cleaned paths of the watched files
	dirs    map[string]bool // watched directories, every template in them counts
}

// NewConfigWatcher creates a new watcher. Close it when done.
func NewConfigWatcher() (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errwrap.Wrapf(err, "could not start the watcher")
	}
	return &ConfigWatcher{
		Logf:    func(format string, v ...interface{}) {}, // noop
		watcher: watcher,
		files:   make(map[string]bool),
		dirs:    make(map[string]bool),
	}, nil
}

// AddFile watches a single file.
func (obj *ConfigWatcher) AddFile(file string) error {
	file = filepath.Clean(file)
	if err := obj.watcher.Add(filepath.Dir(file)); err != nil {
		return errwrap.Wrapf(err, "could not watch %s", file)
	}
	obj.files[file] = true
	return nil
}

// AddTemplates watches every template of a directory.
func (obj *ConfigWatcher) AddTemplates(dir string) error {
	dir = filepath.Clean(dir)
	if err := obj.watcher.Add(dir); err != nil {
		return errwrap.Wrapf(err, "could not watch %s", dir)
	}
	obj.dirs[dir] = true
	return nil
}

// relevant returns true if the event changes one of the watched files.
func (obj *ConfigWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false // chmod and remove don't give us anything to render
	}
	name := filepath.Clean(event.Name)
	if obj.files[name] {
		return true
	}
	return obj.dirs[filepath.Dir(name)] && strings.HasSuffix(name, templates.Extension)
}

// Run calls fn with the name of the changed file for each relevant event,
// until the context is cancelled or the watcher fails. An error from fn is
// logged, and doesn't stop the watch.
func (obj *ConfigWatcher) Run(ctx context.Context, fn func(file string) error) error {
	for {
		select {
		case event, ok := <-obj.watcher.Events:
			if !ok {
				return nil
			}
			if !obj.relevant(event) {
				continue
			}
			obj.Logf("changed: %s", event.Name)
			if err := fn(event.Name); err != nil {
				obj.Logf("error: %+v", err)
			}

		case err, ok := <-obj.watcher.Errors:
			if !ok {
				return nil
			}
			return errwrap.Wrapf(err, "watcher failed")

		case <-ctx.Done():
			return nil
		}
	}
}

// Close shuts down the watcher.
func (obj *ConfigWatcher) Close() error {
	return obj.watcher.Close()
}
