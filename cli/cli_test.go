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

//go:build !root

package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	cliUtil "github.com/purpleidea/propgen/cli/util"
	"github.com/purpleidea/propgen/lang"
)

const testLanguage = `language: foo
nodes:
- name: FooNode
  fields:
  - {name: parent_node, type: FooNode}
properties:
- owner: FooNode
  name: is_root
  expr:
    is_null:
      field: {of: {self: true}, name: parent_node}
`

func testData(t *testing.T, args ...string) *cliUtil.Data {
	return &cliUtil.Data{
		Program: "propgen",
		Version: "0.0.1",
		Copying: "copying\n",
		Flags: cliUtil.Flags{
			Logf: func(format string, v ...interface{}) {
				t.Logf("cli: "+format, v...)
			},
		},
		Args: append([]string{"propgen"}, args...),
	}
}

func TestLookupSubcommand0(t *testing.T) {
	args := &Args{
		CheckCmd: &cliUtil.CheckArgs{},
	}
	if s := cliUtil.LookupSubcommand(args, args.CheckCmd); s != "check" {
		t.Errorf("expected check, got: %s", s)
	}
	if s := cliUtil.LookupSubcommand(args, &cliUtil.RenderArgs{}); s != "" {
		t.Errorf("expected nothing, got: %s", s)
	}
}

func TestRender0(t *testing.T) {
	tmpdir := t.TempDir()
	config := filepath.Join(tmpdir, "lang.yaml")
	if err := os.WriteFile(config, []byte(testLanguage), 0644); err != nil {
		t.Fatalf("could not write the config: %+v", err)
	}
	out := filepath.Join(tmpdir, "out")

	if err := CLI(context.Background(), testData(t, "check", config)); err != nil {
		t.Errorf("check failed: %+v", err)
	}
	if err := CLI(context.Background(), testData(t, "render", "--output", out, config)); err != nil {
		t.Fatalf("render failed: %+v", err)
	}
	b, err := os.ReadFile(filepath.Join(out, lang.SpecFile))
	if err != nil {
		t.Fatalf("could not read the output: %+v", err)
	}
	if !strings.Contains(string(b), "function P_Is_Root") {
		t.Errorf("unexpected output:\n%s", b)
	}
}

func TestErrors0(t *testing.T) {
	if err := CLI(context.Background(), nil); err == nil {
		t.Errorf("expected an error without data")
	}
	if err := CLI(context.Background(), testData(t, "check", "/does/not/exist.yaml")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
	if err := CLI(context.Background(), testData(t, "render", "--nope")); err == nil {
		t.Errorf("expected a parse error")
	}
}

func TestConfigWatcher0(t *testing.T) {
	tmpdir := t.TempDir()
	config := filepath.Join(tmpdir, "lang.yaml")
	if err := os.WriteFile(config, []byte(testLanguage), 0644); err != nil {
		t.Fatalf("could not write the config: %+v", err)
	}
	watcher, err := NewConfigWatcher()
	if err != nil {
		t.Fatalf("could not start the watcher: %+v", err)
	}
	defer watcher.Close()
	if err := watcher.AddFile(config); err != nil {
		t.Fatalf("could not watch: %+v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := make(chan string, 10)
	done := make(chan error)
	go func() {
		done <- watcher.Run(ctx, func(file string) error {
			ch <- file
			return nil
		})
	}()

	// unrelated files in the same directory are ignored
	if err := os.WriteFile(filepath.Join(tmpdir, "other"), []byte("x"), 0644); err != nil {
		t.Fatalf("could not write: %+v", err)
	}
	if err := os.WriteFile(config, []byte(testLanguage+"\n"), 0644); err != nil {
		t.Fatalf("could not write: %+v", err)
	}

	select {
	case file := <-ch:
		if filepath.Clean(file) != filepath.Clean(config) {
			t.Errorf("unexpected file: %s", file)
		}
	case <-time.After(10 * time.Second):
		t.Errorf("timeout waiting for the event")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("unexpected error: %+v", err)
	}
}
