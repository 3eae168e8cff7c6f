// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t  *testing.T
	db string
}

func newCLI(t *testing.T) *cli {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })
	return &cli{t: t, db: filepath.Join(t.TempDir(), "data.db")}
}

// run executes the CLI against the test database and returns stdout
func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	err := execute(context.Background(), append([]string{"--db", c.db}, args...), stdout, stderr)
	return stdout.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "filesync %s", strings.Join(args, " "))
	return out
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestSyncWithFlags(t *testing.T) {
	c := newCLI(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "x", "y.txt"), "y")
	writeFile(t, filepath.Join(root, "a", "skip.log"), "noise")

	out := c.mustRun("sync",
		"--source", filepath.Join(root, "a"),
		"--target", filepath.Join(root, "b"),
		"--exclude", "**/*.log",
		"--sequential",
	)

	got, err := os.ReadFile(filepath.Join(root, "b", "a", "x", "y.txt"))
	require.NoError(t, err)
	assert.Equal(t, "y", string(got))

	_, err = os.Stat(filepath.Join(root, "b", "a", "skip.log"))
	assert.True(t, os.IsNotExist(err), "excluded file should not be copied")

	assert.Contains(t, out, "a/x/y.txt", "each job should be printed")
	assert.Contains(t, out, "synced into")
}

func TestSyncWithStoredSettings(t *testing.T) {
	c := newCLI(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "notes", "todo.txt"), "buy milk")
	writeFile(t, filepath.Join(root, "single.txt"), "one")

	c.mustRun("source", "add", filepath.Join(root, "notes"), filepath.Join(root, "single.txt"))
	c.mustRun("target", "set", filepath.Join(root, "backup"))

	assert.Equal(t, filepath.Join(root, "notes")+"\n"+filepath.Join(root, "single.txt")+"\n", c.mustRun("source", "list"))
	assert.Equal(t, filepath.Join(root, "backup")+"\n", c.mustRun("target", "show"))

	c.mustRun("sync")

	got, err := os.ReadFile(filepath.Join(root, "backup", "notes", "todo.txt"))
	require.NoError(t, err)
	assert.Equal(t, "buy milk", string(got))

	out := c.mustRun("status")
	assert.Contains(t, out, "last synced")
	assert.Contains(t, out, filepath.Join(root, "notes"))

	c.mustRun("source", "remove", filepath.Join(root, "single.txt"))
	assert.Equal(t, filepath.Join(root, "notes")+"\n", c.mustRun("source", "list"))

	_, err = c.run("source", "remove", filepath.Join(root, "single.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSyncWithConfigFile(t *testing.T) {
	c := newCLI(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "keep.txt"), "keep")
	writeFile(t, filepath.Join(root, "src", "drop.tmp"), "drop")
	writeFile(t, filepath.Join(root, "filesync.yaml"), "sources: [src]\ntarget: out\nexclude: [\"**/*.tmp\"]\n")

	c.mustRun("--config", filepath.Join(root, "filesync.yaml"), "sync", "--progress")

	_, err := os.Stat(filepath.Join(root, "out", "src", "keep.txt"))
	assert.NoError(t, err, "paths in the config are relative to the config file")
	_, err = os.Stat(filepath.Join(root, "out", "src", "drop.tmp"))
	assert.True(t, os.IsNotExist(err))

	out := c.mustRun("--config", filepath.Join(root, "filesync.yaml"), "status")
	assert.Contains(t, out, filepath.Join(root, "out"))
}

func TestSyncErrors(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(t *testing.T, root string) []string
		errContains string
	}{
		{
			name: "no_sources",
			setup: func(t *testing.T, root string) []string {
				return []string{"sync", "--target", filepath.Join(root, "b")}
			},
			errContains: "no sources",
		},
		{
			name: "no_target",
			setup: func(t *testing.T, root string) []string {
				writeFile(t, filepath.Join(root, "a", "f.txt"), "f")
				return []string{"sync", "--source", filepath.Join(root, "a")}
			},
			errContains: "no target",
		},
		{
			name: "target_in_source",
			setup: func(t *testing.T, root string) []string {
				writeFile(t, filepath.Join(root, "a", "f.txt"), "f")
				return []string{"sync", "--source", filepath.Join(root, "a"), "--target", filepath.Join(root, "a", "out")}
			},
			errContains: "target is inside source",
		},
		{
			name: "missing_source",
			setup: func(t *testing.T, root string) []string {
				return []string{"sync", "--source", filepath.Join(root, "gone"), "--target", filepath.Join(root, "b")}
			},
			errContains: "source does not exist",
		},
		{
			name: "bad_config",
			setup: func(t *testing.T, root string) []string {
				writeFile(t, filepath.Join(root, "filesync.yaml"), "sources: [a]\n")
				return []string{"--config", filepath.Join(root, "filesync.yaml"), "sync"}
			},
			errContains: "target is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCLI(t)
			args := tt.setup(t, t.TempDir())

			_, err := c.run(args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestStatusNeverSynced(t *testing.T) {
	c := newCLI(t)
	target := t.TempDir()

	out := c.mustRun("status", "--target", target)
	assert.Contains(t, out, "has never been synced")
}

func TestTargetShowUnset(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("target", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no target set")
}

func TestVersion(t *testing.T) {
	c := newCLI(t)

	assert.Contains(t, c.mustRun("version"), "filesync version info")

	var info VersionInfo
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("version", "--json")), &info))
	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.Version)
}
