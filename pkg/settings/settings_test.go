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

package settings

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (context.Context, *Store) {
	t.Helper()

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	store, err := Open(ctx, filepath.Join(t.TempDir(), "nested", "data.db"))
	require.NoError(t, err, "opening store should succeed")
	t.Cleanup(func() { _ = store.Close() })

	return ctx, store
}

func TestSources(t *testing.T) {
	ctx, store := openTestStore(t)

	sources, err := store.Sources(ctx)
	require.NoError(t, err)
	assert.Empty(t, sources, "new store should have no sources")

	require.NoError(t, store.AddSource(ctx, "/home/me/notes"))
	require.NoError(t, store.AddSource(ctx, "/home/me/photos/"))
	require.NoError(t, store.AddSource(ctx, "/etc/hosts"))
	require.NoError(t, store.AddSource(ctx, "/home/me/notes"), "duplicate add should be a no-op")

	sources, err = store.Sources(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"/home/me/notes", "/home/me/photos", "/etc/hosts"}, sources, "sources should keep insertion order")

	require.NoError(t, store.RemoveSource(ctx, "/home/me/photos"))
	err = store.RemoveSource(ctx, "/home/me/photos")
	assert.ErrorIs(t, err, ErrNotFound, "removing twice should report not found")

	sources, err = store.Sources(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"/home/me/notes", "/etc/hosts"}, sources)
}

func TestSettings(t *testing.T) {
	ctx, store := openTestStore(t)

	_, ok, err := store.GetSetting(ctx, "theme")
	require.NoError(t, err)
	assert.False(t, ok, "missing key should not be found")

	require.NoError(t, store.SetSetting(ctx, "theme", "dark"))
	require.NoError(t, store.SetSetting(ctx, "theme", "light"))

	value, ok, err := store.GetSetting(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", value, "later set should replace earlier value")

	require.NoError(t, store.DeleteSetting(ctx, "theme"))
	require.NoError(t, store.DeleteSetting(ctx, "theme"), "deleting a missing key is fine")

	_, ok, err = store.GetSetting(ctx, "theme")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTarget(t *testing.T) {
	ctx, store := openTestStore(t)

	target, err := store.Target(ctx)
	require.NoError(t, err)
	assert.Empty(t, target, "no target by default")

	require.NoError(t, store.SetTarget(ctx, "/mnt/backup/"))
	target, err = store.Target(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/mnt/backup", target)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	path := filepath.Join(t.TempDir(), "data.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.AddSource(ctx, "/a"))
	require.NoError(t, store.SetTarget(ctx, "/b"))
	require.NoError(t, store.Close())
	require.NoError(t, store.Close(), "closing twice should be harmless")

	store, err = Open(ctx, path)
	require.NoError(t, err, "reopening an existing database should succeed")
	defer store.Close()

	sources, err := store.Sources(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a"}, sources)

	target, err := store.Target(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/b", target)
	assert.Equal(t, path, store.Path())
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	t.Setenv("HOME", "/tmp/home")

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "filesync", filepath.Base(filepath.Dir(path)))
	assert.Equal(t, "data.db", filepath.Base(path))
}
