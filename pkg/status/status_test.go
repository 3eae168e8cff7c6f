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

package status

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filesync/pkg/log"
	"github.com/walteh/filesync/pkg/syncer"
)

type mockReporter struct {
	mock.Mock
}

func (m *mockReporter) Start(ctx context.Context, total int)        { m.Called(total) }
func (m *mockReporter) Update(ctx context.Context, st syncer.State) { m.Called(st) }
func (m *mockReporter) Finish(ctx context.Context)                  { m.Called() }
func (m *mockReporter) Fail(ctx context.Context, err error)         { m.Called(err) }

func TestMultiReporter(t *testing.T) {
	ctx := context.Background()
	st := syncer.State{CurrentWork: []string{"/a"}, Outcomes: []syncer.Outcome{syncer.OutcomeCreated}, Total: 1, Done: 1}
	boom := errors.New("boom")

	first, second := &mockReporter{}, &mockReporter{}
	for _, m := range []*mockReporter{first, second} {
		m.On("Start", 1).Once()
		m.On("Update", st).Once()
		m.On("Finish").Once()
		m.On("Fail", boom).Once()
	}

	multi := MultiReporter{first, second}
	multi.Start(ctx, 1)
	multi.Update(ctx, st)
	multi.Finish(ctx)
	multi.Fail(ctx, boom)

	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestDiscard(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		Discard.Start(ctx, 3)
		Discard.Update(ctx, syncer.State{})
		Discard.Finish(ctx)
		Discard.Fail(ctx, errors.New("x"))
	})
}

func TestLogReporter(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := zerolog.New(buf).Level(zerolog.DebugLevel).WithContext(context.Background())

	r := NewLogReporter()
	r.Start(ctx, 2)
	r.Update(ctx, syncer.State{
		CurrentWork: []string{"/src/a", "/src/b.txt"},
		Outcomes:    []syncer.Outcome{syncer.OutcomeUnchanged, syncer.OutcomeUpdated},
		Total:       2,
		Done:        2,
	})
	r.Finish(ctx)
	r.Fail(ctx, errors.New("disk full"))

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "log line should be JSON")
		entries = append(entries, entry)
	}

	require.Len(t, entries, 6)
	assert.Equal(t, "⏳ Progress: 0/2 (0%)", entries[0]["message"])
	assert.Equal(t, "👍 Unchanged /src/a", entries[1]["message"])
	assert.Equal(t, "unchanged", entries[1]["outcome"])
	assert.Equal(t, "📝 Updated /src/b.txt", entries[2]["message"])
	assert.Equal(t, "✅ Progress: 2/2 (100%) [a, b.txt]", entries[3]["message"])
	assert.Equal(t, "sync finished", entries[4]["message"])
	assert.Equal(t, "error", entries[5]["level"])
	assert.Equal(t, "disk full", entries[5]["error"])
}

func TestConsoleReporter(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	root := t.TempDir()
	src := filepath.Join(root, "notes")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "a.txt"), []byte("a"), 0o644))

	buf := &bytes.Buffer{}
	r := NewConsoleReporter(log.New(buf, zerolog.Disabled), []string{src}, "/mnt/backup")

	ctx := context.Background()
	r.Start(ctx, 3)
	r.Update(ctx, syncer.State{
		CurrentWork: []string{filepath.Join(src, "sub"), filepath.Join(src, "sub", "a.txt")},
		Outcomes:    []syncer.Outcome{syncer.OutcomeCreated, syncer.OutcomeUpdated},
		Total:       3,
		Done:        3,
	})
	r.Finish(ctx)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, []string{"[syncing", "/mnt/backup]"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"◆", src}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"✓", "notes/sub", "dir", "created"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"⟳", "notes/sub/a.txt", "file", "updated"}, strings.Fields(lines[3]))
	assert.Contains(t, lines[4], "1 created, 1 updated")
	assert.Contains(t, lines[5], "synced into /mnt/backup")
}

func TestConsoleReporterFail(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	buf := &bytes.Buffer{}
	r := NewConsoleReporter(log.New(buf, zerolog.Disabled), []string{"/src"}, "/dst")

	ctx := context.Background()
	r.Start(ctx, 1)
	r.Fail(ctx, errors.New("permission denied"))

	assert.Contains(t, buf.String(), "sync failed: permission denied")
}

func TestBarReporter(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	buf := &bytes.Buffer{}

	r := NewBarReporter(buf)
	r.Start(ctx, 4)
	r.Update(ctx, syncer.State{CurrentWork: []string{"/src/a"}, Total: 4, Done: 1})
	r.Update(ctx, syncer.State{CurrentWork: []string{"/src/a/b", "/src/a/c"}, Total: 4, Done: 3})
	assert.Equal(t, 3, r.Current(), "bar should follow done")
	r.Update(ctx, syncer.State{CurrentWork: []string{"/src/a/b/d"}, Total: 4, Done: 4})
	r.Finish(ctx)

	assert.Equal(t, 4, r.Current())
}

func TestBarReporterEmptyRun(t *testing.T) {
	ctx := context.Background()
	buf := &bytes.Buffer{}

	r := NewBarReporter(buf)
	assert.NotPanics(t, func() {
		r.Start(ctx, 0)
		r.Update(ctx, syncer.State{})
		r.Fail(ctx, errors.New("nothing"))
	})
	assert.Equal(t, 0, r.Current())
	assert.Contains(t, buf.String(), "nothing")
}
