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

// Package watch re-runs a sync whenever one of its sources changes.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultDebounce is the quiet period that ends a burst of events.
const DefaultDebounce = 500 * time.Millisecond

// 👀 Watcher observes source trees and calls back after each burst of changes
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	dirs     []string        // directory sources, watched recursively
	files    map[string]bool // file sources, watched through their parent
}

// 🏭 New registers every source with fsnotify. Directory sources are
// registered recursively; a file source is watched through its parent.
func New(sources []string, debounce time.Duration) (*Watcher, error) {
	if len(sources) == 0 {
		return nil, errors.Errorf("at least one source is required")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{fsw: fsw, debounce: debounce, files: map[string]bool{}}
	for _, src := range sources {
		src, err = filepath.Abs(src)
		if err != nil {
			_ = fsw.Close()
			return nil, errors.Errorf("resolving %s: %w", src, err)
		}
		info, err := os.Stat(src)
		if err != nil {
			_ = fsw.Close()
			return nil, errors.Errorf("watching %s: %w", src, err)
		}
		if !info.IsDir() {
			w.files[src] = true
			if err := fsw.Add(filepath.Dir(src)); err != nil {
				_ = fsw.Close()
				return nil, errors.Errorf("watching %s: %w", src, err)
			}
			continue
		}
		w.dirs = append(w.dirs, src)
		if err := w.addTree(src); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	if err := w.fsw.Close(); err != nil {
		return errors.Errorf("closing watcher: %w", err)
	}
	return nil
}

// WatchList returns the directories currently registered with fsnotify.
func (w *Watcher) WatchList() []string {
	return w.fsw.WatchList()
}

// 🔁 Run calls fn once right away and again after every debounced burst of
// relevant events, until ctx is done. Errors from fn are logged and do not
// stop the loop.
func (w *Watcher) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	logger := zerolog.Ctx(ctx)

	call := func() {
		if err := fn(ctx); err != nil {
			logger.Error().Err(err).Msg("sync failed, waiting for the next change")
		}
	}

	call()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return errors.Errorf("watcher closed")
			}
			if !w.relevant(event.Name) {
				continue
			}
			logger.Debug().Str("path", event.Name).Stringer("op", event.Op).Msg("change detected")

			if event.Has(fsnotify.Create) {
				w.track(ctx, event.Name)
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.Errorf("watcher closed")
			}
			logger.Warn().Err(err).Msg("watch error")

		case <-fire:
			fire = nil
			call()
		}
	}
}

// track starts watching a directory created below a watched tree
func (w *Watcher) track(ctx context.Context, path string) {
	info, err := os.Lstat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addTree(path); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("cannot watch new directory")
	}
}

func (w *Watcher) addTree(root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return errors.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return errors.Errorf("registering %s: %w", root, err)
	}
	return nil
}

func (w *Watcher) relevant(path string) bool {
	if w.files[path] {
		return true
	}
	for _, dir := range w.dirs {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
