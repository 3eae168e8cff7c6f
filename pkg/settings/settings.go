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

// Package settings persists the source list and target path between runs
// in a small sqlite database.
package settings

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// TargetKey is the settings key holding the sync target.
const TargetKey = "target"

// ErrNotFound is returned when removing a source that was never added.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS sources (
	path TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT NOT NULL PRIMARY KEY,
	value TEXT NOT NULL
);
`

// 💾 Store is the sqlite-backed settings database
type Store struct {
	db   *sql.DB
	path string
}

// DefaultPath returns the per-user database location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Errorf("locating user config dir: %w", err)
	}
	return filepath.Join(dir, "filesync", "data.db"), nil
}

// 🎯 Open opens or creates the database at path.
// The caller must Close the store.
func Open(ctx context.Context, path string) (*Store, error) {
	logger := zerolog.Ctx(ctx)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, errors.Errorf("opening database: %w", err)
	}

	// one writer at a time, the busy timeout covers concurrent CLIs
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, errors.Errorf("applying %q: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, errors.Errorf("creating tables: %w", err)
	}

	logger.Debug().Str("path", path).Msg("settings database opened")

	return s, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return errors.Errorf("closing database: %w", err)
	}
	s.db = nil
	return nil
}

// 📝 AddSource records a source path. Adding a path twice is a no-op.
func (s *Store) AddSource(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, "INSERT OR IGNORE INTO sources (path) VALUES (?)", filepath.Clean(path))
	if err != nil {
		return errors.Errorf("adding source %s: %w", path, err)
	}
	return nil
}

// 🗑️ RemoveSource forgets a source path.
func (s *Store) RemoveSource(ctx context.Context, path string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sources WHERE path = ?", filepath.Clean(path))
	if err != nil {
		return errors.Errorf("removing source %s: %w", path, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Errorf("removing source %s: %w", path, err)
	}
	if n == 0 {
		return errors.Errorf("source %s: %w", path, ErrNotFound)
	}
	return nil
}

// 📋 Sources lists the recorded sources in the order they were added.
func (s *Store) Sources(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT path FROM sources ORDER BY rowid")
	if err != nil {
		return nil, errors.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	sources := []string{}
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, errors.Errorf("scanning source: %w", err)
		}
		sources = append(sources, path)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("iterating sources: %w", err)
	}
	return sources, nil
}

// SetSetting stores value under key, replacing any previous value.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, "INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)", key, value)
	if err != nil {
		return errors.Errorf("setting %s: %w", key, err)
	}
	return nil
}

// DeleteSetting removes key. Deleting a missing key is not an error.
func (s *Store) DeleteSetting(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM settings WHERE key = ?", key); err != nil {
		return errors.Errorf("deleting setting %s: %w", key, err)
	}
	return nil
}

// GetSetting returns the value stored under key and whether it was present.
func (s *Store) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Errorf("reading setting %s: %w", key, err)
	}
	return value, true, nil
}

// Target returns the stored target path, or "" when none was set.
func (s *Store) Target(ctx context.Context) (string, error) {
	target, _, err := s.GetSetting(ctx, TargetKey)
	return target, err
}

// SetTarget stores the target path.
func (s *Store) SetTarget(ctx context.Context, path string) error {
	return s.SetSetting(ctx, TargetKey, filepath.Clean(path))
}
