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

// Package lastsync persists the marker describing the most recent sync into a target root.
package lastsync

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// FileName is the record written directly inside every target root
const FileName = ".last_file_sync.json"

// 📝 LastSync describes the most recent sync into a target
type LastSync struct {
	Timestamp time.Time `json:"timestamp"`
	Sources   []string  `json:"sources"`
	Target    string    `json:"target"`
}

// Path returns the location of the record for a target root
func Path(targetRoot string) string {
	return filepath.Join(targetRoot, FileName)
}

// Since returns how long ago the recorded sync started
func (l *LastSync) Since(now time.Time) time.Duration {
	return now.Sub(l.Timestamp)
}

// 💾 Record overwrites the record in targetRoot
func Record(ctx context.Context, targetRoot string, sources []string, ts time.Time) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("target", targetRoot).Msg("recording last sync")

	if sources == nil {
		sources = []string{}
	}
	record := LastSync{
		Timestamp: ts.UTC(),
		Sources:   sources,
		Target:    targetRoot,
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return errors.Errorf("marshaling last sync: %w", err)
	}

	if err := writeFileAtomic(Path(targetRoot), append(data, '\n')); err != nil {
		return errors.Errorf("writing last sync: %w", err)
	}
	return nil
}

// 📖 Load reads the record from targetRoot.
// A missing record is not an error: it returns nil, nil.
func Load(ctx context.Context, targetRoot string) (*LastSync, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("target", targetRoot).Msg("loading last sync")

	data, err := os.ReadFile(Path(targetRoot))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Errorf("reading last sync: %w", err)
	}

	var record LastSync
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.Errorf("parsing last sync: %w", err)
	}
	return &record, nil
}

func writeFileAtomic(path string, content []byte) error {
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, content, 0o644); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}
