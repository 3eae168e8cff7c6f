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

package syncer

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🗂️ resolver expands top-level sources into jobs in dependency order
type resolver struct {
	exclude []string
	jobs    []Job
}

// resolve returns the jobs for every source, each directory's job ahead of
// the jobs of everything below it
func resolve(ctx context.Context, sources []string, target string, exclude []string) ([]Job, error) {
	r := &resolver{exclude: exclude}

	for _, source := range sources {
		job := Job{
			Source: source,
			Target: filepath.Join(target, filepath.Base(source)),
		}

		info, err := os.Stat(source)
		if err != nil {
			return nil, errors.Errorf("resolving %s: %w", source, err)
		}
		if !info.IsDir() {
			r.jobs = append(r.jobs, job)
			continue
		}
		if err := r.dir(ctx, job, filepath.Base(source)); err != nil {
			return nil, errors.Errorf("resolving %s: %w", source, err)
		}
	}

	zerolog.Ctx(ctx).Debug().Int("jobs", len(r.jobs)).Int("sources", len(sources)).Msg("resolved jobs")
	return r.jobs, nil
}

// dir emits the job for a directory followed by its entries.
// rel is the slash separated path of the entry relative to the parent of its top-level source.
func (r *resolver) dir(ctx context.Context, job Job, rel string) error {
	r.jobs = append(r.jobs, job)

	entries, err := os.ReadDir(job.Source)
	if err != nil {
		return errors.Errorf("reading directory: %w", err)
	}

	for _, entry := range entries {
		childRel := path.Join(rel, entry.Name())
		if r.excluded(ctx, childRel) {
			continue
		}

		child := Job{
			Source: filepath.Join(job.Source, entry.Name()),
			Target: filepath.Join(job.Target, entry.Name()),
		}

		switch {
		case entry.Type().IsRegular():
			r.jobs = append(r.jobs, child)
		case entry.IsDir():
			if err := r.dir(ctx, child, childRel); err != nil {
				return err
			}
		default:
			zerolog.Ctx(ctx).Debug().Str("path", child.Source).Str("type", entry.Type().String()).Msg("skipping irregular entry")
		}
	}
	return nil
}

func (r *resolver) excluded(ctx context.Context, rel string) bool {
	return slices.ContainsFunc(r.exclude, func(pattern string) bool {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Str("path", rel).Err(err).Msg("error matching pattern")
			return false
		}
		if matched {
			zerolog.Ctx(ctx).Debug().Str("path", rel).Str("pattern", pattern).Msg("path excluded by pattern")
		}
		return matched
	})
}
