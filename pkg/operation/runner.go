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

package operation

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filesync/pkg/status"
	"github.com/walteh/filesync/pkg/syncer"
)

// 🏃 Runner pumps a syncer to completion
type Runner struct {
	async bool
}

// 🏗️ NewRunner creates a new runner. An async runner executes whole batches
// concurrently, a sync one executes a single job per call.
func NewRunner(async bool) *Runner {
	return &Runner{async: async}
}

// 🏃 Drive prepares s and runs it until it finishes or fails.
// The reporter sees Start, one Update per state, then Finish or Fail.
func (r *Runner) Drive(ctx context.Context, s *syncer.Syncer, rep status.Reporter) error {
	logger := zerolog.Ctx(ctx)

	if err := s.Prepare(ctx); err != nil {
		rep.Fail(ctx, err)
		return errors.Errorf("preparing sync: %w", err)
	}
	rep.Start(ctx, s.Total())

	next := s.Step
	if r.async {
		next = s.Next
	}

	for {
		st, err := next(ctx)
		if errors.Is(err, syncer.ErrDone) {
			break
		}
		if err != nil {
			rep.Fail(ctx, err)
			return errors.Errorf("running sync: %w", err)
		}
		rep.Update(ctx, st)
	}

	logger.Debug().Int("jobs", len(s.Completed())).Msg("sync complete")
	rep.Finish(ctx)
	return nil
}
