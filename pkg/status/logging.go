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
	"context"

	"github.com/rs/zerolog"

	"github.com/walteh/filesync/pkg/syncer"
)

// 📝 LogReporter writes progress through the context's zerolog logger
type LogReporter struct {
	Formatter FileFormatter
}

// NewLogReporter creates a LogReporter using the default formatter
func NewLogReporter() *LogReporter {
	return &LogReporter{Formatter: NewDefaultFileFormatter()}
}

func (r *LogReporter) Start(ctx context.Context, total int) {
	zerolog.Ctx(ctx).Info().Int("total", total).Msg(r.Formatter.FormatProgress(0, total))
}

func (r *LogReporter) Update(ctx context.Context, st syncer.State) {
	logger := zerolog.Ctx(ctx)
	for i, path := range st.CurrentWork {
		outcome := syncer.OutcomeUnchanged
		if i < len(st.Outcomes) {
			outcome = st.Outcomes[i]
		}
		logger.Debug().Str("source", path).Stringer("outcome", outcome).Msg(r.Formatter.FormatOutcome(path, outcome))
	}
	logger.Info().Int("done", st.Done).Int("total", st.Total).Msg(r.Formatter.FormatState(st))
}

func (r *LogReporter) Finish(ctx context.Context) {
	zerolog.Ctx(ctx).Info().Msg("sync finished")
}

func (r *LogReporter) Fail(ctx context.Context, err error) {
	zerolog.Ctx(ctx).Error().Err(err).Msg(r.Formatter.FormatError(err))
}
