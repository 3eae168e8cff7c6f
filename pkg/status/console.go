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
	"os"
	"path/filepath"
	"strings"

	"github.com/walteh/filesync/pkg/log"
	"github.com/walteh/filesync/pkg/syncer"
)

// 🖥️ ConsoleReporter prints one aligned line per synced entry through a log.Logger
type ConsoleReporter struct {
	logger  *log.Logger
	sources []string
	target  string
}

func NewConsoleReporter(logger *log.Logger, sources []string, target string) *ConsoleReporter {
	return &ConsoleReporter{logger: logger, sources: sources, target: target}
}

func (r *ConsoleReporter) Start(ctx context.Context, total int) {
	r.logger.StartRun(ctx, log.RunOperation{Sources: r.sources, Target: r.target, Total: total})
}

func (r *ConsoleReporter) Update(ctx context.Context, st syncer.State) {
	for i, path := range st.CurrentWork {
		outcome := syncer.OutcomeUnchanged
		if i < len(st.Outcomes) {
			outcome = st.Outcomes[i]
		}
		info, err := os.Stat(path)
		r.logger.LogJobOperation(ctx, log.JobOperation{
			Path:   r.display(path),
			Dir:    err == nil && info.IsDir(),
			Status: outcome.String(),
		})
	}
}

func (r *ConsoleReporter) Finish(ctx context.Context) {
	r.logger.EndRun(ctx)
	r.logger.Successf("synced into %s", r.target)
}

func (r *ConsoleReporter) Fail(ctx context.Context, err error) {
	r.logger.EndRun(ctx)
	r.logger.Errorf("sync failed: %v", err)
}

// display renders a source path the way it appears below the target
func (r *ConsoleReporter) display(path string) string {
	for _, root := range r.sources {
		rel, err := filepath.Rel(filepath.Dir(root), path)
		if err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return path
}
