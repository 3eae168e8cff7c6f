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

	"github.com/walteh/filesync/pkg/syncer"
)

// 📡 Reporter receives the progress of a sync run.
// Calls arrive from a single goroutine in order: Start, any number of
// Update, then exactly one of Finish or Fail. Fail may come without Start
// when the run could not be prepared.
type Reporter interface {
	Start(ctx context.Context, total int)
	Update(ctx context.Context, st syncer.State)
	Finish(ctx context.Context)
	Fail(ctx context.Context, err error)
}

// MultiReporter fans every call out to each reporter in order.
type MultiReporter []Reporter

func (m MultiReporter) Start(ctx context.Context, total int) {
	for _, r := range m {
		r.Start(ctx, total)
	}
}

func (m MultiReporter) Update(ctx context.Context, st syncer.State) {
	for _, r := range m {
		r.Update(ctx, st)
	}
}

func (m MultiReporter) Finish(ctx context.Context) {
	for _, r := range m {
		r.Finish(ctx)
	}
}

func (m MultiReporter) Fail(ctx context.Context, err error) {
	for _, r := range m {
		r.Fail(ctx, err)
	}
}

// Discard is a Reporter that ignores everything.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Start(context.Context, int)           {}
func (discard) Update(context.Context, syncer.State) {}
func (discard) Finish(context.Context)               {}
func (discard) Fail(context.Context, error)          {}
