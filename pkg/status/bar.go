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
	"io"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/walteh/filesync/pkg/syncer"
)

// 📊 BarReporter renders a pterm progress bar titled with the current batch
type BarReporter struct {
	Writer io.Writer

	bar *pterm.ProgressbarPrinter
}

// NewBarReporter creates a BarReporter that draws to w, or stderr when w is nil
func NewBarReporter(w io.Writer) *BarReporter {
	if w == nil {
		w = os.Stderr
	}
	return &BarReporter{Writer: w}
}

func (r *BarReporter) Start(ctx context.Context, total int) {
	// an empty run has nothing to draw and pterm divides by the total
	if total == 0 {
		return
	}
	bar, err := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("syncing").
		WithWriter(r.Writer).
		Start()
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("progress bar unavailable")
		return
	}
	r.bar = bar
}

func (r *BarReporter) Update(ctx context.Context, st syncer.State) {
	if r.bar == nil {
		return
	}
	if len(st.CurrentWork) > 0 {
		r.bar.UpdateTitle(filepath.Base(st.CurrentWork[len(st.CurrentWork)-1]))
	}
	if delta := st.Done - r.bar.Current; delta > 0 {
		r.bar.Add(delta)
	}
}

func (r *BarReporter) Finish(ctx context.Context) {
	r.stop(ctx)
}

func (r *BarReporter) Fail(ctx context.Context, err error) {
	r.stop(ctx)
	pterm.Error.WithWriter(r.Writer).Println(err)
}

// Current returns how many jobs the bar has counted.
func (r *BarReporter) Current() int {
	if r.bar == nil {
		return 0
	}
	return r.bar.Current
}

func (r *BarReporter) stop(ctx context.Context) {
	if r.bar == nil {
		return
	}
	if _, err := r.bar.Stop(); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("stopping progress bar")
	}
}
