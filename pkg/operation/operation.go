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
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filesync/pkg/lastsync"
	"github.com/walteh/filesync/pkg/status"
	"github.com/walteh/filesync/pkg/syncer"
)

// 🎯 Operator defines the main interface for filesync operations
type Operator interface {
	// Sync mirrors every source into the target
	Sync(ctx context.Context) error
	// Status reads the target's last-sync record, nil when it was never synced
	Status(ctx context.Context) (*lastsync.LastSync, error)
}

// 🔧 Options contains configuration for the operator
type Options struct {
	Sources     []string
	Target      string
	Concurrency int
	Exclude     []string
	// Async runs independent jobs concurrently, otherwise one job at a time
	Async    bool
	Reporter status.Reporter
	// Now overrides the clock used for the last-sync record
	Now func() time.Time
}

// 🏭 New creates a new operator with the given options
func New(opts Options) (Operator, error) {
	if len(opts.Sources) == 0 {
		return nil, errors.Errorf("at least one source is required")
	}
	if opts.Target == "" {
		return nil, errors.Errorf("target is required")
	}
	if opts.Reporter == nil {
		opts.Reporter = status.Discard
	}
	return &operator{opts: opts}, nil
}

// 🎮 operator implements the Operator interface
type operator struct {
	opts Options
}

func (o *operator) Sync(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Strs("sources", o.opts.Sources).Str("target", o.opts.Target).Bool("async", o.opts.Async).Msg("starting sync")

	s, err := syncer.New(syncer.Options{
		Sources:     o.opts.Sources,
		Target:      o.opts.Target,
		Concurrency: o.opts.Concurrency,
		Exclude:     o.opts.Exclude,
		Now:         o.opts.Now,
	})
	if err != nil {
		o.opts.Reporter.Fail(ctx, err)
		return errors.Errorf("creating syncer: %w", err)
	}

	return NewRunner(o.opts.Async).Drive(ctx, s, o.opts.Reporter)
}

func (o *operator) Status(ctx context.Context) (*lastsync.LastSync, error) {
	rec, err := lastsync.Load(ctx, o.opts.Target)
	if err != nil {
		return nil, errors.Errorf("reading status: %w", err)
	}
	return rec, nil
}
