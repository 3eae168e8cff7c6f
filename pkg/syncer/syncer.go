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
	"iter"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/filesync/pkg/lastsync"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the batch width used when Options.Concurrency is zero
const DefaultConcurrency = 10

// 📊 State is the progress snapshot emitted after every batch
type State struct {
	CurrentWork []string  // sources of the jobs that just completed
	Outcomes    []Outcome // per CurrentWork entry
	Total       int       // pending + completed jobs
	Done        int       // completed jobs
}

// 🚦 Phase is the scheduler's lifecycle position
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseResolving
	PhaseRunning
	PhaseFinished
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseResolving:
		return "resolving"
	case PhaseRunning:
		return "running"
	case PhaseFinished:
		return "finished"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 🔧 Options configures a single sync run
type Options struct {
	// Sources are the files and directories to mirror, each into Target/<basename>
	Sources []string
	// Target is the root directory receiving the mirrored tree
	Target string
	// Concurrency caps the number of jobs per batch, defaults to DefaultConcurrency
	Concurrency int
	// Exclude holds doublestar patterns matched against paths relative to the
	// parent of each top-level source (e.g. "src/**/*.tmp")
	Exclude []string
	// Now stamps the last-sync record, defaults to time.Now
	Now func() time.Time
}

// 🔄 Syncer drives one run from resolution to completion.
// It is not safe for concurrent use and is not reusable across runs.
type Syncer struct {
	sources     []string
	target      string
	concurrency int
	exclude     []string
	now         func() time.Time

	phase Phase
	err   error

	// todo is popped from the end
	todo []Job
	done []Job

	exec func(Job) (Outcome, error)
}

// 🏭 New validates the parameters and returns an idle syncer
func New(opts Options) (*Syncer, error) {
	if opts.Target == "" {
		return nil, errors.Errorf("target is required")
	}
	if opts.Concurrency < 0 {
		return nil, errors.Errorf("concurrency must not be negative: %d", opts.Concurrency)
	}

	target, err := filepath.Abs(opts.Target)
	if err != nil {
		return nil, errors.Errorf("resolving target path: %w", err)
	}

	sources := make([]string, 0, len(opts.Sources))
	for _, source := range opts.Sources {
		abs, err := filepath.Abs(source)
		if err != nil {
			return nil, errors.Errorf("resolving source path %s: %w", source, err)
		}
		sources = append(sources, abs)
	}

	if err := Validate(sources, target); err != nil {
		return nil, err
	}

	s := &Syncer{
		sources:     sources,
		target:      target,
		concurrency: opts.Concurrency,
		exclude:     slices.Clone(opts.Exclude),
		now:         opts.Now,
		exec:        Job.Apply,
	}
	if s.concurrency == 0 {
		s.concurrency = DefaultConcurrency
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// 🗂️ Prepare resolves every job, creates the target root and writes the
// last-sync record. Nothing in the target is touched if resolution fails.
func (s *Syncer) Prepare(ctx context.Context) error {
	if s.phase != PhaseIdle {
		return errors.Errorf("prepare called while %s", s.phase)
	}
	if err := ctx.Err(); err != nil {
		return s.fail(errors.Errorf("sync abandoned: %w", err))
	}
	s.phase = PhaseResolving

	jobs, err := resolve(ctx, s.sources, s.target, s.exclude)
	if err != nil {
		return s.fail(errors.Errorf("resolving jobs: %w", err))
	}

	if err := os.MkdirAll(s.target, dirMode); err != nil {
		return s.fail(errors.Errorf("creating target root: %w", err))
	}

	if err := lastsync.Record(ctx, s.target, s.sources, s.now().UTC()); err != nil {
		return s.fail(errors.Errorf("recording last sync: %w", err))
	}

	slices.Reverse(jobs)
	s.todo = jobs
	s.phase = PhaseRunning

	zerolog.Ctx(ctx).Debug().Str("target", s.target).Int("total", len(jobs)).Msg("syncer prepared")
	return nil
}

// ⚡ Next executes the next batch of independent jobs concurrently and returns
// the resulting state. It returns ErrDone once nothing is left, and the run's
// terminal error on every call after a failure.
func (s *Syncer) Next(ctx context.Context) (State, error) {
	if err := s.ready(ctx); err != nil {
		return State{}, err
	}

	batch := s.take()
	if len(batch) == 0 {
		s.phase = PhaseFinished
		return State{}, ErrDone
	}

	zerolog.Ctx(ctx).Debug().Int("jobs", len(batch)).Int("pending", len(s.todo)).Msg("dispatching batch")

	outcomes := make([]Outcome, len(batch))
	results := make([]error, len(batch))
	var g errgroup.Group
	for i, job := range batch {
		g.Go(func() error {
			outcomes[i], results[i] = s.exec(job)
			return results[i]
		})
	}
	err := g.Wait()

	// whatever succeeded stays applied, even when a sibling failed
	for i, job := range batch {
		if results[i] == nil {
			s.done = append(s.done, job)
		}
	}
	if err != nil {
		return State{}, s.fail(err)
	}

	return s.state(batch, outcomes), nil
}

// 🐢 Step executes exactly one job on the calling goroutine
func (s *Syncer) Step(ctx context.Context) (State, error) {
	if err := s.ready(ctx); err != nil {
		return State{}, err
	}

	if len(s.todo) == 0 {
		s.phase = PhaseFinished
		return State{}, ErrDone
	}

	job := s.todo[len(s.todo)-1]
	s.todo = s.todo[:len(s.todo)-1]

	outcome, err := s.exec(job)
	if err != nil {
		return State{}, s.fail(err)
	}
	s.done = append(s.done, job)

	return s.state([]Job{job}, []Outcome{outcome}), nil
}

// 🔁 States ranges over Next until the run finishes or fails.
// ErrDone is not yielded; a failure is yielded once and ends the sequence.
func (s *Syncer) States(ctx context.Context) iter.Seq2[State, error] {
	return func(yield func(State, error) bool) {
		for {
			st, err := s.Next(ctx)
			if errors.Is(err, ErrDone) {
				return
			}
			if !yield(st, err) || err != nil {
				return
			}
		}
	}
}

// Phase returns the current lifecycle position
func (s *Syncer) Phase() Phase {
	return s.phase
}

// Target returns the absolute target root
func (s *Syncer) Target() string {
	return s.target
}

// Sources returns the absolute top-level sources
func (s *Syncer) Sources() []string {
	return slices.Clone(s.sources)
}

// Pending returns the jobs not executed yet, next job first
func (s *Syncer) Pending() []Job {
	pending := slices.Clone(s.todo)
	slices.Reverse(pending)
	return pending
}

// Completed returns the executed jobs in completion order
func (s *Syncer) Completed() []Job {
	return slices.Clone(s.done)
}

// Total returns the number of jobs of this run, pending and completed
func (s *Syncer) Total() int {
	return len(s.todo) + len(s.done)
}

func (s *Syncer) ready(ctx context.Context) error {
	switch s.phase {
	case PhaseIdle:
		if err := s.Prepare(ctx); err != nil {
			return err
		}
	case PhaseFailed:
		return s.err
	case PhaseFinished:
		return ErrDone
	}

	if err := ctx.Err(); err != nil {
		return s.fail(errors.Errorf("sync abandoned: %w", err))
	}
	return nil
}

// take pops up to concurrency jobs. A job below the source of one already taken
// stays pending and closes the batch, so a directory is always created before
// anything inside it is dispatched.
func (s *Syncer) take() []Job {
	batch := make([]Job, 0, s.concurrency)
	for len(batch) < s.concurrency && len(s.todo) > 0 {
		job := s.todo[len(s.todo)-1]
		if slices.ContainsFunc(batch, func(taken Job) bool { return within(job.Source, taken.Source) }) {
			break
		}
		s.todo = s.todo[:len(s.todo)-1]
		batch = append(batch, job)
	}
	return batch
}

func (s *Syncer) state(batch []Job, outcomes []Outcome) State {
	work := make([]string, len(batch))
	for i, job := range batch {
		work[i] = job.Source
	}
	return State{
		CurrentWork: work,
		Outcomes:    outcomes,
		Total:       len(s.todo) + len(s.done),
		Done:        len(s.done),
	}
}

func (s *Syncer) fail(err error) error {
	s.phase = PhaseFailed
	s.err = err
	return err
}
