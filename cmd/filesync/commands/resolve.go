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

package commands

import (
	"context"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filesync/cmd/filesync/opts"
	"github.com/walteh/filesync/pkg/config"
	"github.com/walteh/filesync/pkg/operation"
	"github.com/walteh/filesync/pkg/status"
)

// runFlags are shared by sync and watch
type runFlags struct {
	sources     []string
	target      string
	concurrency int
	exclude     []string
	sequential  bool
	progress    bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.sources, "source", "s", nil, "source file or directory (repeatable)")
	cmd.Flags().StringVarP(&f.target, "target", "t", "", "target directory")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "maximum jobs per batch (default 10)")
	cmd.Flags().StringArrayVar(&f.exclude, "exclude", nil, "doublestar pattern to skip, relative to each source's parent (repeatable)")
	cmd.Flags().BoolVar(&f.sequential, "sequential", false, "run one job at a time")
	cmd.Flags().BoolVar(&f.progress, "progress", false, "show a progress bar instead of per-file lines")
}

// resolveRun merges flags, the config file and the settings store, in that order of precedence
func resolveRun(ctx context.Context, o *opts.RootOpts, cmd *cobra.Command, f *runFlags) (operation.Options, error) {
	cfg, err := o.LoadConfig(ctx)
	if err != nil {
		return operation.Options{}, err
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	run := operation.Options{
		Sources:     f.sources,
		Target:      f.target,
		Concurrency: cfg.Concurrency,
		Exclude:     cfg.Exclude,
		Async:       true,
	}

	if len(run.Sources) == 0 {
		run.Sources = cfg.Sources
	}
	if run.Target == "" {
		run.Target = cfg.Target
	}
	if len(run.Sources) == 0 || run.Target == "" {
		store, err := o.Store(ctx)
		if err != nil {
			return operation.Options{}, err
		}
		if len(run.Sources) == 0 {
			if run.Sources, err = store.Sources(ctx); err != nil {
				return operation.Options{}, err
			}
		}
		if run.Target == "" {
			if run.Target, err = store.Target(ctx); err != nil {
				return operation.Options{}, err
			}
		}
	}

	if len(run.Sources) == 0 {
		return operation.Options{}, errors.Errorf("no sources: pass --source, set them in the config file, or run 'filesync source add'")
	}
	if run.Target == "" {
		return operation.Options{}, errors.Errorf("no target: pass --target, set it in the config file, or run 'filesync target set'")
	}

	if cmd.Flags().Changed("concurrency") {
		run.Concurrency = f.concurrency
	}
	if len(f.exclude) > 0 {
		run.Exclude = f.exclude
	}
	if o.ConfigFile != "" {
		run.Async = cfg.Async
	}
	if f.sequential {
		run.Async = false
	}

	var reporter status.Reporter = status.NewConsoleReporter(o.Logger, run.Sources, run.Target)
	if f.progress {
		reporter = status.NewBarReporter(cmd.ErrOrStderr())
	}
	if o.Debug {
		reporter = status.MultiReporter{reporter, status.NewLogReporter()}
	}
	run.Reporter = reporter

	return run, nil
}

// resolveTarget applies the same precedence for commands that only need the target
func resolveTarget(ctx context.Context, o *opts.RootOpts, flagTarget string) (string, error) {
	if flagTarget != "" {
		return flagTarget, nil
	}
	cfg, err := o.LoadConfig(ctx)
	if err != nil {
		return "", err
	}
	if cfg != nil && cfg.Target != "" {
		return cfg.Target, nil
	}
	store, err := o.Store(ctx)
	if err != nil {
		return "", err
	}
	target, err := store.Target(ctx)
	if err != nil {
		return "", err
	}
	if target == "" {
		return "", errors.Errorf("no target: pass --target, set it in the config file, or run 'filesync target set'")
	}
	return target, nil
}
