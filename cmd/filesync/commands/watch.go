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
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filesync/cmd/filesync/opts"
	"github.com/walteh/filesync/pkg/operation"
	"github.com/walteh/filesync/pkg/watch"
)

func NewWatchCmd(opts *opts.RootOpts) *cobra.Command {
	flags := &runFlags{}
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Sync now and again whenever a source changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx = zerolog.Ctx(ctx).With().Str("command", "watch").Logger().WithContext(ctx)

			run, err := resolveRun(ctx, opts, cmd, flags)
			if err != nil {
				return err
			}

			op, err := operation.New(run)
			if err != nil {
				return errors.Errorf("creating operator: %w", err)
			}

			w, err := watch.New(run.Sources, debounce)
			if err != nil {
				return errors.Errorf("starting watcher: %w", err)
			}
			defer w.Close()

			opts.Logger.Infof("watching %d source(s), press ctrl-c to stop", len(run.Sources))

			return w.Run(ctx, func(ctx context.Context) error {
				return op.Sync(ctx)
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before re-syncing")

	return cmd
}
