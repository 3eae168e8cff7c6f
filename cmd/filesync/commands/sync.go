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
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filesync/cmd/filesync/opts"
	"github.com/walteh/filesync/pkg/operation"
)

func NewSyncCmd(opts *opts.RootOpts) *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror the sources into the target",
		Long: `Sync copies every source file and directory into the target, one way.
It will:
1. Validate that no source and the target contain each other
2. List every entry below the sources
3. Create missing directories and files, rewrite files whose content differs
4. Record the run in the target's last-sync file

Nothing is ever deleted from the target.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "sync").Logger().WithContext(cmd.Context())

			run, err := resolveRun(ctx, opts, cmd, flags)
			if err != nil {
				return err
			}

			op, err := operation.New(run)
			if err != nil {
				return errors.Errorf("creating operator: %w", err)
			}

			if err := op.Sync(ctx); err != nil {
				return errors.Errorf("syncing files: %w", err)
			}
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
