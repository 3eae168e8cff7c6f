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
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filesync/cmd/filesync/opts"
)

func NewTargetCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "target",
		Short: "Manage the stored target",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set PATH",
			Short: "Remember the target directory",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				path, err := filepath.Abs(args[0])
				if err != nil {
					return errors.Errorf("resolving %s: %w", args[0], err)
				}
				store, err := opts.Store(ctx)
				if err != nil {
					return err
				}
				if err := store.SetTarget(ctx, path); err != nil {
					return err
				}
				opts.Logger.Successf("target set to %s", path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the stored target",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				store, err := opts.Store(ctx)
				if err != nil {
					return err
				}
				target, err := store.Target(ctx)
				if err != nil {
					return err
				}
				if target == "" {
					return errors.Errorf("no target set")
				}
				fmt.Fprintln(cmd.OutOrStdout(), target)
				return nil
			},
		},
	)

	return cmd
}
