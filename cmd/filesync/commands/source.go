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

func NewSourceCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "source",
		Short: "Manage the stored source list",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add PATH...",
			Short: "Remember one or more sources",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				store, err := opts.Store(ctx)
				if err != nil {
					return err
				}
				for _, arg := range args {
					path, err := filepath.Abs(arg)
					if err != nil {
						return errors.Errorf("resolving %s: %w", arg, err)
					}
					if err := store.AddSource(ctx, path); err != nil {
						return err
					}
					opts.Logger.Successf("added %s", path)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:     "remove PATH...",
			Aliases: []string{"rm"},
			Short:   "Forget one or more sources",
			Args:    cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				store, err := opts.Store(ctx)
				if err != nil {
					return err
				}
				for _, arg := range args {
					path, err := filepath.Abs(arg)
					if err != nil {
						return errors.Errorf("resolving %s: %w", arg, err)
					}
					if err := store.RemoveSource(ctx, path); err != nil {
						return err
					}
					opts.Logger.Successf("removed %s", path)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "Print the stored sources",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				store, err := opts.Store(ctx)
				if err != nil {
					return err
				}
				sources, err := store.Sources(ctx)
				if err != nil {
					return err
				}
				for _, src := range sources {
					fmt.Fprintln(cmd.OutOrStdout(), src)
				}
				return nil
			},
		},
	)

	return cmd
}
