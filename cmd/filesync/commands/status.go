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
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/walteh/filesync/cmd/filesync/opts"
	"github.com/walteh/filesync/pkg/lastsync"
)

func NewStatusCmd(opts *opts.RootOpts) *cobra.Command {
	var flagTarget string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show when the target was last synced",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			target, err := resolveTarget(ctx, opts, flagTarget)
			if err != nil {
				return err
			}

			rec, err := lastsync.Load(ctx, target)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if rec == nil {
				fmt.Fprintf(out, "%s has never been synced\n", color.New(color.FgCyan).Sprint(target))
				return nil
			}

			ago := rec.Since(time.Now()).Round(time.Second)
			fmt.Fprintf(out, "%s last synced %s ago (%s)\n",
				color.New(color.FgCyan).Sprint(rec.Target),
				ago,
				rec.Timestamp.Local().Format(time.RFC3339))
			fmt.Fprintf(out, "sources: %s\n", strings.Join(rec.Sources, ", "))
			return nil
		},
	}

	cmd.Flags().StringVarP(&flagTarget, "target", "t", "", "target directory")

	return cmd
}
