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
	"os"

	"github.com/spf13/cobra"
	"github.com/walteh/patchdir/cmd/patchdir/opts"
)

// NewWhereCmd creates a new where command
func NewWhereCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "where",
		Short: "Print the resolved base and patch directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.Directory

			state := "not created yet"
			if info, err := os.Stat(dir.Root()); err == nil && info.IsDir() {
				state = "exists"
			}

			out := cmd.OutOrStdout()
			if loc := opts.Config.Location(); loc != "" {
				fmt.Fprintf(out, "config: %s\n", loc)
			}
			fmt.Fprintf(out, "base:   %s\npatch:  %s (%s)\n", dir.Base(), dir.Root(), state)
			return nil
		},
	}
}
