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

package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchdir/cmd/patchdir/commands"
	"github.com/walteh/patchdir/cmd/patchdir/opts"
)

func main() {
	setupLogging()
	rootOpts := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "patchdir",
		Short: "Copy or move files into a mirrored patch directory",
		Long: `patchdir copies or moves files and folders from a base directory into a
patch directory with the same relative layout. By default the patch directory
is a sibling of the base named <base>__patch.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			ctx, err := loadRootOpts(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			cmd.SetContext(ctx)
			return nil
		},
	}
	addRootFlags(rootCmd)

	rootCmd.AddCommand(
		commands.NewTreeCmd(rootOpts),
		commands.NewWhereCmd(rootOpts),
		commands.NewCopyCmd(rootOpts),
		commands.NewMoveCmd(rootOpts),
		newVersionCmd(),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		zerolog.DefaultContextLogger.Error().Err(err).Msg("patchdir failed")
		os.Exit(1)
	}
}
