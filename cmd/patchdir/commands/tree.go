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

	"github.com/spf13/cobra"
	"github.com/walteh/patchdir/cmd/patchdir/opts"
	"github.com/walteh/patchdir/pkg/tree"
	"gitlab.com/tozd/go/errors"
)

// NewTreeCmd creates a new tree command
func NewTreeCmd(opts *opts.RootOpts) *cobra.Command {
	var showIDs bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the base directory tree",
		Long: `Tree lists the base directory recursively, folders first.
With --ids every entry is prefixed with a number that copy and move accept
as @N.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printTree(cmd, opts, showIDs)
		},
	}

	cmd.Flags().BoolVar(&showIDs, "ids", false, "prefix entries with their display id")
	return cmd
}

func buildTree(cmd *cobra.Command, opts *opts.RootOpts) (*tree.Tree, error) {
	t, err := tree.Build(cmd.Context(), opts.Directory.Base(), tree.Options{Hide: opts.Config.Hide})
	if err != nil {
		return nil, errors.Errorf("listing base directory: %w", err)
	}
	return t, nil
}

func printTree(cmd *cobra.Command, opts *opts.RootOpts, showIDs bool) error {
	t, err := buildTree(cmd, opts)
	if err != nil {
		return err
	}
	out, err := t.Render(showIDs)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
