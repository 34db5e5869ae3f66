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
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/patchdir/cmd/patchdir/opts"
	"github.com/walteh/patchdir/pkg/log"
	"github.com/walteh/patchdir/pkg/patch"
	"github.com/walteh/patchdir/pkg/tree"
	"gitlab.com/tozd/go/errors"
)

// NewCopyCmd creates a new copy command
func NewCopyCmd(opts *opts.RootOpts) *cobra.Command {
	return newTransferCmd(opts, patch.OpCopy,
		"copy PATH...",
		"Copy files or folders into the patch directory",
		`Copy merges each PATH into the patch directory at the same relative
location. Existing files there are overwritten, other files are kept.
PATH may be absolute, relative to the base directory, or @N from "tree --ids".`)
}

// NewMoveCmd creates a new move command
func NewMoveCmd(opts *opts.RootOpts) *cobra.Command {
	return newTransferCmd(opts, patch.OpMove,
		"move PATH...",
		"Move files or folders into the patch directory",
		`Move copies each PATH like copy does and deletes it from the base
directory once the copy succeeded. If the delete fails the copy stays in the
patch directory and the original may be partly removed.
PATH may be absolute, relative to the base directory, or @N from "tree --ids".`)
}

func newTransferCmd(opts *opts.RootOpts, op patch.Op, use, short, long string) *cobra.Command {
	var dryRun, showTree bool

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			console := log.FromContext(ctx)
			resolver := &argResolver{cmd: cmd, opts: opts}

			if dryRun {
				console.Header(fmt.Sprintf("%s into %s (dry run)", op, opts.Directory.Root()))
			} else {
				console.Header(fmt.Sprintf("%s into %s", op, opts.Directory.Root()))
			}

			for _, arg := range args {
				path, err := resolver.resolve(arg)
				if err != nil {
					return err
				}

				if dryRun {
					dst, err := opts.Directory.Destination(path)
					if err != nil {
						return errors.Errorf("resolving destination for %s: %w", arg, err)
					}
					console.Infof("%s -> %s", path, dst)
					continue
				}

				if err := runTransfer(ctx, opts, op, path); err != nil {
					return err
				}
			}

			if showTree && !dryRun {
				return printTree(cmd, opts, false)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print destinations without touching the file system")
	cmd.Flags().BoolVar(&showTree, "show-tree", false, "print the refreshed base tree afterwards")
	return cmd
}

func runTransfer(ctx context.Context, opts *opts.RootOpts, op patch.Op, path string) error {
	dir := opts.Directory
	console := log.FromContext(ctx)

	if filepath.Clean(path) == dir.Base() {
		console.Warningf("cannot %s the entire base root itself", op)
		return errors.Errorf("refusing to %s the base directory", op)
	}

	console.StartTransfer(ctx, op, path)

	var dst string
	var err error
	if op == patch.OpMove {
		dst, err = dir.Move(ctx, path)
	} else {
		dst, err = dir.Copy(ctx, path)
	}

	switch {
	case err == nil:
		console.Summary()
		console.Successf("%s to %s", pastTense(op), dst)
		return nil
	case errors.Is(err, patch.ErrOutOfScope):
		console.Errorf("%s is not inside %s", path, dir.Base())
	case patch.IsDuplicateLeft(err):
		console.Summary()
		console.Warningf("copied to %s but could not fully remove the original", dst)
	default:
		console.Errorf("failed to %s %s", op, path)
	}
	return errors.Errorf("%s %s: %w", op, path, err)
}

func pastTense(op patch.Op) string {
	if op == patch.OpMove {
		return "moved"
	}
	return "copied"
}

// argResolver turns command line arguments into absolute paths. The tree is
// only listed when an @N argument shows up.
type argResolver struct {
	cmd  *cobra.Command
	opts *opts.RootOpts
	tree *tree.Tree
}

func (r *argResolver) resolve(arg string) (string, error) {
	if id, ok := strings.CutPrefix(arg, "@"); ok {
		n, err := strconv.Atoi(id)
		if err != nil {
			return "", errors.Errorf("invalid tree id %q", arg)
		}
		if r.tree == nil {
			t, err := buildTree(r.cmd, r.opts)
			if err != nil {
				return "", err
			}
			r.tree = t
		}
		path, ok := r.tree.Lookup(n)
		if !ok {
			return "", errors.Errorf("no tree entry with id %d (ids run 0-%d)", n, r.tree.Len()-1)
		}
		return path, nil
	}

	if filepath.IsAbs(arg) {
		return filepath.Clean(arg), nil
	}
	return filepath.Join(r.opts.Directory.Base(), arg), nil
}
