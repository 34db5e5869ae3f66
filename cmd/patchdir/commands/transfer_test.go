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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/patchdir/cmd/patchdir/opts"
	"github.com/walteh/patchdir/pkg/config"
	"github.com/walteh/patchdir/pkg/log"
	"github.com/walteh/patchdir/pkg/patch"
)

// 🧪 createTestEnv creates a base directory with a few files and the opts
// the commands expect
func createTestEnv(t *testing.T) (context.Context, *opts.RootOpts, *bytes.Buffer) {
	t.Helper()

	color.NoColor = true
	pterm.DisableStyling()
	t.Cleanup(func() {
		color.NoColor = false
		pterm.EnableStyling()
	})

	tmp, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	base := filepath.Join(tmp, "proj")
	for _, p := range []string{"a/b.txt", "a/c.txt", "top.txt"} {
		full := filepath.Join(base, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(p), 0o644))
	}

	zlog := zerolog.New(zerolog.NewTestWriter(t))

	consoleOut := &bytes.Buffer{}
	console := log.New(consoleOut, zlog)
	ctx := log.NewContext(zlog.WithContext(context.Background()), console)

	cfg := &config.Config{Base: base}
	dir, err := patch.New(cfg.Base, "", patch.WithObserver(console))
	require.NoError(t, err)
	console.SetDirectory(dir.Base(), dir.Root())

	return ctx, &opts.RootOpts{Config: cfg, Directory: dir}, consoleOut
}

func run(ctx context.Context, cmd *cobra.Command, args ...string) (string, error) {
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestCopyCmd(t *testing.T) {
	ctx, ro, console := createTestEnv(t)

	_, err := run(ctx, NewCopyCmd(ro), "a/b.txt", filepath.Join(ro.Directory.Base(), "top.txt"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(ro.Directory.Root(), "a", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "a/b.txt", string(data))
	assert.FileExists(t, filepath.Join(ro.Directory.Root(), "top.txt"))
	assert.FileExists(t, filepath.Join(ro.Directory.Base(), "a", "b.txt"), "copy keeps the source")

	assert.Contains(t, console.String(), "patchdir • copy into "+ro.Directory.Root())
	assert.Contains(t, console.String(), "◆ copy • "+filepath.Join("a", "b.txt"))
	assert.Contains(t, console.String(), "✅ copied to "+filepath.Join(ro.Directory.Root(), "top.txt"))
}

func TestMoveCmdWithTreeIDs(t *testing.T) {
	ctx, ro, _ := createTestEnv(t)

	// ids: 0 root, 1 a, 2 a/b.txt, 3 a/c.txt, 4 top.txt
	out, err := run(ctx, NewTreeCmd(ro), "--ids")
	require.NoError(t, err)
	assert.Contains(t, out, "[1] 📁 a")

	out, err = run(ctx, NewMoveCmd(ro), "--show-tree", "@1")
	require.NoError(t, err)

	assert.NoDirExists(t, filepath.Join(ro.Directory.Base(), "a"))
	assert.FileExists(t, filepath.Join(ro.Directory.Root(), "a", "c.txt"))
	assert.Contains(t, out, "📄 top.txt")
	assert.NotContains(t, out, "📁 a", "refreshed tree no longer shows the moved folder")
}

func TestTransferCmdDryRun(t *testing.T) {
	ctx, ro, console := createTestEnv(t)

	out, err := run(ctx, NewMoveCmd(ro), "--dry-run", "a")
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(out))

	src := filepath.Join(ro.Directory.Base(), "a")
	dst := filepath.Join(ro.Directory.Root(), "a")
	assert.Contains(t, console.String(), "patchdir • move into "+ro.Directory.Root()+" (dry run)")
	assert.Contains(t, console.String(), "ℹ️  "+src+" -> "+dst)
	assert.NotContains(t, console.String(), "◆ move")
	assert.DirExists(t, src)
	assert.NoDirExists(t, ro.Directory.Root())
}

func TestTransferCmdErrors(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		errContains string
		console     string
	}{
		{
			name:        "base_root",
			args:        []string{"."},
			errContains: "refusing to copy the base directory",
			console:     "cannot copy the entire base root itself",
		},
		{
			name:        "outside_base",
			args:        []string{"../elsewhere.txt"},
			errContains: "is not inside base directory",
			console:     "is not inside",
		},
		{
			name:        "bad_id",
			args:        []string{"@x"},
			errContains: "invalid tree id",
		},
		{
			name:        "unknown_id",
			args:        []string{"@99"},
			errContains: "no tree entry with id 99 (ids run 0-4)",
		},
		{
			name:        "missing_source",
			args:        []string{"ghost.txt"},
			errContains: "no such file or directory",
			console:     "failed to copy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, ro, console := createTestEnv(t)

			_, err := run(ctx, NewCopyCmd(ro), tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
			if tt.console != "" {
				assert.Contains(t, console.String(), tt.console)
			}
			assert.NoDirExists(t, ro.Directory.Root())
		})
	}
}

func TestWhereCmd(t *testing.T) {
	ctx, ro, _ := createTestEnv(t)

	out, err := run(ctx, NewWhereCmd(ro))
	require.NoError(t, err)
	assert.NotContains(t, out, "config:", "no config file was loaded")
	assert.Contains(t, out, "base:   "+ro.Directory.Base())
	assert.Contains(t, out, "patch:  "+ro.Directory.Root()+" (not created yet)")

	require.NoError(t, os.MkdirAll(ro.Directory.Root(), 0o755))
	out, err = run(ctx, NewWhereCmd(ro))
	require.NoError(t, err)
	assert.Contains(t, out, "(exists)")
}

func TestWhereCmdConfigLocation(t *testing.T) {
	ctx, ro, _ := createTestEnv(t)

	cfgPath := filepath.Join(filepath.Dir(ro.Directory.Base()), ".patchdir.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("base: proj\n"), 0o644))

	cfg, err := config.Load(ctx, cfgPath)
	require.NoError(t, err)
	require.Equal(t, ro.Directory.Base(), cfg.Base)
	ro.Config = cfg

	out, err := run(ctx, NewWhereCmd(ro))
	require.NoError(t, err)
	assert.Contains(t, out, "config: "+cfgPath)
	assert.Contains(t, out, "base:   "+ro.Directory.Base())
}

func TestTreeCmdHide(t *testing.T) {
	ctx, ro, _ := createTestEnv(t)
	ro.Config.Hide = []string{"a/c.txt"}

	out, err := run(ctx, NewTreeCmd(ro))
	require.NoError(t, err)
	assert.Contains(t, out, "📄 b.txt")
	assert.NotContains(t, out, "c.txt")
}
