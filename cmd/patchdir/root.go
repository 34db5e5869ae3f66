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
	"github.com/walteh/patchdir/cmd/patchdir/opts"
	"github.com/walteh/patchdir/pkg/config"
	"github.com/walteh/patchdir/pkg/log"
	"github.com/walteh/patchdir/pkg/patch"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile string
	baseDir    string
	targetDir  string
	hide       []string
	debug      bool
)

// loadRootOpts builds the config and patch directory shared by all commands.
// Flags win over values from the config file. The returned context carries
// the console logger.
func loadRootOpts(ctx context.Context, ro *opts.RootOpts) (context.Context, error) {
	cfg := &config.Config{}

	path := configFile
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path, _ = config.Find(wd)
		}
	}
	if path != "" {
		loaded, err := config.Load(ctx, path)
		if err != nil {
			return ctx, errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if baseDir != "" {
		cfg.Base = baseDir
	}
	if targetDir != "" {
		cfg.Target = targetDir
	}
	cfg.Hide = append(cfg.Hide, hide...)

	if cfg.Base == "" {
		return ctx, errors.New("no base directory: pass --base or add a .patchdir.yaml")
	}
	if err := cfg.Validate(); err != nil {
		return ctx, errors.Errorf("validating options: %w", err)
	}

	console := log.New(os.Stdout, *zerolog.Ctx(ctx))

	dir, err := patch.New(cfg.Base, cfg.Target, patch.WithObserver(console))
	if err != nil {
		return ctx, errors.Errorf("opening base directory: %w", err)
	}
	console.SetDirectory(dir.Base(), dir.Root())

	ro.Config = cfg
	ro.Directory = dir
	return log.NewContext(ctx, console), nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (default: .patchdir.{yaml,yml,hcl,json} in the working directory)")
	cmd.PersistentFlags().StringVarP(&baseDir, "base", "b", "", "base directory to patch from")
	cmd.PersistentFlags().StringVarP(&targetDir, "target", "t", "", "patch directory (default: <base>__patch)")
	cmd.PersistentFlags().StringArrayVar(&hide, "hide", nil, "doublestar pattern of entries to hide from the tree (repeatable)")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging() {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
}
