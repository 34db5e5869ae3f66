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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, dir string, cfg *Config)
	}{
		{
			name: "yaml_full",
			file: ".patchdir.yaml",
			config: `
base: /data/proj
target: /data/out
hide:
  - .git
  - "**/*.log"
`,
			check: func(t *testing.T, dir string, cfg *Config) {
				assert.Equal(t, "/data/proj", cfg.Base, "base should match")
				assert.Equal(t, "/data/out", cfg.Target, "target should match")
				assert.Equal(t, []string{".git", "**/*.log"}, cfg.Hide, "hide should match")
			},
		},
		{
			name:   "yaml_relative_paths",
			file:   ".patchdir.yml",
			config: "base: proj\ntarget: ../out\n",
			check: func(t *testing.T, dir string, cfg *Config) {
				assert.Equal(t, filepath.Join(dir, "proj"), cfg.Base, "base should resolve against the file")
				assert.Equal(t, filepath.Join(filepath.Dir(dir), "out"), cfg.Target, "target should resolve against the file")
			},
		},
		{
			name:   "yaml_minimal",
			file:   "config.yaml",
			config: "base: /data/proj\n",
			check: func(t *testing.T, dir string, cfg *Config) {
				assert.Empty(t, cfg.Target, "target should stay empty")
				assert.Nil(t, cfg.Hide, "hide should be nil")
				assert.Equal(t, "/data/proj -> <default>", cfg.String())
			},
		},
		{
			name: "hcl_with_suffix_variable",
			file: ".patchdir.hcl",
			config: `
base   = "/data/proj"
target = "/data/proj${suffix}"
hide   = ["node_modules"]
`,
			check: func(t *testing.T, dir string, cfg *Config) {
				assert.Equal(t, "/data/proj", cfg.Base)
				assert.Equal(t, "/data/proj__patch", cfg.Target)
				assert.Equal(t, []string{"node_modules"}, cfg.Hide)
			},
		},
		{
			name:   "json",
			file:   "patch.json",
			config: `{"base": "/data/proj", "hide": ["*.tmp"]}`,
			check: func(t *testing.T, dir string, cfg *Config) {
				assert.Equal(t, "/data/proj", cfg.Base)
				assert.Equal(t, []string{"*.tmp"}, cfg.Hide)
			},
		},
		{
			name:        "missing_base",
			file:        "config.yaml",
			config:      "target: /data/out\n",
			wantErr:     true,
			errContains: "base is required",
		},
		{
			name:        "unknown_yaml_field",
			file:        "config.yaml",
			config:      "base: /data/proj\ndestination: /x\n",
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name:        "unknown_json_field",
			file:        "config.json",
			config:      `{"base": "/data/proj", "force": true}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name:        "bad_hcl",
			file:        "config.hcl",
			config:      `base = `,
			wantErr:     true,
			errContains: "parsing HCL",
		},
		{
			name:        "bad_pattern",
			file:        "config.yaml",
			config:      "base: /data/proj\nhide: ['[oops']\n",
			wantErr:     true,
			errContains: "hide pattern",
		},
		{
			name:        "unsupported_extension",
			file:        "config.toml",
			config:      "base = '/data/proj'",
			wantErr:     true,
			errContains: "no parser found",
		},
	}

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			configPath := filepath.Join(dir, tt.file)
			err := os.WriteFile(configPath, []byte(tt.config), 0o644)
			require.NoError(t, err, "writing config file should succeed")

			cfg, err := Load(ctx, configPath)
			if tt.wantErr {
				require.Error(t, err, "Load should return error")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}

			require.NoError(t, err, "Load should succeed")
			assert.Equal(t, configPath, cfg.Location())
			if tt.check != nil {
				tt.check(t, dir, cfg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), ".patchdir.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestFind(t *testing.T) {
	dir := t.TempDir()

	_, ok := Find(dir)
	assert.False(t, ok, "empty directory has no config")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".patchdir.hcl"), []byte(`base = "."`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".patchdir.json"), []byte(`{"base": "."}`), 0o644))

	path, ok := Find(dir)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, ".patchdir.hcl"), path, "hcl comes before json")

	require.NoError(t, os.Mkdir(filepath.Join(dir, ".patchdir.yaml"), 0o755))
	path, ok = Find(dir)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, ".patchdir.hcl"), path, "directories are skipped")
}
