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
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// DefaultNames are the file names Find looks for, in order.
var DefaultNames = []string{".patchdir.yaml", ".patchdir.yml", ".patchdir.hcl", ".patchdir.json"}

// 📚 Config describes one base/target pair
type Config struct {
	Base   string   `json:"base" yaml:"base" hcl:"base"`
	Target string   `json:"target,omitempty" yaml:"target,omitempty" hcl:"target,optional"`
	Hide   []string `json:"hide,omitempty" yaml:"hide,omitempty" hcl:"hide,optional"`

	location string
}

// 🎯 Load loads the configuration from a file. Relative base and target
// paths are taken relative to the file's directory.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	cfg.location = path
	dir := filepath.Dir(path)
	if cfg.Base != "" && !filepath.IsAbs(cfg.Base) {
		cfg.Base = filepath.Join(dir, cfg.Base)
	}
	if cfg.Target != "" && !filepath.IsAbs(cfg.Target) {
		cfg.Target = filepath.Join(dir, cfg.Target)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Str("config", cfg.String()).Msg("configuration loaded")
	return cfg, nil
}

// 🔎 Find returns the first of DefaultNames present in dir.
func Find(dir string) (string, bool) {
	for _, name := range DefaultNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if cfg.Base == "" {
		return errors.Errorf("base is required")
	}
	for _, pattern := range cfg.Hide {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("hide pattern %q is invalid", pattern)
		}
	}

	cfg.Base = filepath.Clean(cfg.Base)
	if cfg.Target != "" {
		cfg.Target = filepath.Clean(cfg.Target)
	}

	return nil
}

// Location returns the file the config was loaded from, if any.
func (cfg *Config) Location() string {
	return cfg.location
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	target := cfg.Target
	if target == "" {
		target = "<default>"
	}
	return fmt.Sprintf("%s -> %s", cfg.Base, target)
}
