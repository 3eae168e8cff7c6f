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
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultConcurrency mirrors the syncer's batch width.
const DefaultConcurrency = 10

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

// 📚 Config represents the complete configuration
type Config struct {
	Sources     []string `json:"sources" yaml:"sources" hcl:"sources,optional"`
	Target      string   `json:"target" yaml:"target" hcl:"target,optional"`
	Concurrency int      `json:"concurrency,omitempty" yaml:"concurrency,omitempty" hcl:"concurrency,optional"`
	Exclude     []string `json:"exclude,omitempty" yaml:"exclude,omitempty" hcl:"exclude,optional"`
	Async       bool     `json:"async,omitempty" yaml:"async,omitempty" hcl:"async,optional"`

	// relative paths are resolved against dir when set
	dir string
}

// 🎯 Load loads the configuration from a file
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

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Errorf("resolving config path: %w", err)
	}
	cfg.dir = filepath.Dir(abs)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Strs("sources", cfg.Sources).Str("target", cfg.Target).Msg("configuration loaded")

	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if len(cfg.Sources) == 0 {
		return errors.Errorf("at least one source is required")
	}
	if cfg.Target == "" {
		return errors.Errorf("target is required")
	}
	if cfg.Concurrency < 0 {
		return errors.Errorf("concurrency must not be negative: %d", cfg.Concurrency)
	}

	for i, src := range cfg.Sources {
		if strings.TrimSpace(src) == "" {
			return errors.Errorf("sources[%d] is empty", i)
		}
		abs, err := cfg.absolute(src)
		if err != nil {
			return errors.Errorf("resolving source %q: %w", src, err)
		}
		cfg.Sources[i] = abs
	}

	target, err := cfg.absolute(cfg.Target)
	if err != nil {
		return errors.Errorf("resolving target %q: %w", cfg.Target, err)
	}
	cfg.Target = target

	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid exclude pattern: %q", pattern)
		}
	}

	if cfg.Concurrency == 0 {
		cfg.Concurrency = DefaultConcurrency
	}

	return nil
}

func (cfg *Config) absolute(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	if cfg.dir != "" {
		return filepath.Join(cfg.dir, path), nil
	}
	return filepath.Abs(path)
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s -> %s", strings.Join(cfg.Sources, ", "), cfg.Target)
}
