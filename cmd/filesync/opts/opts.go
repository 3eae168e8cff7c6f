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

package opts

import (
	"context"
	"io"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filesync/pkg/config"
	"github.com/walteh/filesync/pkg/log"
	"github.com/walteh/filesync/pkg/settings"
)

// RootOpts carries the persistent flags and the lazily opened resources
// shared by every subcommand.
type RootOpts struct {
	ConfigFile string
	DBPath     string
	Debug      bool

	Out    io.Writer
	Logger *log.Logger

	store *settings.Store
}

// LoadConfig reads the --config file, nil when none was given.
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	if o.ConfigFile == "" {
		return nil, nil
	}
	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// Store opens the settings database on first use.
func (o *RootOpts) Store(ctx context.Context) (*settings.Store, error) {
	if o.store != nil {
		return o.store, nil
	}

	path := o.DBPath
	if path == "" {
		var err error
		path, err = settings.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	store, err := settings.Open(ctx, path)
	if err != nil {
		return nil, errors.Errorf("opening settings: %w", err)
	}
	o.store = store
	return store, nil
}

// Close releases the settings database if it was opened.
func (o *RootOpts) Close() error {
	if o.store == nil {
		return nil
	}
	err := o.store.Close()
	o.store = nil
	return err
}
