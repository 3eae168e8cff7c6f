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

package syncer

import (
	"os"
	"path/filepath"
	"strings"
)

// 🔍 Validate checks every source against the target, in order, and returns the
// first violation as an *InvalidParametersError. It never touches the filesystem
// beyond stat calls.
func Validate(sources []string, target string) error {
	for _, source := range sources {
		info, err := os.Stat(source)
		if err != nil || !(info.Mode().IsRegular() || info.IsDir()) {
			return &InvalidParametersError{Reason: ErrSourceDoesNotExist, Path: source}
		}
		if within(source, target) {
			return &InvalidParametersError{Reason: ErrSourceInTarget, Path: source}
		}
		if within(target, source) {
			return &InvalidParametersError{Reason: ErrTargetInSource, Path: source}
		}
	}
	return nil
}

// within reports whether path equals root or is located below it.
// Paths are compared component-wise so /a/bc is not within /a/b.
func within(path, root string) bool {
	path = filepath.Clean(path)
	root = filepath.Clean(root)
	if path == root {
		return true
	}
	if !strings.HasSuffix(root, string(filepath.Separator)) {
		root += string(filepath.Separator)
	}
	return strings.HasPrefix(path, root)
}
