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

package status

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/walteh/filesync/pkg/syncer"
)

// FileFormatter defines how sync progress should be formatted
type FileFormatter interface {
	// FormatOutcome formats what a job did to one entry
	FormatOutcome(path string, outcome syncer.Outcome) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatState formats a whole progress snapshot
	FormatState(st syncer.State) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatOutcome formats a job outcome with emojis
func (f *DefaultFileFormatter) FormatOutcome(path string, outcome syncer.Outcome) string {
	switch outcome {
	case syncer.OutcomeCreated:
		return fmt.Sprintf("✨ Created %s", path)
	case syncer.OutcomeUpdated:
		return fmt.Sprintf("📝 Updated %s", path)
	case syncer.OutcomeChmod:
		return fmt.Sprintf("🔐 Permissions %s", path)
	default:
		return fmt.Sprintf("👍 Unchanged %s", path)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatState formats the progress line followed by the base names of the batch
func (f *DefaultFileFormatter) FormatState(st syncer.State) string {
	progress := f.FormatProgress(st.Done, st.Total)
	if len(st.CurrentWork) == 0 {
		return progress
	}
	names := make([]string, len(st.CurrentWork))
	for i, p := range st.CurrentWork {
		names[i] = filepath.Base(p)
	}
	return fmt.Sprintf("%s [%s]", progress, strings.Join(names, ", "))
}

// FormatError formats an error message with emoji
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
