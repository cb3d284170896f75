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
)

// Message templates
const (
	EmojiProgress = "⏳"
	EmojiComplete = "✅"
	MsgProgress   = "%s Progress: %d/%d (%.0f%%)"
)

// FileFormatter defines how outcomes and progress should be formatted
type FileFormatter interface {
	// FormatOutcome formats the result of one file
	FormatOutcome(outcome Outcome) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatOutcome formats an outcome with emojis
func (f *DefaultFileFormatter) FormatOutcome(o Outcome) string {
	switch o.State {
	case StateWritten:
		return fmt.Sprintf("✨ Refactored %s -> %s", o.Source, o.Destination)
	case StateSkipped:
		return fmt.Sprintf("⏭️  Skipped %s (%s already exists)", o.Source, o.Destination)
	case StateFailed:
		if o.Err != nil {
			return fmt.Sprintf("❌ Failed %s: %v", o.Source, o.Err)
		}
		return fmt.Sprintf("❌ Failed %s", o.Source)
	default:
		return fmt.Sprintf("⏳ %s %s", o.State, o.Source)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	if current < 0 {
		current = 0
	}
	if total < 0 {
		total = 0
	}

	var percentage float64
	if total > 0 {
		percentage = float64(current) / float64(total) * 100
		if percentage > 100 {
			percentage = 100
		}
	}

	emoji := EmojiProgress
	if current >= total {
		emoji = EmojiComplete
	}
	return fmt.Sprintf(MsgProgress, emoji, current, total, percentage)
}
