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

// Package text holds the pure string operations used when rewriting a document.
package text

import (
	"unicode/utf8"

	"github.com/walteh/vue3-migrate/pkg/fragment"
)

// ✂️ Splice replaces span in document with replacement.
// Bytes outside [span.Start, span.End) are copied unchanged and the
// replacement is inserted as-is.
func Splice(document string, span fragment.Span, replacement string) string {
	return document[:span.Start] + replacement + document[span.End:]
}

// Length returns the number of characters (code points) in s.
// A character outside the Basic Multilingual Plane counts once, not as the
// two UTF-16 code units a JavaScript string length would report.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}
