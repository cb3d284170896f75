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

// Package fragment finds the single transformable block inside a document.
package fragment

import (
	"regexp"

	"gitlab.com/tozd/go/errors"
)

// 🔍 ErrNotFound is returned when a document holds no recognizable fragment
var ErrNotFound = errors.Base("no script tag found")

// ScriptPattern matches the typed script block of a Vue single-file component.
// The dot matches newlines and the match is greedy, so a document with several
// closing tags yields a span ending after the last one.
const ScriptPattern = `(?s)<script lang="ts">.*</script>`

// 📍 Span is a located fragment. Start and End are byte offsets into the
// document, End exclusive.
type Span struct {
	Text  string
	Start int
	End   int
}

// 🎯 Locator finds fragments using one compiled pattern
type Locator struct {
	re *regexp.Regexp
}

// 🏭 New compiles pattern into a Locator
func New(pattern string) (*Locator, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Errorf("compiling fragment pattern: %w", err)
	}
	return &Locator{re: re}, nil
}

// Default returns a Locator for ScriptPattern.
func Default() *Locator {
	return &Locator{re: regexp.MustCompile(ScriptPattern)}
}

// 🔎 Locate returns the first (leftmost, longest-reaching) match in document
func (l *Locator) Locate(document string) (Span, error) {
	loc := l.re.FindStringIndex(document)
	if loc == nil {
		return Span{}, errors.WithStack(ErrNotFound)
	}
	return Span{
		Text:  document[loc[0]:loc[1]],
		Start: loc[0],
		End:   loc[1],
	}, nil
}
