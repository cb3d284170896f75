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

// Package metrics holds per-file refactor records and renders them as a table.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"gitlab.com/tozd/go/errors"
)

// 📊 Record describes one written file
type Record struct {
	SourcePath        string        // File that was read
	NewPath           string        // File that was written
	OriginalLength    int           // Characters in the located fragment
	ReplacementLength int           // Characters in the spliced replacement
	Elapsed           time.Duration // Wall time of the whole per-file pipeline
	TokenCount        int           // Estimated tokens in the fragment
}

// Header is the column set of the rendered table.
var Header = []string{"File", "Output", "Old Length", "New Length", "Time (ms)", "Token Count"}

// Rows returns one row per record, in order. No totals are added.
func Rows(records []Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.SourcePath,
			r.NewPath,
			strconv.Itoa(r.OriginalLength),
			strconv.Itoa(r.ReplacementLength),
			fmt.Sprintf("%dms", r.Elapsed.Milliseconds()),
			strconv.Itoa(r.TokenCount),
		})
	}
	return rows
}

// 🖨️ Render formats records as a boxed table
func Render(records []Record) (string, error) {
	out, err := Table(Header, Rows(records))
	if err != nil {
		return "", errors.Errorf("rendering metrics table: %w", err)
	}
	return out, nil
}

// Table renders a boxed table with a header row.
func Table(header []string, rows [][]string) (string, error) {
	data := pterm.TableData{header}
	data = append(data, rows...)

	out, err := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithData(data).
		Srender()
	if err != nil {
		return "", errors.WithStack(err)
	}
	return out, nil
}
