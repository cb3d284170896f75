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

package engine

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/vue3-migrate/pkg/config"
	"github.com/walteh/vue3-migrate/pkg/status"
	"github.com/walteh/vue3-migrate/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📂 Discover lists the files under dir a batch would process, in lexical order.
// Generated outputs and paths matching cfg.Ignore are left out.
func Discover(dir string, cfg config.Config) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Errorf("reading directory: %w", err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", dir)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), "**/*"+cfg.Extension, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("globbing %s: %w", dir, err)
	}

	ignore := append([]string{"**/*" + cfg.OutputSuffix + cfg.Extension}, cfg.Ignore...)

	files := make([]string, 0, len(matches))
	for _, match := range matches {
		if shouldIgnore(match, ignore) {
			continue
		}
		files = append(files, filepath.Join(dir, filepath.FromSlash(match)))
	}
	sort.Strings(files)
	return files, nil
}

// 🔍 shouldIgnore checks a slash-separated relative path against the patterns
func shouldIgnore(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, path); matched {
			return true
		}
	}
	return false
}

// 📏 Estimate describes the fragment of one file without contacting the service
type Estimate struct {
	Path           string
	FragmentLength int           // characters
	Tokens         int           // approximate
	Duration       time.Duration // rough service time
	Err            error         // set when the file has no fragment or cannot be read
}

// 🔮 Inspect reads path and estimates the cost of refactoring it
func Inspect(ctx context.Context, files status.FileManager, locator Locator, path string) Estimate {
	est := Estimate{Path: path}

	content, err := files.ReadFile(ctx, path)
	if err != nil {
		est.Err = errors.Errorf("reading %s: %w", path, err)
		return est
	}
	span, err := locator.Locate(string(content))
	if err != nil {
		est.Err = errors.Errorf("locating fragment in %s: %w", path, err)
		return est
	}

	est.FragmentLength = text.Length(span.Text)
	est.Tokens = text.EstimateTokens(span.Text)
	est.Duration = text.EstimatedDuration(est.Tokens)
	return est
}
