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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/vue3-migrate/pkg/config"
	"github.com/walteh/vue3-migrate/pkg/fragment"
	"github.com/walteh/vue3-migrate/pkg/status"
	"gitlab.com/tozd/go/errors"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func TestDiscover(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"b.vue":                         "",
		"a.vue":                         "",
		"components/Nav.vue":            "",
		"components/Nav_refactored.vue": "",
		"legacy/Old.vue":                "",
		"main.ts":                       "",
		"notes.vue.txt":                 "",
	})

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   []string
	}{
		{
			name: "default",
			want: []string{"a.vue", "b.vue", "components/Nav.vue", "legacy/Old.vue"},
		},
		{
			name:   "ignore_pattern",
			mutate: func(c *config.Config) { c.Ignore = []string{"legacy/**"} },
			want:   []string{"a.vue", "b.vue", "components/Nav.vue"},
		},
		{
			name:   "custom_suffix_keeps_old_outputs",
			mutate: func(c *config.Config) { c.OutputSuffix = ".v3" },
			want:   []string{"a.vue", "b.vue", "components/Nav.vue", "components/Nav_refactored.vue", "legacy/Old.vue"},
		},
		{
			name:   "other_extension",
			mutate: func(c *config.Config) { c.Extension = ".ts" },
			want:   []string{"main.ts"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Defaults()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			got, err := Discover(dir, cfg)
			require.NoError(t, err)

			want := make([]string, len(tt.want))
			for i, rel := range tt.want {
				want[i] = filepath.Join(dir, filepath.FromSlash(rel))
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestDiscoverErrors(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"), config.Defaults())
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "App.vue")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, err = Discover(file, config.Defaults())
	assert.ErrorContains(t, err, "not a directory")
}

func TestInspect(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"App.vue":   "<template/>\n<script lang=\"ts\">export default {}</script>",
		"Plain.vue": "<script>export default {}</script>",
	})
	ctx := context.Background()
	files := status.New(dir, nil)

	est := Inspect(ctx, files, fragment.Default(), "App.vue")
	require.NoError(t, est.Err)
	assert.Equal(t, "App.vue", est.Path)
	assert.Equal(t, len("<script lang=\"ts\">export default {}</script>"), est.FragmentLength)
	assert.Equal(t, 4, est.Tokens)
	assert.Equal(t, time.Duration(0), est.Duration, "0.4s rounds down")

	est = Inspect(ctx, files, fragment.Default(), "Plain.vue")
	require.Error(t, est.Err)
	assert.True(t, errors.Is(est.Err, fragment.ErrNotFound))

	est = Inspect(ctx, files, fragment.Default(), "Missing.vue")
	assert.Error(t, est.Err)
}
