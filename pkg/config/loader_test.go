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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 🧪 TestParserSelection tests parser selection by file extension
func TestParserSelection(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     Parser
	}{
		{name: "yaml_file", filename: ".vue3-migrate.yaml", want: &YAMLParser{}},
		{name: "yml_file", filename: ".vue3-migrate.yml", want: &YAMLParser{}},
		{name: "json_file", filename: "config.json", want: &JSONParser{}},
		{name: "hcl_file", filename: "config.hcl", want: &HCLParser{}},
		{name: "toml_file", filename: "config.TOML", want: &TOMLParser{}},
		{name: "unknown_file", filename: "config.ini", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetParser(tt.filename)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.IsType(t, tt.want, got)
		})
	}
}

// 🧪 TestLoadFormats loads the same settings from every supported format
func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: ".vue3-migrate.yaml",
			content: `model: gpt-4o
delay_ms: 500
max_tokens: 2048
overwrite: true
request_timeout: 1m
ignore:
  - "**/dist/**"
`,
		},
		{
			name: "json",
			file: ".vue3-migrate.json",
			content: `{
  "model": "gpt-4o",
  "delay_ms": 500,
  "max_tokens": 2048,
  "overwrite": true,
  "request_timeout": "1m",
  "ignore": ["**/dist/**"]
}`,
		},
		{
			name: "hcl",
			file: ".vue3-migrate.hcl",
			content: `model           = "gpt-4o"
delay_ms        = 500
max_tokens      = 2048
overwrite       = true
request_timeout = "1m"
ignore          = ["**/dist/**"]
`,
		},
		{
			name: "toml",
			file: ".vue3-migrate.toml",
			content: `model = "gpt-4o"
delay_ms = 500
max_tokens = 2048
overwrite = true
request_timeout = "1m"
ignore = ["**/dist/**"]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			assert.Equal(t, path, Find(dir))

			f, err := Load(context.Background(), path)
			require.NoError(t, err)

			cfg, err := f.Apply(Defaults())
			require.NoError(t, err)

			assert.Equal(t, "gpt-4o", cfg.Model)
			assert.Equal(t, 500*time.Millisecond, cfg.Delay)
			assert.Equal(t, 2048, cfg.MaxTokens)
			assert.True(t, cfg.Overwrite)
			assert.Equal(t, time.Minute, cfg.RequestTimeout)
			assert.Equal(t, []string{"**/dist/**"}, cfg.Ignore)
			assert.Equal(t, DefaultOutputSuffix, cfg.OutputSuffix)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("modle: typo\n"), 0644))
	_, err := Load(ctx, unknown)
	assert.Error(t, err, "unknown fields are rejected")

	ini := filepath.Join(dir, "config.ini")
	require.NoError(t, os.WriteFile(ini, []byte("model=x"), 0644))
	_, err = Load(ctx, ini)
	assert.ErrorContains(t, err, "unsupported config file extension")

	_, err = Load(ctx, filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	badHCL := filepath.Join(dir, "bad.hcl")
	require.NoError(t, os.WriteFile(badHCL, []byte("model = \n"), 0644))
	_, err = Load(ctx, badHCL)
	assert.ErrorContains(t, err, "HCL")
}

func TestLoadEmptyYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".vue3-migrate.yml")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	f, err := Load(context.Background(), path)
	require.NoError(t, err)

	cfg, err := f.Apply(Defaults())
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestHCLReadsEnvironment(t *testing.T) {
	t.Setenv("VUE3_MIGRATE_TEST_MODEL", "gpt-from-env")

	path := filepath.Join(t.TempDir(), "config.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`model = env.VUE3_MIGRATE_TEST_MODEL`+"\n"), 0644))

	f, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, f.Model)
	assert.Equal(t, "gpt-from-env", *f.Model)
}

func TestFindNothing(t *testing.T) {
	assert.Equal(t, "", Find(t.TempDir()))
}
