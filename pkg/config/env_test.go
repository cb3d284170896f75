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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestEnvironment(t *testing.T) {
	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("OPENAI_API_KEY=sk-from-file\nVUE3_MIGRATE_MODEL=gpt-file\n"), 0644))

	t.Setenv(EnvModel, "gpt-process")
	t.Setenv(EnvAPIKey, "")

	lookup, err := Environment(dotenv, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	key, ok := lookup(EnvAPIKey)
	assert.True(t, ok)
	assert.Equal(t, "sk-from-file", key, "dotenv fills variables the process leaves empty")

	model, ok := lookup(EnvModel)
	assert.True(t, ok)
	assert.Equal(t, "gpt-process", model, "process environment wins over dotenv")

	_, ok = lookup("VUE3_MIGRATE_NOT_SET_ANYWHERE")
	assert.False(t, ok)
}

func TestApplyEnv(t *testing.T) {
	vars := map[string]string{
		EnvAPIKey:    "sk-env",
		EnvModel:     "gpt-env",
		EnvDelayMS:   "250",
		EnvMaxTokens: "1024",
		EnvBaseURL:   "http://localhost:8080/v1",
	}
	lookup := func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}

	cfg, err := ApplyEnv(Defaults(), lookup)
	require.NoError(t, err)

	assert.Equal(t, "sk-env", cfg.Credential)
	assert.Equal(t, "gpt-env", cfg.Model)
	assert.Equal(t, 250*time.Millisecond, cfg.Delay)
	assert.Equal(t, 1024, cfg.MaxTokens)
	assert.Equal(t, "http://localhost:8080/v1", cfg.BaseURL)

	vars[EnvDelayMS] = "fast"
	_, err = ApplyEnv(Defaults(), lookup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))

	same, err := ApplyEnv(Defaults(), nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), same)
}
