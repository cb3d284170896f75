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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	pterm.DisableStyling()
	os.Exit(m.Run())
}

// fakeCompletions serves /chat/completions and upper-cases the fragment
func fakeCompletions(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Len(t, req.Messages, 2)

		fragment := req.Messages[len(req.Messages)-1].Content
		out := strings.Replace(fragment, `<script lang="ts">`, `<script setup lang="ts">`, 1)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"finish_reason": "stop", "message": map[string]any{"role": "assistant", "content": out}},
			},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("VUE3_MIGRATE_MODEL", "")
	t.Setenv("VUE3_MIGRATE_BASE_URL", "")
	t.Setenv("VUE3_MIGRATE_DELAY_MS", "")
	t.Setenv("VUE3_MIGRATE_MAX_TOKENS", "")
}

func baseArgs(t *testing.T, server *httptest.Server) []string {
	return []string{
		"--token", "sk-test",
		"--base-url", server.URL + "/v1",
		"--timeout", "0",
		"--no-progress",
		"--prompt-text", "migrate to script setup",
		"--env-file", filepath.Join(t.TempDir(), "none.env"),
	}
}

func TestDirectoryCommand(t *testing.T) {
	isolateEnv(t)
	var calls atomic.Int32
	server := fakeCompletions(t, &calls)

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "components"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "App.vue"), []byte("<template/>\n<script lang=\"ts\">export default {}</script>\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "components", "Nav.vue"), []byte("<script lang=\"ts\">const a = 1</script>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "components", "Plain.vue"), []byte("<script>plain</script>"), 0644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"directory", dir}, baseArgs(t, server)...), &stdout, &stderr)
	require.Equal(t, 0, code, "stdout: %s\nstderr: %s", stdout.String(), stderr.String())

	got, err := os.ReadFile(filepath.Join(dir, "App_refactored.vue"))
	require.NoError(t, err)
	assert.Equal(t, "<template/>\n<script setup lang=\"ts\">export default {}</script>\n", string(got))
	assert.FileExists(t, filepath.Join(dir, "components", "Nav_refactored.vue"))
	assert.NoFileExists(t, filepath.Join(dir, "components", "Plain_refactored.vue"))

	assert.Contains(t, stdout.String(), "3 files")
	assert.Contains(t, stdout.String(), "2 written, 0 skipped, 1 failed")
	assert.Contains(t, stdout.String(), "Token Count")
	assert.Equal(t, int32(2), calls.Load())

	stdout.Reset()
	code = run(context.Background(), append([]string{"directory", dir}, baseArgs(t, server)...), &stdout, &stderr)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "0 written, 2 skipped, 1 failed")
	assert.Equal(t, int32(2), calls.Load(), "a rerun issues no requests for converted files")
}

func TestConvertCommand(t *testing.T) {
	isolateEnv(t)
	var calls atomic.Int32
	server := fakeCompletions(t, &calls)
	dir := t.TempDir()

	good := filepath.Join(dir, "Good.vue")
	require.NoError(t, os.WriteFile(good, []byte("<script lang=\"ts\">x</script>"), 0644))
	bad := filepath.Join(dir, "Bad.vue")
	require.NoError(t, os.WriteFile(bad, []byte("<script>x</script>"), 0644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"convert", good}, baseArgs(t, server)...), &stdout, &stderr)
	require.Equal(t, 0, code, stdout.String())
	assert.FileExists(t, filepath.Join(dir, "Good_refactored.vue"))
	assert.Contains(t, stdout.String(), "Good_refactored.vue")

	stdout.Reset()
	code = run(context.Background(), append([]string{"convert", bad}, baseArgs(t, server)...), &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "no script tag found")
	assert.Equal(t, int32(1), calls.Load())
}

func TestMissingCredential(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "A.vue"), []byte("<script lang=\"ts\">x</script>"), 0644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{
		"directory", dir,
		"--no-progress",
		"--env-file", filepath.Join(t.TempDir(), "none.env"),
	}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "missing completion service credential")
	assert.NoFileExists(t, filepath.Join(dir, "A_refactored.vue"))
}

func TestEstimateCommand(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "A.vue"), []byte("<script lang=\"ts\">const a = 1; let b = 2</script>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "B.vue"), []byte("<template/>"), 0644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{
		"estimate", dir,
		"--timeout", "1000",
		"--env-file", filepath.Join(t.TempDir(), "none.env"),
	}, &stdout, &stderr)
	require.Equal(t, 0, code, stdout.String())

	out := stdout.String()
	assert.Contains(t, out, "Est. Tokens")
	assert.Contains(t, out, "A.vue")
	assert.Contains(t, out, "no script tag found")
	assert.Contains(t, out, "1 files, ~9 tokens, ~2s with a 1s delay")
}

func TestEstimateLeavesPromptAlone(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Legacy.vue"), []byte("<script>a b c</script>"), 0644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{
		"estimate", dir,
		"--prompt", filepath.Join(t.TempDir(), "missing-prompt.md"),
		"--pattern", "(?s)<script>.*</script>",
		"--env-file", filepath.Join(t.TempDir(), "none.env"),
	}, &stdout, &stderr)
	require.Equal(t, 0, code, stdout.String())

	assert.NotContains(t, stdout.String(), "loading prompt")
	assert.Contains(t, stdout.String(), "Legacy.vue")
	assert.Contains(t, stdout.String(), "1 files, ~3 tokens")
}

func TestVersionCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"version"}, &stdout, &stderr)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "vue3-migrate version info")
	assert.Contains(t, stdout.String(), "Go:")
}

func TestUnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"explode"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "unknown command")
}

func TestResolvePrecedence(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	configPath := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("model: from-file\nmax_tokens: 1000\ndelay_ms: 10\nprompt: "+filepath.Join(dir, "prompt.md")+"\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prompt.md"), []byte("prompt from file"), 0644))
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("OPENAI_API_KEY=sk-dotenv\nVUE3_MIGRATE_MAX_TOKENS=2000\n"), 0644))
	t.Setenv("VUE3_MIGRATE_MODEL", "from-env")

	var stdout, stderr bytes.Buffer
	root, o := newRootCmd(&stdout, &stderr)
	root.SetArgs([]string{"version", "--config", configPath, "--env-file", envPath, "--model", "from-flag"})
	require.NoError(t, root.Execute())
	require.NotNil(t, o.Config)

	cfg, err := o.Config(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.Model, "flags win")
	assert.Equal(t, 2000, cfg.MaxTokens, "environment beats the config file")
	assert.Equal(t, 10*time.Millisecond, cfg.Delay, "config file beats defaults")
	assert.Equal(t, "sk-dotenv", cfg.Credential, "dotenv fills the credential")
	assert.Equal(t, "prompt from file", cfg.SystemPrompt)
	assert.NoError(t, cfg.Validate())

	settings, err := o.Settings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, settings.SystemPrompt, "settings never load the prompt")
	assert.Equal(t, cfg.Model, settings.Model)
	assert.Equal(t, cfg.Pattern, settings.Pattern)
}
