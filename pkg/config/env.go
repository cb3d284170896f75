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
	"strconv"

	"github.com/joho/godotenv"
	"gitlab.com/tozd/go/errors"
)

// Environment variables
const (
	EnvAPIKey    = "OPENAI_API_KEY"
	EnvModel     = "VUE3_MIGRATE_MODEL"
	EnvBaseURL   = "VUE3_MIGRATE_BASE_URL"
	EnvDelayMS   = "VUE3_MIGRATE_DELAY_MS"
	EnvMaxTokens = "VUE3_MIGRATE_MAX_TOKENS"
)

// LookupFunc reports the value of an environment variable
type LookupFunc func(key string) (string, bool)

// 🌱 Environment returns a lookup that prefers non-empty process variables and
// falls back to the variables of the given dotenv files. Missing files are ignored.
func Environment(dotenvFiles ...string) (LookupFunc, error) {
	fileVars := map[string]string{}
	for _, path := range dotenvFiles {
		vars, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, errors.Errorf("reading %s: %w", path, err)
		}
		for k, v := range vars {
			if _, ok := fileVars[k]; !ok {
				fileVars[k] = v
			}
		}
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}, nil
}

// 🔄 ApplyEnv overlays the environment variables that are set onto cfg
func ApplyEnv(cfg Config, lookup LookupFunc) (Config, error) {
	if lookup == nil {
		return cfg, nil
	}
	if v, ok := lookup(EnvAPIKey); ok && v != "" {
		cfg.Credential = v
	}
	if v, ok := lookup(EnvModel); ok && v != "" {
		cfg.Model = v
	}
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		cfg.BaseURL = v
	}
	if v, ok := lookup(EnvDelayMS); ok && v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return cfg, errors.Errorf("%w: %s=%q is not an integer", ErrInvalid, EnvDelayMS, v)
		}
		cfg.Delay = msToDuration(ms)
	}
	if v, ok := lookup(EnvMaxTokens); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, errors.Errorf("%w: %s=%q is not an integer", ErrInvalid, EnvMaxTokens, v)
		}
		cfg.MaxTokens = n
	}
	return cfg, nil
}
