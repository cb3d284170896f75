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
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/vue3-migrate/pkg/fragment"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrMissingCredential = errors.Base("missing completion service credential")
	ErrMissingPrompt     = errors.Base("missing system prompt")
	ErrInvalid           = errors.Base("invalid configuration")
)

// Defaults
const (
	DefaultModel          = "gpt-3.5-turbo-16k"
	DefaultDelay          = 20000 * time.Millisecond
	DefaultMaxTokens      = 4096
	DefaultRequestTimeout = 5 * time.Minute
	DefaultExtension      = ".vue"
	DefaultOutputSuffix   = "_refactored"
	DefaultPattern        = fragment.ScriptPattern
)

// 📚 Config is the immutable engine configuration, built once at startup
type Config struct {
	Model          string        // Completion model identifier
	Credential     string        // Completion service API key
	SystemPrompt   string        // Instruction text sent as the system message
	Delay          time.Duration // Wait after each file in a batch
	MaxTokens      int           // Completion length bound
	Overwrite      bool          // Replace existing destination files
	BaseURL        string        // Completion service endpoint, empty for the default
	RequestTimeout time.Duration // Per-request timeout
	Extension      string        // Input file extension, with the leading dot
	OutputSuffix   string        // Inserted before the extension of the destination
	Ignore         []string      // Doublestar patterns excluded from batch discovery, on top of generated outputs
	Pattern        string        // Regular expression matching the fragment
}

// 🏭 Defaults returns the configuration used when nothing else is set
func Defaults() Config {
	return Config{
		Model:          DefaultModel,
		Delay:          DefaultDelay,
		MaxTokens:      DefaultMaxTokens,
		RequestTimeout: DefaultRequestTimeout,
		Extension:      DefaultExtension,
		OutputSuffix:   DefaultOutputSuffix,
		Pattern:        DefaultPattern,
	}
}

// 🔍 Validate checks that cfg can drive a refactor
func (cfg Config) Validate() error {
	if cfg.Credential == "" {
		return errors.WithStack(ErrMissingCredential)
	}
	if strings.TrimSpace(cfg.SystemPrompt) == "" {
		return errors.WithStack(ErrMissingPrompt)
	}
	if cfg.Model == "" {
		return errors.Errorf("%w: model is required", ErrInvalid)
	}
	if cfg.MaxTokens <= 0 {
		return errors.Errorf("%w: max tokens must be positive, got %d", ErrInvalid, cfg.MaxTokens)
	}
	if cfg.Delay < 0 {
		return errors.Errorf("%w: delay must not be negative, got %s", ErrInvalid, cfg.Delay)
	}
	if cfg.RequestTimeout < 0 {
		return errors.Errorf("%w: request timeout must not be negative, got %s", ErrInvalid, cfg.RequestTimeout)
	}
	if !strings.HasPrefix(cfg.Extension, ".") || len(cfg.Extension) < 2 {
		return errors.Errorf("%w: extension %q must start with a dot", ErrInvalid, cfg.Extension)
	}
	if cfg.OutputSuffix == "" {
		return errors.Errorf("%w: output suffix is required", ErrInvalid)
	}
	if cfg.Pattern == "" {
		return errors.Errorf("%w: fragment pattern is required", ErrInvalid)
	}
	if _, err := fragment.New(cfg.Pattern); err != nil {
		return errors.Errorf("%w: %s", ErrInvalid, err.Error())
	}
	for _, pattern := range cfg.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("%w: bad ignore pattern %q", ErrInvalid, pattern)
		}
	}
	return nil
}

// 📝 String returns a summary safe to log; the credential is never included
func (cfg Config) String() string {
	return fmt.Sprintf("model=%s delay=%s max_tokens=%d overwrite=%t ext=%s suffix=%s",
		cfg.Model, cfg.Delay, cfg.MaxTokens, cfg.Overwrite, cfg.Extension, cfg.OutputSuffix)
}

// 📄 File is the on-disk configuration; unset fields keep the lower layer's value
type File struct {
	Model          *string  `json:"model,omitempty" yaml:"model,omitempty" toml:"model,omitempty" hcl:"model,optional"`
	Prompt         *string  `json:"prompt,omitempty" yaml:"prompt,omitempty" toml:"prompt,omitempty" hcl:"prompt,optional"`
	DelayMS        *int     `json:"delay_ms,omitempty" yaml:"delay_ms,omitempty" toml:"delay_ms,omitempty" hcl:"delay_ms,optional"`
	MaxTokens      *int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty" toml:"max_tokens,omitempty" hcl:"max_tokens,optional"`
	Overwrite      *bool    `json:"overwrite,omitempty" yaml:"overwrite,omitempty" toml:"overwrite,omitempty" hcl:"overwrite,optional"`
	BaseURL        *string  `json:"base_url,omitempty" yaml:"base_url,omitempty" toml:"base_url,omitempty" hcl:"base_url,optional"`
	RequestTimeout *string  `json:"request_timeout,omitempty" yaml:"request_timeout,omitempty" toml:"request_timeout,omitempty" hcl:"request_timeout,optional"`
	Extension      *string  `json:"extension,omitempty" yaml:"extension,omitempty" toml:"extension,omitempty" hcl:"extension,optional"`
	OutputSuffix   *string  `json:"output_suffix,omitempty" yaml:"output_suffix,omitempty" toml:"output_suffix,omitempty" hcl:"output_suffix,optional"`
	Ignore         []string `json:"ignore,omitempty" yaml:"ignore,omitempty" toml:"ignore,omitempty" hcl:"ignore,optional"`
	Pattern        *string  `json:"pattern,omitempty" yaml:"pattern,omitempty" toml:"pattern,omitempty" hcl:"pattern,optional"`
}

// 🔄 Apply overlays the fields set in f onto cfg.
// The prompt is a source reference and is resolved by the caller.
func (f *File) Apply(cfg Config) (Config, error) {
	if f == nil {
		return cfg, nil
	}
	if f.Model != nil {
		cfg.Model = *f.Model
	}
	if f.DelayMS != nil {
		cfg.Delay = msToDuration(*f.DelayMS)
	}
	if f.MaxTokens != nil {
		cfg.MaxTokens = *f.MaxTokens
	}
	if f.Overwrite != nil {
		cfg.Overwrite = *f.Overwrite
	}
	if f.BaseURL != nil {
		cfg.BaseURL = *f.BaseURL
	}
	if f.RequestTimeout != nil {
		d, err := time.ParseDuration(*f.RequestTimeout)
		if err != nil {
			return cfg, errors.Errorf("%w: request_timeout %q: %s", ErrInvalid, *f.RequestTimeout, err.Error())
		}
		cfg.RequestTimeout = d
	}
	if f.Extension != nil {
		cfg.Extension = *f.Extension
	}
	if f.OutputSuffix != nil {
		cfg.OutputSuffix = *f.OutputSuffix
	}
	if f.Ignore != nil {
		cfg.Ignore = append([]string(nil), f.Ignore...)
	}
	if f.Pattern != nil {
		cfg.Pattern = *f.Pattern
	}
	return cfg, nil
}

func msToDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
