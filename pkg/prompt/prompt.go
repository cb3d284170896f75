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

// Package prompt resolves the instruction text sent as the system message.
package prompt

import (
	"context"
	_ "embed"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/vue3-migrate/pkg/provider"
	"gitlab.com/tozd/go/errors"
)

//go:embed default.md
var defaultInstructions string

// Default returns the bundled Vue 2 to Vue 3 migration instructions.
func Default() string {
	return defaultInstructions
}

// 📄 Source names where the instructions come from. Text wins over Location.
type Source struct {
	Text     string // Inline instructions
	Location string // Local file path or provider reference such as github:owner/repo/path@ref
}

// FetchFunc downloads a remote reference
type FetchFunc func(ctx context.Context, ref provider.Ref) ([]byte, error)

// 🎯 Resolver turns a Source into instruction text
type Resolver struct {
	Fetch FetchFunc
}

// NewResolver returns a Resolver backed by the provider registry.
func NewResolver() *Resolver {
	return &Resolver{Fetch: provider.Fetch}
}

// 🔍 Resolve returns the instruction text for src, falling back to Default
func (r *Resolver) Resolve(ctx context.Context, src Source) (string, error) {
	logger := zerolog.Ctx(ctx)

	if strings.TrimSpace(src.Text) != "" {
		logger.Debug().Msg("using inline prompt")
		return src.Text, nil
	}
	if src.Location == "" {
		logger.Debug().Msg("using bundled prompt")
		return Default(), nil
	}

	ref, remote, err := provider.ParseRef(src.Location)
	if err != nil {
		return "", errors.Errorf("parsing prompt reference: %w", err)
	}

	var data []byte
	if remote {
		logger.Debug().Str("ref", ref.String()).Msg("fetching remote prompt")
		data, err = r.Fetch(ctx, ref)
		if err != nil {
			return "", errors.Errorf("fetching prompt: %w", err)
		}
	} else {
		logger.Debug().Str("path", src.Location).Msg("reading prompt file")
		data, err = os.ReadFile(src.Location)
		if err != nil {
			return "", errors.Errorf("reading prompt file: %w", err)
		}
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", errors.Errorf("prompt %s is empty", src.Location)
	}
	return text, nil
}
