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

package github

import (
	"context"
	"net/http"
	"os"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/vue3-migrate/pkg/provider"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/oauth2"
)

// Scheme is the prefix of GitHub references
const Scheme = "github"

func init() {
	provider.Register(Scheme, New)
}

// 🎯 Provider implements the provider interface for GitHub
type Provider struct {
	client *github.Client
}

// 🏭 New creates a GitHub provider, authenticated when GITHUB_TOKEN is set
func New(ctx context.Context) (provider.Provider, error) {
	httpClient := http.DefaultClient
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	} else {
		zerolog.Ctx(ctx).Debug().Msg("GITHUB_TOKEN not set, using anonymous GitHub access")
	}
	return NewWithClient(github.NewClient(httpClient)), nil
}

// NewWithClient wraps an existing go-github client.
func NewWithClient(client *github.Client) *Provider {
	return &Provider{client: client}
}

// 📄 GetFile retrieves a single file's contents
func (p *Provider) GetFile(ctx context.Context, ref provider.Ref) ([]byte, error) {
	zerolog.Ctx(ctx).Debug().Str("ref", ref.String()).Msg("fetching file from GitHub")

	var opts *github.RepositoryContentGetOptions
	if ref.Ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: ref.Ref}
	}

	file, dir, _, err := p.client.Repositories.GetContents(ctx, ref.Owner, ref.Repo, ref.Path, opts)
	if err != nil {
		return nil, errors.Errorf("getting file content: %w", err)
	}
	if file == nil {
		return nil, errors.Errorf("%s is a directory with %d entries, not a file", ref.Path, len(dir))
	}

	data, err := file.GetContent()
	if err != nil {
		return nil, errors.Errorf("decoding content: %w", err)
	}
	return []byte(data), nil
}
