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

package provider

import (
	"context"
	"strings"
	"sync"

	"gitlab.com/tozd/go/errors"
)

var ErrUnknownProvider = errors.Base("unknown provider")

// 📦 Ref points at one file in a remote repository, written scheme:owner/repo/path@ref
type Ref struct {
	Scheme string // Provider name, e.g. github
	Owner  string // Repository owner
	Repo   string // Repository name
	Path   string // File path inside the repository
	Ref    string // Branch, tag or commit; empty for the default branch
}

// 📝 String renders r in the form ParseRef accepts
func (r Ref) String() string {
	s := r.Scheme + ":" + r.Owner + "/" + r.Repo + "/" + r.Path
	if r.Ref != "" {
		s += "@" + r.Ref
	}
	return s
}

// 🔍 ParseRef parses scheme:owner/repo/path[@ref].
// ok is false when s has no registered scheme prefix, in which case s is a local path.
func ParseRef(s string) (ref Ref, ok bool, err error) {
	scheme, rest, found := strings.Cut(s, ":")
	if !found || Get(scheme) == nil {
		return Ref{}, false, nil
	}

	if at := strings.LastIndex(rest, "@"); at >= 0 {
		ref.Ref = rest[at+1:]
		rest = rest[:at]
		if ref.Ref == "" {
			return Ref{}, true, errors.Errorf("empty ref in %q", s)
		}
	}

	parts := strings.SplitN(strings.Trim(rest, "/"), "/", 3)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Ref{}, true, errors.Errorf("invalid reference %q: want %s:owner/repo/path[@ref]", s, scheme)
	}

	ref.Scheme = scheme
	ref.Owner = parts[0]
	ref.Repo = parts[1]
	ref.Path = parts[2]
	return ref, true, nil
}

// 🔌 Provider fetches files from a remote repository
type Provider interface {
	// 📄 GetFile retrieves a single file's contents
	GetFile(ctx context.Context, ref Ref) ([]byte, error)
}

// 🏭 Factory creates a new provider
type Factory func(ctx context.Context) (Provider, error)

var (
	mu sync.RWMutex
	// 🗺️ providers is a map of provider names to factories
	providers = make(map[string]Factory)
)

// 📝 Register registers a provider factory
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	providers[name] = factory
}

// 🎯 Get returns a provider factory by name, or nil
func Get(name string) Factory {
	mu.RLock()
	defer mu.RUnlock()
	return providers[name]
}

// 📥 Fetch resolves the provider for ref and downloads the file
func Fetch(ctx context.Context, ref Ref) ([]byte, error) {
	factory := Get(ref.Scheme)
	if factory == nil {
		return nil, errors.Errorf("%w: %s", ErrUnknownProvider, ref.Scheme)
	}
	p, err := factory(ctx)
	if err != nil {
		return nil, errors.Errorf("creating %s provider: %w", ref.Scheme, err)
	}
	data, err := p.GetFile(ctx, ref)
	if err != nil {
		return nil, errors.Errorf("fetching %s: %w", ref, err)
	}
	return data, nil
}
