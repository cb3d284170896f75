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

// Package openai implements completion.Client against an OpenAI-compatible
// chat completions endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/vue3-migrate/pkg/completion"
	"gitlab.com/tozd/go/errors"
)

var _ completion.Client = (*Client)(nil)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultTimeout = 5 * time.Minute

	chatCompletionsPath = "/chat/completions"
	maxErrorBody        = 4 << 10
)

// ⚙️ Options configures a Client
type Options struct {
	// APIKey is sent as a bearer token (required).
	APIKey string
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string
	// Timeout bounds one request. Defaults to DefaultTimeout.
	Timeout time.Duration
	// HTTPClient overrides the transport; Timeout is ignored when set.
	HTTPClient *http.Client
}

// 🤖 Client talks to /chat/completions
type Client struct {
	hc     *http.Client
	url    string
	apiKey string
}

// 🏭 New creates a Client
func New(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, errors.Errorf("%w: missing api key", completion.ErrAuth)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		hc:     hc,
		url:    strings.TrimRight(opts.BaseURL, "/") + chatCompletionsPath,
		apiKey: opts.APIKey,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens,omitempty"`
	Messages  []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		FinishReason string `json:"finish_reason"`
		Message      struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// 📨 Complete sends the system prompt and fragment as a two-message chat
func (c *Client) Complete(ctx context.Context, req completion.Request) (*completion.Result, error) {
	body, err := json.Marshal(chatRequest{
		Model:     req.Model,
		MaxTokens: req.MaxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.Fragment},
		},
	})
	if err != nil {
		return nil, errors.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	zerolog.Ctx(ctx).Debug().
		Str("model", req.Model).
		Int("max_tokens", req.MaxTokens).
		Int("fragment_bytes", len(req.Fragment)).
		Msg("sending chat completion")

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.WithStack(ctxErr)
		}
		return nil, errors.Errorf("%w: %s", completion.ErrTransport, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, classify(resp)
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, errors.Errorf("%w: decoding body: %s", completion.ErrMalformedResponse, err.Error())
	}
	if cr.Choices == nil {
		return nil, errors.Errorf("%w: no choices in response", completion.ErrMalformedResponse)
	}

	result := &completion.Result{Candidates: make([]completion.Candidate, 0, len(cr.Choices))}
	for _, ch := range cr.Choices {
		cand := completion.Candidate{FinishReason: ch.FinishReason}
		if ch.Message.Content != nil {
			cand.Content = *ch.Message.Content
		}
		result.Candidates = append(result.Candidates, cand)
	}
	return result, nil
}

// classify maps a non-2xx response to one of the completion failure classes.
func classify(resp *http.Response) error {
	slurp, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(slurp))
	var er errorResponse
	if json.Unmarshal(slurp, &er) == nil && er.Error.Message != "" {
		msg = er.Error.Message
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return errors.Errorf("%w: status %d: %s", completion.ErrAuth, resp.StatusCode, msg)
	case resp.StatusCode == http.StatusTooManyRequests:
		return errors.Errorf("%w: status %d: %s", completion.ErrRateLimited, resp.StatusCode, msg)
	case resp.StatusCode == http.StatusRequestTimeout, resp.StatusCode/100 == 5:
		return errors.Errorf("%w: status %d: %s", completion.ErrTransport, resp.StatusCode, msg)
	default:
		return errors.Errorf("%w: status %d: %s", completion.ErrMalformedResponse, resp.StatusCode, msg)
	}
}
