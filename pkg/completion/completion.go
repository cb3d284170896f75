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

// Package completion defines the boundary to the remote completion service.
package completion

import (
	"context"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Failure classes returned (wrapped) by Client implementations.
var (
	ErrTransport         = errors.Base("completion transport failure")
	ErrAuth              = errors.Base("completion authentication failure")
	ErrRateLimited       = errors.Base("completion rate limited")
	ErrMalformedResponse = errors.Base("completion response malformed")
)

// FinishReasonStop marks a candidate that completed naturally.
const FinishReasonStop = "stop"

// 🔌 Client sends one transformation request and returns the candidates.
// Implementations perform no retries.
type Client interface {
	Complete(ctx context.Context, req Request) (*Result, error)
}

// 📨 Request is one transformation request. It becomes exactly two chat
// messages: SystemPrompt as the system message and Fragment verbatim as the
// user message.
type Request struct {
	Model        string
	MaxTokens    int
	SystemPrompt string
	Fragment     string
}

// Candidate is one proposed replacement.
type Candidate struct {
	FinishReason string
	Content      string
}

// Eligible reports whether the candidate finished naturally.
func (c Candidate) Eligible() bool {
	return c.FinishReason == FinishReasonStop
}

// 📦 Result is the ordered candidate list returned by the service
type Result struct {
	Candidates []Candidate
}

// 🧩 Replacement concatenates eligible candidate bodies in order, stopping at
// the first ineligible one. consumed is the number of candidates used and
// stoppedBy is the finish reason that ended consumption, if any.
//
// A result whose first candidate was cut off yields an empty replacement even
// when a later candidate finished; candidates are never picked out of order.
func (r *Result) Replacement() (replacement string, consumed int, stoppedBy string) {
	if r == nil {
		return "", 0, ""
	}
	var sb strings.Builder
	for _, c := range r.Candidates {
		if !c.Eligible() {
			return sb.String(), consumed, c.FinishReason
		}
		sb.WriteString(c.Content)
		consumed++
	}
	return sb.String(), consumed, ""
}
