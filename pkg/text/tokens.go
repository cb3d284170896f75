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

package text

import (
	"regexp"
	"time"
)

// secondsPerToken approximates how long the completion service spends per token
const secondsPerToken = 0.1

var tokenSeparators = regexp.MustCompile(`[\s,.;:!?()]+`)

// 🔢 EstimateTokens approximates the token count of s by splitting on
// whitespace and common punctuation and counting the non-empty pieces.
// It is an estimate for progress and metrics only, not a real tokenizer.
func EstimateTokens(s string) int {
	count := 0
	for _, piece := range tokenSeparators.Split(s, -1) {
		if piece != "" {
			count++
		}
	}
	return count
}

// EstimatedDuration converts a token estimate into a rough service time,
// rounded to the second.
func EstimatedDuration(tokens int) time.Duration {
	return time.Duration(float64(tokens) * secondsPerToken * float64(time.Second)).Round(time.Second)
}
