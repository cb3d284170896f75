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

package opts

import (
	"context"

	"github.com/walteh/vue3-migrate/pkg/completion"
	"github.com/walteh/vue3-migrate/pkg/config"
	"github.com/walteh/vue3-migrate/pkg/log"
)

// RootOpts is shared by every subcommand. Console and Config are populated
// once flags have been parsed.
type RootOpts struct {
	Console   *log.Logger
	Progress  bool
	Config    func(ctx context.Context) (config.Config, error)
	Settings  func(ctx context.Context) (config.Config, error) // Config without loading the prompt
	NewClient func(cfg config.Config) (completion.Client, error)
}
