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

package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/vue3-migrate/cmd/vue3-migrate/opts"
	"github.com/walteh/vue3-migrate/pkg/config"
	"github.com/walteh/vue3-migrate/pkg/engine"
	"github.com/walteh/vue3-migrate/pkg/metrics"
	"github.com/walteh/vue3-migrate/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// commandContext tags the logger in ctx with the running command
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	return zerolog.Ctx(ctx).With().Str("command", cmd.Name()).Logger().WithContext(ctx)
}

// 🏗️ newEngine resolves and validates the configuration, then wires an engine
// whose file manager doubles as its reporter
func newEngine(ctx context.Context, o *opts.RootOpts) (config.Config, *engine.Engine, error) {
	cfg, err := o.Config(ctx)
	if err != nil {
		return cfg, nil, errors.Errorf("resolving configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, errors.Errorf("invalid configuration: %w", err)
	}

	client, err := o.NewClient(cfg)
	if err != nil {
		return cfg, nil, errors.Errorf("creating completion client: %w", err)
	}

	mgr := status.New(".", zerolog.Ctx(ctx)).
		WithConsole(o.Console).
		WithProgress(o.Progress)

	eng, err := engine.New(engine.Options{
		Config:   cfg,
		Client:   client,
		Files:    mgr,
		Reporter: mgr,
	})
	if err != nil {
		return cfg, nil, errors.Errorf("creating engine: %w", err)
	}
	return cfg, eng, nil
}

// 🖨️ printMetrics renders the records of eng after a run
func printMetrics(o *opts.RootOpts, eng *engine.Engine) error {
	records := eng.Records()
	if len(records) == 0 {
		return nil
	}
	table, err := metrics.Render(records)
	if err != nil {
		return err
	}
	o.Console.LogNewline()
	o.Console.Print(table)
	return nil
}

// 📝 summarize prints the tally of a batch
func summarize(o *opts.RootOpts, outcomes []status.Outcome) {
	var written, skipped, failed int
	for _, outcome := range outcomes {
		switch outcome.State {
		case status.StateWritten:
			written++
		case status.StateSkipped:
			skipped++
		case status.StateFailed:
			failed++
		}
	}
	msg := fmt.Sprintf("%d written, %d skipped, %d failed", written, skipped, failed)
	if failed > 0 {
		o.Console.Warning(msg)
		return
	}
	o.Console.Success(msg)
}
