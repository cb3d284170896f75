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

package engine

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/vue3-migrate/pkg/completion"
	"github.com/walteh/vue3-migrate/pkg/config"
	"github.com/walteh/vue3-migrate/pkg/fragment"
	"github.com/walteh/vue3-migrate/pkg/metrics"
	"github.com/walteh/vue3-migrate/pkg/status"
	"github.com/walteh/vue3-migrate/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Locator finds the transformable fragment of a document
type Locator interface {
	Locate(document string) (fragment.Span, error)
}

// SleepFunc waits for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// 🔧 Options contains the collaborators of an Engine
type Options struct {
	// Config is copied at construction
	Config config.Config
	// Client issues completion requests
	Client completion.Client
	// Files reads and writes documents
	Files status.FileManager
	// Locator defaults to one compiled from Config.Pattern
	Locator Locator
	// Reporter is optional
	Reporter status.Reporter
	// Sleep defaults to a context-aware timer
	Sleep SleepFunc
	// Now defaults to time.Now
	Now func() time.Time
}

// 🎮 Engine refactors documents one at a time against a completion service
type Engine struct {
	cfg      config.Config
	client   completion.Client
	files    status.FileManager
	locator  Locator
	reporter status.Reporter
	sleep    SleepFunc
	now      func() time.Time

	records []metrics.Record
}

// 🏭 New creates a new engine with the given options
func New(opts Options) (*Engine, error) {
	if opts.Client == nil {
		return nil, errors.Errorf("completion client is required")
	}
	if opts.Files == nil {
		return nil, errors.Errorf("file manager is required")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	cfg := opts.Config
	cfg.Ignore = append([]string(nil), opts.Config.Ignore...)

	e := &Engine{
		cfg:      cfg,
		client:   opts.Client,
		files:    opts.Files,
		locator:  opts.Locator,
		reporter: opts.Reporter,
		sleep:    opts.Sleep,
		now:      opts.Now,
	}
	if e.locator == nil {
		locator, err := fragment.New(cfg.Pattern)
		if err != nil {
			return nil, errors.Errorf("building locator: %w", err)
		}
		e.locator = locator
	}
	if e.reporter == nil {
		e.reporter = nopReporter{}
	}
	if e.sleep == nil {
		e.sleep = sleepContext
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e, nil
}

// Records returns the metrics of every written file, in the order they were written.
func (e *Engine) Records() []metrics.Record {
	out := make([]metrics.Record, len(e.records))
	copy(out, e.records)
	return out
}

// 📍 DestinationPath derives where the refactored copy of source is written
func (e *Engine) DestinationPath(source string) string {
	return destinationPath(source, e.cfg.Extension, e.cfg.OutputSuffix)
}

func destinationPath(source, ext, suffix string) string {
	if !strings.HasSuffix(source, ext) {
		ext = filepath.Ext(source)
	}
	return strings.TrimSuffix(source, ext) + suffix + ext
}

// 🔄 RefactorOne runs one file through the state machine.
// The returned outcome is always set; err is non-nil exactly when the outcome failed.
func (e *Engine) RefactorOne(ctx context.Context, path string) (status.Outcome, error) {
	logger := zerolog.Ctx(ctx).With().Str("path", path).Logger()

	outcome := status.Outcome{
		Source:      path,
		Destination: e.DestinationPath(path),
		State:       status.StatePending,
	}

	fail := func(err error) (status.Outcome, error) {
		outcome.State = status.StateFailed
		outcome.Err = err
		e.reporter.TrackOutcome(ctx, outcome)
		return outcome, err
	}

	if !e.cfg.Overwrite {
		exists, err := e.files.FileExists(ctx, outcome.Destination)
		if err != nil {
			return fail(errors.Errorf("checking destination %s: %w", outcome.Destination, err))
		}
		if exists {
			logger.Debug().Str("destination", outcome.Destination).Msg("destination exists, skipping")
			outcome.State = status.StateSkipped
			e.reporter.TrackOutcome(ctx, outcome)
			return outcome, nil
		}
	}

	start := e.now()

	outcome.State = status.StateLocating
	content, err := e.files.ReadFile(ctx, path)
	if err != nil {
		return fail(errors.Errorf("reading %s: %w", path, err))
	}
	document := string(content)

	span, err := e.locator.Locate(document)
	if err != nil {
		return fail(errors.Errorf("locating fragment in %s: %w", path, err))
	}

	tokens := text.EstimateTokens(span.Text)
	e.reporter.StartFile(ctx, path, tokens)

	outcome.State = status.StateRequesting
	logger.Debug().Int("tokens", tokens).Str("model", e.cfg.Model).Msg("requesting completion")
	result, err := e.client.Complete(ctx, completion.Request{
		Model:        e.cfg.Model,
		MaxTokens:    e.cfg.MaxTokens,
		SystemPrompt: e.cfg.SystemPrompt,
		Fragment:     span.Text,
	})
	if err != nil {
		return fail(errors.Errorf("completing %s: %w", path, err))
	}

	outcome.State = status.StateRewriting
	replacement, consumed, stoppedBy := result.Replacement()
	if stoppedBy != "" {
		// candidates after the first ineligible one are dropped, even when they finished
		logger.Warn().
			Str("finish_reason", stoppedBy).
			Int("consumed", consumed).
			Int("candidates", len(result.Candidates)).
			Msg("completion cut short, replacement may be truncated")
	}

	rewritten := text.Splice(document, span, replacement)
	if err := e.files.WriteFileAtomic(ctx, outcome.Destination, []byte(rewritten)); err != nil {
		return fail(errors.Errorf("writing %s: %w", outcome.Destination, err))
	}

	record := metrics.Record{
		SourcePath:        path,
		NewPath:           outcome.Destination,
		OriginalLength:    text.Length(span.Text),
		ReplacementLength: text.Length(replacement),
		Elapsed:           e.now().Sub(start),
		TokenCount:        tokens,
	}
	e.records = append(e.records, record)

	outcome.State = status.StateWritten
	outcome.Record = &record
	e.reporter.TrackOutcome(ctx, outcome)

	logger.Info().
		Str("destination", outcome.Destination).
		Int("old_length", record.OriginalLength).
		Int("new_length", record.ReplacementLength).
		Dur("elapsed", record.Elapsed).
		Msg("refactored file")

	return outcome, nil
}

// 📂 RefactorMany discovers the matching files under dir and refactors them
// with RefactorFiles.
func (e *Engine) RefactorMany(ctx context.Context, dir string) ([]status.Outcome, error) {
	files, err := Discover(dir, e.cfg)
	if err != nil {
		return nil, errors.Errorf("discovering files: %w", err)
	}
	zerolog.Ctx(ctx).Info().Str("directory", dir).Int("files", len(files)).Msg("starting batch")

	return e.RefactorFiles(ctx, files)
}

// 📑 RefactorFiles refactors files in order, strictly one at a time.
// A failing file is recorded and the batch moves on. The configured delay is
// waited after each file except the last. On cancellation the outcomes collected
// so far are returned together with the context error.
func (e *Engine) RefactorFiles(ctx context.Context, files []string) ([]status.Outcome, error) {
	logger := zerolog.Ctx(ctx)

	e.reporter.StartOperation(ctx, len(files))
	defer e.reporter.FinishOperation(ctx)

	outcomes := make([]status.Outcome, 0, len(files))
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return outcomes, errors.Errorf("batch interrupted before %s: %w", path, err)
		}

		outcome, err := e.RefactorOne(ctx, path)
		if err != nil {
			logger.Error().Err(err).Str("path", path).Msg("refactoring file failed")
		}
		outcomes = append(outcomes, outcome)

		if i == len(files)-1 || e.cfg.Delay <= 0 {
			continue
		}
		logger.Debug().Dur("delay", e.cfg.Delay).Msg("waiting before next file")
		if err := e.sleep(ctx, e.cfg.Delay); err != nil {
			return outcomes, errors.Errorf("waiting after %s: %w", path, err)
		}
	}

	return outcomes, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	case <-timer.C:
		return nil
	}
}

type nopReporter struct{}

func (nopReporter) StartOperation(context.Context, int) {}
func (nopReporter) StartFile(context.Context, string, int) {}
func (nopReporter) TrackOutcome(context.Context, status.Outcome) {}
func (nopReporter) FinishOperation(context.Context) {}
