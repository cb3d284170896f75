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

package status

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/vue3-migrate/pkg/log"
	"github.com/walteh/vue3-migrate/pkg/metrics"
	"github.com/walteh/vue3-migrate/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📊 State is the position of one file in the refactor state machine
type State int

const (
	StatePending    State = iota
	StateLocating         // Searching the document for the fragment
	StateRequesting       // Waiting on the completion service
	StateRewriting        // Splicing and writing the new document
	StateWritten          // New document written
	StateSkipped          // Destination already existed
	StateFailed           // Fragment missing, service or filesystem error
)

// String returns a string representation of State
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateLocating:
		return "locating"
	case StateRequesting:
		return "requesting"
	case StateRewriting:
		return "rewriting"
	case StateWritten:
		return "written"
	case StateSkipped:
		return "skipped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 Outcome is the tagged result of processing one file
type Outcome struct {
	Source      string          // File that was processed
	Destination string          // Derived output path
	State       State           // Written, Skipped or Failed
	Err         error           // Set when State is StateFailed
	Record      *metrics.Record // Set when State is StateWritten
}

// 💾 FileManager handles the file system operations of a refactor
type FileManager interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	FileExists(ctx context.Context, path string) (bool, error)
	WriteFileAtomic(ctx context.Context, path string, content []byte) error
}

// 📈 Reporter tracks file outcomes and reports progress
type Reporter interface {
	StartOperation(ctx context.Context, total int)
	StartFile(ctx context.Context, path string, estimatedTokens int)
	TrackOutcome(ctx context.Context, outcome Outcome)
	FinishOperation(ctx context.Context)
}

var (
	_ FileManager = (*Manager)(nil)
	_ Reporter    = (*Manager)(nil)
)

// 🔧 Manager implements both FileManager and Reporter
type Manager struct {
	baseDir   string          // Base directory for relative paths
	logger    *zerolog.Logger // Logger for status updates
	formatter FileFormatter   // Formatter for status messages
	console   *log.Logger     // Optional user-facing output
	progress  bool            // Whether to draw a progress bar

	mu  sync.Mutex
	bar *pterm.ProgressbarPrinter

	total     int
	processed int
}

// 🏭 New creates a new status manager
func New(baseDir string, logger *zerolog.Logger) *Manager {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Manager{
		baseDir:   filepath.Clean(baseDir),
		logger:    logger,
		formatter: NewDefaultFileFormatter(),
	}
}

// WithConsole sends per-file lines to console.
func (m *Manager) WithConsole(console *log.Logger) *Manager {
	m.console = console
	return m
}

// WithProgress enables the terminal progress bar.
func (m *Manager) WithProgress(enabled bool) *Manager {
	m.progress = enabled
	return m
}

// 🔒 getAbsPath resolves path against the base directory
func (m *Manager) getAbsPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.baseDir, path)
}

// FileManager interface implementation

func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(m.getAbsPath(path))
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

func (m *Manager) FileExists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(m.getAbsPath(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Errorf("checking file existence: %w", err)
}

func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	absPath := m.getAbsPath(path)
	tempPath := absPath + ".tmp"

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	// Write to temp file
	if err := os.WriteFile(tempPath, content, 0644); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}

	// Rename temp file to target (atomic operation)
	if err := os.Rename(tempPath, absPath); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// Reporter interface implementation

func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.processed = 0

	if m.progress && total > 0 {
		bar, err := pterm.DefaultProgressbar.
			WithTotal(total).
			WithTitle("Refactoring").
			WithRemoveWhenDone(false).
			Start()
		if err != nil {
			m.logger.Debug().Err(err).Msg("starting progress bar")
		} else {
			m.bar = bar
		}
	}

	m.logger.Info().Int("total", total).Msg(m.formatter.FormatProgress(0, total))
}

func (m *Manager) StartFile(ctx context.Context, path string, estimatedTokens int) {
	estimate := text.EstimatedDuration(estimatedTokens)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bar != nil {
		m.bar.UpdateTitle(filepath.Base(path))
	}
	if m.console != nil {
		m.console.Infof("Converting file: %s (~%s)", path, estimate)
	}
	m.logger.Info().
		Str("path", path).
		Int("estimated_tokens", estimatedTokens).
		Dur("estimated_time", estimate).
		Msg("converting file")
}

func (m *Manager) TrackOutcome(ctx context.Context, outcome Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed++

	msg := m.formatter.FormatOutcome(outcome)
	ev := m.logger.Info()
	if outcome.State == StateFailed {
		// the engine owns the error-level line for a failed file
		ev = m.logger.Warn().Err(outcome.Err)
	}
	ev.Str("path", outcome.Source).
		Str("destination", outcome.Destination).
		Str("state", outcome.State.String()).
		Msg(msg)

	if m.console != nil {
		op := log.FileOperation{
			Path:      outcome.Source,
			Output:    outcome.Destination,
			Status:    outcome.State.String(),
			IsWritten: outcome.State == StateWritten,
			IsSkipped: outcome.State == StateSkipped,
			IsFailed:  outcome.State == StateFailed,
		}
		switch outcome.State {
		case StateSkipped:
			op.Detail = outcome.Destination + " already exists"
		case StateFailed:
			if outcome.Err != nil {
				op.Detail = outcome.Err.Error()
			}
		}
		m.console.LogFileOperation(ctx, op)
	}

	if m.bar != nil {
		m.bar.Increment()
	}
}

func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bar != nil {
		if _, err := m.bar.Stop(); err != nil {
			m.logger.Debug().Err(err).Msg("stopping progress bar")
		}
		m.bar = nil
	}

	m.logger.Info().
		Int("processed", m.processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(m.processed, m.total))
}
