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

package main

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/vue3-migrate/cmd/vue3-migrate/commands"
	"github.com/walteh/vue3-migrate/cmd/vue3-migrate/opts"
	"github.com/walteh/vue3-migrate/pkg/completion"
	"github.com/walteh/vue3-migrate/pkg/completion/openai"
	"github.com/walteh/vue3-migrate/pkg/config"
	"github.com/walteh/vue3-migrate/pkg/log"
	"github.com/walteh/vue3-migrate/pkg/prompt"
	_ "github.com/walteh/vue3-migrate/pkg/provider/github"
	"gitlab.com/tozd/go/errors"
)

// rootFlags holds every persistent flag
type rootFlags struct {
	configFile string
	envFile    string
	debug      bool
	noProgress bool

	model      string
	token      string
	prompt     string
	promptText string
	baseURL    string
	delayMS    int
	maxTokens  int
	replace    bool
	ignore     []string
	pattern    string
}

func newRootCmd(stdout, stderr io.Writer) (*cobra.Command, *opts.RootOpts) {
	flags := &rootFlags{}
	o := &opts.RootOpts{
		NewClient: newOpenAIClient,
	}

	root := &cobra.Command{
		Use:   "vue3-migrate",
		Short: "Refactor Vue 2 components to Vue 3 with a completion model",
		Long: `vue3-migrate sends the <script lang="ts"> block of Vue single-file components
to an OpenAI-compatible chat completion model and writes the rewritten component
next to the original as <name>_refactored.vue.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(flags.debug, stderr)
			cmd.SetContext(logger.WithContext(cmd.Context()))

			o.Console = log.New(stdout, zerolog.InfoLevel).WithZerolog(logger)
			o.Progress = !flags.noProgress
			o.Config = func(ctx context.Context) (config.Config, error) {
				return flags.resolve(ctx, cmd, true)
			}
			o.Settings = func(ctx context.Context) (config.Config, error) {
				return flags.resolve(ctx, cmd, false)
			}
			return nil
		},
	}

	addRootFlags(root, flags)

	root.AddCommand(
		commands.NewDirectoryCmd(o),
		commands.NewConvertCmd(o),
		commands.NewEstimateCmd(o),
		newVersionCmd(stdout),
	)

	return root, o
}

func addRootFlags(cmd *cobra.Command, f *rootFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.configFile, "config", "c", "", "config file path (default: .vue3-migrate.{yaml,yml,json,hcl,toml} if present)")
	pf.StringVar(&f.envFile, "env-file", ".env", "dotenv file read for missing environment variables")
	pf.BoolVarP(&f.debug, "debug", "d", false, "enable debug logging")
	pf.BoolVar(&f.noProgress, "no-progress", false, "disable the progress bar")

	pf.StringVarP(&f.model, "model", "m", config.DefaultModel, "completion model")
	pf.StringVarP(&f.token, "token", "t", "", "API token (default: $"+config.EnvAPIKey+")")
	pf.StringVarP(&f.prompt, "prompt", "p", "", "prompt file path or github:owner/repo/path@ref")
	pf.StringVar(&f.promptText, "prompt-text", "", "inline prompt, overrides --prompt")
	pf.StringVar(&f.baseURL, "base-url", "", "completion service base URL (default: "+openai.DefaultBaseURL+")")
	pf.IntVar(&f.delayMS, "timeout", int(config.DefaultDelay/time.Millisecond), "milliseconds to wait between files")
	pf.IntVar(&f.maxTokens, "max_tokens", config.DefaultMaxTokens, "maximum tokens in a completion")
	pf.BoolVar(&f.replace, "replace", false, "overwrite existing _refactored files")
	pf.StringSliceVar(&f.ignore, "ignore", nil, "doublestar patterns to skip, relative to the directory")
	pf.StringVar(&f.pattern, "pattern", config.DefaultPattern, "regular expression locating the block to refactor")
}

// 🔧 resolve layers defaults, the config file, the environment and the flags
// the user set, in that order. The prompt is only loaded when withPrompt is set.
func (f *rootFlags) resolve(ctx context.Context, cmd *cobra.Command, withPrompt bool) (config.Config, error) {
	logger := zerolog.Ctx(ctx)
	cfg := config.Defaults()

	path := f.configFile
	if path == "" {
		path = config.Find(".")
	}

	var file *config.File
	if path != "" {
		loaded, err := config.Load(ctx, path)
		if err != nil {
			return cfg, errors.Errorf("loading config: %w", err)
		}
		file = loaded
		if cfg, err = file.Apply(cfg); err != nil {
			return cfg, errors.Errorf("applying %s: %w", path, err)
		}
	}

	lookup, err := config.Environment(f.envFile)
	if err != nil {
		return cfg, errors.Errorf("reading environment: %w", err)
	}
	if cfg, err = config.ApplyEnv(cfg, lookup); err != nil {
		return cfg, errors.Errorf("applying environment: %w", err)
	}

	set := cmd.Flags().Changed
	if set("model") {
		cfg.Model = f.model
	}
	if set("token") {
		cfg.Credential = f.token
	}
	if set("base-url") {
		cfg.BaseURL = f.baseURL
	}
	if set("timeout") {
		cfg.Delay = time.Duration(f.delayMS) * time.Millisecond
	}
	if set("max_tokens") {
		cfg.MaxTokens = f.maxTokens
	}
	if set("replace") {
		cfg.Overwrite = f.replace
	}
	if set("ignore") {
		cfg.Ignore = append(cfg.Ignore, f.ignore...)
	}
	if set("pattern") {
		cfg.Pattern = f.pattern
	}

	if !withPrompt {
		logger.Debug().Stringer("config", cfg).Str("config_file", path).Msg("resolved configuration without prompt")
		return cfg, nil
	}

	src := prompt.Source{Text: f.promptText, Location: f.prompt}
	if src.Text == "" && src.Location == "" && file != nil && file.Prompt != nil {
		src.Location = *file.Prompt
	}
	if cfg.SystemPrompt, err = prompt.NewResolver().Resolve(ctx, src); err != nil {
		return cfg, errors.Errorf("loading prompt: %w", err)
	}

	logger.Debug().Stringer("config", cfg).Str("config_file", path).Msg("resolved configuration")
	return cfg, nil
}

func newOpenAIClient(cfg config.Config) (completion.Client, error) {
	return openai.New(openai.Options{
		APIKey:  cfg.Credential,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.RequestTimeout,
	})
}

// 📝 setupLogging builds the structured logger; without --debug only warnings
// and errors are shown next to the console output
func setupLogging(debug bool, stderr io.Writer) zerolog.Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = stderr
		w.TimeFormat = time.Kitchen
	})).
		Level(level).
		With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger()
}
