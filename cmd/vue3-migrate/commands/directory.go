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
	"github.com/spf13/cobra"
	"github.com/walteh/vue3-migrate/cmd/vue3-migrate/opts"
	"github.com/walteh/vue3-migrate/pkg/engine"
	"github.com/walteh/vue3-migrate/pkg/log"
	"gitlab.com/tozd/go/errors"
)

func NewDirectoryCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "directory <directory>",
		Short: "Refactor all Vue files in a directory",
		Long: `Directory refactors every .vue file below the given directory, one at a time.
For each file it will:
1. Skip it when the _refactored copy already exists (unless --replace)
2. Send the <script lang="ts"> block to the completion model
3. Write the rewritten component next to the original
4. Wait --timeout milliseconds before the next file

A file that fails is reported and the batch carries on.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			dir := args[0]

			cfg, eng, err := newEngine(ctx, o)
			if err != nil {
				return err
			}

			files, err := engine.Discover(dir, cfg)
			if err != nil {
				return errors.Errorf("discovering files: %w", err)
			}

			o.Console.StartBatch(ctx, log.BatchOperation{
				Directory: dir,
				Files:     len(files),
				Model:     cfg.Model,
			})
			outcomes, runErr := eng.RefactorFiles(ctx, files)
			o.Console.EndBatch(ctx)

			if err := printMetrics(o, eng); err != nil {
				return err
			}
			summarize(o, outcomes)

			if runErr != nil {
				return errors.Errorf("refactoring directory: %w", runErr)
			}
			return nil
		},
	}

	return cmd
}
