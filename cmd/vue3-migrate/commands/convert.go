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
	"gitlab.com/tozd/go/errors"
)

func NewConvertCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Refactor a single Vue file",
		Long: `Convert refactors one .vue file and writes the result next to it.
Any failure, including a file without a <script lang="ts"> block, exits nonzero.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			_, eng, err := newEngine(ctx, o)
			if err != nil {
				return err
			}

			o.Console.Header("converting " + args[0])
			_, runErr := eng.RefactorOne(ctx, args[0])

			if err := printMetrics(o, eng); err != nil {
				return err
			}

			if runErr != nil {
				return errors.Errorf("converting %s: %w", args[0], runErr)
			}
			return nil
		},
	}

	return cmd
}
