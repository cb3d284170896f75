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
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/vue3-migrate/cmd/vue3-migrate/opts"
	"github.com/walteh/vue3-migrate/pkg/engine"
	"github.com/walteh/vue3-migrate/pkg/fragment"
	"github.com/walteh/vue3-migrate/pkg/metrics"
	"github.com/walteh/vue3-migrate/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

var estimateHeader = []string{"File", "Fragment Length", "Est. Tokens", "Est. Time"}

func NewEstimateCmd(o *opts.RootOpts) *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:   "estimate <directory>",
		Short: "Estimate the size of a directory run without calling the model",
		Long: `Estimate scans the files a directory run would process and reports the size
of each <script lang="ts"> block, an approximate token count and the expected
duration of the whole batch including the delay between files.
No credential is needed and no request is sent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			dir := args[0]

			cfg, err := o.Settings(ctx)
			if err != nil {
				return errors.Errorf("resolving configuration: %w", err)
			}
			locator, err := fragment.New(cfg.Pattern)
			if err != nil {
				return errors.Errorf("building locator: %w", err)
			}

			files, err := engine.Discover(dir, cfg)
			if err != nil {
				return errors.Errorf("discovering files: %w", err)
			}

			mgr := status.New(".", zerolog.Ctx(ctx))
			results := make([]engine.Estimate, len(files))

			if jobs < 1 {
				jobs = 1
			}
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(jobs)
			for i, path := range files {
				g.Go(func() error {
					if err := gctx.Err(); err != nil {
						return err
					}
					results[i] = engine.Inspect(gctx, mgr, locator, path)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return errors.Errorf("estimating files: %w", err)
			}

			rows, total, failed := estimateRows(results)
			table, err := metrics.Table(estimateHeader, rows)
			if err != nil {
				return err
			}
			o.Console.Print(table)

			for _, est := range failed {
				o.Console.Warningf("%s: %v", est.Path, est.Err)
			}

			o.Console.Infof("%d files, ~%d tokens, ~%s with a %s delay",
				len(rows), total.Tokens, batchDuration(total.Duration, len(files), cfg.Delay), cfg.Delay)
			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.GOMAXPROCS(0), "files scanned concurrently")

	return cmd
}

// estimateRows splits results into table rows and failures, and sums the rows
func estimateRows(results []engine.Estimate) (rows [][]string, total engine.Estimate, failed []engine.Estimate) {
	for _, est := range results {
		if est.Err != nil {
			failed = append(failed, est)
			continue
		}
		total.Tokens += est.Tokens
		total.FragmentLength += est.FragmentLength
		total.Duration += est.Duration
		rows = append(rows, []string{
			est.Path,
			strconv.Itoa(est.FragmentLength),
			strconv.Itoa(est.Tokens),
			fmt.Sprintf("~%s", est.Duration),
		})
	}
	return rows, total, failed
}

// batchDuration adds the pauses a directory run waits between files
func batchDuration(work time.Duration, files int, delay time.Duration) time.Duration {
	if files > 1 {
		work += time.Duration(files-1) * delay
	}
	return work
}
