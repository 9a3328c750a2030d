// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bartekus/maylang/cmd/may/internal/clierr"
	"github.com/bartekus/maylang/internal/checker"
	"github.com/bartekus/maylang/internal/policy"
	"github.com/bartekus/maylang/internal/scanner"
	"github.com/bartekus/maylang/internal/watch"
)

func newWatchCmd() *cobra.Command {
	var (
		root        string
		enforceDiff bool
		jobs        int
		debounce    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-validate change packages whenever they change",
		Long:  "Validate maylang/*.may.md once, then again after every edit until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := slog.Default()
			w, err := watch.New(watch.Config{Root: root, Debounce: debounce, Logger: logger})
			if err != nil {
				return clierr.Wrap(clierr.ExitFailure, "watch failed", err)
			}

			validate := func() {
				// Without a base ref, packages are validated when present and
				// an empty directory is not an error.
				res, err := checker.Run(ctx, checker.Options{
					Root:        root,
					Mode:        policy.ModeChanged,
					EnforceDiff: enforceDiff,
					Jobs:        jobs,
					Logger:      logger,
				})
				if err != nil {
					if ctx.Err() == nil {
						logger.Error("Validation run failed", "error", err)
					}
					return
				}
				checker.Report(cmd.OutOrStdout(), cmd.ErrOrStderr(), res)
			}

			validate()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes (Ctrl+C to stop)\n", filepath.Join(root, scanner.DocsDir))

			return w.Run(ctx, func(paths []string) {
				logger.Info("Change packages changed", "count", len(paths))
				for _, p := range paths {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nChanged: %s\n", p)
				}
				validate()
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&root, "root", ".", "Repository root containing the maylang/ directory")
	f.BoolVar(&enforceDiff, "enforce-diff", false, "Require a ```diff fenced block or Link: in the Patch section")
	f.IntVar(&jobs, "jobs", 0, "Documents validated in parallel (0 = number of CPUs)")
	f.DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before re-validating")

	return cmd
}
