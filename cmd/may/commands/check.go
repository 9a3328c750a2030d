// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bartekus/maylang/cmd/may/internal/clierr"
	"github.com/bartekus/maylang/internal/checker"
	"github.com/bartekus/maylang/internal/policy"
	"github.com/bartekus/maylang/internal/scanner"
)

const (
	formatText = "text"
	formatJSON = "json"
)

func newCheckCmd() *cobra.Command {
	var (
		require     string
		base        string
		paths       string
		enforceDiff bool
		root        string
		jobs        int
		format      string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate MayLang Change Packages",
		Long: `Validate every maylang/*.may.md change package.

Exit codes: 0 ok, 2 change package required but missing, 3 validation errors.`,
		Example: `  may check --require always
  may check --require changed --base origin/main --paths auth/,payments/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := policy.ParseMode(require)
			if err != nil {
				return clierr.Wrap(clierr.ExitFailure, "ERROR", err)
			}
			if format != formatText && format != formatJSON {
				return clierr.Newf(clierr.ExitFailure, "ERROR: invalid format %q (must be 'text' or 'json')", format)
			}

			res, err := checker.Run(cmd.Context(), checker.Options{
				Root:        root,
				Mode:        mode,
				Base:        base,
				Filters:     scanner.ParseFilters(paths),
				EnforceDiff: enforceDiff,
				Jobs:        jobs,
				Logger:      slog.Default(),
			})
			if err != nil {
				return clierr.Wrap(clierr.ExitFailure, "check failed", err)
			}

			if format == formatJSON {
				if err := checker.WriteJSON(cmd.OutOrStdout(), res); err != nil {
					return clierr.Wrap(clierr.ExitFailure, "writing report", err)
				}
			} else {
				checker.Report(cmd.OutOrStdout(), cmd.ErrOrStderr(), res)
			}
			return statusError(res.Status)
		},
	}

	f := cmd.Flags()
	f.StringVar(&require, "require", string(policy.ModeAlways), `When to require MayLang files ("always" or "changed")`)
	f.StringVar(&base, "base", "", "Git base ref for change detection, e.g. origin/main")
	f.StringVar(&paths, "paths", "", "Comma-separated path prefixes or globs that trigger the requirement")
	f.BoolVar(&enforceDiff, "enforce-diff", false, "Require a ```diff fenced block or Link: in the Patch section")
	f.StringVar(&root, "root", ".", "Directory containing maylang/; changed files and --paths are relative to it, and changes outside it are ignored")
	f.IntVar(&jobs, "jobs", 0, "Documents validated in parallel (0 = number of CPUs)")
	f.StringVar(&format, "format", formatText, fmt.Sprintf("Report format (%s or %s)", formatText, formatJSON))

	return cmd
}

// statusError maps a run verdict to its exit code. The report has already
// been written, so the errors carry no message.
func statusError(s checker.Status) error {
	switch s {
	case checker.StatusMissing:
		return clierr.Silent(clierr.ExitMissing)
	case checker.StatusInvalid:
		return clierr.Silent(clierr.ExitInvalid)
	default:
		return nil
	}
}
