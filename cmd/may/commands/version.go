// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bartekus/maylang/cmd/may/internal/clierr"
	"github.com/bartekus/maylang/internal/bumper"
)

func newVersionCmd() *cobra.Command {
	var (
		bump     string
		manifest string
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Manage project version",
		Long: `Bump the version = "x.y.z" field of the nearest pyproject.toml or Cargo.toml.

Only that field is rewritten; the rest of the manifest is left byte-for-byte intact.`,
		Example: "  may version --bump patch",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			part, err := bumper.ParsePart(bump)
			if err != nil {
				return clierr.Wrap(clierr.ExitFailure, "ERROR", err)
			}

			path := manifest
			if path == "" {
				wd, err := os.Getwd()
				if err != nil {
					return clierr.Wrap(clierr.ExitFailure, "ERROR", err)
				}
				if path, err = bumper.FindManifest(wd); err != nil {
					return clierr.Wrap(clierr.ExitFailure, "ERROR", err)
				}
			}

			res, err := bumper.Bump(path, part, slog.Default())
			if err != nil {
				return clierr.Wrap(clierr.ExitFailure, "ERROR", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), res.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&bump, "bump", "", "Version component to bump (patch, minor, or major)")
	cmd.Flags().StringVar(&manifest, "manifest", "", "Manifest to edit instead of searching upward")
	_ = cmd.MarkFlagRequired("bump")

	return cmd
}
