// SPDX-License-Identifier: AGPL-3.0-or-later

/*
MayLang - Explainable Change Standard tooling.
Validates MayLang change packages (Markdown with YAML frontmatter) and decides when they are required.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package commands

import (
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/bartekus/maylang/internal/logger"
)

const devVersion = "0.0.0-dev"

// NewRootCmd constructs the may root Cobra command.
func NewRootCmd() *cobra.Command {
	var verbose, debugLog bool

	cmd := &cobra.Command{
		Use:           "may",
		Short:         "MayLang – Explainable Change Standard CLI",
		Long:          "may creates and validates MayLang change packages (maylang/*.may.md) and bumps project versions.",
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger.Initialize(cmd.ErrOrStderr(), debugLog, verbose)
		},
	}
	cmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "enable debug logging with source locations")

	cmd.AddCommand(newNewCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newWatchCmd())

	return cmd
}

func buildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return devVersion
	}
	return info.Main.Version
}
