// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bartekus/maylang/cmd/may/internal/clierr"
	"github.com/bartekus/maylang/internal/projection"
	"github.com/bartekus/maylang/internal/scanner"
	"github.com/bartekus/maylang/internal/template"
)

func newNewCmd() *cobra.Command {
	var (
		fields template.Fields
		root   string
	)

	cmd := &cobra.Command{
		Use:     "new",
		Short:   "Create a new MayLang Change Package (.may.md)",
		Example: `  may new --id MC-0001 --slug auth-sessions --scope fullstack --risk low --owner "team"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			content, err := template.Render(fields)
			if err != nil {
				return clierr.Wrap(clierr.ExitFailure, "ERROR", err)
			}

			target := filepath.Join(root, scanner.DocsDir, template.FileName(fields.ID, fields.Slug))
			if err := projection.CreateNew(target, []byte(content), 0o644); err != nil {
				if errors.Is(err, projection.ErrExists) {
					return clierr.Newf(clierr.ExitFailure, "ERROR: %s already exists.", target)
				}
				return clierr.Wrap(clierr.ExitFailure, "ERROR", err)
			}

			slog.Debug("Created change package", "path", target, "risk", fields.Risk)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", target)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&fields.ID, "id", "", `Change ID, e.g. "MC-0001"`)
	f.StringVar(&fields.Slug, "slug", "", `Short slug, e.g. "auth-sessions"`)
	f.StringVar(&fields.Scope, "scope", "", `Scope of the change, e.g. "backend", "fullstack"`)
	f.StringVar(&fields.Risk, "risk", "", "Risk level ("+strings.Join(template.Risks(), ", ")+")")
	f.StringVar(&fields.Owner, "owner", "", "Team or person responsible")
	f.StringVar(&fields.Rollback, "rollback", template.DefaultRollback, "Rollback strategy")
	f.StringVar(&root, "root", ".", "Repository root containing the maylang/ directory")
	for _, name := range []string{"id", "slug", "scope", "risk", "owner"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
