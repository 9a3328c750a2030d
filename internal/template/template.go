// SPDX-License-Identifier: AGPL-3.0-or-later

// Package template renders new change packages from the embedded skeleton.
package template

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	texttemplate "text/template"
)

// DefaultRollback is used when no rollback strategy is given.
const DefaultRollback = "revert_commit"

//go:embed change.may.md.tmpl
var changeTemplate string

var tmpl = texttemplate.Must(texttemplate.New("change").
	Funcs(texttemplate.FuncMap{"quote": strconv.Quote}).
	Parse(changeTemplate))

var risks = []string{"low", "medium", "high", "critical"}

// Risks returns the accepted risk levels in escalating order.
func Risks() []string {
	return slices.Clone(risks)
}

// Fields are the values substituted into a new change package.
type Fields struct {
	ID       string
	Slug     string
	Scope    string
	Risk     string
	Owner    string
	Rollback string
}

// Validate reports the first problem with f, if any.
func (f Fields) Validate() error {
	switch {
	case strings.TrimSpace(f.ID) == "":
		return errors.New("id must not be empty")
	case strings.TrimSpace(f.Slug) == "":
		return errors.New("slug must not be empty")
	case strings.ContainsAny(f.ID+f.Slug, `/\`):
		return fmt.Errorf("id and slug must not contain path separators: %q, %q", f.ID, f.Slug)
	case !slices.Contains(risks, f.Risk):
		return fmt.Errorf("invalid risk %q (choose from %s)", f.Risk, strings.Join(risks, ", "))
	}
	return nil
}

// Render validates f and returns the document text.
func Render(f Fields) (string, error) {
	if f.Rollback == "" {
		f.Rollback = DefaultRollback
	}
	if err := f.Validate(); err != nil {
		return "", err
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, f); err != nil {
		return "", fmt.Errorf("rendering change package: %w", err)
	}
	return b.String(), nil
}

// FileName is the on-disk name for a change package.
func FileName(id, slug string) string {
	return id + "-" + slug + ".may.md"
}
