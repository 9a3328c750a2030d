// SPDX-License-Identifier: AGPL-3.0-or-later

package rules

import (
	"github.com/bartekus/maylang/internal/changedoc"
)

// FrontmatterKeys reports each required key absent from the frontmatter.
type FrontmatterKeys struct {
	id string
}

func NewFrontmatterKeys() Rule {
	return &FrontmatterKeys{id: "frontmatter:keys"}
}

func (r *FrontmatterKeys) ID() string { return r.id }

func (r *FrontmatterKeys) Check(doc *changedoc.Document) []changedoc.ValidationError {
	// Absent or malformed frontmatter was already reported by the parser.
	if !doc.HasFrontmatter() {
		return nil
	}

	var errs []changedoc.ValidationError
	for _, key := range changedoc.RequiredFrontmatterKeys() {
		if _, ok := doc.Frontmatter[key]; ok {
			continue
		}
		errs = append(errs, changedoc.NewError(doc.Path, changedoc.CategoryFrontmatter,
			"Missing required frontmatter key: %s", key))
	}
	return errs
}
