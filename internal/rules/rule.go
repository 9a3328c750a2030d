// SPDX-License-Identifier: AGPL-3.0-or-later

// Package rules holds the independent checks run against every parsed change package.
package rules

import (
	"github.com/bartekus/maylang/internal/changedoc"
)

// Rule is a single pure check over a parsed document.
type Rule interface {
	// ID returns the stable identifier (e.g. "frontmatter:keys").
	ID() string

	// Check returns every failure found; nil means the document passes.
	Check(doc *changedoc.Document) []changedoc.ValidationError
}

// Default returns the canonical rule order. The patch rule is only included
// when enforceDiff is set.
func Default(enforceDiff bool) []Rule {
	set := []Rule{
		NewFrontmatterKeys(),
		NewHeadingOrder(),
		NewVerification(),
	}
	if enforceDiff {
		set = append(set, NewPatchDiff())
	}
	return set
}

// Validate returns the document's parse errors followed by the findings of
// every rule. Rules never short-circuit each other.
func Validate(doc *changedoc.Document, set []Rule) []changedoc.ValidationError {
	errs := append([]changedoc.ValidationError(nil), doc.Errors...)
	for _, r := range set {
		errs = append(errs, r.Check(doc)...)
	}
	return errs
}
