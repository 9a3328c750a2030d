// SPDX-License-Identifier: AGPL-3.0-or-later

package rules

import (
	"strings"

	"github.com/bartekus/maylang/internal/changedoc"
)

// HeadingOrder requires the canonical headings to appear as a subsequence of
// the document's headings. Extra and repeated headings are allowed anywhere.
type HeadingOrder struct {
	id string
}

func NewHeadingOrder() Rule {
	return &HeadingOrder{id: "heading:order"}
}

func (r *HeadingOrder) ID() string { return r.id }

func (r *HeadingOrder) Check(doc *changedoc.Document) []changedoc.ValidationError {
	required := changedoc.RequiredHeadings()

	cursor := 0
	for _, h := range doc.Headings {
		if cursor < len(required) && strings.TrimSpace(h) == required[cursor] {
			cursor++
		}
	}

	var errs []changedoc.ValidationError
	for _, missing := range required[cursor:] {
		errs = append(errs, changedoc.NewError(doc.Path, changedoc.CategoryHeading,
			"Missing or out-of-order heading: '# %s'", missing))
	}
	return errs
}
