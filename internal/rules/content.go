// SPDX-License-Identifier: AGPL-3.0-or-later

package rules

import (
	"strings"

	"github.com/bartekus/maylang/internal/changedoc"
)

// Verification requires at least one runnable command in the Verification
// section: a "- " list item or a fenced block.
type Verification struct {
	id string
}

func NewVerification() Rule {
	return &Verification{id: "verification:command"}
}

func (r *Verification) ID() string { return r.id }

func (r *Verification) Check(doc *changedoc.Document) []changedoc.ValidationError {
	section := doc.Section(changedoc.HeadingVerification)
	if strings.TrimSpace(section) == "" {
		return []changedoc.ValidationError{
			changedoc.NewError(doc.Path, changedoc.CategoryVerification, "Verification section is empty."),
		}
	}
	if anyLine(section, isRunnable) {
		return nil
	}
	return []changedoc.ValidationError{
		changedoc.NewError(doc.Path, changedoc.CategoryVerification,
			"Verification section must contain at least one runnable command "+
				"(a list item starting with '- ' or a fenced code block)."),
	}
}

// PatchDiff requires a ```diff fenced block or a "Link:" reference in the
// Patch section.
type PatchDiff struct {
	id string
}

func NewPatchDiff() Rule {
	return &PatchDiff{id: "patch:diff"}
}

func (r *PatchDiff) ID() string { return r.id }

func (r *PatchDiff) Check(doc *changedoc.Document) []changedoc.ValidationError {
	section := doc.Section(changedoc.HeadingPatch)
	if strings.TrimSpace(section) == "" {
		return []changedoc.ValidationError{
			changedoc.NewError(doc.Path, changedoc.CategoryPatch, "Patch section is empty."),
		}
	}
	if anyLine(section, isDiffReference) {
		return nil
	}
	return []changedoc.ValidationError{
		changedoc.NewError(doc.Path, changedoc.CategoryPatch,
			"Patch section must contain a ```diff fenced block or a 'Link:' reference "+
				"(required by --enforce-diff)."),
	}
}

// isRunnable covers "- `cmd`" items, any other "- " item, and fence openers.
func isRunnable(line string) bool {
	if strings.HasPrefix(line, "- ") && len(line) > len("- ") {
		return true
	}
	return strings.HasPrefix(line, "```")
}

func isDiffReference(line string) bool {
	return strings.HasPrefix(line, "```diff") || strings.HasPrefix(line, "Link:")
}

func anyLine(section string, match func(string) bool) bool {
	for _, line := range strings.Split(section, "\n") {
		if match(line) {
			return true
		}
	}
	return false
}
