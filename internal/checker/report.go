// SPDX-License-Identifier: AGPL-3.0-or-later

package checker

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bartekus/maylang/internal/changedoc"
	"github.com/bartekus/maylang/internal/policy"
	"github.com/bartekus/maylang/internal/scanner"
)

const newCommandHint = "may new --id MC-0001 --slug my-change --scope backend --risk low --owner 'your-team'"

type styles struct {
	fail     lipgloss.Style
	ok       lipgloss.Style
	file     lipgloss.Style
	category lipgloss.Style
	hint     lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		fail:     r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		ok:       r.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true),
		file:     r.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true),
		category: r.NewStyle().Foreground(lipgloss.Color("#F7B801")),
		hint:     r.NewStyle().Foreground(lipgloss.Color("#A0AEC0")),
	}
}

// Report renders res for humans: success and skip notes on out, failures on
// errOut.
func Report(out, errOut io.Writer, res *Result) {
	switch res.Status {
	case StatusMissing:
		renderMissing(errOut, res)
	case StatusInvalid:
		RenderErrors(errOut, res.Errors)
	default:
		s := newStyles(out)
		if len(res.Files) == 0 {
			_, _ = fmt.Fprintln(out, "No MayLang files to validate – skipping.")
			return
		}
		_, _ = fmt.Fprintf(out, "%s %d MayLang change package(s) validated successfully.\n", s.ok.Render("✓"), len(res.Files))
	}
}

func renderMissing(w io.Writer, res *Result) {
	s := newStyles(w)
	var b strings.Builder
	if res.Decision.Outcome == policy.ChangedWithoutPackage {
		fmt.Fprintf(&b, "\n%s Code changed under watched paths, but no MayLang change package was updated (%s/*%s).\n\n",
			s.fail.Render("✗"), scanner.DocsDir, scanner.DocSuffix)
		b.WriteString("  Run:\n")
		fmt.Fprintf(&b, "    %s\n", s.hint.Render(strings.Replace(newCommandHint, "MC-0001", "MC-XXXX", 1)))
		b.WriteString("  and include it in this change.\n")
	} else {
		fmt.Fprintf(&b, "\n%s No MayLang change packages found in %s/*%s.\n\n",
			s.fail.Render("✗"), scanner.DocsDir, scanner.DocSuffix)
		b.WriteString("  Create one with:\n")
		fmt.Fprintf(&b, "    %s\n", s.hint.Render(newCommandHint))
	}
	_, _ = io.WriteString(w, b.String())
}

// RenderErrors prints errors grouped by file, then by category, preserving
// first-seen order at both levels.
func RenderErrors(w io.Writer, errs []changedoc.ValidationError) {
	s := newStyles(w)

	var files []string
	byFile := make(map[string][]changedoc.ValidationError)
	for _, e := range errs {
		if _, ok := byFile[e.File]; !ok {
			files = append(files, e.File)
		}
		byFile[e.File] = append(byFile[e.File], e)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s Validation failed: %d error(s) in %d file(s)\n\n", s.fail.Render("✗"), len(errs), len(files))
	for _, file := range files {
		fmt.Fprintf(&b, "  %s\n", s.file.Render("── "+file+" ──"))

		var categories []changedoc.Category
		byCategory := make(map[changedoc.Category][]changedoc.ValidationError)
		for _, e := range byFile[file] {
			if _, ok := byCategory[e.Category]; !ok {
				categories = append(categories, e.Category)
			}
			byCategory[e.Category] = append(byCategory[e.Category], e)
		}
		for _, c := range categories {
			label := s.category.Render("[" + categoryLabel(c) + "]")
			for _, e := range byCategory[c] {
				fmt.Fprintf(&b, "    %s %s %s\n", s.fail.Render("✗"), label, e.Message)
			}
		}
		b.WriteString("\n")
	}
	_, _ = io.WriteString(w, b.String())
}

func categoryLabel(c changedoc.Category) string {
	if c == "" {
		return "General"
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// Summary is the machine-readable form of a Result.
type Summary struct {
	Status   string                      `json:"status"`
	Outcome  string                      `json:"outcome"`
	Strategy string                      `json:"strategy,omitempty"`
	Warning  string                      `json:"warning,omitempty"`
	Files    []string                    `json:"files"`
	Errors   []changedoc.ValidationError `json:"errors"`
}

// WriteJSON encodes res as an indented Summary.
func WriteJSON(w io.Writer, res *Result) error {
	sum := Summary{
		Status:   res.Status.String(),
		Outcome:  res.Decision.Outcome.String(),
		Strategy: string(res.Decision.Strategy),
		Warning:  res.Decision.Warning,
		Files:    res.Files,
		Errors:   res.Errors,
	}
	if sum.Files == nil {
		sum.Files = []string{}
	}
	if sum.Errors == nil {
		sum.Errors = []changedoc.ValidationError{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sum)
}
