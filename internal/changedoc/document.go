// SPDX-License-Identifier: AGPL-3.0-or-later

package changedoc

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	frontmatterDelimiter = "---"
	fenceMarker          = "```"
)

// Document is a parsed change package. It is immutable once returned by Parse.
type Document struct {
	// Path identifies the document in reports.
	Path string

	// Frontmatter is nil when the block is absent or malformed; the cause is
	// recorded in Errors.
	Frontmatter map[string]any

	// Headings holds top-level headings outside fenced blocks, in document order.
	Headings []string

	// Raw is the full document text.
	Raw string

	// Errors holds structural problems found while parsing.
	Errors []ValidationError

	lines []line
}

type lineKind int

const (
	lineBody lineKind = iota
	lineHeading
	lineFence
)

type line struct {
	kind    lineKind
	text    string
	heading string
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from discovery under the documents directory
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(path, string(data)), nil
}

// Parse splits text into frontmatter and classified body lines.
func Parse(path, text string) *Document {
	doc := &Document{Path: path, Raw: text}

	normalized := strings.ReplaceAll(strings.TrimPrefix(text, "\ufeff"), "\r\n", "\n")
	all := strings.Split(normalized, "\n")

	block, body, found := splitFrontmatter(all)
	if !found {
		doc.Errors = append(doc.Errors, NewError(path, CategoryFrontmatter, "Missing YAML frontmatter (--- delimiters)."))
		body = all
	} else {
		fm, err := decodeFrontmatter(block)
		if err != nil {
			doc.Errors = append(doc.Errors, NewError(path, CategoryFrontmatter, "%s", err.Error()))
		} else {
			doc.Frontmatter = fm
		}
	}

	doc.lines = classify(body)
	for _, l := range doc.lines {
		if l.kind == lineHeading {
			doc.Headings = append(doc.Headings, l.heading)
		}
	}
	return doc
}

// HasFrontmatter reports whether a well-formed frontmatter mapping was parsed.
func (d *Document) HasFrontmatter() bool {
	return d.Frontmatter != nil
}

// Section returns the lines between the first top-level heading named heading
// and the next top-level heading, joined by newlines. It is empty when the
// heading is absent.
func (d *Document) Section(heading string) string {
	start := -1
	for i, l := range d.lines {
		if l.kind == lineHeading && l.heading == heading {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return ""
	}

	var b strings.Builder
	for _, l := range d.lines[start:] {
		if l.kind == lineHeading {
			break
		}
		b.WriteString(l.text)
		b.WriteByte('\n')
	}
	return b.String()
}

// splitFrontmatter returns the block between an opening delimiter on the first
// line and the next delimiter line, plus the lines after it. The block spans at
// least one line, so "---" directly followed by "---" is not frontmatter.
func splitFrontmatter(lines []string) (string, []string, bool) {
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t") != frontmatterDelimiter {
		return "", nil, false
	}
	for i := 2; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t") == frontmatterDelimiter {
			return strings.Join(lines[1:i], "\n"), lines[i+1:], true
		}
	}
	return "", nil, false
}

func decodeFrontmatter(block string) (map[string]any, error) {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(block), &node); err != nil {
		return nil, fmt.Errorf("Invalid YAML in frontmatter: %v", err) //nolint:staticcheck // user-facing sentence
	}
	if node.Kind != yaml.DocumentNode || len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		return nil, errors.New("Frontmatter must be a YAML mapping.") //nolint:staticcheck // user-facing sentence
	}

	data := make(map[string]any)
	if err := node.Content[0].Decode(&data); err != nil {
		return nil, fmt.Errorf("Invalid YAML in frontmatter: %v", err) //nolint:staticcheck // user-facing sentence
	}
	return data, nil
}

// classify walks lines once, tracking fenced blocks so that "# " lines inside
// a fence are body text rather than headings.
func classify(raw []string) []line {
	out := make([]line, 0, len(raw))
	inFence := false
	for _, text := range raw {
		switch {
		case strings.HasPrefix(text, fenceMarker):
			inFence = !inFence
			out = append(out, line{kind: lineFence, text: text})
		case !inFence && isHeading(text):
			out = append(out, line{kind: lineHeading, text: text, heading: strings.TrimSpace(text[1:])})
		default:
			out = append(out, line{kind: lineBody, text: text})
		}
	}
	return out
}

// isHeading matches a single '#' followed by whitespace and non-empty text.
func isHeading(text string) bool {
	if len(text) < 2 || text[0] != '#' {
		return false
	}
	if text[1] != ' ' && text[1] != '\t' {
		return false
	}
	return strings.TrimSpace(text[1:]) != ""
}
