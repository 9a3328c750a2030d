// SPDX-License-Identifier: AGPL-3.0-or-later

package changedoc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validFrontmatter = `---
id: "MC-0001"
type: change
scope: backend
risk: low
owner: "team-alpha"
rollback: revert_commit
ai_used: false
---
`

const validBody = `
# Intent

Add session caching.

# Contract

- Input: session token

# Invariants

1. Tokens are never stored in plain text.

# Patch

` + "```diff" + `
# not a heading inside the fence
-old
+new
` + "```" + `

# Verification

- ` + "`go test ./...`" + `

# Debug Map

| Symptom | Likely cause | First file to check |
`

func TestParse_ValidDocument(t *testing.T) {
	doc := Parse("maylang/MC-0001-auth.may.md", validFrontmatter+validBody)

	assert.Empty(t, doc.Errors)
	require.True(t, doc.HasFrontmatter())
	assert.Equal(t, "MC-0001", doc.Frontmatter["id"])
	assert.Equal(t, false, doc.Frontmatter["ai_used"])
	assert.Equal(t, RequiredHeadings(), doc.Headings)
}

func TestParse_MissingFrontmatter(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "no delimiters", text: "# Intent\n\nhello\n"},
		{name: "unclosed", text: "---\nid: x\n# Intent\n"},
		{name: "leading blank line", text: "\n---\nid: x\n---\n# Intent\n"},
		{name: "adjacent delimiters", text: "---\n---\n# Intent\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse("doc.may.md", tt.text)
			require.Len(t, doc.Errors, 1)
			assert.Equal(t, CategoryFrontmatter, doc.Errors[0].Category)
			assert.Contains(t, doc.Errors[0].Message, "Missing YAML frontmatter")
			assert.False(t, doc.HasFrontmatter())
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	doc := Parse("doc.may.md", "---\nid: [unclosed\n---\n# Intent\n")

	require.Len(t, doc.Errors, 1)
	assert.Equal(t, CategoryFrontmatter, doc.Errors[0].Category)
	assert.Contains(t, doc.Errors[0].Message, "Invalid YAML")
	assert.Nil(t, doc.Frontmatter)
}

func TestParse_DuplicateKeysRejected(t *testing.T) {
	doc := Parse("doc.may.md", "---\nid: a\nid: b\n---\n# Intent\n")

	require.Len(t, doc.Errors, 1)
	assert.Contains(t, doc.Errors[0].Message, "Invalid YAML")
}

func TestParse_NonMappingFrontmatter(t *testing.T) {
	for _, block := range []string{"- a\n- b", "just a string", ""} {
		doc := Parse("doc.may.md", "---\n"+block+"\n---\n# Intent\n")
		require.Len(t, doc.Errors, 1, block)
		assert.Equal(t, "Frontmatter must be a YAML mapping.", doc.Errors[0].Message)
		assert.Nil(t, doc.Frontmatter)
	}
}

func TestParse_DelimiterAsFirstBlockLine(t *testing.T) {
	doc := Parse("doc.may.md", "---\n---\nid: x\n---\n# Intent\n")

	assert.Empty(t, doc.Errors)
	assert.Equal(t, "x", doc.Frontmatter["id"])
	assert.Equal(t, []string{"Intent"}, doc.Headings)
}

func TestParse_ToleratesWhitespaceAroundBlock(t *testing.T) {
	doc := Parse("doc.may.md", "---  \n\nid: x\n\n---\t\n# Intent\n")

	assert.Empty(t, doc.Errors)
	assert.Equal(t, "x", doc.Frontmatter["id"])
}

func TestParse_CRLF(t *testing.T) {
	text := strings.ReplaceAll(validFrontmatter+validBody, "\n", "\r\n")
	doc := Parse("doc.may.md", text)

	assert.Empty(t, doc.Errors)
	assert.Equal(t, RequiredHeadings(), doc.Headings)
}

func TestHeadings_OnlyTopLevel(t *testing.T) {
	text := validFrontmatter + "# One\n## Two\n#Three\n#   Four  \n# \n### Five\n"
	doc := Parse("doc.may.md", text)

	assert.Equal(t, []string{"One", "Four"}, doc.Headings)
}

func TestHeadings_FrontmatterCommentsIgnored(t *testing.T) {
	text := "---\n# a yaml comment\nid: x\n---\n# Intent\n"
	doc := Parse("doc.may.md", text)

	assert.Equal(t, []string{"Intent"}, doc.Headings)
}

func TestHeadings_WithoutFrontmatterScansWholeText(t *testing.T) {
	doc := Parse("doc.may.md", "# Intent\n# Contract\n")

	assert.Equal(t, []string{"Intent", "Contract"}, doc.Headings)
}

func TestSection(t *testing.T) {
	doc := Parse("doc.may.md", validFrontmatter+validBody)

	patch := doc.Section(HeadingPatch)
	assert.Contains(t, patch, "```diff")
	assert.Contains(t, patch, "# not a heading inside the fence")
	assert.NotContains(t, patch, "Verification")

	verification := doc.Section(HeadingVerification)
	assert.Equal(t, "\n- `go test ./...`\n\n", verification)

	assert.Equal(t, "", doc.Section("Rollout"))
}

func TestSection_LastSectionRunsToEnd(t *testing.T) {
	doc := Parse("doc.may.md", "# Debug Map\nline one\nline two")

	assert.Equal(t, "line one\nline two\n", doc.Section("Debug Map"))
}

func TestSection_FirstOccurrenceWins(t *testing.T) {
	doc := Parse("doc.may.md", "# Patch\nfirst\n# Patch\nsecond\n")

	assert.Equal(t, "first\n", doc.Section("Patch"))
}

func TestRequiredConstantsAreCopies(t *testing.T) {
	keys := RequiredFrontmatterKeys()
	keys[0] = "mutated"
	assert.Equal(t, "ai_used", RequiredFrontmatterKeys()[0])

	headings := RequiredHeadings()
	headings[0] = "mutated"
	assert.Equal(t, "Intent", RequiredHeadings()[0])

	assert.True(t, sortedStrings(RequiredFrontmatterKeys()))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "MC-0001-auth.may.md")
	require.NoError(t, os.WriteFile(path, []byte(validFrontmatter+validBody), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path)
	assert.Empty(t, doc.Errors)

	_, err = Load(filepath.Join(dir, "missing.may.md"))
	require.Error(t, err)
}

func sortedStrings(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}
