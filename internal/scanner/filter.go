// SPDX-License-Identifier: AGPL-3.0-or-later

package scanner

import (
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// DocsDir is the repository-relative directory holding change packages.
	DocsDir = "maylang"

	// DocSuffix is the file-name suffix of a change package.
	DocSuffix = ".may.md"
)

// IsChangeDoc reports whether a repo-relative, slash-separated path names a
// change package inside DocsDir.
func IsChangeDoc(p string) bool {
	return InDocsDir(p) && strings.HasSuffix(p, DocSuffix)
}

// InDocsDir reports whether a repo-relative path lives under DocsDir.
func InDocsDir(p string) bool {
	return strings.HasPrefix(p, DocsDir+"/")
}

// ExcludeDocsDir drops every path under DocsDir, preserving order.
func ExcludeDocsDir(paths []string) []string {
	var kept []string
	for _, p := range paths {
		if !InDocsDir(p) {
			kept = append(kept, p)
		}
	}
	return kept
}

// MatchesFilter reports whether p is selected by filter. Filters containing
// glob characters are matched with doublestar ("auth/**/*.go"); all others
// are plain path prefixes ("auth/").
func MatchesFilter(p, filter string) bool {
	if containsGlob(filter) {
		ok, err := doublestar.Match(filter, p)
		return err == nil && ok
	}
	return strings.HasPrefix(p, filter)
}

// MatchesAny reports whether p is selected by at least one filter.
func MatchesAny(p string, filters []string) bool {
	for _, f := range filters {
		if MatchesFilter(p, f) {
			return true
		}
	}
	return false
}

// ParseFilters splits a comma-separated filter list, trimming whitespace and
// dropping empty entries.
func ParseFilters(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, path.Clean(part)+trailingSlash(part))
	}
	return out
}

// SortedUnique returns paths sorted with duplicates removed.
func SortedUnique(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func trailingSlash(p string) string {
	if strings.HasSuffix(p, "/") && p != "/" {
		return "/"
	}
	return ""
}

func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
