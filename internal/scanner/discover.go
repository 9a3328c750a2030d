// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scanner locates change packages on disk and asks git which files a
// change touched.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover returns the change packages directly under root/DocsDir, sorted.
// A missing directory yields no packages and no error.
func Discover(root string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(root), DocsDir+"/*"+DocSuffix, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("globbing %s: %w", filepath.Join(root, DocsDir), err)
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(root, filepath.FromSlash(m)))
	}
	return SortedUnique(paths), nil
}
