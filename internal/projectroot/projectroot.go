// SPDX-License-Identifier: AGPL-3.0-or-later

// Package projectroot locates files by walking up the directory tree.
package projectroot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when no candidate exists at or above start.
var ErrNotFound = errors.New("not found in any parent directory")

// FindUp returns the first regular file named one of names, checking each
// directory from start upward. Within a directory, names are tried in order.
func FindUp(start string, names ...string) (string, error) {
	if len(names) == 0 {
		return "", errors.New("no file names given")
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}

	for {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			info, err := os.Stat(candidate)
			if err == nil && info.Mode().IsRegular() {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%v: %w", names, ErrNotFound)
		}
		dir = parent
	}
}
