// SPDX-License-Identifier: AGPL-3.0-or-later

// Package bumper increments the version field of a project manifest in place.
package bumper

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/mod/semver"

	"github.com/bartekus/maylang/internal/projection"
	"github.com/bartekus/maylang/internal/projectroot"
)

// Part is the version component to increment.
type Part string

const (
	Patch Part = "patch"
	Minor Part = "minor"
	Major Part = "major"
)

// ManifestNames are the files FindManifest looks for, in preference order.
var ManifestNames = []string{"pyproject.toml", "Cargo.toml"}

var (
	// ErrManifestNotFound is returned when no manifest exists at or above the start directory.
	ErrManifestNotFound = errors.New("Could not find " + strings.Join(ManifestNames, " or ") + ".")
	// ErrNoVersion is returned when the manifest has no version = "x.y.z" line.
	ErrNoVersion = errors.New(`No version = "x.y.z" found`)
	// ErrVersionMismatch is returned when the first version line is not the
	// version the manifest declares.
	ErrVersionMismatch = errors.New("version line does not hold the declared version")
)

// declaredVersionKeys are the TOML keys that hold a project's own version,
// in lookup order.
var declaredVersionKeys = [][]string{
	{"project", "version"},
	{"tool", "poetry", "version"},
	{"package", "version"},
}

var versionLine = regexp.MustCompile(`(?m)^(version\s*=\s*")(\d+\.\d+\.\d+)(")`)

// ParsePart validates a --bump value.
func ParsePart(s string) (Part, error) {
	switch p := Part(s); p {
	case Patch, Minor, Major:
		return p, nil
	default:
		return "", fmt.Errorf("Unknown bump part '%s'. Use patch, minor, or major.", s)
	}
}

// BumpVersion increments part of a MAJOR.MINOR.PATCH string and resets the
// lower components.
func BumpVersion(v string, part Part) (string, error) {
	fields := strings.Split(v, ".")
	if len(fields) != 3 {
		return "", fmt.Errorf("version %q is not MAJOR.MINOR.PATCH", v)
	}
	var n [3]int
	for i, f := range fields {
		x, err := strconv.Atoi(f)
		if err != nil || x < 0 {
			return "", fmt.Errorf("version %q has a non-numeric component %q", v, f)
		}
		n[i] = x
	}

	switch part {
	case Major:
		n = [3]int{n[0] + 1, 0, 0}
	case Minor:
		n = [3]int{n[0], n[1] + 1, 0}
	case Patch:
		n[2]++
	default:
		return "", fmt.Errorf("Unknown bump part '%s'. Use patch, minor, or major.", part)
	}
	return fmt.Sprintf("%d.%d.%d", n[0], n[1], n[2]), nil
}

// FindManifest walks up from start to the nearest manifest.
func FindManifest(start string) (string, error) {
	path, err := projectroot.FindUp(start, ManifestNames...)
	if errors.Is(err, projectroot.ErrNotFound) {
		return "", ErrManifestNotFound
	}
	return path, err
}

// Result describes a completed bump.
type Result struct {
	Path string
	Old  string
	New  string
}

func (r Result) String() string {
	return fmt.Sprintf("Bumped version: %s → %s  (%s)", r.Old, r.New, r.Path)
}

// Bump rewrites the first version line of the manifest at path. Every other
// byte of the file is preserved.
func Bump(path string, part Part, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := ParsePart(string(part)); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrManifestNotFound
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	text := string(raw)

	loc := versionLine.FindStringSubmatchIndex(text)
	if loc == nil {
		return nil, fmt.Errorf("%w in %s.", ErrNoVersion, path)
	}
	start, end := loc[4], loc[5]
	old := text[start:end]

	next, err := BumpVersion(old, part)
	if err != nil {
		return nil, err
	}
	if !semver.IsValid("v" + old) {
		logger.Warn("Current version is not canonical semver", "version", old, "manifest", path)
	}

	lineNo := strings.Count(text[:start], "\n") + 1
	key, declared, err := declaredVersion(text)
	switch {
	case err != nil:
		logger.Warn("Manifest is not valid TOML, bumping the first version line", "manifest", path, "line", lineNo, "error", err)
	case key == "":
		logger.Warn("Manifest declares no project, tool.poetry or package version, bumping the first version line",
			"manifest", path, "line", lineNo)
	case declared != old:
		return nil, fmt.Errorf("%w: line %d of %s holds %s but %s is %q", ErrVersionMismatch, lineNo, path, old, key, declared)
	}

	updated := text[:start] + next + text[end:]
	if err == nil && key != "" {
		_, got, err := declaredVersion(updated)
		if err != nil {
			return nil, fmt.Errorf("refusing to write %s: rewritten manifest is not valid TOML: %w", path, err)
		}
		if got != next {
			return nil, fmt.Errorf("refusing to write %s: rewritten %s is %q, want %q", path, key, got, next)
		}
	}

	if err := projection.AtomicWrite(path, []byte(updated), 0o644); err != nil {
		return nil, err
	}
	logger.Info("Bumped manifest version", "manifest", path, "old", old, "new", next)
	return &Result{Path: path, Old: old, New: next}, nil
}

// declaredVersion decodes text as TOML and returns the dotted key and value
// of the first declared project version. key is empty when none is declared.
func declaredVersion(text string) (key, value string, err error) {
	var doc map[string]any
	if _, err := toml.Decode(text, &doc); err != nil {
		return "", "", err
	}
	for _, path := range declaredVersionKeys {
		if v, ok := lookup(doc, path).(string); ok {
			return strings.Join(path, "."), v, nil
		}
	}
	return "", "", nil
}

func lookup(table map[string]any, path []string) any {
	var cur any = table
	for _, k := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[k]
	}
	return cur
}
