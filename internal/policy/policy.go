// SPDX-License-Identifier: AGPL-3.0-or-later

// Package policy decides whether change packages are mandatory for a run.
package policy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bartekus/maylang/internal/scanner"
)

// Mode selects when change packages are required.
type Mode string

const (
	ModeAlways  Mode = "always"
	ModeChanged Mode = "changed"
)

// ParseMode validates a --require value.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAlways, ModeChanged:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid require mode %q (must be 'always' or 'changed')", s)
	}
}

// Outcome is the policy verdict.
type Outcome int

const (
	// NotRequired means packages are validated if present but may be absent.
	NotRequired Outcome = iota
	// Required means at least one package must exist on disk.
	Required
	// ChangedWithoutPackage means watched code changed but the diff carries
	// no change package; this is a missing outcome regardless of disk state.
	ChangedWithoutPackage
)

func (o Outcome) String() string {
	switch o {
	case Required:
		return "required"
	case ChangedWithoutPackage:
		return "changed-without-package"
	default:
		return "not-required"
	}
}

// ChangeSource reports the files touched relative to a base ref.
type ChangeSource interface {
	ChangedFiles(ctx context.Context, base string) (*scanner.ChangeSet, error)
}

// Input carries everything Decide needs.
type Input struct {
	Mode Mode
	// Base is the comparison ref; empty means no change detection.
	Base string
	// Filters are path prefixes or doublestar globs; empty means any change counts.
	Filters []string
	// ExistingDocs is the number of change packages currently on disk.
	ExistingDocs int
	Source       ChangeSource
}

// Decision is the verdict plus context for reporting.
type Decision struct {
	Outcome Outcome
	// Warning is set when change detection failed and the fail-safe applied.
	Warning string
	// Strategy is the diff form that succeeded, if any.
	Strategy scanner.Strategy
	// Changed is the unfiltered changed-file list, if detection ran.
	Changed []string
}

// Decide applies the requirement policy.
func Decide(ctx context.Context, in Input, logger *slog.Logger) Decision {
	if logger == nil {
		logger = slog.Default()
	}

	if in.Mode != ModeChanged {
		return Decision{Outcome: Required}
	}

	// Without a base ref there is no way to tell whether this change needs a
	// package, so an existing package establishes the expectation.
	if in.Base == "" {
		if in.ExistingDocs > 0 {
			return Decision{Outcome: Required}
		}
		return Decision{Outcome: NotRequired}
	}

	cs, err := in.Source.ChangedFiles(ctx, in.Base)
	if err != nil {
		warning := fmt.Sprintf("Could not detect changed files (%s). Falling back to requiring MayLang change packages.", err)
		logger.Warn(warning)
		return Decision{Outcome: Required, Warning: warning}
	}

	d := Decision{Strategy: cs.Strategy, Changed: cs.Files}
	if !relevantChange(cs.Files, in.Filters) {
		logger.Debug("No watched files changed", "base", in.Base, "filters", in.Filters)
		d.Outcome = NotRequired
		return d
	}

	for _, f := range cs.Files {
		if scanner.IsChangeDoc(f) {
			d.Outcome = Required
			return d
		}
	}
	d.Outcome = ChangedWithoutPackage
	return d
}

// relevantChange ignores files inside the documents directory, then applies
// the filters (or, without filters, accepts any remaining change).
func relevantChange(changed, filters []string) bool {
	code := scanner.ExcludeDocsDir(changed)
	if len(filters) == 0 {
		return len(code) > 0
	}
	for _, f := range code {
		if scanner.MatchesAny(f, filters) {
			return true
		}
	}
	return false
}
