// SPDX-License-Identifier: AGPL-3.0-or-later

/*
MayLang - Explainable Change Standard tooling.
Validates MayLang change packages (Markdown with YAML frontmatter) and decides when they are required.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package checker drives one validation run: discovery, requirement policy,
// per-document validation and reporting.
package checker

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/bartekus/maylang/internal/changedoc"
	"github.com/bartekus/maylang/internal/policy"
	"github.com/bartekus/maylang/internal/rules"
	"github.com/bartekus/maylang/internal/scanner"
)

// Status is the overall verdict of a run.
type Status int

const (
	StatusOK Status = iota
	StatusMissing
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusMissing:
		return "missing"
	case StatusInvalid:
		return "invalid"
	default:
		return "ok"
	}
}

// Options configures a run.
type Options struct {
	// Root is the repository root containing the documents directory.
	Root        string
	Mode        policy.Mode
	Base        string
	Filters     []string
	EnforceDiff bool
	// Jobs bounds concurrent document validation; <= 0 means GOMAXPROCS.
	Jobs int
	// Source answers changed-file queries; defaults to git at Root.
	Source policy.ChangeSource
	Logger *slog.Logger
}

// Result is everything a run produced.
type Result struct {
	Status   Status
	Decision policy.Decision
	Files    []string
	Errors   []changedoc.ValidationError
}

// Run executes one validation pass.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	root := opts.Root
	if root == "" {
		root = "."
	}
	source := opts.Source
	if source == nil {
		source = scanner.NewGit(root, logger)
	}

	files, err := scanner.Discover(root)
	if err != nil {
		return nil, fmt.Errorf("discovering change packages: %w", err)
	}
	logger.Debug("Discovered change packages", "root", root, "count", len(files))

	decision := policy.Decide(ctx, policy.Input{
		Mode:         opts.Mode,
		Base:         opts.Base,
		Filters:      opts.Filters,
		ExistingDocs: len(files),
		Source:       source,
	}, logger)
	logger.Info("Requirement decided", "outcome", decision.Outcome.String(), "strategy", string(decision.Strategy))

	res := &Result{Decision: decision, Files: files}

	switch {
	case decision.Outcome == policy.ChangedWithoutPackage:
		res.Status = StatusMissing
		return res, nil
	case decision.Outcome == policy.Required && len(files) == 0:
		res.Status = StatusMissing
		return res, nil
	case len(files) == 0:
		res.Status = StatusOK
		return res, nil
	}

	res.Errors, err = ValidateFiles(ctx, files, opts.EnforceDiff, opts.Jobs)
	if err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		res.Status = StatusInvalid
	}
	return res, nil
}

// ValidateFiles validates every file and returns all errors in file order.
// Documents are independent, so they are checked concurrently.
func ValidateFiles(ctx context.Context, files []string, enforceDiff bool, jobs int) ([]changedoc.ValidationError, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	set := rules.Default(enforceDiff)
	perFile := make([][]changedoc.ValidationError, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perFile[i] = validateFile(path, set)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []changedoc.ValidationError
	for _, errs := range perFile {
		all = append(all, errs...)
	}
	return all, nil
}

func validateFile(path string, set []rules.Rule) []changedoc.ValidationError {
	doc, err := changedoc.Load(path)
	if err != nil {
		return []changedoc.ValidationError{
			changedoc.NewError(path, changedoc.CategoryGeneral, "Cannot read file: %v", err),
		}
	}
	return rules.Validate(doc, set)
}
