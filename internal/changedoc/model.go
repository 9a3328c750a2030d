// SPDX-License-Identifier: AGPL-3.0-or-later

/*
MayLang - Explainable Change Standard tooling.
Validates MayLang change packages (Markdown with YAML frontmatter) and decides when they are required.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package changedoc parses MayLang change packages (*.may.md) into frontmatter,
// top-level headings and sections.
package changedoc

import "fmt"

// Category classifies a validation failure.
type Category string

const (
	CategoryFrontmatter  Category = "frontmatter"
	CategoryHeading      Category = "heading"
	CategoryVerification Category = "verification"
	CategoryPatch        Category = "patch"
	CategoryGeneral      Category = "general"
)

// Heading names referenced by content rules.
const (
	HeadingPatch        = "Patch"
	HeadingVerification = "Verification"
)

var requiredFrontmatterKeys = [...]string{"ai_used", "id", "owner", "risk", "rollback", "scope", "type"}

var requiredHeadings = [...]string{"Intent", "Contract", "Invariants", "Patch", "Verification", "Debug Map"}

// RequiredFrontmatterKeys returns the frontmatter keys every change package must
// declare, sorted lexicographically. The returned slice is a fresh copy.
func RequiredFrontmatterKeys() []string {
	keys := requiredFrontmatterKeys
	return keys[:]
}

// RequiredHeadings returns the top-level headings every change package must
// contain, in their required order. The returned slice is a fresh copy.
func RequiredHeadings() []string {
	headings := requiredHeadings
	return headings[:]
}

// ValidationError is a single failure recorded against a document.
type ValidationError struct {
	File     string   `json:"file"`
	Message  string   `json:"message"`
	Category Category `json:"category"`
}

func (e ValidationError) String() string {
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// NewError builds a ValidationError for the given document path.
func NewError(file string, category Category, format string, args ...any) ValidationError {
	return ValidationError{
		File:     file,
		Message:  fmt.Sprintf(format, args...),
		Category: category,
	}
}
