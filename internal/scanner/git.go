// SPDX-License-Identifier: AGPL-3.0-or-later

package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Strategy names the diff form that produced a ChangeSet.
type Strategy string

const (
	// StrategyMergeBase diffs base...HEAD, i.e. against the merge base.
	StrategyMergeBase Strategy = "merge-base"
	// StrategyDirect diffs base HEAD directly.
	StrategyDirect Strategy = "direct"
)

// ErrGitNotFound is returned when the git binary is not on PATH.
var ErrGitNotFound = errors.New("git is not installed or not on PATH.") //nolint:staticcheck // user-facing sentence

// ChangeSet is the list of repo-relative paths a change touched.
type ChangeSet struct {
	Files    []string
	Strategy Strategy
}

// Git queries changed files by shelling out to git.
type Git struct {
	repoRoot string
	logger   *slog.Logger
}

// NewGit creates a Git collaborator rooted at repoRoot.
func NewGit(repoRoot string, logger *slog.Logger) *Git {
	if logger == nil {
		logger = slog.Default()
	}
	return &Git{repoRoot: repoRoot, logger: logger}
}

// ChangedFiles runs `git diff --name-only --relative base...HEAD`, falling back
// once to the direct `base HEAD` form when the merge-base form fails. Paths are
// relative to the Git root directory.
func (g *Git) ChangedFiles(ctx context.Context, base string) (*ChangeSet, error) {
	files, firstErr := g.diffNames(ctx, base+"...HEAD")
	if firstErr == nil {
		g.logger.Info("Detected changed files", "base", base, "strategy", StrategyMergeBase, "count", len(files))
		return &ChangeSet{Files: files, Strategy: StrategyMergeBase}, nil
	}
	if errors.Is(firstErr, exec.ErrNotFound) {
		return nil, ErrGitNotFound
	}

	g.logger.Debug("Merge-base diff failed, retrying direct diff", "base", base, "error", firstErr)
	files, err := g.diffNames(ctx, base, "HEAD")
	if err != nil {
		return nil, fmt.Errorf("git diff failed: %s", stderrOf(firstErr))
	}
	g.logger.Info("Detected changed files", "base", base, "strategy", StrategyDirect, "count", len(files))
	return &ChangeSet{Files: files, Strategy: StrategyDirect}, nil
}

func (g *Git) diffNames(ctx context.Context, revs ...string) ([]string, error) {
	// --relative keeps paths relative to repoRoot when it is a subdirectory of
	// the work tree and drops changes outside it.
	args := append([]string{"diff", "--name-only", "--relative"}, revs...)
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.repoRoot
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

func stderrOf(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if msg := strings.TrimSpace(string(exitErr.Stderr)); msg != "" {
			return msg
		}
	}
	return "unknown error"
}
