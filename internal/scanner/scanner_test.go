// SPDX-License-Identifier: AGPL-3.0-or-later

package scanner

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchesFilter(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		filter string
		want   bool
	}{
		{name: "prefix dir", path: "auth/login.go", filter: "auth/", want: true},
		{name: "prefix bare", path: "authz/policy.go", filter: "auth", want: true},
		{name: "prefix miss", path: "docs/readme.md", filter: "auth/", want: false},
		{name: "glob recursive", path: "payments/api/v1/handler.go", filter: "payments/**/*.go", want: true},
		{name: "glob extension miss", path: "payments/api/README.md", filter: "payments/**/*.go", want: false},
		{name: "glob single level", path: "svc/a/main.go", filter: "svc/*/main.go", want: true},
		{name: "glob braces", path: "web/app.tsx", filter: "web/*.{ts,tsx}", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesFilter(tt.path, tt.filter))
		})
	}
}

func TestParseFilters(t *testing.T) {
	assert.Equal(t, []string{"auth/", "payments/", "lib"}, ParseFilters(" auth/ ,./payments/,, lib "))
	assert.Nil(t, ParseFilters(""))
	assert.Nil(t, ParseFilters(" , "))
}

func TestChangeDocPaths(t *testing.T) {
	assert.True(t, IsChangeDoc("maylang/MC-0001-auth.may.md"))
	assert.False(t, IsChangeDoc("maylang/README.md"))
	assert.False(t, IsChangeDoc("docs/maylang/MC-0001-auth.may.md"))
	assert.True(t, InDocsDir("maylang/README.md"))

	assert.Equal(t, []string{"auth/login.go", "docs/a.md"},
		ExcludeDocsDir([]string{"maylang/x.may.md", "auth/login.go", "maylang/README.md", "docs/a.md"}))
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()

	found, err := Discover(dir)
	require.NoError(t, err)
	assert.Empty(t, found)

	createFile(t, dir, "maylang/MC-0002-b.may.md")
	createFile(t, dir, "maylang/MC-0001-a.may.md")
	createFile(t, dir, "maylang/notes.md")
	createFile(t, dir, "maylang/nested/MC-0003-c.may.md")
	createFile(t, dir, "other/MC-0004-d.may.md")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "maylang", "dir.may.md"), 0o755))

	found, err = Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "maylang", "MC-0001-a.may.md"),
		filepath.Join(dir, "maylang", "MC-0002-b.may.md"),
	}, found)
}

func TestGit_ChangedFiles(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	ctx := context.Background()

	runGit(t, dir, "init", "-b", "main")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")

	createFile(t, dir, "README.md", "hello")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "Initial commit")

	runGit(t, dir, "checkout", "-b", "feature")
	createFile(t, dir, "auth/login.go", "package auth")
	createFile(t, dir, "maylang/MC-0001-auth.may.md", "---\n---\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "Add login")

	g := NewGit(dir, nil)

	cs, err := g.ChangedFiles(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, StrategyMergeBase, cs.Strategy)
	assert.Equal(t, []string{"auth/login.go", "maylang/MC-0001-auth.may.md"}, cs.Files)

	cs, err = g.ChangedFiles(ctx, "feature")
	require.NoError(t, err)
	assert.Empty(t, cs.Files)

	_, err = g.ChangedFiles(ctx, "does-not-exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git diff failed")
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v\nOutput: %s", args, err, out)
	}
}

func createFile(t *testing.T, dir, path string, content ...string) {
	t.Helper()
	fullPath := filepath.Join(dir, path)
	err := os.MkdirAll(filepath.Dir(fullPath), 0o755)
	require.NoError(t, err)

	data := ""
	if len(content) > 0 {
		data = content[0]
	}
	err = os.WriteFile(fullPath, []byte(data), 0o644)
	require.NoError(t, err)
}

func TestGit_ChangedFiles_FallsBackToDirectDiff(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	ctx := context.Background()

	runGit(t, dir, "init", "-b", "main")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")
	createFile(t, dir, "README.md", "hello")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "Initial commit")

	// An orphan branch shares no history with main, so base...HEAD has no
	// merge base and only the direct form succeeds.
	runGit(t, dir, "checkout", "--orphan", "other")
	runGit(t, dir, "rm", "-rf", "--cached", ".")
	require.NoError(t, os.Remove(filepath.Join(dir, "README.md")))
	createFile(t, dir, "auth/x.go", "package auth")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "Unrelated root")

	cs, err := NewGit(dir, nil).ChangedFiles(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, StrategyDirect, cs.Strategy)
	assert.Equal(t, []string{"README.md", "auth/x.go"}, cs.Files)
}

func TestGit_ChangedFiles_RelativeToSubdirectoryRoot(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	ctx := context.Background()

	runGit(t, dir, "init", "-b", "main")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")
	createFile(t, dir, "README.md", "hello")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "Initial commit")

	runGit(t, dir, "checkout", "-b", "feature")
	createFile(t, dir, "svc/auth/login.go", "package auth")
	createFile(t, dir, "svc/maylang/MC-0001-auth.may.md", "---\n---\n")
	createFile(t, dir, "web/app.ts", "export {}")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "Add login")

	cs, err := NewGit(filepath.Join(dir, "svc"), nil).ChangedFiles(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, StrategyMergeBase, cs.Strategy)
	assert.Equal(t, []string{"auth/login.go", "maylang/MC-0001-auth.may.md"}, cs.Files)
	assert.True(t, IsChangeDoc(cs.Files[1]))
}
