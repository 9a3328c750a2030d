// SPDX-License-Identifier: AGPL-3.0-or-later

package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	batches [][]string
}

func (r *recorder) record(paths []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, paths)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, b := range r.batches {
		out = append(out, b...)
	}
	return out
}

func start(t *testing.T, root string) *recorder {
	t.Helper()
	w, err := New(Config{
		Root:     root,
		Debounce: 20 * time.Millisecond,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	rec := &recorder{}
	go func() { done <- w.Run(ctx, rec.record) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})
	return rec
}

func TestWatcher_ReportsChangePackages(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	docs := filepath.Join(root, "maylang")
	require.NoError(t, os.MkdirAll(docs, 0o755))

	rec := start(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(docs, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.may.md"), []byte("x"), 0o644))
	target := filepath.Join(docs, "MC-0001-auth.may.md")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

	require.Eventually(t, func() bool {
		return len(rec.all()) > 0
	}, 5*time.Second, 10*time.Millisecond)

	for _, p := range rec.all() {
		assert.Equal(t, target, p)
	}
}

func TestWatcher_PicksUpDocsDirCreatedLater(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	rec := start(t, root)

	docs := filepath.Join(root, "maylang")
	require.NoError(t, os.Mkdir(docs, 0o755))
	require.Eventually(t, func() bool {
		for _, p := range rec.all() {
			if p == docs {
				return true
			}
		}
		return false
	}, 5*time.Second, 10*time.Millisecond)

	target := filepath.Join(docs, "MC-0002-pay.may.md")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))
	require.Eventually(t, func() bool {
		for _, p := range rec.all() {
			if p == target {
				return true
			}
		}
		return false
	}, 5*time.Second, 10*time.Millisecond)
}
