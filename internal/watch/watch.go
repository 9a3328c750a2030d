// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watch reports batches of change package edits under the documents
// directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bartekus/maylang/internal/scanner"
)

// DefaultDebounce is how long the watcher waits for more events before
// reporting a batch.
const DefaultDebounce = 200 * time.Millisecond

// Config configures a Watcher.
type Config struct {
	// Root is the repository root; the documents directory beneath it is watched.
	Root     string
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher wraps an fsnotify watcher on the repository root and its
// documents directory.
type Watcher struct {
	fsw      *fsnotify.Watcher
	root     string
	docsDir  string
	debounce time.Duration
	logger   *slog.Logger
}

// New starts watching. Events that occur after New returns are delivered by Run.
func New(cfg Config) (*Watcher, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", cfg.Root, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	w := &Watcher{
		fsw:      fsw,
		root:     root,
		docsDir:  filepath.Join(root, scanner.DocsDir),
		debounce: debounce,
		logger:   logger,
	}

	// The root is watched so a documents directory created later is picked up.
	if err := fsw.Add(root); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", root, err)
	}
	if err := w.addDocsDir(); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addDocsDir() error {
	info, err := os.Stat(w.docsDir)
	if errors.Is(err, os.ErrNotExist) {
		w.logger.Debug("Documents directory not present yet", "path", w.docsDir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking %s: %w", w.docsDir, err)
	}
	if !info.IsDir() {
		return nil
	}
	if err := w.fsw.Add(w.docsDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.docsDir, err)
	}
	w.logger.Debug("Watching directory", "path", w.docsDir)
	return nil
}

// Run delivers debounced batches of changed change package paths to onChange
// until ctx is done. Batches are sorted and free of duplicates. The watcher
// is closed when Run returns.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	defer w.fsw.Close()

	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			path, relevant := w.classify(ev)
			if !relevant {
				continue
			}
			w.logger.Debug("Change package event", "path", path, "op", ev.Op.String())
			pending[path] = struct{}{}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)

		case <-fire:
			fire = nil
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			clear(pending)
			onChange(scanner.SortedUnique(batch))
		}
	}
}

// classify reports whether ev touches a change package, registering the
// documents directory when it appears.
func (w *Watcher) classify(ev fsnotify.Event) (string, bool) {
	path := filepath.Clean(ev.Name)

	if path == w.docsDir && ev.Has(fsnotify.Create) {
		if err := w.addDocsDir(); err != nil {
			w.logger.Warn("Failed to watch documents directory", "path", path, "error", err)
			return "", false
		}
		return path, true
	}

	if filepath.Dir(path) != w.docsDir || !strings.HasSuffix(path, scanner.DocSuffix) {
		return "", false
	}
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
		return "", false
	}
	return path, true
}
