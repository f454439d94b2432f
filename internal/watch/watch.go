// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch re-runs validation whenever one of the validated files
// changes. Directories are watched rather than files because editors often
// replace a file on save instead of writing it in place.
package watch

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pdiddy/repo-validator/pkg/types"
)

const defaultDebounce = 300 * time.Millisecond

// Watcher triggers a callback when watched files change.
type Watcher struct {
	debounce time.Duration
	files    map[string]bool
	dirs     []string
	log      io.Writer
}

// New returns a Watcher for files. Changes are logged to log.
func New(cfg types.WatchConfig, files []string, log io.Writer) *Watcher {
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	w := &Watcher{
		debounce: debounce,
		files:    make(map[string]bool, len(files)),
		log:      log,
	}
	seen := make(map[string]bool)
	for _, f := range files {
		f = filepath.Clean(f)
		w.files[f] = true
		dir := filepath.Dir(f)
		if !seen[dir] {
			seen[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}
	return w
}

// Run calls fn once, then again after each burst of changes to a watched
// file, until ctx is cancelled. A directory that does not exist yet is
// watched through its nearest existing ancestor and picked up once created.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	pending := make(map[string]bool)
	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			fmt.Fprintf(w.log, "warning: cannot watch %s yet: %v\n", dir, err)
			pending[dir] = true
		}
	}
	w.addPending(fsw, pending)
	if len(fsw.WatchList()) == 0 {
		return fmt.Errorf("no watchable directories")
	}

	fn(ctx)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if len(pending) > 0 && ev.Has(fsnotify.Create) && w.addPending(fsw, pending) {
				timer.Reset(w.debounce)
			}
			if !w.relevant(ev) {
				continue
			}
			fmt.Fprintf(w.log, "changed: %s\n", ev.Name)
			timer.Reset(w.debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(w.log, "warning: watch error: %v\n", err)
		case <-timer.C:
			fn(ctx)
		}
	}
}

// addPending starts watching every pending directory that now exists and
// watches the nearest existing ancestor of the rest. It reports whether any
// pending directory was added.
func (w *Watcher) addPending(fsw *fsnotify.Watcher, pending map[string]bool) bool {
	added := false
	for dir := range pending {
		if err := fsw.Add(dir); err == nil {
			fmt.Fprintf(w.log, "watching: %s\n", dir)
			delete(pending, dir)
			added = true
			continue
		}
		for parent := filepath.Dir(dir); ; parent = filepath.Dir(parent) {
			if err := fsw.Add(parent); err == nil {
				break
			}
			if parent == filepath.Dir(parent) {
				break
			}
		}
		// dir may have appeared before its ancestor was watched.
		if err := fsw.Add(dir); err == nil {
			fmt.Fprintf(w.log, "watching: %s\n", dir)
			delete(pending, dir)
			added = true
		}
	}
	return added
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !w.files[filepath.Clean(ev.Name)] {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
		ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}
