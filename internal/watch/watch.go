// Package watch re-runs a callback when XML documents in a set of
// directories are written.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file must stay quiet before its callback runs.
const DefaultDebounce = 500 * time.Millisecond

// Watcher batches filesystem events per path and calls a handler once the
// path has settled.
type Watcher struct {
	debounce time.Duration
	tick     time.Duration
	log      *zap.Logger
}

// New returns a Watcher with the given debounce window. A non-positive
// window selects DefaultDebounce. log may be nil.
func New(debounce time.Duration, log *zap.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}
	tick := debounce / 5
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	return &Watcher{debounce: debounce, tick: tick, log: log}
}

// Relevant reports whether ev should trigger a re-run: a write or create of
// an .xml file. Repair backups end in .backup and are ignored.
func Relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	return strings.EqualFold(filepath.Ext(ev.Name), ".xml")
}

// Run watches dirs and calls fn with each settled path until ctx is done.
// It blocks on the calling goroutine; fn runs on the same goroutine.
func (w *Watcher) Run(ctx context.Context, dirs []string, fn func(path string)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		w.log.Debug("watching directory", zap.String("dir", dir))
	}

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if Relevant(ev) {
				w.log.Debug("file event", zap.String("path", ev.Name), zap.Stringer("op", ev.Op))
				pending[ev.Name] = time.Now()
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))

		case now := <-ticker.C:
			for _, path := range settled(pending, now, w.debounce) {
				fn(path)
			}
		}
	}
}

// settled removes and returns, sorted, every path quiet for at least d.
func settled(pending map[string]time.Time, now time.Time, d time.Duration) []string {
	var ready []string
	for path, at := range pending {
		if now.Sub(at) >= d {
			ready = append(ready, path)
			delete(pending, path)
		}
	}
	slices.Sort(ready)
	return ready
}
