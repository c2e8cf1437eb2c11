// Package watch re-runs notebook validation when notebooks change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/krlabs/kra/internal/logger"
)

// DefaultDebounce is used when no debounce interval is configured.
const DefaultDebounce = 500 * time.Millisecond

// Handler is called with the file name of a changed notebook once its
// debounce interval has elapsed.
type Handler func(ctx context.Context, name string)

// Watcher observes one directory for writes and creates of *.ipynb files.
type Watcher struct {
	dir      string
	debounce time.Duration
	handle   Handler

	mu      sync.Mutex
	pending map[string]time.Time
}

// New creates a watcher for dir. A non-positive debounce uses DefaultDebounce.
func New(dir string, debounce time.Duration, handle Handler) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		handle:   handle,
		pending:  make(map[string]time.Time),
	}
}

// Run watches until ctx is cancelled. Handlers run one at a time on the
// watching goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("watching %s (debounce %s)", w.dir, w.debounce)

	tick := w.debounce / 5
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.record(event, time.Now())

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case now := <-ticker.C:
			for _, name := range w.due(now) {
				if ctx.Err() != nil {
					return nil
				}
				w.handle(ctx, name)
			}
		}
	}
}

// record notes a relevant event. Saving a notebook often produces several
// writes in quick succession; each one pushes the deadline back.
func (w *Watcher) record(event fsnotify.Event, at time.Time) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	name := filepath.Base(event.Name)
	if !strings.HasSuffix(name, ".ipynb") || strings.HasPrefix(name, ".") {
		return
	}
	logger.Debug("%s: %s", event.Op, name)

	w.mu.Lock()
	w.pending[name] = at
	w.mu.Unlock()
}

// due removes and returns, in sorted order, every notebook whose last
// event is at least one debounce interval old.
func (w *Watcher) due(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var names []string
	for name, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			names = append(names, name)
			delete(w.pending, name)
		}
	}
	sort.Strings(names)
	return names
}
