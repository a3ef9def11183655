package schema

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a file-backed table into a TableSource whenever the file
// changes. Bursts of filesystem events collapse into one reload per tick.
type Watcher struct {
	path     string
	source   *TableSource
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	onReload func(*Table)

	mu      sync.Mutex
	pending bool
	started bool

	done chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithReloadHook calls fn after every successful reload.
func WithReloadHook(fn func(*Table)) WatcherOption {
	return func(w *Watcher) { w.onReload = fn }
}

// WithDebounce sets how often pending changes are applied.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewWatcher creates a watcher for path feeding source.
func NewWatcher(path string, source *TableSource, logger *slog.Logger, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	w := &Watcher{
		path:     filepath.Clean(path),
		source:   source,
		debounce: 250 * time.Millisecond,
		watcher:  fsw,
		logger:   logger,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start watches the table's directory; editors often replace files by rename.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	w.mu.Lock()
	w.started = true
	w.mu.Unlock()
	go w.processEvents(ctx)
	w.logger.Info("Schema table watcher started", "path", w.path, "debounce", w.debounce)
	return nil
}

// Stop closes the underlying watcher and waits for the loop to exit.
func (w *Watcher) Stop() error {
	err := w.watcher.Close()
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()
	if started {
		<-w.done
	}
	return err
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.done)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.mu.Lock()
				w.pending = true
				w.mu.Unlock()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Schema watcher error", "error", err)

		case <-ticker.C:
			w.flushPending()
		}
	}
}

func (w *Watcher) flushPending() {
	w.mu.Lock()
	pending := w.pending
	w.pending = false
	w.mu.Unlock()
	if !pending {
		return
	}
	w.Reload()
}

// Reload parses the file now. A parse failure keeps the previous table.
func (w *Watcher) Reload() bool {
	t, err := LoadTable(w.path)
	if err != nil {
		w.logger.Warn("Schema table reload failed, keeping previous table",
			"path", w.path,
			"error", err)
		return false
	}
	w.source.Replace(t)
	w.logger.Info("Schema table reloaded", "path", w.path, "codes", t.Len())
	if w.onReload != nil {
		w.onReload(t)
	}
	return true
}
