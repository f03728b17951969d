package store

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the law path for changes and triggers store reloads.
// Events are debounced so an editor writing several files in quick
// succession produces a single reload.
type Watcher struct {
	store    *Store
	path     string
	interval time.Duration
	logger   *slog.Logger
}

// NewWatcher creates a watcher that reloads the given store when files under
// path change. A non-positive debounce interval defaults to 250ms.
func NewWatcher(store *Store, path string, debounce time.Duration, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		store:    store,
		path:     path,
		interval: debounce,
		logger:   logger.With("component", "law.watcher"),
	}
}

// Watch blocks until the context is cancelled, reloading the store after
// each debounced burst of file events. A failed reload is logged and the
// previous snapshot stays active.
func (w *Watcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.path); err != nil {
		return fmt.Errorf("watch %q: %w", w.path, err)
	}

	w.logger.Info("law watcher started", "path", w.path, "debounce", w.interval)

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("law file changed", "op", event.Op.String(), "path", event.Name)
			if timer == nil {
				timer = time.NewTimer(w.interval)
				timerCh = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.interval)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("law watcher error", "error", err)

		case <-timerCh:
			timer = nil
			timerCh = nil
			if err := w.store.Reload(ctx); err != nil {
				w.logger.Error("law reload failed, previous snapshot stays active", "error", err)
			}
		}
	}
}

// relevant filters out events for files the store does not load.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	switch filepath.Ext(event.Name) {
	case ".yaml", ".yml", ".json":
		return true
	}
	// A bare path event (e.g. the watched file itself) is relevant too.
	return event.Name == w.path
}
