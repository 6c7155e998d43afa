package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// reloadDelay coalesces the burst of events an editor or atomic save emits.
const reloadDelay = 100 * time.Millisecond

// Watcher reloads a Store whenever its catalog file changes on disk.
type Watcher struct {
	path    string
	store   *Store
	logger  *zap.Logger
	watcher *fsnotify.Watcher

	// reloaded, if set, is called after every reload attempt.
	reloaded func(error)
}

// NewWatcher watches path for changes and reloads store from it. The parent
// directory is watched so that files replaced by rename are still seen.
func NewWatcher(path string, store *Store, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:    abs,
		store:   store,
		logger:  logger,
		watcher: fsw,
	}, nil
}

// Run processes file events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	timer := time.NewTimer(reloadDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(reloadDelay)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("catalog watcher error", zap.Error(err))

		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	err := w.store.Reload(w.path)
	if err != nil {
		w.logger.Warn("catalog reload failed, keeping previous records",
			zap.String("path", w.path),
			zap.Error(err))
	} else {
		w.logger.Info("catalog reloaded",
			zap.String("path", w.path),
			zap.Int("records", w.store.Count()))
	}
	if w.reloaded != nil {
		w.reloaded(err)
	}
}
