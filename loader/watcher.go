package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/deepnoodle-ai/skillkit"
	"github.com/deepnoodle-ai/skillkit/slogger"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce batches rapid filesystem events (editors often fire
// several per save) into one reload.
const defaultDebounce = 250 * time.Millisecond

// WatcherOptions configures a Watcher.
type WatcherOptions struct {
	// Loader rebuilds snapshots when files change. Required.
	Loader *Loader

	// Engine receives rebuilt snapshots via SetSnapshot. Required.
	Engine *skillkit.Engine

	// Debounce is the quiet period after the last filesystem event
	// before a reload runs. Defaults to 250ms.
	Debounce time.Duration

	// Logger receives debug and warning messages. If nil, no logging
	// occurs.
	Logger slogger.Logger
}

// Watcher reloads the skill library when watched directories change and
// swaps the fresh snapshot into the engine. The swap is atomic: in-flight
// requests finish on the snapshot they started with.
type Watcher struct {
	opts    WatcherOptions
	watcher *fsnotify.Watcher
	logger  slogger.Logger
}

// NewWatcher creates a watcher over the loader's search paths.
func NewWatcher(opts WatcherOptions) (*Watcher, error) {
	if opts.Loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if opts.Engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slogger.NewDiscardLogger()
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	return &Watcher{opts: opts, watcher: fsWatcher, logger: logger}, nil
}

// Start watches the loader's search paths until the context is cancelled.
// Directories that do not exist yet are skipped; a reload may still be
// triggered manually through the loader.
func (w *Watcher) Start(ctx context.Context) error {
	defer w.watcher.Close()

	paths, err := w.opts.Loader.searchPaths()
	if err != nil {
		return fmt.Errorf("getting search paths: %w", err)
	}
	watching := 0
	for _, sp := range paths {
		if err := w.watcher.Add(sp.dir); err != nil {
			w.logger.Debug("not watching skill path", "path", sp.dir, "error", err)
			continue
		}
		watching++
	}
	w.logger.Debug("skill watcher started", "paths", watching)

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("skill file changed", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				timer.Reset(w.opts.Debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("skill watcher error", "error", err)
		}
	}
}

// reload rebuilds the snapshot and swaps it into the engine. A failed
// reload keeps the previous snapshot in place.
func (w *Watcher) reload() {
	snapshot, err := w.opts.Loader.Load()
	if err != nil {
		w.logger.Warn("skill reload failed, keeping previous snapshot", "error", err)
		return
	}
	w.opts.Engine.SetSnapshot(snapshot)
	w.logger.Info("skill library reloaded", "skills", snapshot.Len())
}
