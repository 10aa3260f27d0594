// Package watch re-runs a pipeline whenever its file, or any other
// watched path, changes on disk.
package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"linerun/internal/logging"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher triggers a callback on filesystem changes, debounced so one
// save does not fire multiple runs.
type Watcher struct {
	Paths    []string
	Debounce time.Duration
	Log      *logging.Logger
}

func New(paths []string, log *logging.Logger) *Watcher {
	if log == nil {
		log = logging.Discard()
	}
	return &Watcher{Paths: paths, Debounce: defaultDebounce, Log: log}
}

// Watch blocks, invoking run after each debounced burst of changes, until
// the context is cancelled. A failing run is logged and watching
// continues.
func (w *Watcher) Watch(ctx context.Context, run func(context.Context) error) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	for _, path := range w.Paths {
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.Log.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.Log.Warn("watch error", "error", err)

		case <-timer.C:
			if err := run(ctx); err != nil {
				w.Log.Warn("run failed", "error", err)
			}
		}
	}
}
