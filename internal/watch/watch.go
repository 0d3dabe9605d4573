// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch reruns a conversion whenever a notebook under the input
// directory changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/radovskyb/watcher"
)

// notebookPattern limits events to notebook files.
var notebookPattern = regexp.MustCompile(`\.ipynb$`)

// Watcher polls a directory tree for notebook changes.
type Watcher struct {
	dir    string
	w      *watcher.Watcher
	logger *slog.Logger
}

// New creates a watcher for every notebook below dir.
func New(dir string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	w := watcher.New()
	w.SetMaxEvents(1)
	w.AddFilterHook(watcher.RegexFilterHook(notebookPattern, false))
	if err := w.AddRecursive(dir); err != nil {
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	return &Watcher{dir: dir, w: w, logger: logger}, nil
}

// Wait blocks until Run has started polling.
func (w *Watcher) Wait() {
	w.w.Wait()
}

// Run polls every interval and calls rebuild after each change. Rebuilds run
// one at a time on a single goroutine. Run returns when ctx is cancelled,
// immediately if it already is.
func (w *Watcher) Run(ctx context.Context, interval time.Duration, rebuild func(context.Context)) error {
	if ctx.Err() != nil {
		return nil
	}
	w.logger.Info("watching for notebook changes", "dir", w.dir, "interval", interval)

	go func() {
		for {
			select {
			case ev := <-w.w.Event:
				w.logger.Info("notebook changed", "path", ev.Path, "op", ev.Op.String())
				rebuild(ctx)
			case err := <-w.w.Error:
				w.logger.Error("watcher error", "err", err)
			case <-ctx.Done():
				// Close is a no-op until Start is polling.
				w.w.Wait()
				w.stop()
				return
			case <-w.w.Closed:
				return
			}
		}
	}()

	if err := w.w.Start(interval); err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	return nil
}

// stop closes the watcher, draining events until it reports closed. Close
// blocks while the poller is delivering an event, so it runs on its own
// goroutine.
func (w *Watcher) stop() {
	go w.w.Close()
	for {
		select {
		case <-w.w.Event:
		case <-w.w.Error:
		case <-w.w.Closed:
			return
		}
	}
}
