package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/videotranscoder/internal/logger"
	"github.com/nguyentantai21042004/videotranscoder/internal/metrics"
)

type implWatcher struct {
	inputDir  string
	extension string
	handler   EventHandler
	logger    logger.Logger
	watcher   *fsnotify.Watcher
	active    atomic.Bool
}

// Start begins monitoring the input directory for new source files.
// The loop only filters and hands off; processing happens elsewhere.
func (w *implWatcher) Start(ctx context.Context) error {
	w.active.Store(true)
	metrics.SetWatcherActive(true)
	defer func() {
		w.active.Store(false)
		metrics.SetWatcherActive(false)
	}()

	w.logger.Info(ctx, "File watcher started. Monitoring: %s (extension %s)", w.inputDir, w.extension)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "File watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

func (w *implWatcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	// Only process CREATE events
	if !event.Has(fsnotify.Create) {
		return
	}
	if !w.isSourceFile(event.Name) {
		w.logger.Debug(ctx, "Ignoring non-source file: %s", event.Name)
		return
	}
	if isDir(event.Name) {
		w.logger.Debug(ctx, "Ignoring directory: %s", event.Name)
		return
	}

	w.logger.Info(ctx, "New source file detected: %s", event.Name)
	metrics.FilesDetectedTotal.Inc()

	if err := w.handler(ctx, event.Name); err != nil {
		w.logger.Error(ctx, "Failed to schedule %s: %v", event.Name, err)
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) Active() bool {
	return w.active.Load()
}

func (w *implWatcher) Path() string {
	return w.inputDir
}

// isSourceFile checks the extension case-insensitively
func (w *implWatcher) isSourceFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == w.extension
}

// isDir reports true only for paths that still exist as directories;
// a file that vanished already is left for the pipeline to reject.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
