package watcher

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/videotranscoder/internal/logger"
)

// New creates a Watcher on inputDir (non-recursive) that hands files with
// the given extension to handler
func New(inputDir, extension string, handler EventHandler, log logger.Logger) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	extension = strings.ToLower(extension)
	if extension != "" && !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}

	return &implWatcher{
		inputDir:  inputDir,
		extension: extension,
		handler:   handler,
		logger:    log,
		watcher:   watcher,
	}, nil
}
