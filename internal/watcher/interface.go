package watcher

import "context"

// Watcher defines the interface for file system monitoring
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
	// Active reports whether the watch loop is currently running
	Active() bool
	// Path returns the watched directory
	Path() string
}

// EventHandler receives each accepted source file. It must not block the watch loop.
type EventHandler func(ctx context.Context, filePath string) error
