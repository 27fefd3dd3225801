package status

import "context"

// Source exposes the two facts the status endpoint reports about the watch loop
type Source interface {
	Active() bool
	Path() string
}

// Server serves the status, health and metrics endpoints
type Server interface {
	// Run serves until ctx is cancelled, then shuts down gracefully
	Run(ctx context.Context) error
}
