package dispatcher

import (
	"context"
	"errors"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("dispatcher closed")

// Task processes one path. It runs on its own goroutine.
type Task func(ctx context.Context, path string)

// Dispatcher schedules one Task per submitted path with bounded parallelism.
//
// At most one run per path is in flight. A path submitted again while it is
// running is marked pending and runs exactly once more after the current run;
// further duplicates coalesce into that pending run.
type Dispatcher interface {
	// Submit schedules path and returns immediately.
	Submit(ctx context.Context, path string) error
	// InFlight reports how many paths are running or waiting for a slot.
	InFlight() int
	// Close stops accepting work, drops runs that have not started and
	// waits for running ones.
	Close()
}
