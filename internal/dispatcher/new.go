package dispatcher

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/nguyentantai21042004/videotranscoder/internal/logger"
)

type pathState struct {
	pending bool
}

type implDispatcher struct {
	task   Task
	logger logger.Logger
	sem    *semaphore.Weighted

	// stopCtx is cancelled by Close to release runs still waiting for a slot
	stopCtx context.Context
	stop    context.CancelFunc

	mu     sync.Mutex
	paths  map[string]*pathState
	closed bool

	wg sync.WaitGroup
}

// New creates a Dispatcher running at most maxConcurrent tasks at once
func New(task Task, maxConcurrent int, log logger.Logger) Dispatcher {
	// Default to 2 concurrent if not specified
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	stopCtx, stop := context.WithCancel(context.Background())
	return &implDispatcher{
		task:    task,
		logger:  log,
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
		stopCtx: stopCtx,
		stop:    stop,
		paths:   make(map[string]*pathState),
	}
}
