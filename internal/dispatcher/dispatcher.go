package dispatcher

import (
	"context"
)

// Submit schedules path. It only takes the bookkeeping lock, never a worker slot.
func (d *implDispatcher) Submit(ctx context.Context, path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}

	if st, ok := d.paths[path]; ok {
		if st.pending {
			d.logger.Debug(ctx, "Duplicate event for %s coalesced into pending run", path)
		} else {
			st.pending = true
			d.logger.Info(ctx, "%s is already being processed, queued one follow-up run", path)
		}
		return nil
	}

	d.paths[path] = &pathState{}
	d.wg.Add(1)
	// Runs outlive the caller's cancellation: in-flight work is never interrupted.
	go d.run(context.WithoutCancel(ctx), path)
	return nil
}

func (d *implDispatcher) run(ctx context.Context, path string) {
	defer d.wg.Done()

	for {
		if err := d.sem.Acquire(d.stopCtx, 1); err != nil {
			d.logger.Warn(ctx, "Dropping %s: dispatcher closed before it started", path)
			d.forget(path)
			return
		}
		if d.stopCtx.Err() != nil {
			d.sem.Release(1)
			d.logger.Warn(ctx, "Dropping %s: dispatcher closed before it started", path)
			d.forget(path)
			return
		}
		d.execute(ctx, path)
		d.sem.Release(1)

		if !d.next(path) {
			return
		}
		d.logger.Info(ctx, "Starting follow-up run for %s", path)
	}
}

// execute shields the dispatcher from a panicking task.
func (d *implDispatcher) execute(ctx context.Context, path string) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error(ctx, "Task for %s panicked: %v", path, r)
		}
	}()
	d.task(ctx, path)
}

// next reports whether a pending follow-up run should start; otherwise it releases path.
func (d *implDispatcher) next(path string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	st := d.paths[path]
	if st != nil && st.pending && !d.closed {
		st.pending = false
		return true
	}
	delete(d.paths, path)
	return false
}

func (d *implDispatcher) forget(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.paths, path)
}

func (d *implDispatcher) InFlight() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.paths)
}

func (d *implDispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.stop()
	d.wg.Wait()
}
