package core

import (
	"context"
)

// Owner is the capability to really shut down a protected runner.
// Whoever creates the runner keeps the Owner and hands out only the runner.
type Owner struct {
	runner *QueuedTaskRunner
}

// NewProtectedQueuedTaskRunner creates a runner that survives Shutdown and Close.
//
// On the returned runner, Shutdown stops the current worker (gracefully or not, as asked)
// and starts a fresh one; submissions keep working throughout and tasks queued after the
// call run on the new worker. Only the returned Owner can close the runner for good.
func NewProtectedQueuedTaskRunner(cfg *QueuedTaskRunnerConfig) (*QueuedTaskRunner, *Owner) {
	r := NewQueuedTaskRunner(cfg)
	r.protected = true
	return r, &Owner{runner: r}
}

// Runner returns the owned runner.
func (o *Owner) Runner() *QueuedTaskRunner {
	return o.runner
}

// Shutdown closes the owned runner. See QueuedTaskRunner.Shutdown for the semantics
// of an unprotected runner.
func (o *Owner) Shutdown(ctx context.Context, waitForCompletion bool) error {
	return o.runner.shutdown(ctx, waitForCompletion)
}

// Close is Shutdown with waitForCompletion and no deadline.
func (o *Owner) Close() error {
	return o.Shutdown(context.Background(), true)
}

// restart replaces the worker of a protected runner.
func (r *QueuedTaskRunner) restart(ctx context.Context, graceful bool) error {
	w, err := r.stop(ctx, graceful, false)
	if err != nil {
		return err
	}

	if r.isWorkerContext(ctx) {
		go r.restartAfter(w)
		return nil
	}
	if err := r.awaitWorker(ctx, w); err != nil {
		go r.restartAfter(w)
		return err
	}
	r.reinit(w)
	return nil
}

func (r *QueuedTaskRunner) restartAfter(w *worker) {
	<-w.stopped
	r.reinit(w)
}

// reinit starts the worker that replaces old. Concurrent restarts of the same worker
// start a single replacement; a runner closed meanwhile is left closed.
func (r *QueuedTaskRunner) reinit(old *worker) {
	s := r.signals
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.closed.Load() || r.worker != old {
		return
	}
	// stop already cleared any earlier suspension; one requested since then carries over.
	r.restarts.Add(1)
	r.startWorkerLocked()
	s.broadcastAll()

	r.logger.Info("worker restarted",
		F("runner", r.name),
		F("generation", r.worker.generation),
		F("pending", r.queue.Len()),
	)
}
