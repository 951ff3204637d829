package core

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"
)

// executedLogInterval is how often (in executed tasks) the runner logs its progress.
const executedLogInterval = 10000

// QueuedTaskRunner executes submitted tasks one at a time, in submission order, on a single
// dedicated goroutine locked to its own OS thread.
//
// Beyond a plain serial executor it adds:
// - Handles (Task, ProducerTask) that can be joined for completion and results
// - Suspend/Resume between tasks, immediate or deferred behind already queued work
// - Per-task priorities applied to the worker's OS thread while the task runs
// - Graceful and immediate shutdown, and a protected variant (see NewProtectedQueuedTaskRunner)
//
// Priorities never reorder the queue; they only change the OS scheduling weight of the worker.
type QueuedTaskRunner struct {
	name         string
	logger       Logger
	panicHandler PanicHandler
	metrics      Metrics
	rejected     RejectedTaskHandler
	prioritizer  ThreadPrioritizer
	history      *executionHistory

	signals *signalSet
	queue   TaskQueue

	// Guarded by signals.mu.
	worker  *worker
	current executable
	state   RunnerState

	// Written with signals.mu held; read lock-free on fast paths.
	defaultPriority atomic.Int32
	suspended       atomic.Bool
	closed          atomic.Bool

	executed      atomic.Int64
	failed        atomic.Int64
	rejectedCount atomic.Int64
	restarts      atomic.Int64
	generation    atomic.Int64

	protected bool
}

// worker is one generation of the runner's background goroutine. A protected runner
// replaces its worker on Shutdown; all other runners have exactly one.
type worker struct {
	runner     *QueuedTaskRunner
	generation int64

	// Guarded by runner.signals.mu.
	thread     int
	started    bool
	draining   bool // a graceful stop is queued; suspension no longer holds the worker
	terminated bool
	exited     bool

	priority atomic.Int32
	stopped  chan struct{}
}

// NewQueuedTaskRunner creates a runner and starts its worker. A nil cfg uses
// DefaultQueuedTaskRunnerConfig.
func NewQueuedTaskRunner(cfg *QueuedTaskRunnerConfig) *QueuedTaskRunner {
	c := cfg.withDefaults()
	r := &QueuedTaskRunner{
		name:         c.Name,
		logger:       c.Logger,
		panicHandler: c.PanicHandler,
		metrics:      c.Metrics,
		rejected:     c.RejectedTaskHandler,
		prioritizer:  c.ThreadPrioritizer,
		history:      newExecutionHistory(c.HistoryCapacity),
		signals:      newSignalSet(),
		queue:        NewFIFOTaskQueue(),
	}
	r.defaultPriority.Store(int32(c.Priority))

	r.signals.mu.Lock()
	r.startWorkerLocked()
	r.signals.mu.Unlock()

	return r
}

// Name returns the name of the runner
func (r *QueuedTaskRunner) Name() string {
	return r.name
}

// DefaultPriority returns the priority used for tasks submitted without one.
func (r *QueuedTaskRunner) DefaultPriority() TaskPriority {
	return TaskPriority(r.defaultPriority.Load())
}

// WorkerPriority returns the priority last applied to the worker thread.
func (r *QueuedTaskRunner) WorkerPriority() TaskPriority {
	r.signals.mu.Lock()
	w := r.worker
	r.signals.mu.Unlock()
	return TaskPriority(w.priority.Load())
}

// IsSuspended reports whether the worker is held between tasks.
func (r *QueuedTaskRunner) IsSuspended() bool {
	return r.suspended.Load()
}

// IsClosed reports whether Shutdown has been called on a non-protected runner
// (or through the Owner of a protected one).
func (r *QueuedTaskRunner) IsClosed() bool {
	return r.closed.Load()
}

// IsProtected reports whether the runner was created by NewProtectedQueuedTaskRunner.
func (r *QueuedTaskRunner) IsProtected() bool {
	return r.protected
}

// ExecutedTasksCount returns the number of task bodies run so far, including failed ones.
func (r *QueuedTaskRunner) ExecutedTasksCount() int64 {
	return r.executed.Load()
}

// Restarts returns how many times the worker was replaced.
func (r *QueuedTaskRunner) Restarts() int64 {
	return r.restarts.Load()
}

// State returns the current worker loop state.
func (r *QueuedTaskRunner) State() RunnerState {
	r.signals.mu.Lock()
	defer r.signals.mu.Unlock()
	return r.state
}

// RecentExecutions returns up to limit execution records, newest first.
func (r *QueuedTaskRunner) RecentExecutions(limit int) []TaskExecutionRecord {
	return r.history.Recent(limit)
}

// LastExecution returns the most recent execution record.
func (r *QueuedTaskRunner) LastExecution() (TaskExecutionRecord, bool) {
	return r.history.Last()
}

// Stats returns a snapshot of the runner's state.
func (r *QueuedTaskRunner) Stats() RunnerStats {
	s := r.signals
	s.mu.Lock()
	stats := RunnerStats{
		Name:           r.name,
		Type:           "queued",
		State:          r.state,
		Pending:        r.queue.Len(),
		Rejected:       r.rejectedCount.Load(),
		Executed:       r.executed.Load(),
		Failed:         r.failed.Load(),
		Restarts:       r.restarts.Load(),
		Closed:         r.closed.Load(),
		Suspended:      r.suspended.Load(),
		Protected:      r.protected,
		Priority:       r.DefaultPriority(),
		WorkerPriority: TaskPriority(r.worker.priority.Load()),
	}
	if r.current != nil {
		stats.Running = 1
	}
	s.mu.Unlock()

	if last, ok := r.history.Last(); ok {
		stats.LastTaskName = last.Name
		stats.LastTaskAt = last.FinishedAt
	}
	return stats
}

// =============================================================================
// Worker Loop
// =============================================================================

// startWorkerLocked spawns a new worker generation. signals.mu must be held.
func (r *QueuedTaskRunner) startWorkerLocked() {
	w := &worker{
		runner:     r,
		generation: r.generation.Add(1),
		stopped:    make(chan struct{}),
	}
	w.priority.Store(int32(r.DefaultPriority()))
	r.worker = w
	r.state = RunnerStateIdle
	go r.runLoop(w)
}

// runLoop is the body of a worker goroutine.
func (r *QueuedTaskRunner) runLoop(w *worker) {
	// The goroutine stays locked until it exits, so the runtime discards the thread
	// together with whatever nice value the tasks left on it.
	runtime.LockOSThread()

	s := r.signals
	defer func() {
		s.mu.Lock()
		w.exited = true
		if r.worker == w {
			r.state = RunnerStateTerminated
		}
		s.broadcastAll()
		s.mu.Unlock()
		close(w.stopped)
	}()

	s.mu.Lock()
	w.thread = r.prioritizer.CurrentThread()
	w.started = true
	r.applyWorkerPriorityLocked(w, TaskPriority(w.priority.Load()))
	s.mu.Unlock()

	runCtx := context.WithValue(context.Background(), workerKey, w)
	for {
		item, ok := r.next(w)
		if !ok {
			return
		}
		r.execute(runCtx, item)
	}
}

// next blocks until there is an item to run and returns it, or reports false once the
// worker has been terminated.
func (r *QueuedTaskRunner) next(w *worker) (executable, bool) {
	s := r.signals
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		if w.terminated {
			return nil, false
		}
		if r.suspended.Load() && !w.draining {
			r.state = RunnerStateSuspended
			s.resumeRequested.Wait()
			continue
		}
		if item, ok := r.queue.Pop(); ok {
			x, ok := item.(executable)
			if !ok {
				r.logger.Error("dropping unknown work item", F("runner", r.name), F("item", fmt.Sprintf("%T", item)))
				continue
			}
			r.current = x
			r.state = RunnerStateDraining
			if p := x.Priority(); TaskPriority(w.priority.Load()) != p {
				r.setWorkerPriorityLocked(w, p)
			}
			return x, true
		}
		r.state = RunnerStateIdle
		s.queueDrained.Broadcast()
		s.newWork.Wait()
	}
}

// execute runs one item on the worker. Failures are reported and never escape.
// The executed count and history include the item by the time its joiners are released.
func (r *QueuedTaskRunner) execute(runCtx context.Context, item executable) {
	priority := item.Priority()
	taskCtx := context.WithValue(runCtx, priorityKey, priority)

	startedAt := time.Now()
	_ = item.execute(taskCtx, func(err error) {
		r.recordExecution(taskCtx, item, priority, startedAt, err)
	})

	s := r.signals
	s.mu.Lock()
	r.current = nil
	depth := r.queue.Len()
	s.taskFinished.Broadcast()
	if depth == 0 {
		s.queueDrained.Broadcast()
	}
	s.mu.Unlock()

	r.safely("metrics", func() {
		r.metrics.RecordQueueDepth(r.name, depth)
	})
}

func (r *QueuedTaskRunner) recordExecution(ctx context.Context, item WorkItem, priority TaskPriority, startedAt time.Time, err error) {
	finishedAt := time.Now()
	record := TaskExecutionRecord{
		TaskID:     item.ID(),
		Name:       item.Name(),
		RunnerName: r.name,
		Priority:   priority,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Duration:   finishedAt.Sub(startedAt),
	}

	var execErr *TaskExecutionError
	if errors.As(err, &execErr) {
		record.Failed = true
		record.Panicked = execErr.Panicked()
		r.failed.Add(1)
		r.reportFailure(ctx, execErr)
	}
	r.history.Add(record)
	r.safely("metrics", func() {
		r.metrics.RecordTaskDuration(r.name, priority, record.Duration)
	})

	if n := r.executed.Add(1); n%executedLogInterval == 0 {
		r.logger.Info("executed tasks", F("runner", r.name), F("count", n))
	}
}

func (r *QueuedTaskRunner) reportFailure(ctx context.Context, err *TaskExecutionError) {
	r.safely("metrics", func() {
		r.metrics.RecordTaskFailure(r.name, err)
	})
	if err.Panicked() {
		r.safely("panic handler", func() {
			r.panicHandler.HandlePanic(ctx, r.name, err.Name, err.Panic, err.Stack)
		})
		return
	}
	r.logger.Error("task failed",
		F("runner", r.name),
		F("task", err.Name),
		F("task_id", err.TaskID.String()),
		F("error", err.Cause),
	)
}

// safely runs a user-supplied hook, keeping a panicking hook from killing the worker.
func (r *QueuedTaskRunner) safely(what string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("hook panicked", F("runner", r.name), F("hook", what), F("panic", rec))
		}
	}()
	fn()
}

// setWorkerPriorityLocked records p as the worker priority and applies it to the thread
// once the worker has started. signals.mu must be held.
func (r *QueuedTaskRunner) setWorkerPriorityLocked(w *worker, p TaskPriority) {
	p = p.Clamp()
	if TaskPriority(w.priority.Swap(int32(p))) == p {
		return
	}
	r.applyWorkerPriorityLocked(w, p)
}

func (r *QueuedTaskRunner) applyWorkerPriorityLocked(w *worker, p TaskPriority) {
	if !w.started || w.exited {
		return
	}
	r.safely("metrics", func() {
		r.metrics.RecordWorkerPriority(r.name, p)
	})
	if err := r.prioritizer.SetThreadPriority(w.thread, p); err != nil {
		r.logger.Debug("worker thread priority unchanged",
			F("runner", r.name),
			F("priority", int(p)),
			F("error", err),
		)
	}
}

// isWorkerContext reports whether ctx was handed to a task by this runner's worker.
func (r *QueuedTaskRunner) isWorkerContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	w, ok := ctx.Value(workerKey).(*worker)
	return ok && w.runner == r
}

// =============================================================================
// Submission
// =============================================================================

// PostTask submits work at the runner's default priority.
func (r *QueuedTaskRunner) PostTask(work Runnable) (*Task, error) {
	return r.PostTaskNamedWithPriority(resolveTaskName(work, ""), work, r.DefaultPriority())
}

// PostTaskWithPriority submits work at priority p.
func (r *QueuedTaskRunner) PostTaskWithPriority(work Runnable, p TaskPriority) (*Task, error) {
	return r.PostTaskNamedWithPriority(resolveTaskName(work, ""), work, p)
}

// PostTaskWithCallerPriority submits work at the priority carried by ctx (see WithPriority),
// falling back to the default priority. Inside a task, ctx carries that task's priority.
func (r *QueuedTaskRunner) PostTaskWithCallerPriority(ctx context.Context, work Runnable) (*Task, error) {
	return r.PostTaskNamedWithPriority(resolveTaskName(work, ""), work, PriorityFromContext(ctx, r.DefaultPriority()))
}

// PostTaskNamed submits work under an explicit name used in logs, metrics and history.
func (r *QueuedTaskRunner) PostTaskNamed(name string, work Runnable) (*Task, error) {
	return r.PostTaskNamedWithPriority(name, work, r.DefaultPriority())
}

// PostTaskNamedWithPriority submits named work at priority p.
//
// It never blocks and never runs work inline, even when called from a task of this runner.
func (r *QueuedTaskRunner) PostTaskNamedWithPriority(name string, work Runnable, p TaskPriority) (*Task, error) {
	if work == nil {
		return nil, ErrNilTask
	}
	t := newTask(resolveTaskName(work, name), work, p)
	if err := r.enqueue(t); err != nil {
		return nil, err
	}
	return t, nil
}

// PostProducerTask submits fn at the runner's default priority and returns a handle
// whose Join yields fn's result.
func PostProducerTask[T any](r *QueuedTaskRunner, fn Producer[T]) (*ProducerTask[T], error) {
	return PostProducerTaskNamedWithPriority(r, resolveTaskName(fn, ""), fn, r.DefaultPriority())
}

// PostProducerTaskWithPriority submits fn at priority p.
func PostProducerTaskWithPriority[T any](r *QueuedTaskRunner, fn Producer[T], p TaskPriority) (*ProducerTask[T], error) {
	return PostProducerTaskNamedWithPriority(r, resolveTaskName(fn, ""), fn, p)
}

// PostProducerTaskWithCallerPriority submits fn at the priority carried by ctx.
func PostProducerTaskWithCallerPriority[T any](ctx context.Context, r *QueuedTaskRunner, fn Producer[T]) (*ProducerTask[T], error) {
	return PostProducerTaskNamedWithPriority(r, resolveTaskName(fn, ""), fn, PriorityFromContext(ctx, r.DefaultPriority()))
}

// PostProducerTaskNamedWithPriority submits a named fn at priority p.
func PostProducerTaskNamedWithPriority[T any](r *QueuedTaskRunner, name string, fn Producer[T], p TaskPriority) (*ProducerTask[T], error) {
	if fn == nil {
		return nil, ErrNilTask
	}
	t := newProducerTask(resolveTaskName(fn, name), fn, p)
	if err := r.enqueue(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *QueuedTaskRunner) enqueue(item executable) error {
	item.base().runner = r

	s := r.signals
	s.mu.Lock()
	if r.closed.Load() {
		s.mu.Unlock()
		r.reject(item, RejectReasonClosed)
		return ErrRunnerClosed
	}
	r.queue.Push(item)
	depth := r.queue.Len()
	s.newWork.Broadcast()
	s.mu.Unlock()

	r.safely("metrics", func() {
		r.metrics.RecordQueueDepth(r.name, depth)
	})
	return nil
}

func (r *QueuedTaskRunner) reject(item WorkItem, reason string) {
	r.rejectedCount.Add(1)
	r.safely("metrics", func() {
		r.metrics.RecordTaskRejected(r.name, reason)
	})
	r.safely("rejected task handler", func() {
		r.rejected.HandleRejectedTask(r.name, item.Name(), reason)
	})
}

// discard releases the joiners of items that will never run.
func (r *QueuedTaskRunner) discard(items []WorkItem) {
	for _, item := range items {
		item.base().discard()
		r.reject(item, RejectReasonDiscarded)
	}
}

// =============================================================================
// Suspend / Resume
// =============================================================================

// Suspend stops the worker from starting new tasks and waits until the running task,
// if any, has finished. The worker is raised to the caller priority (see WithPriority)
// meanwhile.
func (r *QueuedTaskRunner) Suspend(ctx context.Context) error {
	return r.SuspendWithPriority(ctx, true, PriorityFromContext(ctx, r.DefaultPriority()))
}

// SuspendWithMode suspends immediately (see Suspend) or, when immediate is false, once
// every task queued before the call has run.
func (r *QueuedTaskRunner) SuspendWithMode(ctx context.Context, immediate bool) error {
	return r.SuspendWithPriority(ctx, immediate, PriorityFromContext(ctx, r.DefaultPriority()))
}

// SuspendWithPriority is SuspendWithMode with an explicit priority for the worker
// (immediate) or for the suspension marker task (deferred).
//
// When it returns nil, no task is running and none will start until Resume.
// Called from a task of this runner it only arranges the suspension: the calling task
// is the one running.
func (r *QueuedTaskRunner) SuspendWithPriority(ctx context.Context, immediate bool, p TaskPriority) error {
	if immediate {
		return r.suspendNow(ctx, p)
	}
	return r.suspendDeferred(ctx, p)
}

func (r *QueuedTaskRunner) suspendNow(ctx context.Context, p TaskPriority) error {
	s := r.signals
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.closed.Load() {
		return ErrRunnerClosed
	}
	r.suspended.Store(true)
	s.newWork.Broadcast()
	w := r.worker
	r.setWorkerPriorityLocked(w, p)

	if r.isWorkerContext(ctx) {
		return nil
	}
	return s.waitUntil(ctx, s.taskFinished, "suspend", func() bool {
		return r.current == nil || w.exited
	})
}

func (r *QueuedTaskRunner) suspendDeferred(ctx context.Context, p TaskPriority) error {
	var superseded bool
	marker := newTask("suspend", func(ctx context.Context) error {
		s := r.signals
		s.mu.Lock()
		defer s.mu.Unlock()
		// A graceful stop queued behind this marker wins: the worker must reach it.
		if w, _ := ctx.Value(workerKey).(*worker); w != nil && w.draining {
			superseded = true
			return nil
		}
		r.suspended.Store(true)
		return nil
	}, p)
	if err := r.enqueue(marker); err != nil {
		return err
	}

	err := marker.Join(ctx)
	if errors.Is(err, ErrSelfJoin) {
		return nil
	}
	if err == nil && superseded && r.closed.Load() {
		return ErrRunnerClosed
	}
	return err
}

// Resume lets the worker continue with the queued tasks.
func (r *QueuedTaskRunner) Resume() error {
	s := r.signals
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.closed.Load() {
		return ErrRunnerClosed
	}
	r.suspended.Store(false)
	s.resumeRequested.Broadcast()
	return nil
}

// =============================================================================
// Priority
// =============================================================================

// ChangePriority sets the default priority, applies it to the worker thread and to every
// task still waiting in the queue. The running task keeps its own priority.
func (r *QueuedTaskRunner) ChangePriority(p TaskPriority) error {
	s := r.signals
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.closed.Load() {
		return ErrRunnerClosed
	}
	p = p.Clamp()
	r.defaultPriority.Store(int32(p))
	r.setWorkerPriorityLocked(r.worker, p)
	r.reprioritizePendingLocked(p)
	return nil
}

func (r *QueuedTaskRunner) reprioritizePendingLocked(p TaskPriority) {
	r.queue.ForEach(func(item WorkItem) {
		item.base().setPriority(p)
	})
}

// WaitForTasksEnding raises the worker and every pending task to p, blocks until the
// queue is empty and no task is running, then puts the worker back on the default priority.
//
// It returns ErrSelfJoin when called from a task of this runner, since that task would
// have to finish first.
func (r *QueuedTaskRunner) WaitForTasksEnding(ctx context.Context, p TaskPriority) error {
	if r.isWorkerContext(ctx) {
		return ErrSelfJoin
	}

	s := r.signals
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.closed.Load() {
		return ErrRunnerClosed
	}
	w := r.worker
	r.setWorkerPriorityLocked(w, p)
	r.reprioritizePendingLocked(p)

	drained := func() bool { return r.queue.IsEmpty() && r.current == nil }
	err := s.waitUntil(ctx, s.queueDrained, "wait for tasks ending", func() bool {
		return r.closed.Load() || drained()
	})

	if r.worker == w && !w.exited {
		r.setWorkerPriorityLocked(w, r.DefaultPriority())
	}
	if err != nil {
		return err
	}
	if !drained() {
		return ErrRunnerClosed
	}
	return nil
}

// WaitIdle is WaitForTasksEnding at the caller priority.
func (r *QueuedTaskRunner) WaitIdle(ctx context.Context) error {
	return r.WaitForTasksEnding(ctx, PriorityFromContext(ctx, r.DefaultPriority()))
}

// =============================================================================
// Shutdown and Lifecycle Management
// =============================================================================

// Shutdown stops the runner.
//
// With waitForCompletion, every task queued before the call runs first (a suspended runner
// is resumed for that); otherwise the running task finishes and the pending ones are
// discarded, their joiners receiving ErrTaskDiscarded. Either way submissions made after
// the call fail with ErrRunnerClosed and Shutdown waits for the worker to exit, bounded by ctx.
//
// On a protected runner Shutdown only replaces the worker; see NewProtectedQueuedTaskRunner.
func (r *QueuedTaskRunner) Shutdown(ctx context.Context, waitForCompletion bool) error {
	if r.protected {
		return r.restart(ctx, waitForCompletion)
	}
	return r.shutdown(ctx, waitForCompletion)
}

// Close is Shutdown with waitForCompletion and no deadline.
func (r *QueuedTaskRunner) Close() error {
	return r.Shutdown(context.Background(), true)
}

func (r *QueuedTaskRunner) shutdown(ctx context.Context, graceful bool) error {
	w, err := r.stop(ctx, graceful, true)
	if err != nil {
		return err
	}

	if r.isWorkerContext(ctx) {
		// The calling task is running on w; it exits once this task returns.
		go r.releaseAfter(w)
		return nil
	}
	if err := r.awaitWorker(ctx, w); err != nil {
		go r.releaseAfter(w)
		return err
	}
	r.release()
	return nil
}

// stop arranges for the current worker to exit and returns it. final marks the runner
// closed; otherwise submissions keep being queued for the next worker.
func (r *QueuedTaskRunner) stop(ctx context.Context, graceful, final bool) (*worker, error) {
	p := PriorityFromContext(ctx, r.DefaultPriority())

	s := r.signals
	s.mu.Lock()
	if r.closed.Load() {
		s.mu.Unlock()
		return nil, ErrRunnerClosed
	}
	if final {
		r.closed.Store(true)
	}
	w := r.worker

	if graceful {
		marker := newTask("terminate", func(ctx context.Context) error {
			var dropped []WorkItem
			s.mu.Lock()
			w.terminated = true
			if final {
				dropped = r.queue.Drain()
			}
			s.broadcastAll()
			s.mu.Unlock()

			r.discard(dropped)
			r.logger.Info("worker terminating", F("runner", r.name), F("unexecuted_tasks", len(dropped)))
			return nil
		}, p)
		marker.runner = r
		r.queue.Push(marker)
		w.draining = true
		r.suspended.Store(false)
		s.broadcastAll()
		s.mu.Unlock()
		return w, nil
	}

	w.terminated = true
	dropped := r.queue.Drain()
	r.suspended.Store(false)
	r.setWorkerPriorityLocked(w, p)
	s.broadcastAll()
	s.mu.Unlock()

	r.discard(dropped)
	r.logger.Info("worker terminating", F("runner", r.name), F("unexecuted_tasks", len(dropped)))
	return w, nil
}

func (r *QueuedTaskRunner) awaitWorker(ctx context.Context, w *worker) error {
	select {
	case <-w.stopped:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: waiting for worker exit: %w", ErrInterrupted, ctx.Err())
	}
}

func (r *QueuedTaskRunner) releaseAfter(w *worker) {
	<-w.stopped
	r.release()
}

// release drops whatever is left in the queue of a closed runner.
func (r *QueuedTaskRunner) release() {
	s := r.signals
	s.mu.Lock()
	leftover := r.queue.Drain()
	r.queue.MaybeCompact()
	s.broadcastAll()
	s.mu.Unlock()

	r.discard(leftover)
	r.logger.Debug("runner closed", F("runner", r.name), F("executed_tasks", r.executed.Load()))
}
