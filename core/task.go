package core

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Runnable is the body of a fire-and-forget Task.
type Runnable func(ctx context.Context) error

// Producer is the body of a ProducerTask. It yields a result of type T.
type Producer[T any] func(ctx context.Context) (T, error)

// =============================================================================
// TaskPriority: OS scheduling weight of the worker while a task runs
// =============================================================================

type TaskPriority int

const (
	// TaskPriorityBestEffort: Lowest priority
	TaskPriorityBestEffort TaskPriority = 1

	// TaskPriorityUserVisible: Default priority
	TaskPriorityUserVisible TaskPriority = 5

	// TaskPriorityUserBlocking: Highest priority
	// A caller is blocked on the result, so the worker should run as fast as the OS allows.
	TaskPriorityUserBlocking TaskPriority = 10
)

// Clamp bounds p to [TaskPriorityBestEffort, TaskPriorityUserBlocking].
func (p TaskPriority) Clamp() TaskPriority {
	return min(max(p, TaskPriorityBestEffort), TaskPriorityUserBlocking)
}

// =============================================================================
// TaskID
// =============================================================================

// TaskID identifies a submitted work item.
type TaskID uuid.UUID

// GenerateTaskID returns a new random TaskID.
func GenerateTaskID() TaskID {
	return TaskID(uuid.New())
}

func (id TaskID) String() string {
	return uuid.UUID(id).String()
}

// IsZero reports whether id is the zero value.
func (id TaskID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}

// =============================================================================
// WorkItem: common lifecycle of Task and ProducerTask
// =============================================================================

// TaskState is the lifecycle state of a work item.
type TaskState int32

const (
	TaskStatePending TaskState = iota
	TaskStateRunning
	TaskStateFinished
	TaskStateDiscarded
)

func (s TaskState) String() string {
	switch s {
	case TaskStatePending:
		return "pending"
	case TaskStateRunning:
		return "running"
	case TaskStateFinished:
		return "finished"
	case TaskStateDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// WorkItem is the unit the runner queues. Task and ProducerTask implement it.
type WorkItem interface {
	ID() TaskID
	Name() string
	Priority() TaskPriority
	State() TaskState
	IsFinished() bool
	Done() <-chan struct{}

	base() *taskBase
}

type taskBase struct {
	id       TaskID
	name     string
	priority atomic.Int32
	state    atomic.Int32

	// runner is the runner whose worker executes this item. Used to detect self-join.
	runner *QueuedTaskRunner

	doneOnce sync.Once
	done     chan struct{}
	err      error
}

// init sets up b in place; taskBase holds atomics and a sync.Once and must not be copied.
func (b *taskBase) init(name string, priority TaskPriority) {
	b.id = GenerateTaskID()
	b.name = name
	b.done = make(chan struct{})
	b.priority.Store(int32(priority.Clamp()))
}

func (b *taskBase) base() *taskBase { return b }

// ID returns the task id.
func (b *taskBase) ID() TaskID { return b.id }

// Name returns the task name.
func (b *taskBase) Name() string { return b.name }

// Priority returns the priority the worker adopts when it runs this item.
func (b *taskBase) Priority() TaskPriority { return TaskPriority(b.priority.Load()) }

func (b *taskBase) setPriority(p TaskPriority) { b.priority.Store(int32(p.Clamp())) }

// State returns the lifecycle state.
func (b *taskBase) State() TaskState { return TaskState(b.state.Load()) }

// IsFinished reports whether the body has run to completion (successfully or not).
func (b *taskBase) IsFinished() bool { return b.State() == TaskStateFinished }

// Done is closed once the item is finished or discarded.
func (b *taskBase) Done() <-chan struct{} { return b.done }

// Err returns the failure of a finished item, ErrTaskDiscarded for a discarded one,
// and nil otherwise.
func (b *taskBase) Err() error {
	select {
	case <-b.done:
		return b.err
	default:
		return nil
	}
}

func (b *taskBase) complete(state TaskState, err error) {
	b.doneOnce.Do(func() {
		b.err = err
		b.state.Store(int32(state))
		close(b.done)
	})
}

func (b *taskBase) discard() {
	b.complete(TaskStateDiscarded, ErrTaskDiscarded)
}

// run executes body, turning a returned error or a panic into a *TaskExecutionError.
// The item is marked finished in every case so joiners are always released. finish, if
// set, sees the outcome before joiners do.
func (b *taskBase) run(ctx context.Context, body func(ctx context.Context) error, finish func(err error)) (err error) {
	b.state.Store(int32(TaskStateRunning))
	defer func() {
		if rec := recover(); rec != nil {
			err = &TaskExecutionError{
				TaskID: b.id,
				Name:   b.name,
				Panic:  rec,
				Stack:  debug.Stack(),
			}
		}
		if finish != nil {
			finish(err)
		}
		b.complete(TaskStateFinished, err)
	}()

	if cause := body(ctx); cause != nil {
		return &TaskExecutionError{TaskID: b.id, Name: b.name, Cause: cause}
	}
	return nil
}

// wait blocks until the item is done, unless the caller is the worker that runs it.
func (b *taskBase) wait(ctx context.Context, ignoreCaller bool) error {
	select {
	case <-b.done:
		return b.err
	default:
	}

	if !ignoreCaller && b.runner != nil && b.runner.isWorkerContext(ctx) {
		return ErrSelfJoin
	}

	select {
	case <-b.done:
		return b.err
	case <-ctx.Done():
		return fmt.Errorf("%w: join %s: %w", ErrInterrupted, b.id, ctx.Err())
	}
}

// =============================================================================
// Task
// =============================================================================

// Task is a fire-and-forget work item.
type Task struct {
	taskBase
	body Runnable
}

var _ WorkItem = (*Task)(nil)

func newTask(name string, body Runnable, priority TaskPriority) *Task {
	t := &Task{body: body}
	t.init(name, priority)
	return t
}

func (t *Task) execute(ctx context.Context, finish func(err error)) error {
	body := t.body
	t.body = nil
	return t.run(ctx, body, finish)
}

// Join blocks until the task has finished and returns its failure, if any.
// Called from the runner's own worker on an unfinished task it returns ErrSelfJoin
// immediately instead of deadlocking.
func (t *Task) Join(ctx context.Context) error {
	return t.wait(ctx, false)
}

// JoinIgnoringCaller is Join without the self-join short-circuit.
func (t *Task) JoinIgnoringCaller(ctx context.Context) error {
	return t.wait(ctx, true)
}

// =============================================================================
// ProducerTask
// =============================================================================

// ProducerTask is a work item that yields a result.
type ProducerTask[T any] struct {
	taskBase
	body   Producer[T]
	result T
}

func newProducerTask[T any](name string, body Producer[T], priority TaskPriority) *ProducerTask[T] {
	t := &ProducerTask[T]{body: body}
	t.init(name, priority)
	return t
}

func (t *ProducerTask[T]) execute(ctx context.Context, finish func(err error)) error {
	body := t.body
	t.body = nil
	return t.run(ctx, func(ctx context.Context) error {
		v, err := body(ctx)
		t.result = v
		return err
	}, finish)
}

// Join blocks until the task has finished and returns the produced value.
// See Task.Join for the self-join behavior.
func (t *ProducerTask[T]) Join(ctx context.Context) (T, error) {
	return t.join(ctx, false)
}

// JoinIgnoringCaller is Join without the self-join short-circuit.
func (t *ProducerTask[T]) JoinIgnoringCaller(ctx context.Context) (T, error) {
	return t.join(ctx, true)
}

func (t *ProducerTask[T]) join(ctx context.Context, ignoreCaller bool) (T, error) {
	if err := t.wait(ctx, ignoreCaller); err != nil {
		var zero T
		if t.IsFinished() {
			return t.result, err
		}
		return zero, err
	}
	return t.result, nil
}

// Get returns the result without waiting. ok is false until the task has finished.
func (t *ProducerTask[T]) Get() (v T, ok bool) {
	if !t.IsFinished() {
		return v, false
	}
	return t.result, true
}

// executable is implemented by every concrete WorkItem.
type executable interface {
	WorkItem
	// execute runs the body once. finish is called with the outcome before joiners
	// are released; it may be nil.
	execute(ctx context.Context, finish func(err error)) error
}

var (
	_ executable = (*Task)(nil)
	_ executable = (*ProducerTask[int])(nil)
)

// =============================================================================
// Context Helper
// =============================================================================

type workerKeyType struct{}

var workerKey workerKeyType

type priorityKeyType struct{}

var priorityKey priorityKeyType

// GetCurrentRunner returns the runner whose worker is executing the task that received ctx.
func GetCurrentRunner(ctx context.Context) *QueuedTaskRunner {
	if w, ok := ctx.Value(workerKey).(*worker); ok {
		return w.runner
	}
	return nil
}

// WithPriority attaches a caller priority to ctx. Operations that act "at caller priority"
// read it back with PriorityFromContext.
func WithPriority(ctx context.Context, p TaskPriority) context.Context {
	return context.WithValue(ctx, priorityKey, p.Clamp())
}

// PriorityFromContext returns the priority attached to ctx, or fallback when there is none.
// Task bodies receive a ctx carrying their own priority.
func PriorityFromContext(ctx context.Context, fallback TaskPriority) TaskPriority {
	if p, ok := ctx.Value(priorityKey).(TaskPriority); ok {
		return p
	}
	return fallback
}
