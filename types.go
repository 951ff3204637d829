package queuedtasks

import "github.com/Swind/go-queued-tasks/core"

// Re-export commonly used types from core package for convenience.
// This allows users to import only the queuedtasks package for most use cases.

// QueuedTaskRunner executes tasks one at a time on a dedicated worker
type QueuedTaskRunner = core.QueuedTaskRunner

// QueuedTaskRunnerConfig configures a QueuedTaskRunner
type QueuedTaskRunnerConfig = core.QueuedTaskRunnerConfig

// Owner can really shut down a protected runner
type Owner = core.Owner

// Task is a fire-and-forget work item
type Task = core.Task

// ProducerTask is a work item that yields a result
type ProducerTask[T any] = core.ProducerTask[T]

// Runnable is the body of a Task
type Runnable = core.Runnable

// Producer is the body of a ProducerTask
type Producer[T any] = core.Producer[T]

// TaskPriority is the OS scheduling weight of the worker while a task runs
type TaskPriority = core.TaskPriority

// Reply receives the outcome of the task it follows
type Reply = core.Reply

// ReplyWithResult receives the value and outcome of the producer it follows
type ReplyWithResult[T any] = core.ReplyWithResult[T]

// TaskExecutionError reports a task that returned an error or panicked
type TaskExecutionError = core.TaskExecutionError

// Priority constants
const (
	TaskPriorityBestEffort   TaskPriority = core.TaskPriorityBestEffort
	TaskPriorityUserVisible  TaskPriority = core.TaskPriorityUserVisible
	TaskPriorityUserBlocking TaskPriority = core.TaskPriorityUserBlocking
)

// Errors
var (
	ErrRunnerClosed  = core.ErrRunnerClosed
	ErrInterrupted   = core.ErrInterrupted
	ErrSelfJoin      = core.ErrSelfJoin
	ErrTaskDiscarded = core.ErrTaskDiscarded
	ErrNilTask       = core.ErrNilTask
)

// NewQueuedTaskRunner creates a runner and starts its worker.
func NewQueuedTaskRunner(cfg *QueuedTaskRunnerConfig) *QueuedTaskRunner {
	return core.NewQueuedTaskRunner(cfg)
}

// NewProtectedQueuedTaskRunner creates a runner that only its Owner can close.
func NewProtectedQueuedTaskRunner(cfg *QueuedTaskRunnerConfig) (*QueuedTaskRunner, *Owner) {
	return core.NewProtectedQueuedTaskRunner(cfg)
}

// PostProducerTask submits fn at the runner's default priority.
func PostProducerTask[T any](r *QueuedTaskRunner, fn Producer[T]) (*ProducerTask[T], error) {
	return core.PostProducerTask(r, fn)
}

// PostProducerTaskWithPriority submits fn at priority p.
func PostProducerTaskWithPriority[T any](r *QueuedTaskRunner, fn Producer[T], p TaskPriority) (*ProducerTask[T], error) {
	return core.PostProducerTaskWithPriority(r, fn, p)
}

// PostTaskAndReply runs work on target, then posts reply to replyRunner
var PostTaskAndReply = core.PostTaskAndReply

// PostProducerTaskAndReply runs fn on target, then posts reply with its result to replyRunner.
func PostProducerTaskAndReply[T any](target *QueuedTaskRunner, fn Producer[T], reply ReplyWithResult[T], replyRunner *QueuedTaskRunner) (*ProducerTask[T], error) {
	return core.PostProducerTaskAndReply(target, fn, reply, replyRunner)
}

// GetCurrentRunner returns the runner executing the task that received ctx
var GetCurrentRunner = core.GetCurrentRunner

// WithPriority attaches a caller priority to ctx
var WithPriority = core.WithPriority

// PriorityFromContext returns the caller priority carried by ctx, or fallback
var PriorityFromContext = core.PriorityFromContext
