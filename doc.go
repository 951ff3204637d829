// Package queuedtasks runs tasks one at a time, in submission order, on a dedicated
// worker goroutine locked to its own OS thread.
//
// A QueuedTaskRunner is the Go counterpart of a "background thread with a queue": callers
// on any goroutine submit tasks and get back a handle they can join. The runner adds
// controls around that queue:
//
//   - Suspend/Resume between tasks, immediately or behind the work already queued
//   - Per-task priorities (1..10) applied to the worker thread's nice value while the task runs
//   - ChangePriority and WaitForTasksEnding to re-prioritize or drain pending work
//   - Graceful or immediate Shutdown, and a protected variant only its Owner can close
//
// # Quick Start
//
//	runner := queuedtasks.NewQueuedTaskRunner(nil)
//	defer runner.Close()
//
//	task, _ := queuedtasks.PostProducerTask(runner, func(ctx context.Context) (int, error) {
//		return 42, nil
//	})
//	v, err := task.Join(ctx)
//
// # Priorities
//
// Priorities never reorder the queue. They set how hard the OS schedules the worker
// while a given task runs. On Linux, raising a thread above its current nice value needs
// CAP_SYS_NICE; without it the runner keeps working at the previous priority.
//
// # Joining from a task
//
// A task may submit more work to its own runner. Joining that work from inside the task
// would wait on the very worker running it, so Join returns ErrSelfJoin instead of blocking.
//
// # Background runner
//
// InitBackgroundRunner creates a process-wide protected runner. Library code can call
// Close on it freely; only ShutdownBackgroundRunner ends it.
package queuedtasks
