package core

import (
	"errors"
	"fmt"
)

var (
	// ErrRunnerClosed is returned by every operation on a runner that has been shut down.
	ErrRunnerClosed = errors.New("queued task runner: closed")

	// ErrInterrupted is returned when a blocking wait ends because its context was done.
	// The context error is wrapped alongside it.
	ErrInterrupted = errors.New("queued task runner: interrupted while waiting")

	// ErrSelfJoin is returned by Join when the caller is the worker that would have to run
	// the joined task. Waiting would deadlock, so the result is absent.
	ErrSelfJoin = errors.New("queued task runner: join from own worker skipped")

	// ErrTaskDiscarded is reported by tasks dropped by an immediate shutdown before they started.
	ErrTaskDiscarded = errors.New("queued task runner: task discarded before execution")

	// ErrNilTask is returned when a nil body is submitted.
	ErrNilTask = errors.New("queued task runner: nil task body")
)

// TaskExecutionError reports a task body that returned an error or panicked.
// The worker logs it and moves on to the next task; joiners receive it from Join.
type TaskExecutionError struct {
	TaskID TaskID
	Name   string

	// Cause is the error returned by the body. Nil when the body panicked.
	Cause error

	// Panic is the recovered panic value, with the stack captured at recovery.
	Panic any
	Stack []byte
}

func (e *TaskExecutionError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("task %s (%s) panicked: %v", e.Name, e.TaskID, e.Panic)
	}
	return fmt.Sprintf("task %s (%s) failed: %v", e.Name, e.TaskID, e.Cause)
}

// Unwrap returns the body's error, or the panic value when it is an error.
func (e *TaskExecutionError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	if err, ok := e.Panic.(error); ok {
		return err
	}
	return nil
}

// Panicked reports whether the failure was a panic.
func (e *TaskExecutionError) Panicked() bool {
	return e.Panic != nil
}
