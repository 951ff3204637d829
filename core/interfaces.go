package core

import (
	"context"
	"time"
)

// =============================================================================
// PanicHandler: Interface for handling task panics
// =============================================================================

// PanicHandler is called when a task panics during execution.
// This allows custom panic handling, logging, and recovery strategies.
//
// Implementations should be thread-safe as they may be called from several runners.
type PanicHandler interface {
	// HandlePanic is called on the worker goroutine after a task panicked.
	//
	// Parameters:
	// - ctx: The context the panicked task received (carries the current runner)
	// - runnerName: The name of the runner where the panic occurred
	// - taskName: The name of the task
	// - panicInfo: The panic value recovered from the task
	// - stackTrace: The stack trace at the time of panic
	HandlePanic(ctx context.Context, runnerName string, taskName string, panicInfo any, stackTrace []byte)
}

// DefaultPanicHandler logs panics through a Logger.
type DefaultPanicHandler struct {
	Logger Logger
}

// HandlePanic logs the panic with its stack trace.
func (h *DefaultPanicHandler) HandlePanic(ctx context.Context, runnerName string, taskName string, panicInfo any, stackTrace []byte) {
	logger := h.Logger
	if logger == nil {
		logger = NewDefaultLogger()
	}
	logger.Error("task panicked",
		F("runner", runnerName),
		F("task", taskName),
		F("panic", panicInfo),
		F("stack", string(stackTrace)),
	)
}

// =============================================================================
// Metrics: Interface for observability and monitoring
// =============================================================================

// Metrics defines the interface for collecting task execution metrics.
// Implementations can send metrics to monitoring systems (Prometheus, StatsD, etc.).
//
// Methods should be non-blocking and fast: they run on the worker goroutine.
type Metrics interface {
	// RecordTaskDuration records how long a task took to execute.
	RecordTaskDuration(runnerName string, priority TaskPriority, duration time.Duration)

	// RecordTaskFailure records a task that returned an error or panicked.
	RecordTaskFailure(runnerName string, err *TaskExecutionError)

	// RecordQueueDepth records the current number of pending items.
	RecordQueueDepth(runnerName string, depth int)

	// RecordTaskRejected records a submission refused by a closed runner, or an
	// item discarded by an immediate shutdown.
	RecordTaskRejected(runnerName string, reason string)

	// RecordWorkerPriority records the priority applied to the worker thread. It is
	// called with the runner's lock held and must not call back into the runner.
	RecordWorkerPriority(runnerName string, priority TaskPriority)
}

// NilMetrics provides a no-op metrics implementation that does nothing.
// This is the default when no metrics interface is provided.
type NilMetrics struct{}

// RecordTaskDuration is a no-op.
func (m *NilMetrics) RecordTaskDuration(runnerName string, priority TaskPriority, duration time.Duration) {
}

// RecordTaskFailure is a no-op.
func (m *NilMetrics) RecordTaskFailure(runnerName string, err *TaskExecutionError) {
}

// RecordQueueDepth is a no-op.
func (m *NilMetrics) RecordQueueDepth(runnerName string, depth int) {
}

// RecordTaskRejected is a no-op.
func (m *NilMetrics) RecordTaskRejected(runnerName string, reason string) {
}

// RecordWorkerPriority is a no-op.
func (m *NilMetrics) RecordWorkerPriority(runnerName string, priority TaskPriority) {
}

// Rejection reasons passed to Metrics and RejectedTaskHandler.
const (
	RejectReasonClosed    = "closed"
	RejectReasonDiscarded = "discarded"
)

// =============================================================================
// RejectedTaskHandler: Interface for handling rejected tasks
// =============================================================================

// RejectedTaskHandler is called when a task is rejected by the runner.
// This happens when:
// - A task is submitted after Shutdown was called
// - A pending task is discarded by an immediate shutdown
//
// Implementations should be thread-safe as they may be called concurrently.
type RejectedTaskHandler interface {
	HandleRejectedTask(runnerName string, taskName string, reason string)
}

// DefaultRejectedTaskHandler logs rejected tasks at warn level.
type DefaultRejectedTaskHandler struct {
	Logger Logger
}

// HandleRejectedTask logs the rejected task.
func (h *DefaultRejectedTaskHandler) HandleRejectedTask(runnerName string, taskName string, reason string) {
	logger := h.Logger
	if logger == nil {
		logger = NewDefaultLogger()
	}
	logger.Warn("task rejected", F("runner", runnerName), F("task", taskName), F("reason", reason))
}

// =============================================================================
// QueuedTaskRunnerConfig
// =============================================================================

// QueuedTaskRunnerConfig holds configuration options for QueuedTaskRunner.
// Zero-valued fields are replaced by defaults.
type QueuedTaskRunnerConfig struct {
	// Name identifies the runner in logs and metrics.
	Name string

	// Priority is the initial default priority of submitted tasks and of the worker.
	Priority TaskPriority

	// HistoryCapacity bounds the number of kept execution records.
	HistoryCapacity int

	// Logger defaults to a logrus-backed DefaultLogger.
	Logger Logger

	// PanicHandler is called when a task panics. Defaults to DefaultPanicHandler.
	PanicHandler PanicHandler

	// Metrics is called to record task execution metrics. Defaults to NilMetrics.
	Metrics Metrics

	// RejectedTaskHandler is called when a task is rejected. Defaults to DefaultRejectedTaskHandler.
	RejectedTaskHandler RejectedTaskHandler

	// ThreadPrioritizer maps task priorities onto the worker's OS thread.
	// Defaults to the platform implementation.
	ThreadPrioritizer ThreadPrioritizer
}

// DefaultQueuedTaskRunnerConfig returns a config with default handlers.
func DefaultQueuedTaskRunnerConfig() *QueuedTaskRunnerConfig {
	logger := NewDefaultLogger()
	return &QueuedTaskRunnerConfig{
		Name:                "queued-task-runner",
		Priority:            TaskPriorityUserVisible,
		HistoryCapacity:     defaultTaskHistoryCapacity,
		Logger:              logger,
		PanicHandler:        &DefaultPanicHandler{Logger: logger},
		Metrics:             &NilMetrics{},
		RejectedTaskHandler: &DefaultRejectedTaskHandler{Logger: logger},
		ThreadPrioritizer:   NewOSThreadPrioritizer(),
	}
}

// withDefaults returns a copy of cfg with every unset field filled in.
func (cfg *QueuedTaskRunnerConfig) withDefaults() QueuedTaskRunnerConfig {
	def := DefaultQueuedTaskRunnerConfig()
	if cfg == nil {
		return *def
	}
	out := *cfg
	if out.Name == "" {
		out.Name = def.Name
	}
	if out.Priority == 0 {
		out.Priority = def.Priority
	}
	out.Priority = out.Priority.Clamp()
	if out.HistoryCapacity <= 0 {
		out.HistoryCapacity = def.HistoryCapacity
	}
	if out.Logger == nil {
		out.Logger = def.Logger
	}
	if out.PanicHandler == nil {
		out.PanicHandler = &DefaultPanicHandler{Logger: out.Logger}
	}
	if out.Metrics == nil {
		out.Metrics = def.Metrics
	}
	if out.RejectedTaskHandler == nil {
		out.RejectedTaskHandler = &DefaultRejectedTaskHandler{Logger: out.Logger}
	}
	if out.ThreadPrioritizer == nil {
		out.ThreadPrioritizer = def.ThreadPrioritizer
	}
	return out
}
