package core

import "time"

// TaskExecutionRecord captures a completed task execution event.
type TaskExecutionRecord struct {
	TaskID     TaskID
	Name       string
	RunnerName string
	Priority   TaskPriority
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
	Failed     bool
	Panicked   bool
}

// RunnerState is the worker loop state.
type RunnerState int32

const (
	// RunnerStateIdle: queue empty, waiting for new work
	RunnerStateIdle RunnerState = iota
	// RunnerStateDraining: executing or about to execute queued items
	RunnerStateDraining
	// RunnerStateSuspended: waiting for Resume between items
	RunnerStateSuspended
	// RunnerStateTerminated: worker loop has exited
	RunnerStateTerminated
)

func (s RunnerState) String() string {
	switch s {
	case RunnerStateIdle:
		return "idle"
	case RunnerStateDraining:
		return "draining"
	case RunnerStateSuspended:
		return "suspended"
	case RunnerStateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// RunnerStats represents runtime observability state for a runner.
type RunnerStats struct {
	Name           string
	Type           string
	State          RunnerState
	Pending        int
	Running        int
	Rejected       int64
	Executed       int64
	Failed         int64
	Restarts       int64
	Closed         bool
	Suspended      bool
	Protected      bool
	Priority       TaskPriority
	WorkerPriority TaskPriority
	LastTaskName   string
	LastTaskAt     time.Time
}
