package core

// ThreadPrioritizer applies task priorities to the worker's OS thread.
//
// The worker goroutine is locked to its OS thread for its whole life. CurrentThread is
// called once on that goroutine; SetThreadPriority may then be called from any goroutine
// with the returned handle.
type ThreadPrioritizer interface {
	CurrentThread() int
	SetThreadPriority(thread int, priority TaskPriority) error
}

// niceValue maps a priority onto a Unix nice value: UserVisible is 0, each step is 2.
func niceValue(p TaskPriority) int {
	return (int(TaskPriorityUserVisible) - int(p.Clamp())) * 2
}

// NoopThreadPrioritizer ignores priorities. Used where the OS offers no per-thread control.
type NoopThreadPrioritizer struct{}

func (NoopThreadPrioritizer) CurrentThread() int { return 0 }

func (NoopThreadPrioritizer) SetThreadPriority(thread int, priority TaskPriority) error { return nil }
