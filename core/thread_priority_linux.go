//go:build linux

package core

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// LinuxThreadPrioritizer sets the nice value of a single thread. Linux applies
// setpriority(PRIO_PROCESS, tid) to the thread rather than to the whole process.
//
// Raising priority above the current nice value needs CAP_SYS_NICE; the error is returned
// and the runner logs it at debug level.
type LinuxThreadPrioritizer struct{}

// NewOSThreadPrioritizer returns the platform ThreadPrioritizer.
func NewOSThreadPrioritizer() ThreadPrioritizer {
	return LinuxThreadPrioritizer{}
}

func (LinuxThreadPrioritizer) CurrentThread() int {
	return unix.Gettid()
}

func (LinuxThreadPrioritizer) SetThreadPriority(thread int, priority TaskPriority) error {
	if thread <= 0 {
		return nil
	}
	if err := unix.Setpriority(unix.PRIO_PROCESS, thread, niceValue(priority)); err != nil {
		return fmt.Errorf("setpriority tid=%d nice=%d: %w", thread, niceValue(priority), err)
	}
	return nil
}
