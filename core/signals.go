package core

import (
	"context"
	"fmt"
	"sync"
)

// signalSet holds the condition variables used for handshakes between the worker and
// callers. All of them share mu, which also guards the runner's queue transitions and its
// suspended/terminated/current fields. Every state change is made with mu held and followed
// by a Broadcast before mu is released, so no waiter can miss a wakeup.
type signalSet struct {
	mu sync.Mutex

	// newWork is signaled when an item is queued or the runner terminates.
	newWork *sync.Cond
	// queueDrained is signaled when the worker finds the queue empty with nothing running.
	queueDrained *sync.Cond
	// taskFinished is signaled after every executed item.
	taskFinished *sync.Cond
	// resumeRequested is signaled when the suspended flag is cleared.
	resumeRequested *sync.Cond
}

func newSignalSet() *signalSet {
	s := &signalSet{}
	s.newWork = sync.NewCond(&s.mu)
	s.queueDrained = sync.NewCond(&s.mu)
	s.taskFinished = sync.NewCond(&s.mu)
	s.resumeRequested = sync.NewCond(&s.mu)
	return s
}

// broadcastAll wakes every waiter. s.mu must be held.
func (s *signalSet) broadcastAll() {
	s.newWork.Broadcast()
	s.queueDrained.Broadcast()
	s.taskFinished.Broadcast()
	s.resumeRequested.Broadcast()
}

// waitUntil blocks on c until done reports true or ctx is done. s.mu must be held;
// it is held again on return.
func (s *signalSet) waitUntil(ctx context.Context, c *sync.Cond, op string, done func() bool) error {
	if done() {
		return nil
	}
	if ctx.Done() != nil {
		stop := context.AfterFunc(ctx, func() {
			s.mu.Lock()
			c.Broadcast()
			s.mu.Unlock()
		})
		defer stop()
	}
	for !done() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInterrupted, op, err)
		}
		c.Wait()
	}
	return nil
}
