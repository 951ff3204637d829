//go:build !linux

package core

// NewOSThreadPrioritizer returns the platform ThreadPrioritizer.
func NewOSThreadPrioritizer() ThreadPrioritizer {
	return NoopThreadPrioritizer{}
}
