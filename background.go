package queuedtasks

import (
	"context"
	"io"
	"sync"

	"github.com/Swind/go-queued-tasks/config"
	"github.com/Swind/go-queued-tasks/core"
)

// =============================================================================
// Background Runner Helper (Singleton)
// =============================================================================

var (
	backgroundRunner *core.QueuedTaskRunner
	backgroundOwner  *core.Owner
	backgroundMu     sync.Mutex
)

// InitBackgroundRunner creates the process-wide background runner.
// The runner is protected: Shutdown or Close on it only restarts its worker,
// only ShutdownBackgroundRunner closes it. Repeated calls are no-ops.
func InitBackgroundRunner(cfg *QueuedTaskRunnerConfig) {
	backgroundMu.Lock()
	defer backgroundMu.Unlock()

	if backgroundRunner != nil {
		return // Already initialized
	}

	c := QueuedTaskRunnerConfig{Name: "background", Priority: TaskPriorityBestEffort}
	if cfg != nil {
		c = *cfg
	}
	backgroundRunner, backgroundOwner = core.NewProtectedQueuedTaskRunner(&c)
}

// BackgroundRunner returns the background runner.
// It panics if InitBackgroundRunner has not been called.
func BackgroundRunner() *QueuedTaskRunner {
	backgroundMu.Lock()
	defer backgroundMu.Unlock()

	if backgroundRunner == nil {
		panic("BackgroundRunner not initialized. Call InitBackgroundRunner() first.")
	}
	return backgroundRunner
}

// ShutdownBackgroundRunner gracefully closes the background runner, bounded by ctx.
// A later InitBackgroundRunner creates a new one.
func ShutdownBackgroundRunner(ctx context.Context) error {
	backgroundMu.Lock()
	defer backgroundMu.Unlock()

	if backgroundOwner == nil {
		return nil
	}
	err := backgroundOwner.Shutdown(ctx, true)
	backgroundRunner, backgroundOwner = nil, nil
	return err
}

// NewRunnerFromConfig creates a runner from a loaded config, logging to w.
// The Owner is nil unless cfg.Protected is set.
func NewRunnerFromConfig(cfg config.Config, w io.Writer) (*QueuedTaskRunner, *Owner) {
	rc := cfg.RunnerConfig(w)
	if cfg.Protected {
		return core.NewProtectedQueuedTaskRunner(rc)
	}
	return core.NewQueuedTaskRunner(rc), nil
}
