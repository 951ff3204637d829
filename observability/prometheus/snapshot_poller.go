package prometheus

import (
	"context"
	"sync"
	"time"

	"github.com/Swind/go-queued-tasks/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// RunnerSnapshotProvider provides current runner stats snapshots.
// *core.QueuedTaskRunner implements it.
type RunnerSnapshotProvider interface {
	Stats() core.RunnerStats
}

// SnapshotPoller periodically exports runner Stats() snapshots into Prometheus gauges.
type SnapshotPoller struct {
	interval time.Duration

	runnersMu sync.RWMutex
	runners   map[string]RunnerSnapshotProvider

	runnerPending        *prom.GaugeVec
	runnerRunning        *prom.GaugeVec
	runnerRejected       *prom.GaugeVec
	runnerExecuted       *prom.GaugeVec
	runnerFailed         *prom.GaugeVec
	runnerRestarts       *prom.GaugeVec
	runnerClosed         *prom.GaugeVec
	runnerSuspended      *prom.GaugeVec
	runnerWorkerPriority *prom.GaugeVec

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSnapshotPoller creates a snapshot poller and registers its collectors.
func NewSnapshotPoller(namespace string, reg prom.Registerer, interval time.Duration) (*SnapshotPoller, error) {
	if namespace == "" {
		namespace = defaultNamespace
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	gauge := func(name, help string) *prom.GaugeVec {
		return prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, []string{"runner", "type"})
	}

	p := &SnapshotPoller{
		interval:             interval,
		runners:              make(map[string]RunnerSnapshotProvider),
		runnerPending:        gauge("runner_pending", "Number of pending tasks per runner."),
		runnerRunning:        gauge("runner_running", "Number of running tasks per runner."),
		runnerRejected:       gauge("runner_rejected_total", "Runner rejected task count snapshot."),
		runnerExecuted:       gauge("runner_executed_total", "Runner executed task count snapshot."),
		runnerFailed:         gauge("runner_failed_total", "Runner failed task count snapshot."),
		runnerRestarts:       gauge("runner_restarts_total", "Worker replacements of protected runners."),
		runnerClosed:         gauge("runner_closed", "Runner closed state (1=closed, 0=open)."),
		runnerSuspended:      gauge("runner_suspended", "Runner suspended state (1=suspended, 0=running)."),
		runnerWorkerPriority: gauge("runner_worker_priority", "Priority last applied to the worker thread."),
	}

	for _, vec := range []**prom.GaugeVec{
		&p.runnerPending,
		&p.runnerRunning,
		&p.runnerRejected,
		&p.runnerExecuted,
		&p.runnerFailed,
		&p.runnerRestarts,
		&p.runnerClosed,
		&p.runnerSuspended,
		&p.runnerWorkerPriority,
	} {
		registered, err := registerCollector(reg, *vec)
		if err != nil {
			return nil, err
		}
		*vec = registered
	}

	return p, nil
}

// AddRunner adds or replaces a runner snapshot provider by name.
func (p *SnapshotPoller) AddRunner(name string, provider RunnerSnapshotProvider) {
	if p == nil || provider == nil {
		return
	}
	name = normalizeLabel(name, "runner")
	p.runnersMu.Lock()
	p.runners[name] = provider
	p.runnersMu.Unlock()
}

// RemoveRunner stops exporting the named runner.
func (p *SnapshotPoller) RemoveRunner(name string) {
	if p == nil {
		return
	}
	p.runnersMu.Lock()
	delete(p.runners, normalizeLabel(name, "runner"))
	p.runnersMu.Unlock()
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *SnapshotPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	p.stateMu.Unlock()

	go p.loop(pollCtx)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *SnapshotPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.running = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *SnapshotPoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

func (p *SnapshotPoller) collectOnce() {
	p.runnersMu.RLock()
	defer p.runnersMu.RUnlock()

	for name, provider := range p.runners {
		stats := provider.Stats()
		typeLabel := normalizeLabel(stats.Type, "unknown")
		p.runnerPending.WithLabelValues(name, typeLabel).Set(float64(stats.Pending))
		p.runnerRunning.WithLabelValues(name, typeLabel).Set(float64(stats.Running))
		p.runnerRejected.WithLabelValues(name, typeLabel).Set(float64(stats.Rejected))
		p.runnerExecuted.WithLabelValues(name, typeLabel).Set(float64(stats.Executed))
		p.runnerFailed.WithLabelValues(name, typeLabel).Set(float64(stats.Failed))
		p.runnerRestarts.WithLabelValues(name, typeLabel).Set(float64(stats.Restarts))
		p.runnerClosed.WithLabelValues(name, typeLabel).Set(boolGauge(stats.Closed))
		p.runnerSuspended.WithLabelValues(name, typeLabel).Set(boolGauge(stats.Suspended))
		p.runnerWorkerPriority.WithLabelValues(name, typeLabel).Set(float64(stats.WorkerPriority))
	}
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
