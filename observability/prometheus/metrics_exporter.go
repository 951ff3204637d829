package prometheus

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Swind/go-queued-tasks/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

const defaultNamespace = "queued_tasks"

// Failure kinds used as the "kind" label of task_failed_total.
const (
	failureKindError = "error"
	failureKindPanic = "panic"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	// DurationBuckets overrides prom.DefBuckets for task_duration_seconds.
	DurationBuckets []float64
}

// MetricsExporter adapts core.Metrics to Prometheus collectors:
//
//	<ns>_task_duration_seconds{runner,priority}  histogram
//	<ns>_task_failed_total{runner,kind}          counter, kind is "error" or "panic"
//	<ns>_task_rejected_total{runner,reason}      counter, reason is "closed" or "discarded"
//	<ns>_queue_depth{runner}                     gauge
//	<ns>_worker_priority{runner}                 gauge, 1..10
type MetricsExporter struct {
	taskDurationSeconds *prom.HistogramVec
	taskFailedTotal     *prom.CounterVec
	taskRejectedTotal   *prom.CounterVec
	queueDepth          *prom.GaugeVec
	workerPriority      *prom.GaugeVec
}

var _ core.Metrics = (*MetricsExporter)(nil)

// NewMetricsExporter creates and registers the collectors. Collectors already
// registered under the same names are reused, so several runners can share one registry.
func NewMetricsExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = defaultNamespace
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}

	m := &MetricsExporter{
		taskDurationSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Task execution duration in seconds, by the priority the task ran at.",
			Buckets:   buckets,
		}, []string{"runner", "priority"}),
		taskFailedTotal: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "task_failed_total",
			Help:      "Tasks that returned an error or panicked.",
		}, []string{"runner", "kind"}),
		taskRejectedTotal: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "task_rejected_total",
			Help:      "Submissions refused by a closed runner and tasks discarded by an immediate shutdown.",
		}, []string{"runner", "reason"}),
		queueDepth: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Tasks waiting in the runner queue.",
		}, []string{"runner"}),
		workerPriority: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "worker_priority",
			Help:      "Priority applied to the worker thread.",
		}, []string{"runner"}),
	}

	var err error
	if m.taskDurationSeconds, err = registerCollector(reg, m.taskDurationSeconds); err != nil {
		return nil, err
	}
	if m.taskFailedTotal, err = registerCollector(reg, m.taskFailedTotal); err != nil {
		return nil, err
	}
	if m.taskRejectedTotal, err = registerCollector(reg, m.taskRejectedTotal); err != nil {
		return nil, err
	}
	for _, vec := range []**prom.GaugeVec{&m.queueDepth, &m.workerPriority} {
		if *vec, err = registerCollector(reg, *vec); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *MetricsExporter) RecordTaskDuration(runnerName string, priority core.TaskPriority, duration time.Duration) {
	if m == nil {
		return
	}
	m.taskDurationSeconds.WithLabelValues(runnerLabel(runnerName), priorityLabel(priority)).Observe(duration.Seconds())
}

func (m *MetricsExporter) RecordTaskFailure(runnerName string, err *core.TaskExecutionError) {
	if m == nil {
		return
	}
	kind := failureKindError
	if err != nil && err.Panicked() {
		kind = failureKindPanic
	}
	m.taskFailedTotal.WithLabelValues(runnerLabel(runnerName), kind).Inc()
}

func (m *MetricsExporter) RecordQueueDepth(runnerName string, depth int) {
	if m == nil {
		return
	}
	m.queueDepth.WithLabelValues(runnerLabel(runnerName)).Set(float64(depth))
}

func (m *MetricsExporter) RecordTaskRejected(runnerName string, reason string) {
	if m == nil {
		return
	}
	m.taskRejectedTotal.WithLabelValues(runnerLabel(runnerName), normalizeLabel(reason, "unknown")).Inc()
}

func (m *MetricsExporter) RecordWorkerPriority(runnerName string, priority core.TaskPriority) {
	if m == nil {
		return
	}
	m.workerPriority.WithLabelValues(runnerLabel(runnerName)).Set(float64(priority.Clamp()))
}

func runnerLabel(name string) string {
	return normalizeLabel(name, "unknown")
}

func normalizeLabel(v string, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// priorityLabel renders the clamped priority as "1".."10".
func priorityLabel(priority core.TaskPriority) string {
	return strconv.Itoa(int(priority.Clamp()))
}

// registerCollector registers collector, or returns the collector of the same
// description that reg already holds.
func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var are prom.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return collector, err
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return collector, fmt.Errorf("collector %T already registered as %T", collector, are.ExistingCollector)
	}
	return existing, nil
}
