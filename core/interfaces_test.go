package core

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

// =============================================================================
// Test PanicHandler
// =============================================================================

// TestPanicHandler is a mock panic handler for testing
type TestPanicHandler struct {
	mu    sync.Mutex
	calls []PanicCall
}

type PanicCall struct {
	RunnerName string
	TaskName   string
	PanicInfo  any
	Stack      []byte
}

func NewTestPanicHandler() *TestPanicHandler {
	return &TestPanicHandler{}
}

func (h *TestPanicHandler) HandlePanic(ctx context.Context, runnerName string, taskName string, panicInfo any, stackTrace []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.calls = append(h.calls, PanicCall{
		RunnerName: runnerName,
		TaskName:   taskName,
		PanicInfo:  panicInfo,
		Stack:      stackTrace,
	})
}

func (h *TestPanicHandler) GetCalls() []PanicCall {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]PanicCall(nil), h.calls...)
}

func (h *TestPanicHandler) CallCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.calls)
}

func TestDefaultPanicHandler(t *testing.T) {
	// Given: A DefaultPanicHandler writing through a logrus logger into a buffer
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	handler := &DefaultPanicHandler{Logger: NewLogrusLogger(l)}

	// When: HandlePanic is called
	handler.HandlePanic(context.Background(), "test-runner", "explode", "test panic", []byte("stack trace"))

	// Then: The panic is logged with runner, task and panic value
	out := buf.String()
	for _, want := range []string{"task panicked", "test-runner", "explode", "test panic"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q does not contain %q", out, want)
		}
	}
}

// =============================================================================
// Test Metrics
// =============================================================================

// TestMetrics is a mock metrics collector for testing
type TestMetrics struct {
	mu             sync.Mutex
	taskDurations  []TaskDurationMetric
	taskFailures   []*TaskExecutionError
	queueDepths    []QueueDepthMetric
	taskRejections []TaskRejectionMetric
	workerPriority []TaskPriority
}

type TaskDurationMetric struct {
	RunnerName string
	Priority   TaskPriority
	Duration   time.Duration
}

type QueueDepthMetric struct {
	RunnerName string
	Depth      int
}

type TaskRejectionMetric struct {
	RunnerName string
	Reason     string
}

func NewTestMetrics() *TestMetrics {
	return &TestMetrics{}
}

func (m *TestMetrics) RecordTaskDuration(runnerName string, priority TaskPriority, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.taskDurations = append(m.taskDurations, TaskDurationMetric{RunnerName: runnerName, Priority: priority, Duration: duration})
}

func (m *TestMetrics) RecordTaskFailure(runnerName string, err *TaskExecutionError) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.taskFailures = append(m.taskFailures, err)
}

func (m *TestMetrics) RecordQueueDepth(runnerName string, depth int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueDepths = append(m.queueDepths, QueueDepthMetric{RunnerName: runnerName, Depth: depth})
}

func (m *TestMetrics) RecordTaskRejected(runnerName string, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.taskRejections = append(m.taskRejections, TaskRejectionMetric{RunnerName: runnerName, Reason: reason})
}

func (m *TestMetrics) RecordWorkerPriority(runnerName string, priority TaskPriority) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workerPriority = append(m.workerPriority, priority)
}

func (m *TestMetrics) GetWorkerPriorities() []TaskPriority {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]TaskPriority(nil), m.workerPriority...)
}

func (m *TestMetrics) GetTaskDurations() []TaskDurationMetric {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]TaskDurationMetric(nil), m.taskDurations...)
}

func (m *TestMetrics) GetTaskFailures() []*TaskExecutionError {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*TaskExecutionError(nil), m.taskFailures...)
}

func (m *TestMetrics) GetTaskRejections() []TaskRejectionMetric {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]TaskRejectionMetric(nil), m.taskRejections...)
}

func TestNilMetrics(t *testing.T) {
	// Given: A NilMetrics
	metrics := &NilMetrics{}

	// When: All methods are called
	metrics.RecordTaskDuration("test-runner", TaskPriorityUserVisible, time.Second)
	metrics.RecordTaskFailure("test-runner", &TaskExecutionError{Cause: errors.New("boom")})
	metrics.RecordQueueDepth("test-runner", 10)
	metrics.RecordTaskRejected("test-runner", RejectReasonClosed)
	metrics.RecordWorkerPriority("test-runner", TaskPriorityUserBlocking)

	// Then: No panic should occur (all methods are no-ops)
}

// =============================================================================
// Test RejectedTaskHandler
// =============================================================================

// TestRejectedTaskHandler is a mock rejected task handler for testing
type TestRejectedTaskHandler struct {
	mu         sync.Mutex
	rejections []TaskRejection
}

type TaskRejection struct {
	RunnerName string
	TaskName   string
	Reason     string
}

func NewTestRejectedTaskHandler() *TestRejectedTaskHandler {
	return &TestRejectedTaskHandler{}
}

func (h *TestRejectedTaskHandler) HandleRejectedTask(runnerName string, taskName string, reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rejections = append(h.rejections, TaskRejection{RunnerName: runnerName, TaskName: taskName, Reason: reason})
}

func (h *TestRejectedTaskHandler) GetRejections() []TaskRejection {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]TaskRejection(nil), h.rejections...)
}

func (h *TestRejectedTaskHandler) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rejections)
}

func TestDefaultRejectedTaskHandler(t *testing.T) {
	// Given: A DefaultRejectedTaskHandler writing through a logrus logger into a buffer
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	handler := &DefaultRejectedTaskHandler{Logger: NewLogrusLogger(l)}

	// When: HandleRejectedTask is called
	handler.HandleRejectedTask("test-runner", "late-task", RejectReasonClosed)

	// Then: A warning naming the task and reason is logged
	out := buf.String()
	if !strings.Contains(out, "level=warning") {
		t.Errorf("log output %q is not at warning level", out)
	}
	if !strings.Contains(out, "late-task") || !strings.Contains(out, RejectReasonClosed) {
		t.Errorf("log output %q does not name the task and reason", out)
	}
}

// =============================================================================
// Test QueuedTaskRunnerConfig
// =============================================================================

func TestDefaultQueuedTaskRunnerConfig(t *testing.T) {
	// Given: Default config
	config := DefaultQueuedTaskRunnerConfig()

	// Then: All handlers should be set
	if config.Priority != TaskPriorityUserVisible {
		t.Errorf("Priority = %d, want %d", config.Priority, TaskPriorityUserVisible)
	}
	if _, ok := config.PanicHandler.(*DefaultPanicHandler); !ok {
		t.Errorf("PanicHandler should be *DefaultPanicHandler, got %T", config.PanicHandler)
	}
	if _, ok := config.Metrics.(*NilMetrics); !ok {
		t.Errorf("Metrics should be *NilMetrics, got %T", config.Metrics)
	}
	if _, ok := config.RejectedTaskHandler.(*DefaultRejectedTaskHandler); !ok {
		t.Errorf("RejectedTaskHandler should be *DefaultRejectedTaskHandler, got %T", config.RejectedTaskHandler)
	}
	if config.ThreadPrioritizer == nil {
		t.Error("ThreadPrioritizer should not be nil")
	}
}

// TestQueuedTaskRunnerConfig_WithDefaults verifies partial configs are completed
// Given: A config with only a logger and an out-of-range priority
// When: withDefaults is applied
// Then: Missing handlers are filled in, reuse the logger, and the priority is clamped
func TestQueuedTaskRunnerConfig_WithDefaults(t *testing.T) {
	logger := NewNoOpLogger()
	cfg := &QueuedTaskRunnerConfig{Logger: logger, Priority: 42}

	got := cfg.withDefaults()

	if got.Name != "queued-task-runner" {
		t.Errorf("Name = %q, want default", got.Name)
	}
	if got.Priority != TaskPriorityUserBlocking {
		t.Errorf("Priority = %d, want %d", got.Priority, TaskPriorityUserBlocking)
	}
	ph, ok := got.PanicHandler.(*DefaultPanicHandler)
	if !ok || ph.Logger != logger {
		t.Errorf("PanicHandler = %#v, want DefaultPanicHandler using the configured logger", got.PanicHandler)
	}
	if got.HistoryCapacity != defaultTaskHistoryCapacity {
		t.Errorf("HistoryCapacity = %d, want %d", got.HistoryCapacity, defaultTaskHistoryCapacity)
	}

	var nilCfg *QueuedTaskRunnerConfig
	if def := nilCfg.withDefaults(); def.Metrics == nil || def.Logger == nil {
		t.Error("withDefaults on nil config left handlers unset")
	}
}

// TestLogrusLogger_Fields verifies fields are passed through as logrus fields
func TestLogrusLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.JSONFormatter{})

	NewLogrusLogger(l).Debug("hello", F("runner", "r1"), F("count", 3))

	out := buf.String()
	for _, want := range []string{`"msg":"hello"`, `"runner":"r1"`, `"count":3`, `"level":"debug"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q does not contain %s", out, want)
		}
	}
}
