package core

import (
	"reflect"
	"runtime"
	"strings"
	"sync"
)

const defaultTaskHistoryCapacity = 100

// executionHistory keeps the last capacity execution records. The worker appends,
// any goroutine may read.
type executionHistory struct {
	mu       sync.Mutex
	capacity int
	records  []TaskExecutionRecord // grows to capacity, then wraps at next
	next     int
}

func newExecutionHistory(capacity int) *executionHistory {
	if capacity < 1 {
		capacity = defaultTaskHistoryCapacity
	}
	return &executionHistory{
		capacity: capacity,
		records:  make([]TaskExecutionRecord, 0, min(capacity, 16)),
	}
}

func (h *executionHistory) Add(record TaskExecutionRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.records) < h.capacity {
		h.records = append(h.records, record)
		return
	}
	h.records[h.next] = record
	h.next = (h.next + 1) % h.capacity
}

// Recent returns up to limit records, newest first. limit <= 0 returns all of them.
func (h *executionHistory) Recent(limit int) []TaskExecutionRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(h.records)
	if limit <= 0 || limit > n {
		limit = n
	}
	if limit == 0 {
		return nil
	}

	out := make([]TaskExecutionRecord, limit)
	newest := h.newestLocked()
	for i := range out {
		out[i] = h.records[(newest-i+n)%n]
	}
	return out
}

func (h *executionHistory) Last() (TaskExecutionRecord, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.records) == 0 {
		return TaskExecutionRecord{}, false
	}
	return h.records[h.newestLocked()], true
}

// newestLocked returns the index of the newest record. h.records must be non-empty.
func (h *executionHistory) newestLocked() int {
	if len(h.records) < h.capacity {
		return len(h.records) - 1
	}
	return (h.next - 1 + h.capacity) % h.capacity
}

// resolveTaskName returns explicit when set, otherwise the short name of the function
// behind fn ("core.flushCache", "main.main.func2"), or "anonymous".
func resolveTaskName(fn any, explicit string) string {
	if explicit != "" {
		return explicit
	}

	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return "anonymous"
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil || f.Name() == "" {
		return "anonymous"
	}

	name := strings.TrimSuffix(f.Name(), "-fm")
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
