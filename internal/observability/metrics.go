package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu             sync.Mutex
	requestCount   map[string]int64
	errorCount     map[string]int64
	snapshotCount  map[string]int64
	cacheHits      int64
	lastComputeDur time.Duration
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:  make(map[string]int64),
		errorCount:    make(map[string]int64),
		snapshotCount: make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordSnapshot counts a dashboard computation for a builder group.
func (m *Metrics) RecordSnapshot(builderGroup string, cached bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshotCount[builderGroup]++
	if cached {
		m.cacheHits++
		return
	}
	m.lastComputeDur = duration
}

// Counts returns a copy of the counters for health reporting.
func (m *Metrics) Counts() map[string]int64 {
	out := map[string]int64{}
	if m == nil {
		return out
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.requestCount {
		out["request|"+k] = v
	}
	for k, v := range m.errorCount {
		out["error|"+k] = v
	}
	for k, v := range m.snapshotCount {
		out["snapshot|"+k] = v
	}
	out["snapshot_cache_hits"] = m.cacheHits
	out["snapshot_last_compute_us"] = m.lastComputeDur.Microseconds()
	return out
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
