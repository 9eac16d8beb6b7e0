package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics stores application metrics
type Metrics struct {
	RequestsTotal      uint64
	RequestsInProgress int64
	RequestsSuccess    uint64
	RequestsFailed     uint64
	ScansTotal         uint64
	ScansRunning       int64
	ScansFailed        uint64
	StartTime          time.Time

	mu       sync.Mutex
	verdicts map[string]uint64
}

func NewMetrics() *Metrics {
	return &Metrics{StartTime: time.Now(), verdicts: make(map[string]uint64)}
}

// ScanStarted increments total and running scan counters
func (m *Metrics) ScanStarted() {
	atomic.AddUint64(&m.ScansTotal, 1)
	atomic.AddInt64(&m.ScansRunning, 1)
}

// ScanFinished records the verdict label of a finished scan
func (m *Metrics) ScanFinished(label string, failed bool) {
	atomic.AddInt64(&m.ScansRunning, -1)
	if failed {
		atomic.AddUint64(&m.ScansFailed, 1)
	}
	m.mu.Lock()
	m.verdicts[label]++
	m.mu.Unlock()
}

// Snapshot returns current metrics
func (m *Metrics) Snapshot() map[string]interface{} {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	m.mu.Lock()
	verdicts := make(map[string]uint64, len(m.verdicts))
	for k, v := range m.verdicts {
		verdicts[k] = v
	}
	m.mu.Unlock()

	return map[string]interface{}{
		"requests_total":       atomic.LoadUint64(&m.RequestsTotal),
		"requests_in_progress": atomic.LoadInt64(&m.RequestsInProgress),
		"requests_success":     atomic.LoadUint64(&m.RequestsSuccess),
		"requests_failed":      atomic.LoadUint64(&m.RequestsFailed),
		"scans_total":          atomic.LoadUint64(&m.ScansTotal),
		"scans_running":        atomic.LoadInt64(&m.ScansRunning),
		"scans_failed":         atomic.LoadUint64(&m.ScansFailed),
		"verdicts":             verdicts,
		"uptime_seconds":       time.Since(m.StartTime).Seconds(),
		"memory": map[string]interface{}{
			"alloc_bytes":       ms.Alloc,
			"total_alloc_bytes": ms.TotalAlloc,
			"sys_bytes":         ms.Sys,
			"num_gc":            ms.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// Middleware tracks request metrics
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddUint64(&m.RequestsTotal, 1)
		atomic.AddInt64(&m.RequestsInProgress, 1)
		defer atomic.AddInt64(&m.RequestsInProgress, -1)

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		// Track success/failure based on status code
		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			atomic.AddUint64(&m.RequestsSuccess, 1)
		} else {
			atomic.AddUint64(&m.RequestsFailed, 1)
		}
	})
}

// Handler returns metrics as JSON
func (m *Metrics) Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(m.Snapshot())
}
