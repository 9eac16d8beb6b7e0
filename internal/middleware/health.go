package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Check names with a fixed meaning in HealthHandler
const (
	CheckSlot    = "slot"
	CheckArchive = "archive"
)

// HealthChecker defines interface for health checking
type HealthChecker interface {
	Check(ctx context.Context) error
}

// CheckFunc adapts a ping function, e.g. a slot's Ping
type CheckFunc func(ctx context.Context) error

func (f CheckFunc) Check(ctx context.Context) error { return f(ctx) }

// HealthStatus represents the health status
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Setup     ScanSetup              `json:"setup"`
	Checks    map[string]CheckStatus `json:"checks"`
}

// ScanSetup tells an operator where scans go and where the latest result is kept
type ScanSetup struct {
	Analyzer   string `json:"analyzer"`
	SlotDriver string `json:"slot_driver"`
	SlotKey    string `json:"slot_key"`
	Archive    bool   `json:"archive"`
}

// CheckStatus represents individual check status
type CheckStatus struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// HealthHandler creates a health check handler. The slot check decides readiness:
// without it no result can be stored or shown.
func HealthHandler(setup ScanSetup, checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := HealthStatus{
			Status:    "healthy",
			Timestamp: time.Now(),
			Setup:     setup,
			Checks:    make(map[string]CheckStatus),
		}

		for name, checker := range checkers {
			start := time.Now()
			err := checker.Check(ctx)
			cs := CheckStatus{Status: "healthy", LatencyMS: time.Since(start).Milliseconds()}
			if err != nil {
				cs.Status = "unhealthy"
				cs.Message = err.Error()
				// an unreachable archive only degrades the service, scans still land in the slot
				if name == CheckArchive && health.Status == "healthy" {
					health.Status = "degraded"
				} else if name != CheckArchive {
					health.Status = "unhealthy"
				}
			}
			health.Checks[name] = cs
		}

		statusCode := http.StatusOK
		if health.Status == "unhealthy" {
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(health)
	}
}

// LivenessHandler creates a liveness check handler (simplest check)
func LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
