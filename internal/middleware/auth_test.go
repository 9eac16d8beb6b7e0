package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIKeyAuth(t *testing.T) {
	h := APIKeyAuth("s3cret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"bearer", "Bearer s3cret", http.StatusOK},
		{"bare", "s3cret", http.StatusOK},
		{"wrong", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/result", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAPIKeyAuthDisabledWhenEmpty(t *testing.T) {
	h := APIKeyAuth("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/result", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsCountsVerdicts(t *testing.T) {
	m := NewMetrics()
	m.ScanStarted()
	m.ScanFinished("Safe", false)
	m.ScanStarted()
	m.ScanFinished("Error", true)

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap["scans_total"])
	assert.Equal(t, uint64(1), snap["scans_failed"])
	assert.Equal(t, int64(0), snap["scans_running"])
	assert.Equal(t, map[string]uint64{"Safe": 1, "Error": 1}, snap["verdicts"])
}
