package linkscan

import (
	"bytes"
	"encoding/json"
	"time"
)

// ScanID identifies one dispatched scan
type ScanID string

// Status enum as reported by the analysis service
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// BackendFailureReason is the single reason carried by a synthesized failure result.
const BackendFailureReason = "Backend communication failed"

// ScanRequest body sent to the analysis service
type ScanRequest struct {
	URL string `json:"url"`
}

// Analysis is the heuristic + AI section of an AnalysisResult.
// AIAssessment and AIReason are mutually exclusive, governed by AISkipped.
type Analysis struct {
	Suspicious   bool     `json:"suspicious"`
	Reasons      []string `json:"reasons,omitempty"`
	AISkipped    bool     `json:"ai_skipped,omitempty"`
	AIReason     string   `json:"ai_reason,omitempty"`
	AIAssessment string   `json:"ai_assessment,omitempty"`
}

// AnalysisResult is the payload returned by the analysis service.
// Raw keeps the exact bytes it was decoded from so that fields this
// package does not model (redirects, details_raw, ...) survive a round trip.
type AnalysisResult struct {
	Status   Status    `json:"status"`
	URL      string    `json:"url,omitempty"`
	Title    string    `json:"title,omitempty"`
	Error    string    `json:"error,omitempty"`
	Analysis *Analysis `json:"analysis,omitempty"`

	Raw json.RawMessage `json:"-"`
}

type resultFields AnalysisResult

func (r *AnalysisResult) UnmarshalJSON(b []byte) error {
	var f resultFields
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*r = AnalysisResult(f)
	r.Raw = append(json.RawMessage(nil), bytes.TrimSpace(b)...)
	return nil
}

func (r AnalysisResult) MarshalJSON() ([]byte, error) {
	if len(r.Raw) > 0 {
		return r.Raw, nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(resultFields(r)); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// IsError reports whether the result describes a failed scan
func (r *AnalysisResult) IsError() bool {
	return r == nil || r.Status == StatusError
}

// Fallback builds the result stored when the analysis service could not be reached
// or did not answer with usable JSON.
func Fallback(err error) *AnalysisResult {
	desc := "unknown error"
	if err != nil {
		desc = err.Error()
	}
	return &AnalysisResult{
		Status: StatusError,
		Error:  desc,
		Analysis: &Analysis{
			Suspicious: true,
			Reasons:    []string{BackendFailureReason},
		},
	}
}

// Record is what the shared slot holds: the latest result plus correlation data.
type Record struct {
	ScanID   ScanID          `json:"scan_id"`
	Seq      uint64          `json:"seq"`
	URL      string          `json:"requested_url"`
	StoredAt time.Time       `json:"stored_at"`
	Result   *AnalysisResult `json:"result"`
}
