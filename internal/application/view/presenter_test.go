package view

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/safelink/internal/domain/linkscan"
	"github.com/bryanwahyu/safelink/internal/domain/verdict"
)

func decode(t *testing.T, body string) *domain.AnalysisResult {
	t.Helper()
	var r domain.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(body), &r))
	return &r
}

func TestRenderSafeResult(t *testing.T) {
	r := decode(t, `{"status":"ok","url":"https://example.com","title":"Example Domain","analysis":{"suspicious":false,"reasons":[],"ai_skipped":false,"ai_assessment":"Low risk, clean domain"}}`)

	vs := Render(r, nil)

	assert.Equal(t, "Status: Safe", vs.Summary.Text)
	assert.Equal(t, verdict.IconSafe, vs.Summary.Icon)
	assert.Equal(t, verdict.StyleSafe, vs.Summary.StyleClass)
	assert.Equal(t, "https://example.com", vs.URL)
	assert.Equal(t, "Example Domain", vs.Title)
	assert.Empty(t, vs.Reasons.Items)
	assert.Equal(t, "Low risk, clean domain", vs.AI.Text)

	assert.True(t, vs.AnalysisToggle.Available)
	assert.False(t, vs.Reasons.Visible)
	assert.False(t, vs.AI.Visible)
	assert.False(t, vs.Technical.Visible)
	assert.Equal(t, "Show Analysis Details", vs.AnalysisToggle.Label)
	assert.Equal(t, "Show Technical Data", vs.TechnicalToggle.Label)
}

func TestRenderSkippedAI(t *testing.T) {
	r := decode(t, `{"status":"ok","analysis":{"suspicious":false,"ai_skipped":true,"ai_reason":"quota exceeded"}}`)

	vs := Render(r, nil)

	assert.Equal(t, verdict.LabelSafeLocal, vs.Summary.Label)
	assert.Equal(t, verdict.LocalOnlyTooltip, vs.Summary.Tooltip)
	assert.Equal(t, "Skipped: quota exceeded", vs.AI.Text)
	assert.Equal(t, "N/A", vs.URL)
	assert.Equal(t, "N/A", vs.Title)
}

func TestRenderTransportFallback(t *testing.T) {
	r := domain.Fallback(assertErr("connection refused"))

	vs := Render(r, nil)

	assert.Equal(t, verdict.LabelError, vs.Summary.Label)
	// the fallback reason is already there, the error is not repeated
	assert.Equal(t, []string{domain.BackendFailureReason}, vs.Reasons.Items)
	assert.Empty(t, vs.AI.Text)
	assert.True(t, vs.AnalysisToggle.Available)
}

func TestRenderUpstreamErrorWithoutReasons(t *testing.T) {
	r := decode(t, `{"status":"error","error":"Docker execution failed","details_raw":null}`)

	vs := Render(r, nil)

	assert.Equal(t, []string{"Error: Docker execution failed"}, vs.Reasons.Items)
	assert.Contains(t, vs.Technical.JSON, `"details_raw": null`)
}

func TestRenderErrorWithoutMessageHasNoAnalysisToggle(t *testing.T) {
	vs := Render(&domain.AnalysisResult{Status: domain.StatusError}, nil)

	assert.Empty(t, vs.Reasons.Items)
	assert.False(t, vs.AnalysisToggle.Available)
	assert.False(t, vs.ToggleAnalysis())
	assert.False(t, vs.AnalysisToggle.Expanded)
	assert.True(t, vs.TechnicalToggle.Available)
}

func TestRenderNilResult(t *testing.T) {
	vs := Render(nil, nil)

	assert.Equal(t, verdict.LabelError, vs.Summary.Label)
	assert.Equal(t, "N/A", vs.URL)
	assert.Equal(t, "null", vs.Technical.JSON)
	assert.False(t, vs.AnalysisToggle.Available)
}

func TestToggleAnalysisIsIdempotentOverTwoFlips(t *testing.T) {
	r := decode(t, `{"status":"ok","analysis":{"suspicious":true,"reasons":["Shortened URL"],"ai_assessment":"Low risk"}}`)
	vs := Render(r, nil)
	before := *vs

	require.True(t, vs.ToggleAnalysis())
	assert.True(t, vs.Reasons.Visible)
	assert.True(t, vs.AI.Visible)
	assert.Equal(t, "Hide Analysis Details", vs.AnalysisToggle.Label)

	require.True(t, vs.ToggleAnalysis())
	assert.Equal(t, before.Reasons.Visible, vs.Reasons.Visible)
	assert.Equal(t, before.AI.Visible, vs.AI.Visible)
	assert.Equal(t, before.AnalysisToggle, vs.AnalysisToggle)
}

func TestToggleAnalysisOnlyShowsRegionsWithContent(t *testing.T) {
	r := decode(t, `{"status":"ok","analysis":{"suspicious":false,"ai_assessment":"Unable to determine"}}`)
	vs := Render(r, nil)

	vs.ToggleAnalysis()
	assert.False(t, vs.Reasons.Visible)
	assert.True(t, vs.AI.Visible)
}

func TestToggleTechnicalIsIndependent(t *testing.T) {
	r := decode(t, `{"status":"ok","analysis":{"reasons":["IP address host"],"suspicious":true}}`)
	vs := Render(r, nil)

	vs.ToggleTechnical()
	assert.True(t, vs.Technical.Visible)
	assert.Equal(t, "Hide Technical Data", vs.TechnicalToggle.Label)
	assert.False(t, vs.Reasons.Visible)

	vs.ToggleAnalysis()
	vs.ToggleTechnical()
	assert.False(t, vs.Technical.Visible)
	assert.True(t, vs.Reasons.Visible)
}

func TestToggleByName(t *testing.T) {
	vs := Render(nil, nil)

	_, err := vs.Toggle("sidebar")
	assert.ErrorIs(t, err, ErrUnknownRegion)

	changed, err := vs.Toggle(RegionTechnical)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestTechnicalJSONIsIndentedAndUnescaped(t *testing.T) {
	r := decode(t, `{"status":"ok","title":"<b>Tom & Jerry</b>"}`)
	vs := Render(r, nil)

	assert.Equal(t, "{\n  \"status\": \"ok\",\n  \"title\": \"<b>Tom & Jerry</b>\"\n}", vs.Technical.JSON)

	fallback := Render(&domain.AnalysisResult{Status: domain.StatusOK, Title: "a<b"}, nil)
	assert.Contains(t, fallback.Technical.JSON, `"title": "a<b"`)
}

func TestWriteText(t *testing.T) {
	r := decode(t, `{"status":"ok","url":"https://bit.ly/x","analysis":{"suspicious":true,"reasons":["Shortened URL"],"ai_assessment":"Low risk"}}`)
	vs := Render(r, nil)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, vs))
	out := buf.String()
	assert.Contains(t, out, "Status: Suspicious")
	assert.Contains(t, out, "[Show Analysis Details] [Show Technical Data]")
	assert.NotContains(t, out, "Shortened URL")

	vs.ToggleAnalysis()
	buf.Reset()
	require.NoError(t, WriteText(&buf, vs))
	assert.Contains(t, buf.String(), "  - Shortened URL")
	assert.Contains(t, buf.String(), "AI assessment:\n  Low risk")
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
