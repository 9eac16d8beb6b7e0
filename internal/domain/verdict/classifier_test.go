package verdict

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bryanwahyu/safelink/internal/domain/linkscan"
)

func ok(a *linkscan.Analysis) *linkscan.AnalysisResult {
	return &linkscan.AnalysisResult{Status: linkscan.StatusOK, Analysis: a}
}

func TestClassifyScenarios(t *testing.T) {
	tests := []struct {
		name   string
		input  *linkscan.AnalysisResult
		label  Label
		icon   string
		style  string
		hasTip bool
	}{
		{
			name:  "ai says low risk and clean",
			input: ok(&linkscan.Analysis{AIAssessment: "Low risk, clean domain"}),
			label: LabelSafe, icon: IconSafe, style: StyleSafe,
		},
		{
			name:  "local flag beats safe ai",
			input: ok(&linkscan.Analysis{Suspicious: true, Reasons: []string{"Shortened URL"}, AIAssessment: "Low risk"}),
			label: LabelSuspicious, icon: IconSuspicious, style: StyleSuspicious,
		},
		{
			name:   "ai skipped",
			input:  ok(&linkscan.Analysis{AISkipped: true, AIReason: "quota exceeded"}),
			label:  LabelSafeLocal, icon: IconSafe, style: StyleSafe, hasTip: true,
		},
		{
			name:  "ambiguous ai",
			input: ok(&linkscan.Analysis{AIAssessment: "Unable to determine"}),
			label: LabelCaution, icon: IconCaution, style: StyleSuspicious,
		},
		{
			name:  "transport fallback",
			input: linkscan.Fallback(assert.AnError),
			label: LabelError, icon: IconError, style: StyleError,
		},
		{
			name:  "absent input",
			input: nil,
			label: LabelError, icon: IconError, style: StyleError,
		},
		{
			name:  "missing analysis section",
			input: &linkscan.AnalysisResult{Status: linkscan.StatusOK},
			label: LabelCaution, icon: IconCaution, style: StyleSuspicious,
		},
		{
			name:  "ai suspicious and safe at once",
			input: ok(&linkscan.Analysis{AIAssessment: "Looks safe but the redirect chain is risky"}),
			label: LabelSuspicious, icon: IconSuspicious, style: StyleSuspicious,
		},
		{
			name:  "gemini style verdict",
			input: ok(&linkscan.Analysis{AIAssessment: "Potentially Risky. The page asks for a password."}),
			label: LabelSuspicious, icon: IconSuspicious, style: StyleSuspicious,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Classify(tt.input)
			assert.Equal(t, tt.label, v.Label)
			assert.Equal(t, tt.icon, v.Icon)
			assert.Equal(t, tt.style, v.StyleClass)
			if tt.hasTip {
				assert.Equal(t, LocalOnlyTooltip, v.Tooltip)
			} else {
				assert.Empty(t, v.Tooltip)
			}
		})
	}
}

func TestClassifyLocalSuspicionIsMonotonic(t *testing.T) {
	assessments := []string{"", "safe", "clean and benign", "very low", "HIGH", "unknown"}
	for _, skipped := range []bool{false, true} {
		for _, text := range assessments {
			a := &linkscan.Analysis{Suspicious: true, AISkipped: skipped}
			if skipped {
				a.AIReason = text
			} else {
				a.AIAssessment = text
			}
			assert.Equal(t, LabelSuspicious, Classify(ok(a)).Label, "skipped=%v text=%q", skipped, text)
		}
	}
}

func TestClassifyErrorIgnoresOtherFields(t *testing.T) {
	r := &linkscan.AnalysisResult{
		Status: linkscan.StatusError,
		URL:    "https://example.com",
		Analysis: &linkscan.Analysis{
			Suspicious:   false,
			AIAssessment: "Looks safe",
		},
	}
	v := Classify(r)
	assert.Equal(t, LabelError, v.Label)
	assert.Equal(t, IconError, v.Icon)
}

func TestClassifySkippedNeverConsultsAssessment(t *testing.T) {
	// a stale assessment next to ai_skipped must not produce "Safe"
	r := ok(&linkscan.Analysis{AISkipped: true, AIAssessment: "safe and clean", AIReason: "API key not configured"})
	assert.Equal(t, LabelSafeLocal, Classify(r).Label)

	spy := &spyText{}
	NewClassifier(spy).Classify(r)
	assert.Zero(t, spy.calls)
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	upper := Classify(ok(&linkscan.Analysis{AIAssessment: "HIGH risk"}))
	lower := Classify(ok(&linkscan.Analysis{AIAssessment: "high risk"}))
	assert.Equal(t, lower, upper)
	assert.Equal(t, LabelSuspicious, upper.Label)
}

func TestClassifierUsesPluggableTextStrategy(t *testing.T) {
	c := NewClassifier(NewKeywordClassifier([]string{"Bahaya"}, []string{"Aman"}))

	assert.Equal(t, LabelSuspicious, c.Classify(ok(&linkscan.Analysis{AIAssessment: "bahaya"})).Label)
	assert.Equal(t, LabelSafe, c.Classify(ok(&linkscan.Analysis{AIAssessment: "AMAN"})).Label)
	// the default words no longer count
	assert.Equal(t, LabelCaution, c.Classify(ok(&linkscan.Analysis{AIAssessment: "phishing"})).Label)
}

func TestKeywordClassifier(t *testing.T) {
	k := NewKeywordClassifier(nil, nil)
	tests := []struct {
		text string
		want TextSignal
	}{
		{"", TextSignal{}},
		{"Very low risk", TextSignal{Safe: true}},
		{"Malicious download", TextSignal{Suspicious: true}},
		{"Looks Safe, though the host is high traffic", TextSignal{Suspicious: true, Safe: true}},
		{"Unable to determine", TextSignal{}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, k.ClassifyFreeText(tt.text))
		})
	}
}

type spyText struct{ calls int }

func (s *spyText) ClassifyFreeText(string) TextSignal {
	s.calls++
	return TextSignal{Safe: true}
}
