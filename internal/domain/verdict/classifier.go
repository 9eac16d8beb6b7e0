package verdict

import "github.com/bryanwahyu/safelink/internal/domain/linkscan"

// Classifier maps an AnalysisResult to a Verdict. It never fails: missing
// fields take their zero value.
type Classifier struct {
	text TextClassifier
}

// NewClassifier uses the default keyword sets when text is nil
func NewClassifier(text TextClassifier) *Classifier {
	if text == nil {
		text = NewKeywordClassifier(nil, nil)
	}
	return &Classifier{text: text}
}

// Classify applies the rules in order, first match wins. Any suspicious signal
// beats any safe signal.
func (c *Classifier) Classify(r *linkscan.AnalysisResult) Verdict {
	if r == nil || r.Status == linkscan.StatusError {
		return errorVerdict
	}

	var a linkscan.Analysis
	if r.Analysis != nil {
		a = *r.Analysis
	}

	var sig TextSignal
	if !a.AISkipped {
		sig = c.text.ClassifyFreeText(a.AIAssessment)
	}

	switch {
	case a.Suspicious || sig.Suspicious:
		return suspiciousVerdict
	case sig.Safe:
		return safeVerdict
	case a.AISkipped:
		return localSafeVerdict
	default:
		return cautionVerdict
	}
}

var defaultClassifier = NewClassifier(nil)

// Classify uses the default keyword classifier
func Classify(r *linkscan.AnalysisResult) Verdict {
	return defaultClassifier.Classify(r)
}
