package verdict

import "strings"

// TextSignal is what a free-text assessment says. Both flags may be set.
type TextSignal struct {
	Suspicious bool
	Safe       bool
}

// TextClassifier turns the AI's free-text assessment into signals.
// Implementations must be pure.
type TextClassifier interface {
	ClassifyFreeText(text string) TextSignal
}

var (
	DefaultSuspiciousKeywords = []string{"high", "suspicious", "malicious", "risky", "phishing", "dangerous"}
	DefaultSafeKeywords       = []string{"very low", "low risk", "safe", "clean", "benign"}
)

// KeywordClassifier matches case-insensitive substrings against two keyword sets.
type KeywordClassifier struct {
	suspicious []string
	safe       []string
}

// NewKeywordClassifier lower-cases the given lists; an empty list falls back to the default set.
func NewKeywordClassifier(suspicious, safe []string) *KeywordClassifier {
	if len(suspicious) == 0 {
		suspicious = DefaultSuspiciousKeywords
	}
	if len(safe) == 0 {
		safe = DefaultSafeKeywords
	}
	return &KeywordClassifier{suspicious: lowerAll(suspicious), safe: lowerAll(safe)}
}

func (k *KeywordClassifier) ClassifyFreeText(text string) TextSignal {
	lower := strings.ToLower(text)
	return TextSignal{
		Suspicious: containsAny(lower, k.suspicious),
		Safe:       containsAny(lower, k.safe),
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
