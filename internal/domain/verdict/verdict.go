package verdict

// Label enum shown in the summary region
type Label string

const (
	LabelError      Label = "Error"
	LabelSuspicious Label = "Suspicious"
	LabelSafe       Label = "Safe"
	LabelSafeLocal  Label = "Safe*"
	LabelCaution    Label = "Caution Advised"
)

const (
	IconError      = "❌"
	IconSuspicious = "⚠️"
	IconSafe       = "✅"
	IconCaution    = "❓"
)

// Style classes keyed by verdict category
const (
	StyleError      = "status-error"
	StyleSuspicious = "status-suspicious"
	StyleSafe       = "status-safe"
)

// LocalOnlyTooltip explains a Safe* verdict
const LocalOnlyTooltip = "Based on local checks only. AI analysis was skipped."

// Verdict is the user-facing classification of an AnalysisResult. Derived, never persisted.
type Verdict struct {
	Label      Label  `json:"label"`
	Icon       string `json:"icon"`
	StyleClass string `json:"style_class"`
	Tooltip    string `json:"tooltip,omitempty"`
}

var (
	errorVerdict      = Verdict{Label: LabelError, Icon: IconError, StyleClass: StyleError}
	suspiciousVerdict = Verdict{Label: LabelSuspicious, Icon: IconSuspicious, StyleClass: StyleSuspicious}
	safeVerdict       = Verdict{Label: LabelSafe, Icon: IconSafe, StyleClass: StyleSafe}
	localSafeVerdict  = Verdict{Label: LabelSafeLocal, Icon: IconSafe, StyleClass: StyleSafe, Tooltip: LocalOnlyTooltip}
	cautionVerdict    = Verdict{Label: LabelCaution, Icon: IconCaution, StyleClass: StyleSuspicious}
)
