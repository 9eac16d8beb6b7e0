package view

import (
	"bytes"
	"encoding/json"

	domain "github.com/bryanwahyu/safelink/internal/domain/linkscan"
	"github.com/bryanwahyu/safelink/internal/domain/verdict"
)

const notAvailable = "N/A"

// RegionName identifies a toggle
type RegionName string

const (
	RegionAnalysis  RegionName = "analysis"
	RegionTechnical RegionName = "technical"
)

// toggle labels, shown / hidden
var toggleLabels = map[RegionName][2]string{
	RegionAnalysis:  {"Show Analysis Details", "Hide Analysis Details"},
	RegionTechnical: {"Show Technical Data", "Hide Technical Data"},
}

// Summary region
type Summary struct {
	Text       string        `json:"text"`
	Label      verdict.Label `json:"label"`
	Icon       string        `json:"icon"`
	StyleClass string        `json:"style_class"`
	Tooltip    string        `json:"tooltip,omitempty"`
}

// Toggle is a flip-and-relabel control. Hidden controls cannot be used.
type Toggle struct {
	Available bool   `json:"available"`
	Expanded  bool   `json:"expanded"`
	Label     string `json:"label"`
}

// Region is a block of content that is either visible or hidden
type Region struct {
	Visible bool `json:"visible"`
}

type ReasonsRegion struct {
	Region
	Items []string `json:"items"`
}

type AIRegion struct {
	Region
	Text string `json:"text"`
}

type TechnicalRegion struct {
	Region
	JSON string `json:"json"`
}

// ViewState is everything the result popup shows.
type ViewState struct {
	Summary   Summary         `json:"summary"`
	URL       string          `json:"url"`
	Title     string          `json:"title"`
	Reasons   ReasonsRegion   `json:"reasons"`
	AI        AIRegion        `json:"ai"`
	Technical TechnicalRegion `json:"technical"`

	AnalysisToggle  Toggle `json:"analysis_toggle"`
	TechnicalToggle Toggle `json:"technical_toggle"`
}

// Render builds the initial view for a result. All regions start hidden.
// A nil result renders as an error view with N/A fields.
func Render(r *domain.AnalysisResult, c *verdict.Classifier) *ViewState {
	if c == nil {
		c = verdict.NewClassifier(nil)
	}
	v := c.Classify(r)

	vs := &ViewState{
		Summary: Summary{
			Text:       "Status: " + string(v.Label),
			Label:      v.Label,
			Icon:       v.Icon,
			StyleClass: v.StyleClass,
			Tooltip:    v.Tooltip,
		},
		URL:   notAvailable,
		Title: notAvailable,
	}

	if r != nil {
		if r.URL != "" {
			vs.URL = r.URL
		}
		if r.Title != "" {
			vs.Title = r.Title
		}
	}
	vs.Reasons.Items = reasons(r)
	vs.AI.Text = aiText(r)
	vs.Technical.JSON = technicalJSON(r)

	vs.AnalysisToggle = Toggle{
		Available: len(vs.Reasons.Items) > 0 || vs.AI.Text != "",
		Label:     toggleLabels[RegionAnalysis][0],
	}
	vs.TechnicalToggle = Toggle{Available: true, Label: toggleLabels[RegionTechnical][0]}
	return vs
}

// ToggleAnalysis flips the analysis regions. It is a no-op returning false
// when the control is hidden.
func (vs *ViewState) ToggleAnalysis() bool {
	if !vs.AnalysisToggle.Available {
		return false
	}
	flip(&vs.AnalysisToggle, RegionAnalysis)
	vs.Reasons.Visible = vs.AnalysisToggle.Expanded && len(vs.Reasons.Items) > 0
	vs.AI.Visible = vs.AnalysisToggle.Expanded && vs.AI.Text != ""
	return true
}

func (vs *ViewState) ToggleTechnical() bool {
	flip(&vs.TechnicalToggle, RegionTechnical)
	vs.Technical.Visible = vs.TechnicalToggle.Expanded
	return true
}

// Toggle dispatches by region name
func (vs *ViewState) Toggle(name RegionName) (bool, error) {
	switch name {
	case RegionAnalysis:
		return vs.ToggleAnalysis(), nil
	case RegionTechnical:
		return vs.ToggleTechnical(), nil
	default:
		return false, ErrUnknownRegion
	}
}

func flip(t *Toggle, name RegionName) {
	t.Expanded = !t.Expanded
	if t.Expanded {
		t.Label = toggleLabels[name][1]
	} else {
		t.Label = toggleLabels[name][0]
	}
}

func reasons(r *domain.AnalysisResult) []string {
	items := []string{}
	if r == nil {
		return items
	}
	if r.Analysis != nil {
		items = append(items, r.Analysis.Reasons...)
	}
	// error only shows up when no reason already describes it
	if r.Status == domain.StatusError && r.Error != "" && len(items) == 0 {
		items = append(items, "Error: "+r.Error)
	}
	return items
}

func aiText(r *domain.AnalysisResult) string {
	if r == nil || r.Analysis == nil {
		return ""
	}
	a := r.Analysis
	switch {
	case a.AISkipped:
		return "Skipped: " + a.AIReason
	case a.AIAssessment != "":
		return a.AIAssessment
	}
	return ""
}

func technicalJSON(r *domain.AnalysisResult) string {
	if r == nil {
		return "null"
	}
	raw := []byte(r.Raw)
	if len(raw) == 0 {
		var enc bytes.Buffer
		e := json.NewEncoder(&enc)
		e.SetEscapeHTML(false)
		if err := e.Encode(r); err != nil {
			return "{}"
		}
		raw = enc.Bytes()
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
