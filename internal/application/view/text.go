package view

import (
	"fmt"
	"io"
	"strings"
)

// WriteText renders the view for a terminal. Hidden regions are left out.
func WriteText(w io.Writer, vs *ViewState) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", vs.Summary.Icon, vs.Summary.Text)
	if vs.Summary.Tooltip != "" {
		fmt.Fprintf(&b, "  (%s)\n", vs.Summary.Tooltip)
	}
	fmt.Fprintf(&b, "URL:   %s\n", vs.URL)
	fmt.Fprintf(&b, "Title: %s\n", vs.Title)

	if vs.Reasons.Visible {
		b.WriteString("\nLocal analysis:\n")
		for _, r := range vs.Reasons.Items {
			fmt.Fprintf(&b, "  - %s\n", r)
		}
	}
	if vs.AI.Visible {
		fmt.Fprintf(&b, "\nAI assessment:\n  %s\n", vs.AI.Text)
	}
	if vs.Technical.Visible {
		fmt.Fprintf(&b, "\nTechnical data:\n%s\n", vs.Technical.JSON)
	}

	var controls []string
	if vs.AnalysisToggle.Available {
		controls = append(controls, "["+vs.AnalysisToggle.Label+"]")
	}
	if vs.TechnicalToggle.Available {
		controls = append(controls, "["+vs.TechnicalToggle.Label+"]")
	}
	if len(controls) > 0 {
		fmt.Fprintf(&b, "\n%s\n", strings.Join(controls, " "))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
