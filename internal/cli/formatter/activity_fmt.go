package formatter

import (
	"strings"

	"github.com/alexanderramin/leadpipe/internal/domain"
)

// FormatActivityList renders activities newest first. names maps lead IDs to
// lead names; when nil the lead column is left out.
func FormatActivityList(acts []*domain.Activity, names map[string]string) string {
	var b strings.Builder
	for _, a := range acts {
		b.WriteString(Dim(a.Timestamp.Format("2006-01-02 15:04")) + "  ")
		b.WriteString(activityIcon(a.Type) + " ")
		if names != nil {
			name := names[a.LeadID]
			if name == "" {
				name = TruncID(a.LeadID)
			}
			b.WriteString(Bold(name) + "  ")
		}
		b.WriteString(a.Description)
		if msg := strings.TrimSpace(a.Metadata.Message); msg != "" && a.Type == domain.ActivityContacted {
			b.WriteString("\n" + strings.Repeat(" ", 20) + Dim(firstLine(msg)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func activityIcon(t domain.ActivityType) string {
	switch t {
	case domain.ActivityCreated:
		return StyleBlue.Render("+")
	case domain.ActivityStageChanged:
		return StylePurple.Render("→")
	case domain.ActivityContacted:
		return StyleGreen.Render("✉")
	case domain.ActivityNoteAdded:
		return StyleFg.Render("✎")
	case domain.ActivityConverted:
		return StyleGreen.Render("★")
	case domain.ActivityArchived, domain.ActivityRestored:
		return StyleDim.Render("■")
	default:
		return StyleDim.Render("·")
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
