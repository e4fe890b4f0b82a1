package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/leadpipe/internal/domain"
	"github.com/alexanderramin/leadpipe/internal/scoring"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// TierStyle maps a score tier to its lipgloss style.
func TierStyle(t scoring.Tier) lipgloss.Style {
	switch t {
	case scoring.TierPositive:
		return StyleGreen
	case scoring.TierNeutral:
		return StyleYellow
	default:
		return StyleRed
	}
}

// ScoreBadge renders a score as "● 7/10 Warm" in its tier color.
func ScoreBadge(score int) string {
	return TierStyle(scoring.ColorTier(score)).Render(fmt.Sprintf("● %d/10 %s", score, scoring.Label(score)))
}

func StageBadge(s domain.Stage) string {
	switch s {
	case domain.StageNewLead:
		return StyleBlue.Render(string(s))
	case domain.StageQualified, domain.StageProposalSent:
		return StylePurple.Render(string(s))
	case domain.StageNegotiation:
		return StyleYellow.Render(string(s))
	case domain.StageClosedWon:
		return StyleGreen.Render(string(s))
	case domain.StageClosedLost:
		return StyleDim.Render(string(s))
	default:
		return StyleDim.Render(string(s))
	}
}

func PriorityBadge(p domain.Priority) string {
	switch p {
	case domain.PriorityHigh:
		return StyleRed.Render("▲ High")
	case domain.PriorityMedium:
		return StyleYellow.Render("● Medium")
	case domain.PriorityLow:
		return StyleDim.Render("▽ Low")
	default:
		return StyleDim.Render(string(p))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
