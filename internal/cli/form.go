package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/leadpipe/internal/cli/formatter"
	"github.com/alexanderramin/leadpipe/internal/contact"
	"github.com/alexanderramin/leadpipe/internal/domain"
)

func leadpipeHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// leadForm collects the fields of a new lead into f. sources are offered in
// the source select; an empty list falls back to the default sources.
func leadForm(f *leadFlags, sources []string) *huh.Form {
	if len(sources) == 0 {
		for _, s := range domain.DefaultLeadSources {
			sources = append(sources, string(s))
		}
	}
	if f.priority == "" {
		f.priority = string(domain.PriorityMedium)
	}

	priorityOpts := make([]huh.Option[string], 0, 3)
	for _, p := range domain.Priorities() {
		priorityOpts = append(priorityOpts, huh.NewOption(string(p), string(p)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&f.name).Validate(validateRequired("name")),
			huh.NewInput().Title("Email").Value(&f.email).Validate(contact.ValidateEmail),
			huh.NewInput().Title("Phone").Value(&f.phone),
			huh.NewInput().Title("Property Address").Value(&f.address),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Source").Options(huh.NewOptions(sources...)...).Value(&f.source),
			huh.NewSelect[string]().Title("Priority").Options(priorityOpts...).Value(&f.priority),
			huh.NewInput().Title("Projected Value").Placeholder("5000").Value(&f.value).Validate(validateOptionalAmount),
			huh.NewInput().Title("Follow-up Date (YYYY-MM-DD, blank for none)").Placeholder("2025-06-30").
				Value(&f.followUp).Validate(validateOptionalDate),
			huh.NewText().Title("Notes").Value(&f.notes),
		),
	).WithTheme(leadpipeHuhTheme()).WithShowHelp(false)
}

func validateRequired(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func validateOptionalDate(s string) error {
	_, err := parseOptionalDate(s)
	return err
}

func validateOptionalAmount(s string) error {
	v, err := parseOptionalAmount(s)
	if err != nil {
		return err
	}
	if v != nil && *v < 0 {
		return fmt.Errorf("amount must be >= 0")
	}
	return nil
}
