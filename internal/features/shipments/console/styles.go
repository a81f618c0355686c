package console

import "github.com/charmbracelet/lipgloss"

// Styles groups the console's lipgloss styles.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Focused lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Footer  lipgloss.Style
}

// DefaultStyles returns the console palette.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginBottom(1),
		Label:   lipgloss.NewStyle().Bold(true),
		Focused: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Footer:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginTop(1),
	}
}
