package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used to render the views.
type Styles struct {
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Heading   lipgloss.Style
	Selected  lipgloss.Style
	Faint     lipgloss.Style
	Label     lipgloss.Style
	Info      lipgloss.Style
	Warn      lipgloss.Style
	Error     lipgloss.Style
}

// DefaultStyles targets dark terminals.
func DefaultStyles() Styles {
	return Styles{
		Tab:       lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245")),
		ActiveTab: lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("62")),
		Heading:   lipgloss.NewStyle().Bold(true),
		Selected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Faint:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Label:     lipgloss.NewStyle().Width(14).Foreground(lipgloss.Color("245")),
		Info:      lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		Warn:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Error:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
	}
}
