package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles of the form page.
type Styles struct {
	Title        lipgloss.Style
	Label        lipgloss.Style
	Button       lipgloss.Style
	ButtonActive lipgloss.Style
	Output       lipgloss.Style
	Status       lipgloss.Style
	Help         lipgloss.Style
}

// DefaultStyles returns the default page styles.
func DefaultStyles() Styles {
	button := lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder())
	return Styles{
		Title:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).MarginBottom(1),
		Label:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Button:       button.BorderForeground(lipgloss.Color("240")),
		ButtonActive: button.BorderForeground(lipgloss.Color("63")).Foreground(lipgloss.Color("63")).Bold(true),
		Output:       lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		Status:       lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("214")),
		Help:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}
