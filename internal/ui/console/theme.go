package console

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Stage   lipgloss.Style
	Success lipgloss.Style
	Failure lipgloss.Style
	Warning lipgloss.Style
	Faint   lipgloss.Style
}

func DefaultTheme() Theme {
	return Theme{
		Stage:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Failure: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Faint:   lipgloss.NewStyle().Faint(true),
	}
}
