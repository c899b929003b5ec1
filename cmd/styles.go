package cmd

import "github.com/charmbracelet/lipgloss"

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD75F"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)
