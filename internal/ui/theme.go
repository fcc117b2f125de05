package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#7D56F4")

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(accent).
			Padding(0, 1)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#828282"))

	ErrorTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF8888"))

	HintKeyStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(accent)

	PanelStyle = lipgloss.NewStyle().
			Padding(1, 2)
)
