package statusbar

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	barStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#FFFFFF"))

	helpStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Padding(0, 1)

	editedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#7D56F4")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)

	statusTextStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#AAAAAA")).
			Padding(0, 1)

	errorTextStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#FF5555")).
			Padding(0, 1)

	offlineStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#8B0000")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)
)

// Model is the status bar at the bottom of the screen.
type Model struct {
	width       int
	help        help.Model
	bindings    []key.Binding
	editedCount int
	statusText  string
	statusError bool
	offline     bool
}

// New creates a new status bar showing the given key help.
func New(bindings []key.Binding) Model {
	h := help.New()
	h.ShortSeparator = " · "
	return Model{help: h, bindings: bindings}
}

// SetSize sets the width.
func (m *Model) SetSize(w int) {
	m.width = w
}

// SetEdited sets the number of comments carrying edits.
func (m *Model) SetEdited(n int) {
	m.editedCount = n
}

// SetStatus sets the status message.
func (m *Model) SetStatus(text string, isError bool) {
	m.statusText = text
	m.statusError = isError
}

// SetOffline sets the offline indicator.
func (m *Model) SetOffline(offline bool) {
	m.offline = offline
}

// Offline reports whether the offline indicator is shown.
func (m Model) Offline() bool {
	return m.offline
}

// Update is a no-op for the status bar.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the status bar.
func (m Model) View() string {
	left := helpStyle.Render(m.help.ShortHelpView(m.bindings))

	var right string
	if m.statusText != "" {
		if m.statusError {
			right += errorTextStyle.Render(m.statusText)
		} else {
			right += statusTextStyle.Render(m.statusText)
		}
	}
	if m.editedCount > 0 {
		right += editedStyle.Render(fmt.Sprintf("%d edited", m.editedCount))
	}
	if m.offline {
		right += offlineStyle.Render("OFFLINE")
	}

	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)
	gap := m.width - leftWidth - rightWidth
	if gap < 0 {
		gap = 0
	}
	mid := barStyle.Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, mid, right)
}
