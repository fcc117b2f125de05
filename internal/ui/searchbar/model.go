package searchbar

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	focusedStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color("#7D56F4"))
	blurredStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color("#444444"))
)

// Model is the search input above the table.
type Model struct {
	input textinput.Model
	width int
}

// New creates an empty search bar.
func New() Model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render("search: ")
	ti.Placeholder = "name, email or body (press /)"
	return Model{input: ti}
}

// SetWidth sets the input width.
func (m *Model) SetWidth(w int) {
	m.width = w
	iw := w - 12
	if iw < 10 {
		iw = 10
	}
	m.input.Width = iw
}

// Focus starts accepting input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

// Blur stops accepting input; the query is kept.
func (m *Model) Blur() {
	m.input.Blur()
}

// Value returns the current query.
func (m Model) Value() string {
	return m.input.Value()
}

// Update forwards input to the text field.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the search bar.
func (m Model) View() string {
	style := blurredStyle
	if m.input.Focused() {
		style = focusedStyle
	}
	if m.width > 0 {
		style = style.Width(m.width)
	}
	return style.Render(m.input.View())
}
