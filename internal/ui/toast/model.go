package toast

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	toastStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#FFFFFF")).
			Foreground(lipgloss.Color("#000000")).
			Padding(0, 1)
	errorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#8B0000")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)
)

const (
	defaultDuration = 2 * time.Second
	maxVisible      = 3
)

type entry struct {
	id      int
	text    string
	isError bool
}

type expiredMsg struct{ id int }

// Model shows transient notifications that expire on their own.
type Model struct {
	entries []entry
	nextID  int
	width   int
}

// New creates an empty toast area.
func New() Model {
	return Model{}
}

// SetWidth sets the available width.
func (m *Model) SetWidth(w int) {
	m.width = w
}

// Push shows text for d (2s when zero). The returned command fires the
// expiry.
func (m Model) Push(text string, d time.Duration, isError bool) (Model, tea.Cmd) {
	if d <= 0 {
		d = defaultDuration
	}
	m.nextID++
	id := m.nextID
	n := len(m.entries)
	m.entries = append(m.entries[:n:n], entry{id: id, text: text, isError: isError})
	if len(m.entries) > maxVisible {
		m.entries = m.entries[len(m.entries)-maxVisible:]
	}
	return m, tea.Tick(d, func(time.Time) tea.Msg {
		return expiredMsg{id: id}
	})
}

// Len returns the number of visible toasts.
func (m Model) Len() int {
	return len(m.entries)
}

// Texts returns the visible toast texts, oldest first.
func (m Model) Texts() []string {
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.text
	}
	return out
}

// Update removes expired toasts.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(expiredMsg); ok {
		kept := m.entries[:0:0]
		for _, e := range m.entries {
			if e.id != msg.id {
				kept = append(kept, e)
			}
		}
		m.entries = kept
	}
	return m, nil
}

// View renders the toasts right-aligned, newest last.
func (m Model) View() string {
	if len(m.entries) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		style := toastStyle
		if e.isError {
			style = errorStyle
		}
		line := style.Render(e.text)
		if m.width > 0 {
			line = lipgloss.PlaceHorizontal(m.width, lipgloss.Right, line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
