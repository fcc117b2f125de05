package celledit

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/commentdesk/internal/overlay"
	"github.com/fragmede/commentdesk/internal/ui/messages"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
)

// Model edits one cell. Enter or tab commits (like leaving the field),
// esc abandons the edit.
//
// The single-line input flattens newlines and tabs, so the value shown can
// differ from the stored one. Committing without typing anything returns the
// stored value untouched.
type Model struct {
	input    textinput.Model
	id       int
	field    overlay.Field
	original string
	shown    string
	width    int
}

// New creates an editor for id's field pre-filled with its current value.
func New(id int, field overlay.Field, current string) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 0
	ti.SetValue(current)
	ti.CursorEnd()

	return Model{
		input:    ti,
		id:       id,
		field:    field,
		original: current,
		shown:    ti.Value(),
	}
}

// Focus gives the input keyboard focus.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

// SetWidth sets the editor width.
func (m *Model) SetWidth(w int) {
	m.width = w
	iw := w - 6
	if iw < 10 {
		iw = 10
	}
	m.input.Width = iw
}

// Value returns the value a commit would carry.
func (m Model) Value() string {
	if !m.Dirty() {
		return m.original
	}
	return m.input.Value()
}

// Dirty reports whether the input differs from what the editor opened with.
func (m Model) Dirty() bool { return m.input.Value() != m.shown }

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter", "tab":
			commit := messages.EditCommitMsg{ID: m.id, Field: m.field, Value: m.Value()}
			m.input.Blur()
			return m, func() tea.Msg { return commit }
		case "esc":
			m.input.Blur()
			return m, func() tea.Msg { return messages.EditCancelMsg{} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the editor.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("Edit %s of comment #%d", m.field, m.id)))
	sb.WriteString("\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n")
	sb.WriteString(hintStyle.Render("enter/tab to save | esc to cancel"))

	box := boxStyle
	if m.width > 4 {
		box = box.Width(m.width - 2)
	}
	return box.Render(sb.String())
}
