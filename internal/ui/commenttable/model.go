package commenttable

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/fragmede/commentdesk/internal/api"
	"github.com/fragmede/commentdesk/internal/dataset"
	"github.com/fragmede/commentdesk/internal/highlight"
	"github.com/fragmede/commentdesk/internal/overlay"
	"github.com/fragmede/commentdesk/internal/render"
)

// pagerWidth is how many numbered page buttons the pager shows.
const pagerWidth = 3

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282"))
	editedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600")).Bold(true)
	plainStyle  = lipgloss.NewStyle()
	selectStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#3C3C5C")).
			Foreground(lipgloss.Color("#FFFFFF"))
	matchStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#FFD700")).
			Foreground(lipgloss.Color("#000000"))
	currentPageStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("#7D56F4")).
				Foreground(lipgloss.Color("#FFFFFF")).
				Bold(true)
	detailTitleStyle = lipgloss.NewStyle().Bold(true)
	emptyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")).Italic(true).Padding(1, 2)
)

// Columns the cursor can sit on.
var editableColumns = []overlay.Field{overlay.FieldName, overlay.FieldBody}

// Model is the comment table with its pager and a detail pane for the
// selected row.
type Model struct {
	view   dataset.View
	titles map[int]string
	ov     overlay.Overlay
	query  string

	cursor int
	column int

	width  int
	height int
}

// New creates an empty table.
func New() Model {
	return Model{}
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetData replaces the rows on screen. The cursor stays on the same row
// index when it still exists.
func (m *Model) SetData(view dataset.View, titles map[int]string, ov overlay.Overlay, query string) {
	m.view = view
	m.titles = titles
	m.ov = ov
	m.query = query
	if m.cursor >= len(view.Rows) {
		m.cursor = len(view.Rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// ResetCursor moves the selection to the first row.
func (m *Model) ResetCursor() { m.cursor = 0 }

// Column returns the field under the cursor.
func (m Model) Column() overlay.Field { return editableColumns[m.column] }

// Selected returns the merged comment under the cursor.
func (m Model) Selected() (api.Comment, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.Rows) {
		return api.Comment{}, false
	}
	return m.view.Rows[m.cursor], true
}

// Update handles cursor movement.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch km.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.view.Rows)-1 {
			m.cursor++
		}
	case "tab":
		m.column = (m.column + 1) % len(editableColumns)
	case "shift+tab":
		m.column = (m.column + len(editableColumns) - 1) % len(editableColumns)
	}
	return m, nil
}

// View renders the table, pager and detail pane.
func (m Model) View() string {
	if len(m.view.Rows) == 0 {
		msg := "No comments."
		if m.query != "" {
			msg = fmt.Sprintf("No comments match %q.", m.query)
		}
		return emptyStyle.Render(msg)
	}

	sections := []string{m.renderTable(), m.renderPager()}
	if detail := m.renderDetail(); detail != "" {
		sections = append(sections, detail)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type widths struct {
	id, email, name, body, post int
}

func (m Model) columnWidths() widths {
	w := widths{id: 6, email: 24, post: 22}
	// Five columns of padding plus six border runes.
	rest := m.width - w.id - w.email - w.post - 5*2 - 6
	if rest < 30 {
		rest = 30
	}
	w.name = rest / 3
	w.body = rest - w.name
	return w
}

func (m Model) renderTable() string {
	w := m.columnWidths()
	rows := make([][]string, 0, len(m.view.Rows))
	for i, c := range m.view.Rows {
		id := strconv.Itoa(c.ID)
		if m.ov.Has(c.ID) {
			id = editedStyle.Render("*") + id
		} else {
			id = " " + id
		}
		selected := i == m.cursor
		rows = append(rows, []string{
			id,
			m.cell(c.Email, w.email, false),
			m.cell(c.Name, w.name, selected && m.Column() == overlay.FieldName),
			m.cell(c.Body, w.body, selected && m.Column() == overlay.FieldBody),
			dimStyle.Render(render.Truncate(m.postLabel(c.PostID), w.post)),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(
			headerStyle.Render("#"),
			headerStyle.Render("Email"),
			headerStyle.Render("Name"),
			headerStyle.Render("Body"),
			headerStyle.Render("Post"),
		).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			return cellStyle
		})
	return t.Render()
}

// cell flattens and truncates text, then marks query matches.
func (m Model) cell(text string, width int, selected bool) string {
	text = render.Truncate(render.OneLine(text), width)
	base := plainStyle
	if selected {
		base = selectStyle
	}
	var b strings.Builder
	for _, s := range highlight.Spans(text, m.query) {
		if s.Text == "" {
			continue
		}
		if s.Match {
			b.WriteString(matchStyle.Render(s.Text))
		} else {
			b.WriteString(base.Render(s.Text))
		}
	}
	if selected && text == "" {
		b.WriteString(base.Render(" "))
	}
	return b.String()
}

func (m Model) postLabel(postID int) string {
	if title, ok := m.titles[postID]; ok {
		return title
	}
	return fmt.Sprintf("post %d", postID)
}

func (m Model) renderPager() string {
	var parts []string
	if m.view.Page > 1 {
		parts = append(parts, "‹ prev")
	} else {
		parts = append(parts, dimStyle.Render("‹ prev"))
	}
	for _, p := range dataset.PageWindow(m.view.Page, m.view.PageCount, pagerWidth) {
		label := fmt.Sprintf(" %d ", p)
		if p == m.view.Page {
			parts = append(parts, currentPageStyle.Render(label))
		} else {
			parts = append(parts, label)
		}
	}
	if m.view.Page < m.view.PageCount {
		parts = append(parts, "next ›")
	} else {
		parts = append(parts, dimStyle.Render("next ›"))
	}
	summary := dimStyle.Render(fmt.Sprintf("  page %d/%d · %d comments", m.view.Page, m.view.PageCount, m.view.Total))
	return " " + strings.Join(parts, " ") + summary
}

func (m Model) renderDetail() string {
	c, ok := m.Selected()
	if !ok {
		return ""
	}
	width := m.width - 4
	if width < 20 {
		width = 20
	}
	var b strings.Builder
	b.WriteString(detailTitleStyle.Render(render.Truncate(m.postLabel(c.PostID), width)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(render.Truncate(fmt.Sprintf("%s <%s>", render.OneLine(c.Name), c.Email), width)))
	b.WriteString("\n\n")
	b.WriteString(render.BodyText(c.Body, width))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// PageButton returns the page number of the n-th (1-based) numbered button
// in the pager, or 0 when there is no such button.
func (m Model) PageButton(n int) int {
	pages := dataset.PageWindow(m.view.Page, m.view.PageCount, pagerWidth)
	if n < 1 || n > len(pages) {
		return 0
	}
	return pages[n-1]
}
