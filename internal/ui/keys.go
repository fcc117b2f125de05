package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit       key.Binding
	Search     key.Binding
	Up         key.Binding
	Down       key.Binding
	NextColumn key.Binding
	PrevColumn key.Binding
	Edit       key.Binding
	PrevPage   key.Binding
	NextPage   key.Binding
	FirstPage  key.Binding
	LastPage   key.Binding
	PageButton key.Binding
	Reset      key.Binding
	Retry      key.Binding
}

var Keys = KeyMap{
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/up", "up")),
	Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/down", "down")),
	NextColumn: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "name/body")),
	PrevColumn: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "name/body")),
	Edit:       key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "edit")),
	PrevPage:   key.NewBinding(key.WithKeys("h", "left", "pgup"), key.WithHelp("h/←", "prev page")),
	NextPage:   key.NewBinding(key.WithKeys("l", "right", "pgdown"), key.WithHelp("l/→", "next page")),
	FirstPage:  key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first page")),
	LastPage:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last page")),
	PageButton: key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1-3", "page button")),
	Reset:      key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset all")),
	Retry:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
}

// ShortHelp is the binding list shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Edit, k.PrevPage, k.NextPage, k.Reset, k.Quit}
}
