package ui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/commentdesk/internal/config"
	"github.com/fragmede/commentdesk/internal/overlay"
	"github.com/fragmede/commentdesk/internal/repo"
	"github.com/fragmede/commentdesk/internal/ui/celledit"
	"github.com/fragmede/commentdesk/internal/ui/commenttable"
	"github.com/fragmede/commentdesk/internal/ui/messages"
	"github.com/fragmede/commentdesk/internal/ui/searchbar"
	"github.com/fragmede/commentdesk/internal/ui/statusbar"
	"github.com/fragmede/commentdesk/internal/ui/toast"
)

// Focus identifies which component receives key presses.
type Focus int

const (
	FocusTable Focus = iota
	FocusSearch
	FocusEdit
)

// App is the root Bubble Tea model.
type App struct {
	state State
	focus Focus

	// Child models
	table     commenttable.Model
	search    searchbar.Model
	editor    celledit.Model
	toasts    toast.Model
	statusBar statusbar.Model
	spinner   spinner.Model

	// Shared state
	cfg    config.Config
	repo   *repo.Repository
	store  *overlay.Store
	logger *slog.Logger

	// Fetch lifecycle. Results whose seq is not fetchSeq, or that arrive
	// after quit, are dropped.
	ctx      context.Context
	cancel   context.CancelFunc
	fetchSeq int
	closed   bool

	// Dimensions
	width  int
	height int
}

// NewApp creates the root application model.
func NewApp(ctx context.Context, cfg config.Config, r *repo.Repository, store *overlay.Store, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(ctx)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	return &App{
		state:     NewState(),
		table:     commenttable.New(),
		search:    searchbar.New(),
		toasts:    toast.New(),
		statusBar: statusbar.New(Keys.ShortHelp()),
		spinner:   sp,
		cfg:       cfg,
		repo:      r,
		store:     store,
		logger:    logger.With("component", "ui"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Init hydrates the overlay and starts the one load of the session.
// Hydration runs before any edit can be committed.
func (a *App) Init() tea.Cmd {
	a.state = a.state.WithOverlay(a.store.Load())
	return tea.Batch(a.fetch(), a.spinner.Tick)
}

// fetch issues a repository load tagged with a fresh sequence number.
func (a *App) fetch() tea.Cmd {
	a.fetchSeq++
	seq := a.fetchSeq
	a.state = a.state.StartLoading()
	a.statusBar.SetStatus("", false)

	r, ctx := a.repo, a.ctx
	return func() tea.Msg {
		res, err := r.Load(ctx)
		return messages.BaselineLoadedMsg{Seq: seq, Result: res, Err: err}
	}
}

// Update handles all messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.table.SetSize(msg.Width, msg.Height-4)
		a.search.SetWidth(msg.Width)
		a.editor.SetWidth(msg.Width)
		a.toasts.SetWidth(msg.Width)
		a.statusBar.SetSize(msg.Width)
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case messages.BaselineLoadedMsg:
		a.loaded(msg)
		return a, a.offlineNotice(msg)

	case messages.EditCommitMsg:
		a.closeEditor()
		return a, a.commitEdit(msg)

	case messages.EditCancelMsg:
		a.closeEditor()
		return a, nil

	case messages.NotifyMsg:
		var cmd tea.Cmd
		a.toasts, cmd = a.toasts.Push(msg.Text, msg.Duration, msg.IsError)
		return a, cmd

	case messages.StatusMsg:
		a.statusBar.SetStatus(msg.Text, msg.IsError)
		return a, nil

	case spinner.TickMsg:
		if !a.loading() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.toasts, cmd = a.toasts.Update(msg)
	cmds = append(cmds, cmd)
	if a.focus == FocusEdit {
		a.editor, cmd = a.editor.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

// loading reports whether a fetch is pending. State.Loading is set as soon
// as the command is issued; the repository flag covers a load still running
// after its result was superseded.
func (a *App) loading() bool {
	return a.state.Loading || a.repo.Loading()
}

func (a *App) loaded(msg messages.BaselineLoadedMsg) {
	if a.closed || msg.Seq != a.fetchSeq {
		a.logger.Debug("dropping superseded load", "seq", msg.Seq, "current", a.fetchSeq)
		return
	}
	if msg.Err != nil {
		a.state = a.state.WithError(msg.Err)
		a.statusBar.SetStatus("load failed", true)
		return
	}
	a.state = a.state.WithResult(msg.Result)
	a.statusBar.SetOffline(msg.Result.Stale)
	if msg.Result.Stale {
		a.statusBar.SetStatus("cached "+msg.Result.FetchedAt.Format("Jan 2 15:04"), true)
	}
	a.syncTable()
}

func (a *App) offlineNotice(msg messages.BaselineLoadedMsg) tea.Cmd {
	if a.closed || msg.Seq != a.fetchSeq || msg.Err != nil || !msg.Result.Stale {
		return nil
	}
	return notify("Offline: showing cached comments", a.cfg.OfflineToast, true)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return a.quit()
	}

	switch a.focus {
	case FocusEdit:
		var cmd tea.Cmd
		a.editor, cmd = a.editor.Update(msg)
		return cmd

	case FocusSearch:
		switch msg.String() {
		case "enter", "esc":
			a.search.Blur()
			a.focus = FocusTable
			return nil
		}
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		if q := a.search.Value(); q != a.state.Query {
			a.state = a.state.WithQuery(q)
			a.table.ResetCursor()
			a.syncTable()
		}
		return cmd
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return a.quit()
	case key.Matches(msg, Keys.Retry):
		if a.loading() || (a.state.Err == nil && !a.state.Stale) {
			return nil
		}
		return tea.Batch(a.fetch(), a.spinner.Tick)
	}

	if !a.state.Loaded() {
		return nil
	}

	switch {
	case key.Matches(msg, Keys.Search):
		a.focus = FocusSearch
		return a.search.Focus()
	case key.Matches(msg, Keys.PrevPage):
		a.setPage(a.state.Page - 1)
	case key.Matches(msg, Keys.NextPage):
		a.setPage(a.state.Page + 1)
	case key.Matches(msg, Keys.FirstPage):
		a.setPage(1)
	case key.Matches(msg, Keys.LastPage):
		a.setPage(a.state.View().PageCount)
	case key.Matches(msg, Keys.PageButton):
		n := int(msg.Runes[0] - '0')
		if p := a.table.PageButton(n); p > 0 {
			a.setPage(p)
		}
	case key.Matches(msg, Keys.Edit):
		return a.openEditor()
	case key.Matches(msg, Keys.Reset):
		return a.reset()
	case key.Matches(msg, Keys.Up, Keys.Down, Keys.NextColumn, Keys.PrevColumn):
		var cmd tea.Cmd
		a.table, cmd = a.table.Update(msg)
		return cmd
	}
	return nil
}

func (a *App) setPage(page int) {
	before := a.state.Page
	a.state = a.state.WithPage(page)
	if a.state.Page != before {
		a.table.ResetCursor()
	}
	a.syncTable()
}

func (a *App) openEditor() tea.Cmd {
	sel, ok := a.table.Selected()
	if !ok {
		return nil
	}
	base, ok := a.state.Comment(sel.ID)
	if !ok {
		return nil
	}
	field := a.table.Column()
	a.editor = celledit.New(base.ID, field, a.state.Overlay.Effective(base, field))
	a.editor.SetWidth(a.width)
	a.focus = FocusEdit
	return a.editor.Focus()
}

func (a *App) closeEditor() {
	if a.focus == FocusEdit {
		a.focus = FocusTable
	}
}

// commitEdit applies an edit and returns the notification for it, or nil
// when the value did not change.
func (a *App) commitEdit(msg messages.EditCommitMsg) tea.Cmd {
	base, ok := a.state.Comment(msg.ID)
	if !ok {
		a.logger.Warn("edit for unknown comment", "id", msg.ID)
		return nil
	}
	ov, changed, err := a.store.SetField(base, msg.Field, msg.Value)
	if changed {
		a.state = a.state.WithOverlay(ov)
		a.syncTable()
	}
	if err != nil {
		a.logger.Error("saving edit failed", "id", msg.ID, "field", string(msg.Field), "error", err)
		return notify("Edit not saved: "+err.Error(), a.cfg.EditToast, true)
	}
	if !changed {
		return nil
	}
	return notify(`Edited as "`+msg.Value+`"`, a.cfg.EditToast, false)
}

func (a *App) reset() tea.Cmd {
	ov, err := a.store.Reset()
	a.state = a.state.WithOverlay(ov)
	a.syncTable()

	done := notify("Data reset to original!", a.cfg.ResetToast, false)
	if err != nil {
		a.logger.Error("reset failed", "error", err)
		return tea.Batch(done, notify("Reset not saved: "+err.Error(), a.cfg.ResetToast, true))
	}
	return done
}

func (a *App) quit() tea.Cmd {
	a.closed = true
	a.cancel()
	return tea.Quit
}

func (a *App) syncTable() {
	a.table.SetData(a.state.View(), a.state.PostTitles, a.state.Overlay, a.state.Query)
	a.statusBar.SetEdited(a.state.Edited())
}

func notify(text string, d time.Duration, isError bool) tea.Cmd {
	return func() tea.Msg {
		return messages.NotifyMsg{Text: text, Duration: d, IsError: isError}
	}
}

// View renders the application.
func (a *App) View() string {
	sections := []string{a.header(), a.content()}
	if a.focus == FocusEdit {
		sections = append(sections, a.editor.View())
	}
	sections = append(sections, a.search.View())
	if t := a.toasts.View(); t != "" {
		sections = append(sections, t)
	}
	sections = append(sections, a.statusBar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) header() string {
	title := HeaderStyle.Render("commentdesk")
	if !a.state.Loaded() {
		return title
	}
	return title + SubtleStyle.Render(fmt.Sprintf("  %d comments · %d posts", len(a.state.Comments), len(a.state.PostTitles)))
}

func (a *App) content() string {
	if a.state.Loaded() {
		return a.table.View()
	}
	if a.state.Err != nil {
		return PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			ErrorTitleStyle.Render("Could not load comments"),
			ErrorTextStyle.Render(a.state.Err.Error()),
			"",
			SubtleStyle.Render("press ")+HintKeyStyle.Render("r")+SubtleStyle.Render(" to retry, ")+
				HintKeyStyle.Render("q")+SubtleStyle.Render(" to quit"),
		))
	}
	return PanelStyle.Render(a.spinner.View() + " Loading comments...")
}
