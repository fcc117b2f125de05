package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fragmede/commentdesk/internal/api"
	"github.com/fragmede/commentdesk/internal/config"
	"github.com/fragmede/commentdesk/internal/overlay"
	"github.com/fragmede/commentdesk/internal/repo"
	"github.com/fragmede/commentdesk/internal/ui/messages"
)

type fakeFetcher struct {
	baseline *api.Baseline
	err      error
	gate     chan struct{}
}

func (f *fakeFetcher) FetchAll(ctx context.Context) (*api.Baseline, error) {
	if f.gate != nil {
		<-f.gate
	}
	return f.baseline, f.err
}

type memKV struct {
	data map[string]string
	sets int
}

func (m *memKV) Get(key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(key, value string) error {
	m.sets++
	m.data[key] = value
	return nil
}

func (m *memKV) Remove(key string) error {
	delete(m.data, key)
	return nil
}

func annBaseline() *api.Baseline {
	return api.NewBaseline(
		[]api.Comment{{ID: 1, PostID: 5, Name: "Ann", Email: "a@x.com", Body: "hi"}},
		[]api.Post{{ID: 5, UserID: 1, Title: "Hello"}},
	)
}

func manyBaseline(n int) *api.Baseline {
	comments := make([]api.Comment, n)
	for i := range comments {
		comments[i] = api.Comment{ID: i + 1, PostID: 1, Name: fmt.Sprintf("n%d", i+1), Email: "e@x.com", Body: "b"}
	}
	return api.NewBaseline(comments, []api.Post{{ID: 1, Title: "Post"}})
}

type harness struct {
	app     *App
	kv      *memKV
	fetcher *fakeFetcher
}

func newHarness(t *testing.T, f *fakeFetcher) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	kv := &memKV{data: map[string]string{}}
	r := repo.New(f, nil, false, logger)
	store := overlay.NewStore(kv, overlay.DefaultKey, logger)

	app := NewApp(context.Background(), config.Default(), r, store, logger)
	app.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	return &harness{app: app, kv: kv, fetcher: f}
}

// mount runs Init and delivers the load result the fetch command produces.
func (h *harness) mount(t *testing.T) {
	t.Helper()
	require.NotNil(t, h.app.Init())
	h.deliver(t)
}

func (h *harness) deliver(t *testing.T) {
	t.Helper()
	res, err := h.app.repo.Load(context.Background())
	h.app.Update(messages.BaselineLoadedMsg{Seq: h.app.fetchSeq, Result: res, Err: err})
}

func (h *harness) press(keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = h.app.Update(msg)
	}
	return cmd
}

func notifyText(t *testing.T, cmd tea.Cmd) string {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.NotifyMsg)
	require.True(t, ok)
	return msg.Text
}

func TestMountShowsJoinedRow(t *testing.T) {
	h := newHarness(t, &fakeFetcher{baseline: annBaseline()})
	h.mount(t)

	assert.False(t, h.app.state.Loading)
	out := h.app.View()
	assert.Contains(t, out, "Ann")
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "a@x.com")
}

func TestEditNotifiesOnceAndPersists(t *testing.T) {
	h := newHarness(t, &fakeFetcher{baseline: annBaseline()})
	h.mount(t)

	cmd := h.app.commitEdit(messages.EditCommitMsg{ID: 1, Field: overlay.FieldName, Value: "Annie"})
	assert.Equal(t, `Edited as "Annie"`, notifyText(t, cmd))
	assert.Equal(t, 1, h.kv.sets)
	assert.JSONEq(t, `{"1":{"name":"Annie"}}`, h.kv.data[overlay.DefaultKey])
	assert.Contains(t, h.app.View(), "Annie")

	cmd = h.app.commitEdit(messages.EditCommitMsg{ID: 1, Field: overlay.FieldName, Value: "Annie"})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, h.kv.sets)
}

func TestEditThroughEditor(t *testing.T) {
	h := newHarness(t, &fakeFetcher{baseline: annBaseline()})
	h.mount(t)

	h.press("e")
	require.Equal(t, FocusEdit, h.app.focus)
	assert.Equal(t, "Ann", h.app.editor.Value())

	h.press("i", "e")
	cmd := h.press("enter")
	require.NotNil(t, cmd)
	_, cmd = h.app.Update(cmd())
	assert.Equal(t, FocusTable, h.app.focus)
	assert.Equal(t, `Edited as "Annie"`, notifyText(t, cmd))
}

func TestResetRestoresBaseline(t *testing.T) {
	h := newHarness(t, &fakeFetcher{baseline: annBaseline()})
	h.mount(t)
	h.app.commitEdit(messages.EditCommitMsg{ID: 1, Field: overlay.FieldName, Value: "Annie"})

	cmd := h.press("R")
	assert.Equal(t, "Data reset to original!", notifyText(t, cmd))
	assert.Empty(t, h.app.state.Overlay)
	_, ok := h.kv.data[overlay.DefaultKey]
	assert.False(t, ok)
	assert.NotContains(t, h.app.View(), "Annie")

	// Reset notifies even when there is nothing to reset.
	cmd = h.press("R")
	assert.Equal(t, "Data reset to original!", notifyText(t, cmd))
}

func TestSearchFiltersLive(t *testing.T) {
	h := newHarness(t, &fakeFetcher{baseline: annBaseline()})
	h.mount(t)

	h.press("/", "h", "i")
	assert.Equal(t, "hi", h.app.state.Query)
	assert.Equal(t, 1, h.app.state.View().Total)
	assert.Contains(t, h.app.View(), "Ann")

	h.press("x")
	assert.Equal(t, 0, h.app.state.View().Total)
	assert.Contains(t, h.app.View(), `No comments match "hix".`)

	h.press("esc")
	assert.Equal(t, FocusTable, h.app.focus)
	assert.Equal(t, "hix", h.app.state.Query)
}

func TestPagingIsClamped(t *testing.T) {
	h := newHarness(t, &fakeFetcher{baseline: manyBaseline(25)})
	h.mount(t)

	h.press("l")
	assert.Equal(t, 2, h.app.state.Page)
	h.press("G")
	assert.Equal(t, 3, h.app.state.Page)
	h.press("l")
	assert.Equal(t, 3, h.app.state.Page)
	h.press("g", "h")
	assert.Equal(t, 1, h.app.state.Page)
	h.press("3")
	assert.Equal(t, 3, h.app.state.Page)
}

func TestSupersededLoadIsIgnored(t *testing.T) {
	h := newHarness(t, &fakeFetcher{baseline: annBaseline()})
	h.app.Init()

	res, err := h.app.repo.Load(context.Background())
	require.NoError(t, err)
	h.app.Update(messages.BaselineLoadedMsg{Seq: h.app.fetchSeq + 1, Result: res})
	assert.False(t, h.app.state.Loaded())
	assert.True(t, h.app.state.Loading)
}

func TestLoadAfterQuitIsIgnored(t *testing.T) {
	h := newHarness(t, &fakeFetcher{baseline: annBaseline()})
	h.app.Init()
	h.press("q")
	require.Error(t, h.app.ctx.Err())

	h.deliver(t)
	assert.False(t, h.app.state.Loaded())
}

func TestFetchErrorOffersRetry(t *testing.T) {
	f := &fakeFetcher{err: errors.New("boom")}
	h := newHarness(t, f)
	h.mount(t)

	require.Error(t, h.app.state.Err)
	out := h.app.View()
	assert.Contains(t, out, "Could not load comments")
	assert.Contains(t, out, "boom")

	f.baseline, f.err = annBaseline(), nil
	seq := h.app.fetchSeq
	require.NotNil(t, h.press("r"))
	assert.Equal(t, seq+1, h.app.fetchSeq)
	assert.True(t, h.app.state.Loading)

	h.deliver(t)
	assert.NoError(t, h.app.state.Err)
	assert.Contains(t, h.app.View(), "Ann")
}

func TestHydratedOverlayAppliesOnMount(t *testing.T) {
	h := newHarness(t, &fakeFetcher{baseline: annBaseline()})
	h.kv.data[overlay.DefaultKey] = `{"1":{"body":"edited body"}}`
	h.mount(t)

	assert.Contains(t, h.app.View(), "edited body")
	assert.Equal(t, 1, h.app.state.Edited())
}

func TestCommittingUntouchedMultilineBodyIsNoop(t *testing.T) {
	b := api.NewBaseline(
		[]api.Comment{{ID: 1, PostID: 5, Name: "Ann", Email: "a@x.com", Body: "line one\nline two"}},
		[]api.Post{{ID: 5, Title: "Hello"}},
	)
	h := newHarness(t, &fakeFetcher{baseline: b})
	h.mount(t)

	h.press("tab", "e")
	require.Equal(t, FocusEdit, h.app.focus)
	cmd := h.press("enter")
	require.NotNil(t, cmd)

	_, cmd = h.app.Update(cmd())
	assert.Nil(t, cmd)
	assert.Equal(t, FocusTable, h.app.focus)
	assert.Equal(t, 0, h.kv.sets)
	assert.Empty(t, h.app.state.Overlay)
	assert.Equal(t, 0, h.app.toasts.Len())
}

func TestEditedMultilineBodyIsSaved(t *testing.T) {
	b := api.NewBaseline(
		[]api.Comment{{ID: 1, PostID: 5, Name: "Ann", Email: "a@x.com", Body: "line one\nline two"}},
		[]api.Post{{ID: 5, Title: "Hello"}},
	)
	h := newHarness(t, &fakeFetcher{baseline: b})
	h.mount(t)

	h.press("tab", "e", "!")
	cmd := h.press("enter")
	_, cmd = h.app.Update(cmd())
	assert.Equal(t, `Edited as "line one line two!"`, notifyText(t, cmd))
	assert.Equal(t, 1, h.kv.sets)
}

func TestRetryWaitsForRunningLoad(t *testing.T) {
	f := &fakeFetcher{err: errors.New("boom")}
	h := newHarness(t, f)
	h.mount(t)
	require.Error(t, h.app.state.Err)

	f.gate = make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = h.app.repo.Load(context.Background())
	}()
	require.Eventually(t, h.app.repo.Loading, time.Second, time.Millisecond)

	seq := h.app.fetchSeq
	assert.Nil(t, h.press("r"))
	assert.Equal(t, seq, h.app.fetchSeq)

	close(f.gate)
	<-done
	assert.NotNil(t, h.press("r"))
	assert.Equal(t, seq+1, h.app.fetchSeq)
}

func TestOfflineNoticeUsesItsOwnDuration(t *testing.T) {
	h := newHarness(t, &fakeFetcher{})
	h.app.cfg.OfflineToast = 7 * time.Second
	h.app.Init()

	msg := messages.BaselineLoadedMsg{
		Seq:    h.app.fetchSeq,
		Result: repo.Result{Baseline: annBaseline(), Stale: true, FetchErr: errors.New("offline")},
	}
	_, cmd := h.app.Update(msg)
	require.NotNil(t, cmd)
	notice, ok := cmd().(messages.NotifyMsg)
	require.True(t, ok)
	assert.Equal(t, 7*time.Second, notice.Duration)
	assert.True(t, notice.IsError)
	assert.True(t, h.app.statusBar.Offline())
}
