package ui

import (
	"time"

	"github.com/fragmede/commentdesk/internal/api"
	"github.com/fragmede/commentdesk/internal/dataset"
	"github.com/fragmede/commentdesk/internal/overlay"
	"github.com/fragmede/commentdesk/internal/repo"
)

// State is everything the screen is derived from. Methods return a modified
// copy and never touch the receiver's maps or slices.
type State struct {
	Comments   []api.Comment
	PostTitles map[int]string
	byID       map[int]int

	Query   string
	Page    int
	Overlay overlay.Overlay

	Loading   bool
	Err       error
	Stale     bool
	FetchErr  error
	FetchedAt time.Time
}

// NewState returns the state before the first load.
func NewState() State {
	return State{Page: 1, Overlay: overlay.Overlay{}, Loading: true}
}

// View merges, filters and paginates for display.
func (s State) View() dataset.View {
	return dataset.Derive(s.Comments, s.Overlay, s.Query, s.Page, dataset.PageSize)
}

// clamp pulls Page back into range for the current query and overlay.
func (s State) clamp() State {
	s.Page = s.View().Page
	return s
}

// WithQuery sets the filter, keeping the page if it is still valid.
func (s State) WithQuery(q string) State {
	s.Query = q
	return s.clamp()
}

// WithPage moves to page, clamped to the available pages.
func (s State) WithPage(page int) State {
	s.Page = page
	return s.clamp()
}

// WithOverlay replaces the overlay. Edits can change what the filter
// matches, so the page is clamped again.
func (s State) WithOverlay(ov overlay.Overlay) State {
	s.Overlay = ov
	return s.clamp()
}

// StartLoading marks a fetch in flight and clears the previous error.
func (s State) StartLoading() State {
	s.Loading = true
	s.Err = nil
	return s
}

// WithBaseline installs freshly loaded data.
func (s State) WithBaseline(b *api.Baseline) State {
	s.Comments = b.Comments
	s.PostTitles = b.PostTitles
	s.byID = make(map[int]int, len(b.Comments))
	for i, c := range b.Comments {
		s.byID[c.ID] = i
	}
	s.Loading = false
	s.Err = nil
	return s.clamp()
}

// WithResult applies a repository result.
func (s State) WithResult(r repo.Result) State {
	s = s.WithBaseline(r.Baseline)
	s.Stale = r.Stale
	s.FetchErr = r.FetchErr
	s.FetchedAt = r.FetchedAt
	return s
}

// WithError records a failed load. Data from an earlier load stays.
func (s State) WithError(err error) State {
	s.Loading = false
	s.Err = err
	return s
}

// Loaded reports whether there is data to show.
func (s State) Loaded() bool {
	return s.byID != nil
}

// Comment returns the baseline comment with id.
func (s State) Comment(id int) (api.Comment, bool) {
	i, ok := s.byID[id]
	if !ok {
		return api.Comment{}, false
	}
	return s.Comments[i], true
}

// Edited counts comments with at least one override among the loaded ones.
func (s State) Edited() int {
	n := 0
	for id := range s.Overlay {
		if _, ok := s.byID[id]; ok && s.Overlay.Has(id) {
			n++
		}
	}
	return n
}
