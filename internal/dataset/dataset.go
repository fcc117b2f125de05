// Package dataset derives the visible table from the fetched baseline, the
// edit overlay, the search query and the current page. Everything here is a
// pure function of its inputs and is recomputed on every render.
package dataset

import (
	"github.com/fragmede/commentdesk/internal/api"
	"github.com/fragmede/commentdesk/internal/highlight"
	"github.com/fragmede/commentdesk/internal/overlay"
)

// PageSize is the number of rows per page.
const PageSize = 10

// Merge returns the baseline comments with their overrides applied, in
// fetch order. The input slice is not modified.
func Merge(comments []api.Comment, ov overlay.Overlay) []api.Comment {
	merged := make([]api.Comment, len(comments))
	for i, c := range comments {
		merged[i] = ov.Apply(c)
	}
	return merged
}

// Matches reports whether c's name, body or email contains query.
func Matches(c api.Comment, query string) bool {
	return highlight.Contains(c.Name, query) ||
		highlight.Contains(c.Body, query) ||
		highlight.Contains(c.Email, query)
}

// Filter keeps the comments matching query, preserving order. An empty
// query returns list as is.
func Filter(list []api.Comment, query string) []api.Comment {
	if query == "" {
		return list
	}
	out := make([]api.Comment, 0, len(list))
	for _, c := range list {
		if Matches(c, query) {
			out = append(out, c)
		}
	}
	return out
}
