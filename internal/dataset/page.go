package dataset

import (
	"github.com/fragmede/commentdesk/internal/api"
	"github.com/fragmede/commentdesk/internal/overlay"
)

// PageCount is ceil(n/size); zero items give zero pages.
func PageCount(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// ClampPage limits page to [1, count]. With no pages the result is 1.
func ClampPage(page, count int) int {
	if page > count {
		page = count
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Paginate returns the 1-based page of list. Out of range pages are empty.
func Paginate(list []api.Comment, page, size int) []api.Comment {
	if page < 1 || size <= 0 {
		return nil
	}
	start := (page - 1) * size
	if start >= len(list) {
		return nil
	}
	end := start + size
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

// PageWindow returns up to width consecutive page numbers for the pager,
// keeping the current page in view and hugging the last page near the end.
func PageWindow(page, count, width int) []int {
	if count <= 0 || width <= 0 {
		return nil
	}
	start := min(max(page-1, 1), max(count-width+1, 1))
	pages := make([]int, 0, width)
	for p := start; p < start+width && p <= count; p++ {
		pages = append(pages, p)
	}
	return pages
}

// View is one derived screenful.
type View struct {
	Rows      []api.Comment
	Page      int
	PageCount int
	Total     int
}

// Derive merges, filters and paginates in one pass. page is clamped to the
// resulting page count.
func Derive(comments []api.Comment, ov overlay.Overlay, query string, page, size int) View {
	filtered := Filter(Merge(comments, ov), query)
	count := PageCount(len(filtered), size)
	page = ClampPage(page, count)
	return View{
		Rows:      Paginate(filtered, page, size),
		Page:      page,
		PageCount: count,
		Total:     len(filtered),
	}
}
