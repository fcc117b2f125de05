// Package highlight finds case-insensitive literal matches of a search query
// inside display text. The query is never interpreted as a pattern.
package highlight

import (
	"strings"
	"unicode/utf8"
)

// Span is a run of text that either matches the query or does not.
type Span struct {
	Text  string
	Match bool
}

// Spans splits text around every match of query. The result alternates
// unmatched and matched spans, starting and ending with an unmatched span
// (which may be empty). Joining all span texts yields text unchanged.
func Spans(text, query string) []Span {
	if query == "" {
		return []Span{{Text: text}}
	}

	var spans []Span
	start := 0
	for i := 0; i < len(text); {
		if end, ok := matchAt(text, i, query); ok {
			spans = append(spans,
				Span{Text: text[start:i]},
				Span{Text: text[i:end], Match: true},
			)
			i = end
			start = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return append(spans, Span{Text: text[start:]})
}

// Index returns the byte offset of the first case-insensitive match of query
// in text, or -1. An empty query matches at 0.
func Index(text, query string) int {
	if query == "" {
		return 0
	}
	for i := 0; i < len(text); {
		if _, ok := matchAt(text, i, query); ok {
			return i
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return -1
}

// Contains reports whether query occurs in text, ignoring case.
func Contains(text, query string) bool {
	return Index(text, query) >= 0
}

// matchAt compares query against text starting at byte offset i, rune by
// rune under simple case folding. It returns the end offset of the match.
func matchAt(text string, i int, query string) (int, bool) {
	j := 0
	for j < len(query) {
		if i >= len(text) {
			return 0, false
		}
		tr, tsize := utf8.DecodeRuneInString(text[i:])
		qr, qsize := utf8.DecodeRuneInString(query[j:])
		switch {
		case invalid(tr, tsize) || invalid(qr, qsize):
			// Undecodable bytes only match themselves.
			if tsize != qsize || text[i] != query[j] {
				return 0, false
			}
		case tr != qr && !foldEqual(tr, qr):
			return 0, false
		}
		i += tsize
		j += qsize
	}
	return i, true
}

func invalid(r rune, size int) bool {
	return r == utf8.RuneError && size == 1
}

func foldEqual(a, b rune) bool {
	return strings.EqualFold(string(a), string(b))
}
