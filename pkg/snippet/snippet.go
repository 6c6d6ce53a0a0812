// Package snippet produces the display excerpt for a search result: either a
// precomputed extracted answer with a short preview of the raw text, or a
// window around the first case-insensitive occurrence of the query with each
// occurrence marked for emphasis.
package snippet

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Fixed excerpt budgets, in bytes of the source text.
const (
	prefixLen    = 150 // no-match and empty-query prefix
	previewLen   = 150 // raw-text preview accompanying an extracted answer
	windowBefore = 50  // context kept before the first match
	windowAfter  = 100 // context kept after the first match
)

// Kind discriminates the two rendering paths.
type Kind int

const (
	// KindExcerpt renders a plain or highlighted window of the raw text.
	KindExcerpt Kind = iota
	// KindAnswer renders a precomputed extracted answer with a preview.
	KindAnswer
)

// Segment is one run of excerpt text. Emphasized segments match the query.
type Segment struct {
	Text       string
	Emphasized bool
}

// Rendering is the tagged union of the two display shapes. For KindAnswer,
// Answer and Preview are set and Segments is empty; for KindExcerpt, Segments
// carries the excerpt and the ellipsis flags say whether it was cut off.
type Rendering struct {
	Kind             Kind
	Answer           string
	Preview          string
	Segments         []Segment
	LeadingEllipsis  bool
	TrailingEllipsis bool
}

// Build renders text for display against the active query. When the server
// supplied an extracted answer it takes precedence and query matching is
// skipped entirely.
func Build(text, query, extractedAnswer string) Rendering {
	if extractedAnswer != "" {
		preview, truncated := clip(text, previewLen)
		return Rendering{
			Kind:             KindAnswer,
			Answer:           extractedAnswer,
			Preview:          strings.TrimSpace(preview),
			TrailingEllipsis: truncated,
		}
	}

	if query == "" {
		return prefixRendering(text)
	}

	// Match and split both fold rune by rune over the original text, so every
	// offset is a byte offset into text itself. Lowercasing the whole string
	// up front would shift offsets for runes whose lower form has a different
	// byte length.
	folded := foldRunes(query)
	idx, matchEnd := findFold(text, folded)
	if idx < 0 {
		return prefixRendering(text)
	}

	start := idx - windowBefore
	if start < 0 {
		start = 0
	}
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	end := matchEnd + windowAfter
	if end > len(text) {
		end = len(text)
	}
	for end > matchEnd && end < len(text) && !utf8.RuneStart(text[end]) {
		end--
	}

	return Rendering{
		Kind:             KindExcerpt,
		Segments:         splitFold(text[start:end], folded),
		LeadingEllipsis:  start > 0,
		TrailingEllipsis: end < len(text),
	}
}

func prefixRendering(text string) Rendering {
	prefix, truncated := clip(text, prefixLen)
	return Rendering{
		Kind:             KindExcerpt,
		Segments:         []Segment{{Text: prefix}},
		TrailingEllipsis: truncated,
	}
}

// clip returns at most limit bytes of text without splitting a UTF-8
// sequence, and whether anything was cut off.
func clip(text string, limit int) (string, bool) {
	if len(text) <= limit {
		return text, false
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut], true
}

// splitFold partitions window into plain and emphasized segments using the
// same fold findFold matches with.
func splitFold(window string, folded []rune) []Segment {
	var segments []Segment
	for len(window) > 0 {
		i, end := findFold(window, folded)
		if i < 0 {
			segments = append(segments, Segment{Text: window})
			break
		}
		if i > 0 {
			segments = append(segments, Segment{Text: window[:i]})
		}
		segments = append(segments, Segment{Text: window[i:end], Emphasized: true})
		window = window[end:]
	}
	return segments
}

// foldRunes lowers query to the rune sequence both matching passes compare
// against.
func foldRunes(query string) []rune {
	folded := make([]rune, 0, utf8.RuneCountInString(query))
	for _, r := range query {
		folded = append(folded, unicode.ToLower(r))
	}
	return folded
}

// findFold returns the byte offsets [start, end) in s of the first
// case-insensitive occurrence of folded, or (-1, -1). folded must be
// non-empty and already lowered.
func findFold(s string, folded []rune) (int, int) {
	for i := 0; i < len(s); {
		if n, ok := matchFold(s[i:], folded); ok {
			return i, i + n
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return -1, -1
}

// matchFold reports whether s starts with folded under per-rune lowering, and
// how many bytes of s the match spans.
func matchFold(s string, folded []rune) (int, bool) {
	n := 0
	for _, q := range folded {
		r, size := utf8.DecodeRuneInString(s[n:])
		if size == 0 || unicode.ToLower(r) != q {
			return 0, false
		}
		n += size
	}
	return n, true
}
