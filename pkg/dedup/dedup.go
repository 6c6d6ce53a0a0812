// Package dedup collapses raw search results into a unique-by-source set.
//
// The server can return several records for the same document, typically one
// per extraction pass (raw text, OCR). SourceURL identifies the underlying
// document; the record whose content actually contains the query term is the
// more useful variant and wins the slot.
package dedup

import (
	"strings"

	"github.com/jlozano/docsight/pkg/client"
)

// Deduplicate returns one result per distinct non-empty SourceURL, preserving
// first-occurrence order. Records without a SourceURL are dropped. When two
// records share a SourceURL the first-seen record wins, unless the later
// record's content contains the query (case-insensitive) while the current
// winner's does not.
func Deduplicate(results []client.SearchResult, query string) []client.SearchResult {
	loweredQuery := strings.ToLower(query)

	unique := make([]client.SearchResult, 0, len(results))
	index := make(map[string]int)

	for _, r := range results {
		if r.SourceURL == "" {
			continue
		}

		i, seen := index[r.SourceURL]
		if !seen {
			index[r.SourceURL] = len(unique)
			unique = append(unique, r)
			continue
		}

		if loweredQuery == "" {
			continue
		}
		winnerMatches := strings.Contains(strings.ToLower(unique[i].Content), loweredQuery)
		laterMatches := strings.Contains(strings.ToLower(r.Content), loweredQuery)
		if laterMatches && !winnerMatches {
			unique[i] = r
		}
	}

	return unique
}
