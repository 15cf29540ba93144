package memory

import (
	"regexp"
	"strings"
)

// Enriched content format written at save time:
//
//	[Author: user, Time: 2025-11-04T10:32:01] Content text
var (
	enrichedRe = regexp.MustCompile(`(?s)^\[([^\]]+)\]\s+(.*)`)
	authorRe   = regexp.MustCompile(`Author:\s*([^,\]]+)`)
	timeRe     = regexp.MustCompile(`Time:\s*([^,\]]+)`)
)

// parseEnrichedContent strips the metadata prefix and recovers author and
// timestamp. Content without a prefix is returned untouched.
func parseEnrichedContent(raw string) Entry {
	entry := Entry{Content: raw}

	m := enrichedRe.FindStringSubmatch(raw)
	if m == nil {
		return entry
	}

	meta := m[1]
	entry.Content = m[2]

	if am := authorRe.FindStringSubmatch(meta); am != nil {
		entry.Author = strings.TrimSpace(am[1])
	}
	if tm := timeRe.FindStringSubmatch(meta); tm != nil {
		entry.Timestamp = strings.TrimSpace(tm[1])
	}

	return entry
}
