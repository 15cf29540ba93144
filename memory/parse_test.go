package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEnrichedContent(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Entry
	}{
		{
			name: "author and time",
			raw:  "[Author: user, Time: 2025-11-04T10:32:01] Content text",
			want: Entry{Content: "Content text", Author: "user", Timestamp: "2025-11-04T10:32:01"},
		},
		{
			name: "author only",
			raw:  "[Author: model] Some reply",
			want: Entry{Content: "Some reply", Author: "model"},
		},
		{
			name: "time only",
			raw:  "[Time: 2025-11-04T10:32:01] No author here",
			want: Entry{Content: "No author here", Timestamp: "2025-11-04T10:32:01"},
		},
		{
			name: "no prefix",
			raw:  "Plain content without metadata",
			want: Entry{Content: "Plain content without metadata"},
		},
		{
			name: "multiline content",
			raw:  "[Author: user, Time: 2025-01-01T00:00:00] line one\nline two",
			want: Entry{Content: "line one\nline two", Author: "user", Timestamp: "2025-01-01T00:00:00"},
		},
		{
			name: "brackets inside content",
			raw:  "[Author: user] see [RFC 9110] for details",
			want: Entry{Content: "see [RFC 9110] for details", Author: "user"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseEnrichedContent(tt.raw))
		})
	}
}
