package memory

import (
	"context"

	"github.com/habiliai/memoryruntime/entity"
)

type (
	// Entry is one recalled memory. Author and Timestamp are recovered
	// from the enriched content written at save time; they are empty when
	// the stored content carried no prefix.
	Entry struct {
		Content   string `json:"content"`
		Author    string `json:"author,omitempty"`
		Timestamp string `json:"timestamp,omitempty"`
	}

	SearchResponse struct {
		Memories []Entry `json:"memories"`
	}

	// Service ingests sessions into long-term memory and answers
	// queries over what was ingested.
	Service interface {
		// AddSessionToMemory persists every meaningful event of the
		// session. A session may be added multiple times during its
		// lifetime.
		AddSessionToMemory(ctx context.Context, session *entity.Session) error

		// SearchMemory returns memories relevant to the query, scoped to
		// one app and one user.
		SearchMemory(ctx context.Context, appName, userID, query string) (*SearchResponse, error)

		Close() error
	}
)
