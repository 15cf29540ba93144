package openmemory

// AddMemoryRequest is the body of POST /memory/add. UserID is duplicated
// at the top level so the server can filter by its user column.
type AddMemoryRequest struct {
	Content  string         `json:"content"`
	Tags     []string       `json:"tags"`
	Metadata map[string]any `json:"metadata"`
	Salience float64        `json:"salience"`
	UserID   string         `json:"user_id"`
}

type AddMemoryResponse struct {
	ID string `json:"id,omitempty"`
}

// QueryRequest is the body of POST /memory/query. The backend expects
// the result bound under "k", not "top_k".
type QueryRequest struct {
	Query  string      `json:"query"`
	K      int         `json:"k"`
	Filter QueryFilter `json:"filter"`
}

type QueryFilter struct {
	UserID string   `json:"user_id,omitempty"`
	Tags   []string `json:"tags,omitempty"`
}

type QueryResponse struct {
	Matches []Match `json:"matches"`
}

// Match is a single recalled memory. Content carries the enriched
// "[Author: ..., Time: ...] text" format written at add time.
type Match struct {
	ID       string  `json:"id,omitempty"`
	Content  string  `json:"content"`
	Score    float64 `json:"score,omitempty"`
	Salience float64 `json:"salience,omitempty"`
}

type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// Healthy reports whether the server answered the liveness probe with a
// passing status.
func (s *HealthStatus) Healthy() bool {
	switch s.Status {
	case "ok", "healthy", "up":
		return true
	}
	return false
}
