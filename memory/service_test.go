package memory_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/habiliai/memoryruntime/config"
	"github.com/habiliai/memoryruntime/entity"
	"github.com/habiliai/memoryruntime/memory"
	"github.com/habiliai/memoryruntime/openmemory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOpenMemory records every request the adapter makes so tests can
// assert on the exact wire payloads.
type fakeOpenMemory struct {
	*httptest.Server

	mu            sync.Mutex
	addRequests   []map[string]any
	queryRequests []map[string]any

	addStatus   int
	queryStatus int
	matches     []openmemory.Match
}

func newFakeOpenMemory(t *testing.T) *fakeOpenMemory {
	t.Helper()

	f := &fakeOpenMemory{
		addStatus:   http.StatusOK,
		queryStatus: http.StatusOK,
	}

	r := mux.NewRouter()
	r.HandleFunc("/memory/add", func(w http.ResponseWriter, req *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))

		f.mu.Lock()
		f.addRequests = append(f.addRequests, body)
		status := f.addStatus
		f.mu.Unlock()

		if status != http.StatusOK {
			http.Error(w, "boom", status)
			return
		}
		w.Write([]byte(`{"id":"mem-1"}`))
	}).Methods(http.MethodPost)
	r.HandleFunc("/memory/query", func(w http.ResponseWriter, req *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))

		f.mu.Lock()
		f.queryRequests = append(f.queryRequests, body)
		status := f.queryStatus
		matches := f.matches
		f.mu.Unlock()

		if status != http.StatusOK {
			http.Error(w, "boom", status)
			return
		}
		_ = json.NewEncoder(w).Encode(openmemory.QueryResponse{Matches: matches})
	}).Methods(http.MethodPost)

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)

	return f
}

func newTestService(t *testing.T, f *fakeOpenMemory, conf *config.OpenMemoryConfig) memory.Service {
	t.Helper()

	if conf == nil {
		conf = config.NewOpenMemoryConfig()
	}
	conf.BaseURL = f.URL
	conf.APIKey = "test-key"

	svc, err := memory.NewService(conf, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	return svc
}

func mockSession() *entity.Session {
	at := time.Date(2025, 1, 1, 10, 32, 1, 0, time.UTC)
	return &entity.Session{
		ID:      "session-1",
		AppName: "test-app",
		UserID:  "test-user",
		Events: []entity.Event{
			{
				ID:           "event-1",
				InvocationID: "inv-1",
				Author:       "user",
				Parts:        []entity.Part{{Text: "Hello, I like Python."}},
				CreatedAt:    at,
			},
			{
				ID:           "event-2",
				InvocationID: "inv-2",
				Author:       "model",
				Parts:        []entity.Part{{Text: "Python is a great programming language."}},
				CreatedAt:    at.Add(time.Second),
			},
			// Empty event, should be ignored
			{
				ID:           "event-3",
				InvocationID: "inv-3",
				Author:       "user",
				CreatedAt:    at.Add(2 * time.Second),
			},
			// Function call event, should be ignored
			{
				ID:           "event-4",
				InvocationID: "inv-4",
				Author:       "agent",
				Parts:        []entity.Part{{FunctionCall: "test_function"}},
				CreatedAt:    at.Add(3 * time.Second),
			},
		},
	}
}

func tagsOf(t *testing.T, body map[string]any) []string {
	t.Helper()
	raw, ok := body["tags"].([]any)
	require.True(t, ok, "tags must be an array, got %T", body["tags"])
	tags := make([]string, 0, len(raw))
	for _, v := range raw {
		tags = append(tags, v.(string))
	}
	return tags
}

func TestAddSessionToMemory(t *testing.T) {
	ctx := t.Context()
	f := newFakeOpenMemory(t)
	svc := newTestService(t, f, nil)

	require.NoError(t, svc.AddSessionToMemory(ctx, mockSession()))

	// Two events carry text, the other two are skipped
	require.Len(t, f.addRequests, 2)

	first := f.addRequests[0]
	assert.Contains(t, first["content"], "[Author: user")
	assert.Contains(t, first["content"], "Hello, I like Python.")
	assert.Contains(t, tagsOf(t, first), "session:session-1")
	assert.Contains(t, tagsOf(t, first), "app:test-app")
	assert.Contains(t, tagsOf(t, first), "author:user")
	assert.InDelta(t, 0.8, first["salience"], 1e-9)
	assert.Equal(t, "test-user", first["user_id"])

	meta := first["metadata"].(map[string]any)
	assert.Equal(t, "user", meta["author"])
	assert.Equal(t, "test-app", meta["app_name"])
	assert.Equal(t, "session-1", meta["session_id"])
	assert.Equal(t, "event-1", meta["event_id"])
	assert.Equal(t, "inv-1", meta["invocation_id"])
	assert.Equal(t, "agent_session", meta["source"])

	second := f.addRequests[1]
	assert.Contains(t, second["content"], "[Author: model")
	assert.Contains(t, second["content"], "Python is a great programming language.")
	assert.InDelta(t, 0.7, second["salience"], 1e-9)
}

func TestAddSessionToMemory_FiltersEmptyEvents(t *testing.T) {
	ctx := t.Context()
	f := newFakeOpenMemory(t)
	svc := newTestService(t, f, nil)

	require.NoError(t, svc.AddSessionToMemory(ctx, &entity.Session{
		ID:      "session-1",
		AppName: "test-app",
		UserID:  "test-user",
	}))

	assert.Empty(t, f.addRequests)
}

func TestAddSessionToMemory_UsesConfigSalience(t *testing.T) {
	ctx := t.Context()
	f := newFakeOpenMemory(t)

	conf := config.NewOpenMemoryConfig()
	conf.UserContentSalience = 0.9
	conf.ModelContentSalience = 0.6
	svc := newTestService(t, f, conf)

	require.NoError(t, svc.AddSessionToMemory(ctx, mockSession()))

	require.Len(t, f.addRequests, 2)
	assert.InDelta(t, 0.9, f.addRequests[0]["salience"], 1e-9)
	assert.InDelta(t, 0.6, f.addRequests[1]["salience"], 1e-9)
}

func TestAddSessionToMemory_WithoutMetadataTags(t *testing.T) {
	ctx := t.Context()
	f := newFakeOpenMemory(t)

	conf := config.NewOpenMemoryConfig()
	conf.EnableMetadataTags = false
	svc := newTestService(t, f, conf)

	require.NoError(t, svc.AddSessionToMemory(ctx, mockSession()))

	require.Len(t, f.addRequests, 2)
	assert.Empty(t, tagsOf(t, f.addRequests[0]))
}

func TestAddSessionToMemory_ContinuesOnServerError(t *testing.T) {
	ctx := t.Context()
	f := newFakeOpenMemory(t)
	f.addStatus = http.StatusInternalServerError
	svc := newTestService(t, f, nil)

	// Per-event failures are logged, not returned
	require.NoError(t, svc.AddSessionToMemory(ctx, mockSession()))
	assert.Len(t, f.addRequests, 2, "remaining events are still attempted")
}

func TestSearchMemory(t *testing.T) {
	ctx := t.Context()
	f := newFakeOpenMemory(t)
	f.matches = []openmemory.Match{
		{Content: "[Author: user, Time: 2025-01-01T00:00:00] Python is great"},
		{Content: "[Author: model, Time: 2025-01-01T00:01:00] I like programming"},
	}
	svc := newTestService(t, f, nil)

	res, err := svc.SearchMemory(ctx, "test-app", "test-user", "Python programming")
	require.NoError(t, err)

	require.Len(t, f.queryRequests, 1)
	req := f.queryRequests[0]
	assert.Equal(t, "Python programming", req["query"])
	assert.InDelta(t, 10, req["k"], 1e-9)
	filter := req["filter"].(map[string]any)
	assert.Equal(t, "test-user", filter["user_id"])
	assert.Contains(t, filter["tags"], "app:test-app")

	require.Len(t, res.Memories, 2)
	assert.Equal(t, "Python is great", res.Memories[0].Content)
	assert.Equal(t, "user", res.Memories[0].Author)
	assert.Equal(t, "2025-01-01T00:00:00", res.Memories[0].Timestamp)
	assert.Equal(t, "I like programming", res.Memories[1].Content)
	assert.Equal(t, "model", res.Memories[1].Author)
}

func TestSearchMemory_RespectsTopK(t *testing.T) {
	ctx := t.Context()
	f := newFakeOpenMemory(t)

	conf := config.NewOpenMemoryConfig()
	conf.SearchTopK = 5
	svc := newTestService(t, f, conf)

	_, err := svc.SearchMemory(ctx, "test-app", "test-user", "test query")
	require.NoError(t, err)

	require.Len(t, f.queryRequests, 1)
	assert.InDelta(t, 5, f.queryRequests[0]["k"], 1e-9)
}

func TestSearchMemory_WithoutMetadataTags(t *testing.T) {
	ctx := t.Context()
	f := newFakeOpenMemory(t)

	conf := config.NewOpenMemoryConfig()
	conf.EnableMetadataTags = false
	svc := newTestService(t, f, conf)

	_, err := svc.SearchMemory(ctx, "test-app", "test-user", "test query")
	require.NoError(t, err)

	require.Len(t, f.queryRequests, 1)
	filter := f.queryRequests[0]["filter"].(map[string]any)
	assert.Equal(t, "test-user", filter["user_id"])
	_, hasTags := filter["tags"]
	assert.False(t, hasTags, "no tag filter when metadata tags are disabled")
}

func TestSearchMemory_EmptyOnServerError(t *testing.T) {
	ctx := t.Context()
	f := newFakeOpenMemory(t)
	f.queryStatus = http.StatusInternalServerError
	svc := newTestService(t, f, nil)

	res, err := svc.SearchMemory(ctx, "test-app", "test-user", "test query")
	require.NoError(t, err)
	assert.Empty(t, res.Memories)
}

func TestNewService_InvalidConfig(t *testing.T) {
	conf := config.NewOpenMemoryConfig()
	conf.SearchTopK = 0

	_, err := memory.NewService(conf, slog.New(slog.DiscardHandler))
	require.Error(t, err)
}
