package memory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/habiliai/memoryruntime/config"
	"github.com/habiliai/memoryruntime/entity"
	"github.com/habiliai/memoryruntime/errors"
	"github.com/habiliai/memoryruntime/openmemory"
	"github.com/samber/lo"
)

type openMemoryService struct {
	client *openmemory.Client
	config *config.OpenMemoryConfig
	logger *slog.Logger
}

var (
	_ Service = (*openMemoryService)(nil)
)

// NewService creates a memory service backed by a remote OpenMemory
// server. The config is validated once here and never mutated afterwards.
func NewService(conf *config.OpenMemoryConfig, logger *slog.Logger) (Service, error) {
	if conf == nil {
		conf = config.NewOpenMemoryConfig()
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return &openMemoryService{
		client: openmemory.NewClient(conf.BaseURL, conf.APIKey, conf.Timeout),
		config: conf,
		logger: logger,
	}, nil
}

// NewServiceWithClient is like NewService with a caller-supplied client.
func NewServiceWithClient(client *openmemory.Client, conf *config.OpenMemoryConfig, logger *slog.Logger) (Service, error) {
	if conf == nil {
		conf = config.NewOpenMemoryConfig()
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if client == nil {
		return nil, errors.New("client is required")
	}

	return &openMemoryService{
		client: client,
		config: conf,
		logger: logger,
	}, nil
}

// AddSessionToMemory stores every event that carries text. Failures on a
// single event are logged and do not abort the rest of the session.
func (s *openMemoryService) AddSessionToMemory(ctx context.Context, session *entity.Session) error {
	if session == nil {
		return errors.Wrapf(errors.ErrInvalidParams, "session is required")
	}

	memoriesAdded := 0
	for i := range session.Events {
		event := &session.Events[i]
		contentText := event.Text()
		if contentText == "" {
			continue
		}

		req := s.buildAddRequest(event, contentText, session)
		if _, err := s.client.AddMemory(ctx, req); err != nil {
			s.logger.Error("failed to add memory for event", "event_id", event.ID, "err", err)
			continue
		}

		memoriesAdded++
		s.logger.Debug("added memory for event", "event_id", event.ID)
	}

	s.logger.Info("added memories from session", "count", memoriesAdded, "session_id", session.ID)
	return nil
}

// SearchMemory queries the server and parses the enriched content of each
// match. On transport or API errors it logs and returns an empty response
// so recall failures never break the caller's turn.
func (s *openMemoryService) SearchMemory(ctx context.Context, appName, userID, query string) (*SearchResponse, error) {
	req := s.buildQueryRequest(appName, userID, query)

	res, err := s.client.Query(ctx, req)
	if err != nil {
		s.logger.Error("failed to search memories", "query", query, "err", err)
		return &SearchResponse{}, nil
	}

	memories := make([]Entry, 0, len(res.Matches))
	for _, match := range res.Matches {
		if match.Content == "" {
			continue
		}
		memories = append(memories, parseEnrichedContent(match.Content))
	}

	s.logger.Info("found memories", "count", len(memories), "query", query)
	return &SearchResponse{Memories: memories}, nil
}

func (s *openMemoryService) Close() error {
	return nil
}

// buildAddRequest enriches the content with author and timestamp so both
// survive recall without extra API calls, and attaches filterable
// metadata and tags.
func (s *openMemoryService) buildAddRequest(event *entity.Event, contentText string, session *entity.Session) *openmemory.AddMemoryRequest {
	var timestampStr string
	if !event.CreatedAt.IsZero() {
		timestampStr = formatTimestamp(event.CreatedAt)
	}

	var metadataParts []string
	if event.Author != "" {
		metadataParts = append(metadataParts, fmt.Sprintf("Author: %s", event.Author))
	}
	if timestampStr != "" {
		metadataParts = append(metadataParts, fmt.Sprintf("Time: %s", timestampStr))
	}

	enrichedContent := contentText
	if len(metadataParts) > 0 {
		enrichedContent = "[" + strings.Join(metadataParts, ", ") + "] " + contentText
	}

	req := &openmemory.AddMemoryRequest{
		Content: enrichedContent,
		Tags:    []string{},
		Metadata: map[string]any{
			"app_name":      session.AppName,
			"user_id":       session.UserID,
			"session_id":    session.ID,
			"event_id":      event.ID,
			"invocation_id": event.InvocationID,
			"author":        event.Author,
			"timestamp":     timestampStr,
			"source":        "agent_session",
		},
		Salience: s.determineSalience(event.Author),
		UserID:   session.UserID,
	}

	if s.config.EnableMetadataTags {
		req.Tags = lo.Compact([]string{
			"session:" + session.ID,
			"app:" + session.AppName,
			lo.Ternary(event.Author != "", "author:"+event.Author, ""),
		})
	}

	return req
}

func (s *openMemoryService) buildQueryRequest(appName, userID, query string) *openmemory.QueryRequest {
	req := &openmemory.QueryRequest{
		Query: query,
		K:     s.config.SearchTopK,
		Filter: openmemory.QueryFilter{
			// Always scope by user for multi-user isolation
			UserID: userID,
		},
	}

	if s.config.EnableMetadataTags {
		req.Filter.Tags = []string{"app:" + appName}
	}

	return req
}

// determineSalience picks the configured weight for the content author.
func (s *openMemoryService) determineSalience(author string) float64 {
	switch strings.ToLower(author) {
	case entity.EventAuthorUser:
		return s.config.UserContentSalience
	case entity.EventAuthorModel:
		return s.config.ModelContentSalience
	default:
		return s.config.DefaultSalience
	}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05")
}
