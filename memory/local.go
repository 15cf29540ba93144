package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/habiliai/memoryruntime/config"
	"github.com/habiliai/memoryruntime/entity"
	"github.com/habiliai/memoryruntime/errors"
	"gonum.org/v1/gonum/mat"
)

type (
	// LocalService implements Service without a server. It keeps
	// everything in process memory and scores recall by embedding
	// similarity. Useful for tests and offline demos; nothing decays and
	// nothing survives a restart.
	LocalService struct {
		mu       sync.RWMutex
		records  []localRecord
		embedder Embedder
		config   *config.OpenMemoryConfig
		logger   *slog.Logger
	}

	localRecord struct {
		appName   string
		userID    string
		content   string
		author    string
		timestamp string
		embedding []float32
	}
)

var (
	_ Service = (*LocalService)(nil)
)

func NewLocalService(embedder Embedder, conf *config.OpenMemoryConfig, logger *slog.Logger) (*LocalService, error) {
	if conf == nil {
		conf = config.NewOpenMemoryConfig()
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}

	return &LocalService{
		embedder: embedder,
		config:   conf,
		logger:   logger,
	}, nil
}

func (s *LocalService) AddSessionToMemory(ctx context.Context, session *entity.Session) error {
	if session == nil {
		return errors.Wrapf(errors.ErrInvalidParams, "session is required")
	}

	var (
		texts   []string
		pending []localRecord
	)
	for i := range session.Events {
		event := &session.Events[i]
		text := event.Text()
		if text == "" {
			continue
		}

		texts = append(texts, text)
		pending = append(pending, localRecord{
			appName:   session.AppName,
			userID:    session.UserID,
			content:   text,
			author:    event.Author,
			timestamp: formatTimestamp(event.CreatedAt),
		})
	}
	if len(pending) == 0 {
		return nil
	}

	embeddings, err := s.embedder.Embed(ctx, texts...)
	if err != nil {
		return errors.Wrapf(err, "failed to embed session %s", session.ID)
	}
	if len(embeddings) != len(pending) {
		return errors.Errorf("embedder returned %d embeddings for %d texts", len(embeddings), len(pending))
	}
	for i := range pending {
		pending[i].embedding = embeddings[i]
	}

	s.mu.Lock()
	s.records = append(s.records, pending...)
	s.mu.Unlock()

	s.logger.Info("added memories from session", "count", len(pending), "session_id", session.ID)
	return nil
}

func (s *LocalService) SearchMemory(ctx context.Context, appName, userID, query string) (*SearchResponse, error) {
	queryEmbeddings, err := s.embedder.Embed(ctx, query)
	if err != nil || len(queryEmbeddings) == 0 {
		s.logger.Error("failed to embed query", "query", query, "err", err)
		return &SearchResponse{}, nil
	}
	queryEmbedding := queryEmbeddings[0]

	s.mu.RLock()
	candidates := make([]localRecord, 0, len(s.records))
	for _, r := range s.records {
		if r.appName != appName || r.userID != userID {
			continue
		}
		if len(r.embedding) != len(queryEmbedding) {
			continue
		}
		candidates = append(candidates, r)
	}
	s.mu.RUnlock()

	if len(candidates) == 0 {
		return &SearchResponse{}, nil
	}

	scores := scoreBySimilarity(candidates, queryEmbedding)

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	limit := s.config.SearchTopK
	if limit > len(order) {
		limit = len(order)
	}

	memories := make([]Entry, 0, limit)
	for _, idx := range order[:limit] {
		r := candidates[idx]
		memories = append(memories, Entry{
			Content:   r.content,
			Author:    r.author,
			Timestamp: r.timestamp,
		})
	}

	return &SearchResponse{Memories: memories}, nil
}

func (s *LocalService) Close() error {
	return nil
}

// scoreBySimilarity computes record x query inner products in one matrix
// multiplication. OpenAI embeddings are normalized, so the product lands
// in [-1,1]; it is shifted to [0,1] to match the server's score range.
func scoreBySimilarity(records []localRecord, queryEmbedding []float32) []float64 {
	dim := len(queryEmbedding)

	queryVec := make([]float64, dim)
	for i, v := range queryEmbedding {
		queryVec[i] = float64(v)
	}

	data := make([]float64, len(records)*dim)
	for i, r := range records {
		for j, v := range r.embedding {
			data[i*dim+j] = float64(v)
		}
	}

	queryVector := mat.NewVecDense(dim, queryVec)
	recordMatrix := mat.NewDense(len(records), dim, data)

	var resultVec mat.VecDense
	resultVec.MulVec(recordMatrix, queryVector)

	scores := make([]float64, len(records))
	for i := range records {
		scores[i] = (resultVec.AtVec(i) + 1.0) * 0.5
	}

	return scores
}
