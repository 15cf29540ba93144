package memoryruntime_test

import (
	"context"
	"testing"

	"github.com/habiliai/memoryruntime"
	"github.com/habiliai/memoryruntime/entity"
	"github.com/habiliai/memoryruntime/internal/mytesting"
	"github.com/habiliai/memoryruntime/memory"
	"github.com/stretchr/testify/suite"
)

type stubMemoryService struct {
	savedSessions []*entity.Session
	searches      []searchCall
	response      *memory.SearchResponse
}

type searchCall struct {
	appName string
	userID  string
	query   string
}

func (s *stubMemoryService) AddSessionToMemory(ctx context.Context, session *entity.Session) error {
	s.savedSessions = append(s.savedSessions, session)
	return nil
}

func (s *stubMemoryService) SearchMemory(ctx context.Context, appName, userID, query string) (*memory.SearchResponse, error) {
	s.searches = append(s.searches, searchCall{appName: appName, userID: userID, query: query})
	if s.response != nil {
		return s.response, nil
	}
	return &memory.SearchResponse{}, nil
}

func (s *stubMemoryService) Close() error { return nil }

type RuntimeTestSuite struct {
	mytesting.Suite
}

func (s *RuntimeTestSuite) newRuntime(stub *stubMemoryService) *memoryruntime.Runtime {
	runtime, err := memoryruntime.NewRuntime(s.Context,
		memoryruntime.WithAgent(entity.Agent{Name: "MemoryBot"}),
		memoryruntime.WithMemoryService(stub),
	)
	s.Require().NoError(err)
	s.T().Cleanup(runtime.Close)

	return runtime
}

func (s *RuntimeTestSuite) TestRequiresAgent() {
	_, err := memoryruntime.NewRuntime(s.Context)
	s.Require().ErrorContains(err, "agent is required")
}

func (s *RuntimeTestSuite) TestCreateSessionUsesAgentName() {
	runtime := s.newRuntime(&stubMemoryService{})

	sess, err := runtime.CreateSession(s.Context, "user-1")
	s.Require().NoError(err)
	s.Equal("MemoryBot", sess.AppName)
	s.Equal("user-1", sess.UserID)
}

func (s *RuntimeTestSuite) TestSaveSessionFlushesTranscript() {
	stub := &stubMemoryService{}
	runtime := s.newRuntime(stub)

	sess, err := runtime.CreateSession(s.Context, "user-1")
	s.Require().NoError(err)

	s.Require().NoError(runtime.GetSessionService().AppendEvent(s.Context, sess.ID, &entity.Event{
		Author: entity.EventAuthorUser,
		Parts:  []entity.Part{{Text: "my name is Dana"}},
	}))

	s.Require().NoError(runtime.SaveSession(s.Context, sess.ID))

	s.Require().Len(stub.savedSessions, 1)
	saved := stub.savedSessions[0]
	s.Equal(sess.ID, saved.ID)
	s.Require().Len(saved.Events, 1)
	s.Equal("my name is Dana", saved.Events[0].Text())
}

func (s *RuntimeTestSuite) TestRecallScopesByAgentAndUser() {
	stub := &stubMemoryService{
		response: &memory.SearchResponse{Memories: []memory.Entry{{Content: "User's name is Dana"}}},
	}
	runtime := s.newRuntime(stub)

	res, err := runtime.Recall(s.Context, "user-1", "what is my name?")
	s.Require().NoError(err)

	s.Require().Len(stub.searches, 1)
	s.Equal("MemoryBot", stub.searches[0].appName)
	s.Equal("user-1", stub.searches[0].userID)
	s.Equal("what is my name?", stub.searches[0].query)

	s.Require().Len(res.Memories, 1)
	s.Equal("User's name is Dana", res.Memories[0].Content)
}

func TestRuntime(t *testing.T) {
	suite.Run(t, new(RuntimeTestSuite))
}
