package memoryruntime

import (
	"context"
	"log/slog"

	"github.com/habiliai/memoryruntime/config"
	"github.com/habiliai/memoryruntime/engine"
	"github.com/habiliai/memoryruntime/entity"
	"github.com/habiliai/memoryruntime/errors"
	"github.com/habiliai/memoryruntime/internal/mylog"
	"github.com/habiliai/memoryruntime/memory"
	"github.com/habiliai/memoryruntime/session"
	"github.com/samber/lo"
)

type (
	// Runtime wires an agent, a local session store and a long-term
	// memory service into one conversational loop.
	Runtime struct {
		engine         *engine.Engine
		logger         *slog.Logger
		agent          *entity.Agent
		memoryService  memory.Service
		sessionService session.Service

		modelConfig      *config.ModelConfig
		memoryConfig     *config.OpenMemoryConfig
		logConfig        *config.LogConfig
		sessionStorePath string
	}
	Option func(*Runtime)
)

func NewRuntime(ctx context.Context, optionFuncs ...Option) (*Runtime, error) {
	r := &Runtime{
		logConfig:        config.NewLogConfig(),
		sessionStorePath: ":memory:",
	}
	for _, f := range optionFuncs {
		f(r)
	}

	if r.logger == nil {
		r.logger = mylog.NewLogger(r.logConfig.LogLevel, r.logConfig.LogHandler)
	}

	if r.agent == nil {
		return nil, errors.New("agent is required")
	}

	var err error
	if r.modelConfig == nil {
		if r.modelConfig, err = config.ResolveModelConfig(); err != nil {
			return nil, err
		}
	}
	if r.memoryConfig == nil {
		if r.memoryConfig, err = config.ResolveOpenMemoryConfig(); err != nil {
			return nil, err
		}
	}

	if r.memoryService == nil {
		if r.memoryService, err = memory.NewService(r.memoryConfig, r.logger); err != nil {
			return nil, err
		}
	}

	if r.sessionService == nil {
		if r.sessionService, err = session.NewSqliteService(r.sessionStorePath, r.logger); err != nil {
			return nil, err
		}
	}

	r.engine = engine.NewEngine(r.logger, r.modelConfig)

	return r, nil
}

func (r *Runtime) Agent() *entity.Agent {
	return r.agent
}

func (r *Runtime) GetMemoryService() memory.Service {
	return r.memoryService
}

func (r *Runtime) GetSessionService() session.Service {
	return r.sessionService
}

// CreateSession opens a new transcript for the given user under the
// agent's app name.
func (r *Runtime) CreateSession(ctx context.Context, userID string) (*entity.Session, error) {
	return r.sessionService.CreateSession(ctx, r.agent.Name, userID)
}

// Run executes one turn: recalls memories relevant to the prompt, replays
// the session history, asks the model, and appends both turns to the
// session transcript.
func (r *Runtime) Run(ctx context.Context, sessionID, prompt string) (*engine.RunResponse, error) {
	sess, err := r.sessionService.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	recalled, err := r.memoryService.SearchMemory(ctx, sess.AppName, sess.UserID, prompt)
	if err != nil {
		return nil, err
	}

	history := lo.FilterMap(sess.Events, func(e entity.Event, _ int) (engine.Conversation, bool) {
		text := e.Text()
		if text == "" {
			return engine.Conversation{}, false
		}
		return engine.Conversation{User: e.Author, Text: text}, true
	})

	res, err := r.engine.Run(ctx, *r.agent, engine.RunRequest{
		History:  history,
		Prompt:   prompt,
		Memories: recalled.Memories,
	})
	if err != nil {
		return nil, err
	}

	if err := r.sessionService.AppendEvent(ctx, sessionID, &entity.Event{
		Author: entity.EventAuthorUser,
		Parts:  []entity.Part{{Text: prompt}},
	}); err != nil {
		return nil, err
	}
	if err := r.sessionService.AppendEvent(ctx, sessionID, &entity.Event{
		Author: entity.EventAuthorModel,
		Parts:  []entity.Part{{Text: res.Text}},
	}); err != nil {
		return nil, err
	}

	return res, nil
}

// SaveSession flushes the session transcript into long-term memory.
func (r *Runtime) SaveSession(ctx context.Context, sessionID string) error {
	sess, err := r.sessionService.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	return r.memoryService.AddSessionToMemory(ctx, sess)
}

// Recall searches long-term memory for this agent's app and the given
// user.
func (r *Runtime) Recall(ctx context.Context, userID, query string) (*memory.SearchResponse, error) {
	return r.memoryService.SearchMemory(ctx, r.agent.Name, userID, query)
}

func (r *Runtime) Close() {
	if err := r.memoryService.Close(); err != nil {
		r.logger.Warn("failed to close memory service", "err", err)
	}
	if err := r.sessionService.Close(); err != nil {
		r.logger.Warn("failed to close session service", "err", err)
	}
}

func WithAgent(agent entity.Agent) Option {
	return func(r *Runtime) {
		r.agent = &agent
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

func WithLogConfig(logConfig *config.LogConfig) Option {
	return func(r *Runtime) {
		r.logConfig = logConfig
	}
}

func WithOpenAIAPIKey(apiKey string) Option {
	return func(r *Runtime) {
		if r.modelConfig == nil {
			r.modelConfig = &config.ModelConfig{}
		}
		r.modelConfig.OpenAIAPIKey = apiKey
	}
}

func WithAnthropicAPIKey(apiKey string) Option {
	return func(r *Runtime) {
		if r.modelConfig == nil {
			r.modelConfig = &config.ModelConfig{}
		}
		r.modelConfig.AnthropicAPIKey = apiKey
	}
}

func WithOpenMemoryConfig(conf *config.OpenMemoryConfig) Option {
	return func(r *Runtime) {
		r.memoryConfig = conf
	}
}

func WithMemoryService(memoryService memory.Service) Option {
	return func(r *Runtime) {
		r.memoryService = memoryService
	}
}

func WithSessionService(sessionService session.Service) Option {
	return func(r *Runtime) {
		r.sessionService = sessionService
	}
}

// WithSessionStorePath sets the SQLite file backing the default session
// store. Ignored when WithSessionService is used.
func WithSessionStorePath(path string) Option {
	return func(r *Runtime) {
		r.sessionStorePath = path
	}
}
