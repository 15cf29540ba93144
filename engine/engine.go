package engine

import (
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/habiliai/memoryruntime/config"
	"github.com/habiliai/memoryruntime/memory"
	"github.com/openai/openai-go"
	openaioption "github.com/openai/openai-go/option"
)

type (
	Engine struct {
		logger *slog.Logger
		config *config.ModelConfig

		openaiClient    openai.Client
		anthropicClient anthropic.Client
	}

	// Conversation is one prior turn handed to the model as history.
	Conversation struct {
		User string `json:"user"`
		Text string `json:"text"`
	}

	RunRequest struct {
		// History is replayed before the current prompt.
		History []Conversation

		// Prompt is the current user input.
		Prompt string

		// Memories recalled for this turn are injected into the system
		// prompt as prior context.
		Memories []memory.Entry
	}

	RunResponse struct {
		Text string `json:"text"`
	}
)

const DefaultModel = "openai/gpt-4o"

func NewEngine(logger *slog.Logger, conf *config.ModelConfig) *Engine {
	return &Engine{
		logger:          logger,
		config:          conf,
		openaiClient:    openai.NewClient(openaioption.WithAPIKey(conf.OpenAIAPIKey)),
		anthropicClient: anthropic.NewClient(anthropicoption.WithAPIKey(conf.AnthropicAPIKey)),
	}
}
