package engine

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/habiliai/memoryruntime/entity"
	"github.com/habiliai/memoryruntime/errors"
	"github.com/mokiat/gog"
	"github.com/openai/openai-go"
)

// Run executes one agent turn: system prompt plus history plus the
// current user prompt, routed to the provider named by the agent's model.
func (e *Engine) Run(ctx context.Context, agent entity.Agent, req RunRequest) (*RunResponse, error) {
	if req.Prompt == "" {
		return nil, errors.Wrapf(errors.ErrInvalidParams, "prompt is required")
	}

	systemPrompt, err := BuildSystemPrompt(agent, req.Memories)
	if err != nil {
		return nil, err
	}

	modelName := agent.ModelName
	if modelName == "" {
		modelName = DefaultModel
	}
	provider, name, found := strings.Cut(modelName, "/")
	if !found {
		provider, name = "openai", modelName
	}

	e.logger.Debug("run agent turn", "agent", agent.Name, "model", modelName, "history", len(req.History), "memories", len(req.Memories))

	switch provider {
	case "openai":
		return e.generateOpenAI(ctx, name, systemPrompt, req)
	case "anthropic":
		return e.generateAnthropic(ctx, name, systemPrompt, req)
	default:
		return nil, errors.Errorf("unknown model provider %q in %q", provider, modelName)
	}
}

func (e *Engine) generateOpenAI(ctx context.Context, model, systemPrompt string, req RunRequest) (*RunResponse, error) {
	if e.config.OpenAIAPIKey == "" {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "OPENAI_API_KEY is required for model %q", model)
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.History)+2)
	messages = append(messages, openai.SystemMessage(systemPrompt))
	messages = append(messages, gog.Map(req.History, func(c Conversation) openai.ChatCompletionMessageParamUnion {
		if strings.EqualFold(c.User, entity.EventAuthorUser) {
			return openai.UserMessage(c.Text)
		}
		return openai.AssistantMessage(c.Text)
	})...)
	messages = append(messages, openai.UserMessage(req.Prompt))

	res, err := e.openaiClient.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "openai completion failed for model %q", model)
	}
	if len(res.Choices) == 0 {
		return nil, errors.Errorf("openai returned no choices for model %q", model)
	}

	return &RunResponse{Text: res.Choices[0].Message.Content}, nil
}

func (e *Engine) generateAnthropic(ctx context.Context, model, systemPrompt string, req RunRequest) (*RunResponse, error) {
	if e.config.AnthropicAPIKey == "" {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "ANTHROPIC_API_KEY is required for model %q", model)
	}

	messages := make([]anthropic.MessageParam, 0, len(req.History)+1)
	messages = append(messages, gog.Map(req.History, func(c Conversation) anthropic.MessageParam {
		if strings.EqualFold(c.User, entity.EventAuthorUser) {
			return anthropic.NewUserMessage(anthropic.NewTextBlock(c.Text))
		}
		return anthropic.NewAssistantMessage(anthropic.NewTextBlock(c.Text))
	})...)
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)))

	res, err := e.anthropicClient.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 2048,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: messages,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "anthropic completion failed for model %q", model)
	}

	var sb strings.Builder
	for _, block := range res.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return nil, errors.Errorf("anthropic returned no text for model %q", model)
	}

	return &RunResponse{Text: sb.String()}, nil
}
