package memory

import (
	"context"

	"github.com/habiliai/memoryruntime/errors"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type (
	// Embedder interface for generating embeddings
	Embedder interface {
		Embed(ctx context.Context, texts ...string) ([][]float32, error)
	}

	// OpenAIEmbedder implements Embedder using the OpenAI embeddings API
	OpenAIEmbedder struct {
		client openai.Client
		model  openai.EmbeddingModel
	}
)

func NewOpenAIEmbedder(apiKey string) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.EmbeddingModelTextEmbedding3Small,
	}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, texts ...string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	res, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
		Model:          e.model,
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to embed %d texts", len(texts))
	}

	embeddings := make([][]float32, len(res.Data))
	for i, d := range res.Data {
		embedding := make([]float32, len(d.Embedding))
		for j, v := range d.Embedding {
			embedding[j] = float32(v)
		}
		embeddings[i] = embedding
	}

	return embeddings, nil
}
