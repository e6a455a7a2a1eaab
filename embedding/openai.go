package embedding

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
	"github.com/use-gist/gist/models"
)

// embeddingsAPI is the slice of *openai.Client used here, extracted so
// tests can fake the provider.
type embeddingsAPI interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// OpenAIEmbedder implements Embedder on the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client embeddingsAPI
	model  string
}

// NewOpenAIEmbedder creates an embedder using the given model
// (e.g. "text-embedding-3-small").
func NewOpenAIEmbedder(client embeddingsAPI, model string) *OpenAIEmbedder {
	return &OpenAIEmbedder{client: client, model: model}
}

// ModelName identifies the embedding model.
func (e *OpenAIEmbedder) ModelName() string { return e.model }

// Embed returns the embedding vector for text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, wrapEmbedError(err)
	}
	if len(resp.Data) == 0 {
		return nil, models.NewAPIError(models.ErrCodeEmbeddingFailure, "embedding response was empty", nil)
	}

	return resp.Data[0].Embedding, nil
}
