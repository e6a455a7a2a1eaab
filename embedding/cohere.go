package embedding

import (
	"context"
	"net/http"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
	"github.com/use-gist/gist/models"
)

// CohereEmbedder implements Embedder on the Cohere Embed v2 API.
type CohereEmbedder struct {
	client *cohereclient.Client
	model  string
}

// NewCohereEmbedder creates an embedder using the given model
// (e.g. "embed-english-v3.0").
func NewCohereEmbedder(apiKey, model string) *CohereEmbedder {
	// Force HTTP/1.1: the Cohere endpoint intermittently resets HTTP/2
	// streams under load.
	httpClient := &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			ForceAttemptHTTP2: false,
		},
	}
	client := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	)
	return &CohereEmbedder{client: client, model: model}
}

// ModelName identifies the embedding model.
func (e *CohereEmbedder) ModelName() string { return e.model }

// Embed returns the embedding vector for text.
func (e *CohereEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.V2.Embed(ctx, &cohere.V2EmbedRequest{
		Texts:          []string{text},
		Model:          e.model,
		InputType:      cohere.EmbedInputTypeSearchDocument,
		EmbeddingTypes: []cohere.EmbeddingType{cohere.EmbeddingTypeFloat},
	})
	if err != nil {
		return nil, wrapEmbedError(err)
	}
	if resp == nil || resp.Embeddings == nil || len(resp.Embeddings.Float) == 0 {
		return nil, models.NewAPIError(models.ErrCodeEmbeddingFailure, "embedding response was empty", nil)
	}

	vec := resp.Embeddings.Float[0]
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(v)
	}
	return out, nil
}
