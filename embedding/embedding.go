// Package embedding turns text into fixed-length numeric vectors via a
// hosted embedding model. The provider client is constructed once at
// startup and reused across requests.
package embedding

import (
	"context"

	"github.com/use-gist/gist/models"
)

// Embedder converts a text string into a vector embedding.
type Embedder interface {
	// Embed returns the embedding for text, or an upstream error.
	Embed(ctx context.Context, text string) ([]float32, error)

	// ModelName identifies the model producing the vectors.
	ModelName() string
}

// wrapEmbedError tags provider failures with the embedding error code so
// handlers map them uniformly.
func wrapEmbedError(err error) *models.APIError {
	return models.NewAPIError(models.ErrCodeEmbeddingFailure, "embedding request failed", err)
}
