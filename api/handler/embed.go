package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/use-gist/gist/embedding"
	"github.com/use-gist/gist/models"
)

// Embed returns a handler for POST /embed.
//
// Pass-through to the embedding provider: bind, embed, return the vector.
func Embed(emb embedding.Embedder) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.EmbedRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.EmbedResponse{
				Status: "error",
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		if strings.TrimSpace(req.Text) == "" {
			c.JSON(http.StatusBadRequest, models.EmbedResponse{
				Status: "error",
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "text must not be empty",
				},
			})
			return
		}

		vector, err := emb.Embed(c.Request.Context(), req.Text)
		if err != nil {
			apiErr := asAPIError(err)
			c.JSON(mapErrorToStatus(apiErr), models.EmbedResponse{
				Status: "error",
				Error:  apiErr.ToDetail(),
			})
			return
		}

		c.JSON(http.StatusOK, models.EmbedResponse{
			Embedding: vector,
			Model:     emb.ModelName(),
			Status:    "success",
		})
	}
}
