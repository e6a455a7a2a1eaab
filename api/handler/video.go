package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-gist/gist/llm"
	"github.com/use-gist/gist/models"
)

// VideoFinder locates the YouTube upload matching an article's metadata.
type VideoFinder interface {
	FindVideo(ctx context.Context, q models.VideoQuery) (string, error)
}

// FindVideo returns a handler for POST /find-video.
func FindVideo(finder VideoFinder) gin.HandlerFunc {
	return findVideoWith(finder, "")
}

// FindVideoPerplexity returns a handler for POST /find-video-perplexity.
// finder is nil when PERPLEXITY_API_KEY is not configured; the endpoint
// then rejects requests with 400 instead of failing upstream.
func FindVideoPerplexity(finder VideoFinder) gin.HandlerFunc {
	if finder == nil {
		return func(c *gin.Context) {
			c.JSON(http.StatusBadRequest, models.VideoResponse{
				Status: "error",
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "PERPLEXITY_API_KEY not configured",
				},
			})
		}
	}
	return findVideoWith(finder, "perplexity")
}

func findVideoWith(finder VideoFinder, service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q models.VideoQuery
		if err := c.ShouldBindJSON(&q); err != nil {
			c.JSON(http.StatusBadRequest, models.VideoResponse{
				Status: "error",
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		videoURL, err := finder.FindVideo(c.Request.Context(), q)
		if err != nil {
			apiErr := asAPIError(err)
			c.JSON(mapErrorToStatus(apiErr), models.VideoResponse{
				Status:  "error",
				Service: service,
				Error:   apiErr.ToDetail(),
			})
			return
		}

		searchDate := q.PublicationDate
		if len(searchDate) > 10 {
			searchDate = searchDate[:10]
		}

		if videoURL == llm.NotFound {
			c.JSON(http.StatusOK, models.VideoResponse{
				VideoURL: "",
				Status:   "not_found",
				Service:  service,
				Metadata: map[string]string{
					"original_title": q.Title,
					"search_date":    searchDate,
					"message":        "Video not found with the provided criteria",
				},
			})
			return
		}

		c.JSON(http.StatusOK, models.VideoResponse{
			VideoURL: videoURL,
			Status:   "found",
			Service:  service,
			Metadata: map[string]string{
				"original_title": q.Title,
				"search_date":    searchDate,
			},
		})
	}
}
