package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-gist/gist/config"
	"github.com/use-gist/gist/models"
)

// PoolReporter exposes browser page-pool utilisation for health checks.
type PoolReporter interface {
	Stats() models.PoolStats
}

// Health returns a handler for GET /health.
//
// Reports collaborator configuration and pool utilisation, degrading
// status when > 80% of pages are active.
func Health(pool PoolReporter, cfg *config.Config, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := pool.Stats()

		status := "healthy"
		if stats.MaxPages > 0 && stats.ActivePages > int(float64(stats.MaxPages)*0.8) {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:               status,
			Uptime:               time.Since(startTime).Round(time.Second).String(),
			OpenAIConfigured:     cfg.LLM.OpenAIAPIKey != "",
			PerplexityConfigured: cfg.LLM.PerplexityAPIKey != "",
			Pool:                 stats,
			Version:              "0.1.0",
		})
	}
}
