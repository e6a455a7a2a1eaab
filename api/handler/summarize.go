package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-gist/gist/cache"
	"github.com/use-gist/gist/config"
	"github.com/use-gist/gist/extractor"
	"github.com/use-gist/gist/models"
)

// ArticleExtractor produces a (title, body) pair for a URL.
type ArticleExtractor interface {
	Extract(ctx context.Context, url string) (*extractor.Result, error)
}

// Summarizer turns an article body into a short summary.
type Summarizer interface {
	Summarize(ctx context.Context, body string) (string, error)
}

// Summarize returns a handler for POST /summarize.
//
// Orchestration flow:
//  1. Parse & validate request.
//  2. Cache lookup (opt-in via max_age).
//  3. Extractor.Extract → title/body     (records extraction_ms)
//  4. Summarizer.Summarize → summary     (records summary_ms)
//  5. Fill timing, store in cache, return 200.
func Summarize(ext ArticleExtractor, summ Summarizer, cc *cache.Cache, cfg config.ExtractorConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.SummarizeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.SummarizeResponse{
				Status: "error",
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		// ── 2. Cache lookup ─────────────────────────────────────────
		cacheKey := cache.Key(req.URL)
		if cc != nil && req.MaxAge > 0 {
			if cached, hit := cc.Get(cacheKey, req.MaxAge); hit {
				cached.CacheStatus = "hit"
				cached.Timing = models.TimingInfo{
					TotalMs: time.Since(totalStart).Milliseconds(),
				}
				c.JSON(http.StatusOK, cached)
				return
			}
		}

		// ── 3. Extract ──────────────────────────────────────────────
		timeout := cfg.DefaultTimeout
		if req.Timeout > 0 {
			timeout = time.Duration(req.Timeout) * time.Second
		}
		if timeout > cfg.MaxTimeout {
			timeout = cfg.MaxTimeout
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		extractStart := time.Now()
		result, err := ext.Extract(ctx, req.URL)
		extractionMs := time.Since(extractStart).Milliseconds()

		if err != nil {
			respondSummarizeError(c, err, models.TimingInfo{
				TotalMs:      time.Since(totalStart).Milliseconds(),
				ExtractionMs: extractionMs,
			})
			return
		}

		// ── 4. Summarize ────────────────────────────────────────────
		summaryStart := time.Now()
		summary, err := summ.Summarize(ctx, result.Body)
		summaryMs := time.Since(summaryStart).Milliseconds()

		if err != nil {
			respondSummarizeError(c, err, models.TimingInfo{
				TotalMs:      time.Since(totalStart).Milliseconds(),
				ExtractionMs: extractionMs,
				SummaryMs:    summaryMs,
			})
			return
		}

		// ── 5. Assemble, cache, respond ─────────────────────────────
		meta := result.Meta
		resp := models.SummarizeResponse{
			Summary:    summary,
			Title:      result.Title,
			Status:     "success",
			SourceMode: result.SourceMode,
			Metadata:   &meta,
		}

		if cc != nil && req.MaxAge > 0 {
			cc.Set(cacheKey, &resp)
			resp.CacheStatus = "miss"
		}

		resp.Timing = models.TimingInfo{
			TotalMs:      time.Since(totalStart).Milliseconds(),
			ExtractionMs: extractionMs,
			SummaryMs:    summaryMs,
		}
		c.JSON(http.StatusOK, resp)
	}
}

// respondSummarizeError maps an APIError to the correct HTTP status code
// and writes a structured JSON error response.
func respondSummarizeError(c *gin.Context, err error, timing models.TimingInfo) {
	apiErr := asAPIError(err)
	c.JSON(mapErrorToStatus(apiErr), models.SummarizeResponse{
		Status: "error",
		Error:  apiErr.ToDetail(),
		Timing: timing,
	})
}
