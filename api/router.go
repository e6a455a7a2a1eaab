package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-gist/gist/api/handler"
	"github.com/use-gist/gist/api/middleware"
	"github.com/use-gist/gist/cache"
	"github.com/use-gist/gist/config"
	"github.com/use-gist/gist/embedding"
)

// Deps bundles the collaborators the router wires into handlers. All of
// them are constructed once at startup.
type Deps struct {
	Extractor       handler.ArticleExtractor
	Summarizer      handler.Summarizer
	Embedder        embedding.Embedder
	VideoFinder     handler.VideoFinder
	PerplexityVideo handler.VideoFinder // nil when Perplexity is not configured
	Pool            handler.PoolReporter
	Cache           *cache.Cache
}

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Root and health endpoints are intentionally outside auth so monitoring
// probes always work.
func NewRouter(deps Deps, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	// Welcome + health — no auth required.
	r.GET("/", handler.Root())
	r.GET("/health", handler.Health(deps.Pool, cfg, startTime))

	// Protected group — auth + rate limit.
	protected := r.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/embed", handler.Embed(deps.Embedder))
	protected.POST("/summarize", handler.Summarize(deps.Extractor, deps.Summarizer, deps.Cache, cfg.Extractor))
	protected.POST("/find-video", handler.FindVideo(deps.VideoFinder))
	protected.POST("/find-video-perplexity", handler.FindVideoPerplexity(deps.PerplexityVideo))

	return r
}
