package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-gist/gist/api"
	"github.com/use-gist/gist/cache"
	"github.com/use-gist/gist/config"
	"github.com/use-gist/gist/embedding"
	"github.com/use-gist/gist/extractor"
	"github.com/use-gist/gist/llm"
	"github.com/use-gist/gist/scraper"
)

func main() {
	// ── 1. Load configuration + upfront credential check ────────────
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("gist starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"embedProvider", cfg.Embedding.Provider,
	)

	// ── 3. Initialise scraper (launches browser) ────────────────────
	sc, err := scraper.NewScraper(cfg.Browser)
	if err != nil {
		slog.Error("failed to initialise scraper", "error", err)
		os.Exit(1)
	}
	defer sc.Close()

	// ── 4. Construct collaborators, once, before accepting requests ─
	openaiClient := llm.NewOpenAIClient(cfg.LLM.OpenAIAPIKey, cfg.LLM.OpenAIBaseURL)
	summarizer := llm.NewSummarizer(openaiClient, cfg.LLM.SummaryModel)
	videoFinder := llm.NewVideoFinder(openaiClient, cfg.LLM.VideoModel)

	var perplexityFinder *llm.PerplexityClient
	if cfg.LLM.PerplexityAPIKey != "" {
		perplexityFinder = llm.NewPerplexityClient(nil, cfg.LLM.PerplexityAPIKey, cfg.LLM.PerplexityModel)
	}

	var embedder embedding.Embedder
	switch cfg.Embedding.Provider {
	case "cohere":
		embedder = embedding.NewCohereEmbedder(cfg.Embedding.CohereAPIKey, cfg.Embedding.CohereModel)
	default:
		embedder = embedding.NewOpenAIEmbedder(openaiClient, cfg.Embedding.OpenAIModel)
	}
	slog.Info("embedder ready", "model", embedder.ModelName())

	fetcher := extractor.NewStaticFetcher(cfg.Browser.DefaultProxy)
	ext := extractor.New(fetcher, sc, cfg.Extractor)

	cc := cache.New(cfg.Cache.MaxEntries)

	// ── 5. Setup router ──────────────────────────────────────────────
	startTime := time.Now()
	deps := api.Deps{
		Extractor:   ext,
		Summarizer:  summarizer,
		Embedder:    embedder,
		VideoFinder: videoFinder,
		Pool:        sc,
		Cache:       cc,
	}
	if perplexityFinder != nil {
		deps.PerplexityVideo = perplexityFinder
	}
	router := api.NewRouter(deps, cfg, startTime)

	// ── 6. Start HTTP server ─────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 7. Graceful shutdown ─────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight requests 5 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	// sc.Close() runs via defer — drains page pool and kills Chrome.
	slog.Info("gist stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
