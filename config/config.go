package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Extractor ExtractorConfig
	LLM       LLMConfig
	Embedding EmbeddingConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8000
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance used for rendered
// extraction.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxPages is the page pool capacity (max concurrent tabs).
	MaxPages int // default: 10

	// DefaultProxy is the proxy URL for all fetches, static and rendered.
	DefaultProxy string

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string
}

// ExtractorConfig controls article extraction behavior.
type ExtractorConfig struct {
	// DefaultTimeout is the per-request extraction timeout.
	DefaultTimeout time.Duration // default: 30s

	// MaxTimeout is the maximum allowed timeout from the client.
	MaxTimeout time.Duration // default: 120s

	// StaticTimeout bounds the static-fetch attempt alone, so a slow
	// origin does not eat the whole budget before the rendered fallback
	// gets a chance.
	StaticTimeout time.Duration // default: 10s
}

// LLMConfig controls the summarization and video-finding collaborators.
type LLMConfig struct {
	// OpenAIAPIKey authenticates the summarization collaborator.
	// Required; its absence is a startup-time fatal condition.
	OpenAIAPIKey string

	// OpenAIBaseURL overrides the OpenAI API base URL (for
	// OpenAI-compatible backends and tests).
	OpenAIBaseURL string

	// SummaryModel is the chat model used for summarization.
	SummaryModel string // default: "gpt-3.5-turbo"

	// VideoModel is the chat model used for video finding.
	VideoModel string // default: "gpt-4"

	// PerplexityAPIKey enables the /find-video-perplexity endpoint.
	PerplexityAPIKey string

	// PerplexityModel is the Perplexity online model.
	PerplexityModel string // default: "llama-3.1-sonar-small-128k-online"
}

// EmbeddingConfig controls the embedding provider.
type EmbeddingConfig struct {
	// Provider selects the backend: "openai" (default) or "cohere".
	Provider string

	// OpenAIModel is the OpenAI embedding model.
	OpenAIModel string // default: "text-embedding-3-small"

	// CohereAPIKey authenticates the Cohere backend.
	CohereAPIKey string

	// CohereModel is the Cohere embedding model.
	CohereModel string // default: "embed-english-v3.0"
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// CacheConfig controls the summary cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached summaries.
	MaxEntries int // default: 1000
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory is loaded first, if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host: envOr("GIST_HOST", "0.0.0.0"),
			Port: envIntOr("GIST_PORT", 8000),
			Mode: envOr("GIST_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:     envBoolOr("GIST_HEADLESS", true),
			MaxPages:     envIntOr("GIST_MAX_PAGES", 10),
			DefaultProxy: os.Getenv("GIST_PROXY"),
			NoSandbox:    envBoolOr("GIST_NO_SANDBOX", false),
			BrowserBin:   os.Getenv("GIST_BROWSER_BIN"),
		},
		Extractor: ExtractorConfig{
			DefaultTimeout: envDurationOr("GIST_DEFAULT_TIMEOUT", 30*time.Second),
			MaxTimeout:     envDurationOr("GIST_MAX_TIMEOUT", 120*time.Second),
			StaticTimeout:  envDurationOr("GIST_STATIC_TIMEOUT", 10*time.Second),
		},
		LLM: LLMConfig{
			OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
			OpenAIBaseURL:    os.Getenv("OPENAI_BASE_URL"),
			SummaryModel:     envOr("GIST_SUMMARY_MODEL", "gpt-3.5-turbo"),
			VideoModel:       envOr("GIST_VIDEO_MODEL", "gpt-4"),
			PerplexityAPIKey: os.Getenv("PERPLEXITY_API_KEY"),
			PerplexityModel:  envOr("GIST_PERPLEXITY_MODEL", "llama-3.1-sonar-small-128k-online"),
		},
		Embedding: EmbeddingConfig{
			Provider:     envOr("GIST_EMBED_PROVIDER", "openai"),
			OpenAIModel:  envOr("GIST_EMBED_MODEL", "text-embedding-3-small"),
			CohereAPIKey: os.Getenv("COHERE_API_KEY"),
			CohereModel:  envOr("GIST_COHERE_EMBED_MODEL", "embed-english-v3.0"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("GIST_AUTH_ENABLED", false),
			APIKeys: envSliceOr("GIST_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("GIST_RATE_RPS", 5.0),
			Burst:             envIntOr("GIST_RATE_BURST", 10),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("GIST_CACHE_MAX_ENTRIES", 1000),
		},
		Log: LogConfig{
			Level:  envOr("GIST_LOG_LEVEL", "info"),
			Format: envOr("GIST_LOG_FORMAT", "json"),
		},
	}
}

// Validate checks startup-time requirements. A missing OpenAI credential
// is fatal here, before any client is constructed, rather than a deferred
// error on first use.
func (c *Config) Validate() error {
	if c.LLM.OpenAIAPIKey == "" {
		return errors.New("OPENAI_API_KEY environment variable is required")
	}
	switch c.Embedding.Provider {
	case "openai":
	case "cohere":
		if c.Embedding.CohereAPIKey == "" {
			return errors.New("COHERE_API_KEY is required when GIST_EMBED_PROVIDER=cohere")
		}
	default:
		return errors.New(`GIST_EMBED_PROVIDER must be "openai" or "cohere"`)
	}
	return nil
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
