package models

// ErrorResponse is the generic error envelope used by middleware
// rejections, where no endpoint-specific response shape applies.
type ErrorResponse struct {
	Status string       `json:"status"`
	Error  *ErrorDetail `json:"error"`
}

// EmbedResponse is the body for POST /embed.
type EmbedResponse struct {
	Embedding []float32    `json:"embedding,omitempty"`
	Model     string       `json:"model,omitempty"`
	Status    string       `json:"status"`
	Error     *ErrorDetail `json:"error,omitempty"`
}

// ArticleMetadata carries best-effort metadata about the extracted
// article, merged from readability output and OpenGraph tags.
type ArticleMetadata struct {
	Description string `json:"description,omitempty"`
	SiteName    string `json:"site_name,omitempty"`
	Author      string `json:"author,omitempty"`
	Image       string `json:"image,omitempty"`
	SourceURL   string `json:"source_url"`
}

// TimingInfo reports per-phase latency in milliseconds.
type TimingInfo struct {
	TotalMs      int64 `json:"total_ms"`
	ExtractionMs int64 `json:"extraction_ms,omitempty"`
	SummaryMs    int64 `json:"summary_ms,omitempty"`
}

// SummarizeResponse is the body for POST /summarize.
type SummarizeResponse struct {
	Summary string `json:"summary,omitempty"`
	Title   string `json:"title,omitempty"`
	Status  string `json:"status"`

	// SourceMode records which extraction strategy produced the body:
	// "static" or "rendered".
	SourceMode string `json:"source_mode,omitempty"`

	Metadata    *ArticleMetadata `json:"metadata,omitempty"`
	CacheStatus string           `json:"cache_status,omitempty"`
	Timing      TimingInfo       `json:"timing"`
	Error       *ErrorDetail     `json:"error,omitempty"`
}

// VideoResponse is the body for the find-video endpoints.
type VideoResponse struct {
	VideoURL string            `json:"video_url"`
	Status   string            `json:"status"` // "found" or "not_found"
	Service  string            `json:"service,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Error    *ErrorDetail      `json:"error,omitempty"`
}

// PoolStats is a snapshot of the browser page pool.
type PoolStats struct {
	MaxPages    int `json:"max_pages"`
	ActivePages int `json:"active_pages"`
}

// HealthResponse is the body for GET /health.
type HealthResponse struct {
	Status               string    `json:"status"`
	Uptime               string    `json:"uptime"`
	OpenAIConfigured     bool      `json:"openai_configured"`
	PerplexityConfigured bool      `json:"perplexity_configured"`
	Pool                 PoolStats `json:"pool"`
	Version              string    `json:"version"`
}
