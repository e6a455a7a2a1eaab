package models

// EmbedRequest is the payload for POST /embed.
type EmbedRequest struct {
	// Text is the input to embed. Required, non-empty.
	Text string `json:"text" binding:"required"`
}

// SummarizeRequest is the payload for POST /summarize.
type SummarizeRequest struct {
	// URL is the article to fetch, extract and summarize. Required.
	// Not validated beyond presence: malformed URLs surface as fetch
	// errors from the extraction chain, not as binding rejections.
	URL string `json:"url" binding:"required"`

	// MaxAge enables the summary cache for this request. A cached
	// summary younger than MaxAge milliseconds is returned without
	// re-extracting. 0 (default) bypasses the cache entirely.
	MaxAge int `json:"max_age,omitempty" binding:"omitempty,min=0"`

	// Timeout is the maximum duration in seconds for the extraction
	// (static fetch + optional rendered fallback). Unset falls back to
	// the server's configured default; always capped at its maximum.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=120"`
}

// VideoQuery is the payload for POST /find-video and
// POST /find-video-perplexity. It mirrors the article metadata stored
// upstream of this service.
type VideoQuery struct {
	ID              string    `json:"id" binding:"required"`
	Title           string    `json:"title" binding:"required"`
	Description     string    `json:"description"`
	URL             string    `json:"url"`
	PublicationDate string    `json:"publication_date" binding:"required"`
	SourceName      string    `json:"source_name"`
	Category        []string  `json:"category"`
	RelevanceScore  float64   `json:"relevance_score"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	VectorEmbedding []float32 `json:"vector_embedding,omitempty"`
	LLMSummary      string    `json:"llm_summary,omitempty"`
}
