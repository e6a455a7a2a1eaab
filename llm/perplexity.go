package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/use-gist/gist/models"
)

const perplexityEndpoint = "https://api.perplexity.ai/chat/completions"

// PerplexityClient is a lightweight client for the Perplexity chat API.
// Perplexity's online models do live web search, which is what makes it
// the preferred backend for video finding. It uses net/http directly —
// no SDK needed.
type PerplexityClient struct {
	httpClient *http.Client
	apiKey     string
	model      string
	endpoint   string
}

// NewPerplexityClient creates a Perplexity client. Pass nil to use a
// default http.Client with a 30 s timeout.
func NewPerplexityClient(httpClient *http.Client, apiKey, model string) *PerplexityClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &PerplexityClient{
		httpClient: httpClient,
		apiKey:     apiKey,
		model:      model,
		endpoint:   perplexityEndpoint,
	}
}

// perplexityRequest is the chat completion request body.
type perplexityRequest struct {
	Model    string              `json:"model"`
	Messages []perplexityMessage `json:"messages"`
}

type perplexityMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// perplexityResponse is the minimal response shape we need.
type perplexityResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// FindVideo asks Perplexity for the exact video URL. Returns a URL or
// the NotFound sentinel.
func (c *PerplexityClient) FindVideo(ctx context.Context, q models.VideoQuery) (string, error) {
	date := q.PublicationDate
	if len(date) > 10 {
		date = date[:10]
	}
	prompt := fmt.Sprintf(`Find the exact YouTube video URL for:
Title: %q
Channel: %s
Published: %s

Return ONLY the YouTube URL in format: https://www.youtube.com/watch?v=VIDEO_ID
If not found, return: NOT_FOUND`, q.Title, videoChannel, date)

	reqBody := perplexityRequest{
		Model:    c.model,
		Messages: []perplexityMessage{{Role: "user", Content: prompt}},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", models.NewAPIError(models.ErrCodeLLMFailure, "Perplexity request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", models.NewAPIError(models.ErrCodeLLMFailure, "failed to read Perplexity response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyPerplexityError(resp.StatusCode, respBody)
	}

	var chatResp perplexityResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", models.NewAPIError(models.ErrCodeLLMFailure, "failed to parse Perplexity response", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", models.NewAPIError(models.ErrCodeLLMFailure, "Perplexity returned no choices", nil)
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

// classifyPerplexityError maps HTTP status codes to upstream failure codes.
func classifyPerplexityError(statusCode int, body []byte) *models.APIError {
	var errResp perplexityResponse
	msg := "Perplexity API error"
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		msg = errResp.Error.Message
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return models.NewAPIError(models.ErrCodeLLMAuthFailure, msg, nil)
	case http.StatusTooManyRequests:
		return models.NewAPIError(models.ErrCodeLLMRateLimited, msg, nil)
	default:
		return models.NewAPIError(models.ErrCodeLLMFailure, fmt.Sprintf("Perplexity API returned %d: %s", statusCode, msg), nil)
	}
}
