package llm

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"github.com/use-gist/gist/models"
)

// ChatClient is the minimal interface needed to call a chat model. It
// mirrors the single go-openai method used here so any OpenAI-compatible
// backend (or a test fake) can stand in.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewOpenAIClient constructs the process-wide OpenAI client. baseURL may
// be empty for the default endpoint.
func NewOpenAIClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

// summaryMaxTokens bounds the summary length.
const summaryMaxTokens = 150

// maxArticleRunes truncates the article body before prompting so a long
// page cannot blow the model's context window.
const maxArticleRunes = 12000

// Summarizer produces a short summary of an article body via a chat model.
type Summarizer struct {
	client ChatClient
	model  string
}

// NewSummarizer creates a Summarizer using the given chat model.
func NewSummarizer(client ChatClient, model string) *Summarizer {
	return &Summarizer{client: client, model: model}
}

// Summarize sends the article body to the chat model and returns the
// summary text. Failures surface verbatim as upstream errors; there are
// no retries here.
func (s *Summarizer) Summarize(ctx context.Context, body string) (string, error) {
	if runes := []rune(body); len(runes) > maxArticleRunes {
		body = string(runes[:maxArticleRunes])
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a helpful assistant that summarizes news articles."},
			{Role: openai.ChatMessageRoleUser, Content: "Summarize the following article: " + body},
		},
		MaxTokens: summaryMaxTokens,
	})
	if err != nil {
		return "", classifyUpstreamError(err)
	}
	if len(resp.Choices) == 0 {
		return "", models.NewAPIError(models.ErrCodeLLMFailure, "LLM returned no choices", nil)
	}

	return resp.Choices[0].Message.Content, nil
}

// classifyUpstreamError maps provider errors to the upstream failure codes.
func classifyUpstreamError(err error) *models.APIError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return models.NewAPIError(models.ErrCodeLLMAuthFailure, apiErr.Message, err)
		case http.StatusTooManyRequests:
			return models.NewAPIError(models.ErrCodeLLMRateLimited, apiErr.Message, err)
		default:
			return models.NewAPIError(models.ErrCodeLLMFailure, apiErr.Message, err)
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return models.NewAPIError(models.ErrCodeLLMAuthFailure, "LLM request unauthorized", err)
		case http.StatusTooManyRequests:
			return models.NewAPIError(models.ErrCodeLLMRateLimited, "LLM rate limited", err)
		}
	}

	return models.NewAPIError(models.ErrCodeLLMFailure, "LLM request failed", err)
}
