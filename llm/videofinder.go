package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/use-gist/gist/models"
)

// NotFound is the sentinel the models are instructed to return when no
// matching video exists.
const NotFound = "NOT_FOUND"

// videoChannel is the YouTube channel the finder is scoped to.
const videoChannel = "NDTV Profit India"

// videoFinderMaxTokens bounds the video-URL response.
const videoFinderMaxTokens = 100

// VideoFinder locates the YouTube upload matching an article's metadata
// by prompting a chat model.
type VideoFinder struct {
	client ChatClient
	model  string
}

// NewVideoFinder creates a VideoFinder using the given chat model.
func NewVideoFinder(client ChatClient, model string) *VideoFinder {
	return &VideoFinder{client: client, model: model}
}

// FindVideo asks the model for the exact video URL. It returns either a
// URL or the NotFound sentinel; upstream failures surface as errors.
func (f *VideoFinder) FindVideo(ctx context.Context, q models.VideoQuery) (string, error) {
	resp, err := f.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: f.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You are a helpful assistant. When asked to find YouTube videos, " +
					"provide realistic YouTube URLs in the format https://www.youtube.com/watch?v=VIDEO_ID. " +
					"If you cannot find the exact video, respond with 'NOT_FOUND'.",
			},
			{Role: openai.ChatMessageRoleUser, Content: buildVideoPrompt(q)},
		},
		MaxTokens: videoFinderMaxTokens,
	})
	if err != nil {
		return "", classifyUpstreamError(err)
	}
	if len(resp.Choices) == 0 {
		return "", models.NewAPIError(models.ErrCodeLLMFailure, "LLM returned no choices", nil)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// buildVideoPrompt renders the search prompt from the article metadata.
// The publication date is trimmed to its date component.
func buildVideoPrompt(q models.VideoQuery) string {
	date := q.PublicationDate
	if len(date) > 10 {
		date = date[:10]
	}

	return fmt.Sprintf(`Find the exact YouTube video URL for:

Title: %q
Channel: %s
Published: %s

Search YouTube and return ONLY the direct video URL in this format:
https://www.youtube.com/watch?v=VIDEO_ID

Requirements:
- Must be from the %s channel
- Must match the exact title
- Must be published around the given date

If not found, return: NOT_FOUND`, q.Title, videoChannel, date, videoChannel)
}
