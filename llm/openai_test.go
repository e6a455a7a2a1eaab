package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/use-gist/gist/models"
)

type fakeChatClient struct {
	lastReq openai.ChatCompletionRequest
	content string
	err     error
}

func (f *fakeChatClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func TestSummarizer_BuildsExpectedRequest(t *testing.T) {
	client := &fakeChatClient{content: "A short summary."}
	s := NewSummarizer(client, "gpt-3.5-turbo")

	summary, err := s.Summarize(context.Background(), "The council voted on Tuesday.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary != "A short summary." {
		t.Errorf("summary = %q", summary)
	}

	req := client.lastReq
	if req.Model != "gpt-3.5-turbo" {
		t.Errorf("model = %q", req.Model)
	}
	if req.MaxTokens != summaryMaxTokens {
		t.Errorf("max tokens = %d, want %d", req.MaxTokens, summaryMaxTokens)
	}
	if len(req.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(req.Messages))
	}
	if req.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Errorf("first message role = %q", req.Messages[0].Role)
	}
	if !strings.Contains(req.Messages[1].Content, "The council voted on Tuesday.") {
		t.Error("user message does not contain the article body")
	}
}

func TestSummarizer_TruncatesLongBodies(t *testing.T) {
	client := &fakeChatClient{content: "ok"}
	s := NewSummarizer(client, "gpt-3.5-turbo")

	body := strings.Repeat("x", maxArticleRunes+5000)
	if _, err := s.Summarize(context.Background(), body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	userMsg := client.lastReq.Messages[1].Content
	wantLen := len("Summarize the following article: ") + maxArticleRunes
	if len(userMsg) != wantLen {
		t.Errorf("user message length = %d, want %d", len(userMsg), wantLen)
	}
}

func TestSummarizer_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			"auth failure",
			&openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "bad key"},
			models.ErrCodeLLMAuthFailure,
		},
		{
			"forbidden",
			&openai.APIError{HTTPStatusCode: http.StatusForbidden, Message: "no access"},
			models.ErrCodeLLMAuthFailure,
		},
		{
			"rate limited",
			&openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "slow down"},
			models.ErrCodeLLMRateLimited,
		},
		{
			"server error",
			&openai.APIError{HTTPStatusCode: http.StatusInternalServerError, Message: "boom"},
			models.ErrCodeLLMFailure,
		},
		{
			"transport error",
			errors.New("connection reset"),
			models.ErrCodeLLMFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeChatClient{err: tt.err}
			s := NewSummarizer(client, "gpt-3.5-turbo")

			_, err := s.Summarize(context.Background(), "body")
			var apiErr *models.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *models.APIError, got %T", err)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", apiErr.Code, tt.wantCode)
			}
		})
	}
}

func TestVideoFinder_ReturnsTrimmedURL(t *testing.T) {
	client := &fakeChatClient{content: "  https://www.youtube.com/watch?v=abc123 \n"}
	f := NewVideoFinder(client, "gpt-4")

	url, err := f.FindVideo(context.Background(), models.VideoQuery{
		Title:           "Markets Rally",
		PublicationDate: "2024-03-15T10:30:00Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://www.youtube.com/watch?v=abc123" {
		t.Errorf("url = %q", url)
	}

	prompt := client.lastReq.Messages[1].Content
	if !strings.Contains(prompt, `"Markets Rally"`) {
		t.Error("prompt missing quoted title")
	}
	if !strings.Contains(prompt, "Published: 2024-03-15") || strings.Contains(prompt, "10:30") {
		t.Error("publication date not trimmed to its date component")
	}
}

func TestVideoFinder_NotFoundSentinel(t *testing.T) {
	client := &fakeChatClient{content: "NOT_FOUND"}
	f := NewVideoFinder(client, "gpt-4")

	url, err := f.FindVideo(context.Background(), models.VideoQuery{
		Title:           "Obscure Clip",
		PublicationDate: "2024-01-01",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != NotFound {
		t.Errorf("url = %q, want %q", url, NotFound)
	}
}
