// gist-mcp is an MCP stdio server that exposes the Gist API as tools,
// so LLM agents can summarize articles and embed text through a running
// Gist instance.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// summarizeRequest mirrors the Gist API request model.
type summarizeRequest struct {
	URL    string `json:"url"`
	MaxAge int    `json:"max_age,omitempty"`
}

// summarizeResponse mirrors the Gist API response model.
type summarizeResponse struct {
	Summary    string `json:"summary"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	SourceMode string `json:"source_mode"`
	Error      *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// embedRequest mirrors the Gist API request model.
type embedRequest struct {
	Text string `json:"text"`
}

// healthResponse mirrors the Gist API response model.
type healthResponse struct {
	Status               string `json:"status"`
	Uptime               string `json:"uptime"`
	OpenAIConfigured     bool   `json:"openai_configured"`
	PerplexityConfigured bool   `json:"perplexity_configured"`
	Pool                 struct {
		MaxPages    int `json:"max_pages"`
		ActivePages int `json:"active_pages"`
	} `json:"pool"`
	Version string `json:"version"`
}

// embedResponse mirrors the Gist API response model.
type embedResponse struct {
	Embedding []float32 `json:"embedding"`
	Model     string    `json:"model"`
	Status    string    `json:"status"`
	Error     *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("GIST_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8000"
	}
	apiKey := os.Getenv("GIST_API_KEY")

	s := server.NewMCPServer(
		"gist",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	summarizeTool := mcp.NewTool("summarize_url",
		mcp.WithDescription("Fetch a news article URL, extract its content (with a headless-browser fallback for JavaScript-rendered pages), and return an LLM-written summary plus the article title."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the article to summarize"),
		),
		mcp.WithNumber("max_age",
			mcp.Description("Accept a cached summary up to this many milliseconds old (default: 0, no cache)"),
		),
	)
	s.AddTool(summarizeTool, handleSummarizeURL(apiURL, apiKey))

	embedTool := mcp.NewTool("embed_text",
		mcp.WithDescription("Embed a text string into a fixed-length numeric vector using the configured embedding model."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The text to embed"),
		),
	)
	s.AddTool(embedTool, handleEmbedText(apiURL, apiKey))

	healthTool := mcp.NewTool("health_check",
		mcp.WithDescription("Check the Gist API's health: service status, uptime, configured providers, and browser page-pool utilisation."),
	)
	s.AddTool(healthTool, handleHealthCheck(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiPost sends a POST request to the Gist API and returns the response body.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// apiGet sends a GET request to the Gist API and returns the response body.
func apiGet(ctx context.Context, client *http.Client, apiURL, apiKey, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func handleSummarizeURL(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 150 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}
		maxAge := request.GetInt("max_age", 0)

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/summarize", summarizeRequest{
			URL:    url,
			MaxAge: maxAge,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var resp summarizeResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if resp.Status != "success" {
			errMsg := "summarize failed"
			if resp.Error != nil {
				errMsg = fmt.Sprintf("%s: %s", resp.Error.Code, resp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		out := fmt.Sprintf("Title: %s\nSource mode: %s\n\n%s", resp.Title, resp.SourceMode, resp.Summary)
		return mcp.NewToolResultText(out), nil
	}
}

func handleHealthCheck(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 10 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		respBody, err := apiGet(ctx, client, apiURL, apiKey, "/health")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var resp healthResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		if resp.Status == "" {
			return mcp.NewToolResultError("health check failed: empty status"), nil
		}

		out := fmt.Sprintf("Status: %s\nUptime: %s\nVersion: %s\nOpenAI configured: %t\nPerplexity configured: %t\nPages active: %d/%d",
			resp.Status, resp.Uptime, resp.Version,
			resp.OpenAIConfigured, resp.PerplexityConfigured,
			resp.Pool.ActivePages, resp.Pool.MaxPages)
		return mcp.NewToolResultText(out), nil
	}
}

func handleEmbedText(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 60 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text is required"), nil
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/embed", embedRequest{Text: text})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var resp embedResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if resp.Status != "success" {
			errMsg := "embed failed"
			if resp.Error != nil {
				errMsg = fmt.Sprintf("%s: %s", resp.Error.Code, resp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		vec, err := json.Marshal(resp.Embedding)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode embedding: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Model: %s\nDimensions: %d\n%s", resp.Model, len(resp.Embedding), vec)), nil
	}
}
