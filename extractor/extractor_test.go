package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/use-gist/gist/config"
	"github.com/use-gist/gist/models"
	"github.com/use-gist/gist/scraper"
)

// articleHTML builds a page readability reliably extracts: a titled
// article with several long paragraphs.
func articleHTML(title, marker string) string {
	para := strings.Repeat("The committee approved the measure after a lengthy debate over funding. ", 8)
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <title>%s</title>
  <meta property="og:site_name" content="Example News">
  <meta property="og:description" content="A report on the measure.">
</head>
<body>
  <article>
    <h1>%s</h1>
    <p>%s %s</p>
    <p>%s</p>
    <p>%s</p>
  </article>
</body>
</html>`, title, title, marker, para, para, para)
}

// shellHTML is an SPA shell with no server-side content.
const shellHTML = `<!DOCTYPE html>
<html>
<head><title>Loading…</title></head>
<body><div id="root"></div><script src="/app.js"></script></body>
</html>`

type fakeFetcher struct {
	html  string
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.html), nil
}

type fakeRenderer struct {
	html     string
	title    string
	finalURL string
	err      error
	calls    int
}

func (r *fakeRenderer) Render(ctx context.Context, url string) (*scraper.RenderResult, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	finalURL := r.finalURL
	if finalURL == "" {
		finalURL = url
	}
	return &scraper.RenderResult{HTML: r.html, Title: r.title, FinalURL: finalURL}, nil
}

func testConfig() config.ExtractorConfig {
	return config.ExtractorConfig{
		DefaultTimeout: 5 * time.Second,
		MaxTimeout:     5 * time.Second,
		StaticTimeout:  time.Second,
	}
}

func TestExtract_StaticSuccessSkipsRenderer(t *testing.T) {
	fetcher := &fakeFetcher{html: articleHTML("Server Rendered Article", "static-marker")}
	renderer := &fakeRenderer{html: articleHTML("Rendered Article", "rendered-marker")}
	ext := New(fetcher, renderer, testConfig())

	result, err := ext.Extract(context.Background(), "https://news.example.com/story")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if renderer.calls != 0 {
		t.Errorf("rendered path invoked %d times, want 0", renderer.calls)
	}
	if result.SourceMode != SourceStatic {
		t.Errorf("source mode = %q, want %q", result.SourceMode, SourceStatic)
	}
	if !strings.Contains(result.Body, "static-marker") {
		t.Errorf("body does not reflect static output: %q", result.Body[:min(80, len(result.Body))])
	}
	if result.Title == "" {
		t.Error("expected a non-empty title from the static document")
	}
}

func TestExtract_EmptyStaticBodyFallsBackOnce(t *testing.T) {
	fetcher := &fakeFetcher{html: shellHTML}
	renderer := &fakeRenderer{html: articleHTML("Rendered Article", "rendered-marker")}
	ext := New(fetcher, renderer, testConfig())

	result, err := ext.Extract(context.Background(), "https://spa.example.com/story")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if renderer.calls != 1 {
		t.Errorf("rendered path invoked %d times, want exactly 1", renderer.calls)
	}
	if result.SourceMode != SourceRendered {
		t.Errorf("source mode = %q, want %q", result.SourceMode, SourceRendered)
	}
	if !strings.Contains(result.Body, "rendered-marker") {
		t.Error("body does not reflect rendered output")
	}
}

func TestExtract_StaticFetchErrorTriggersFallback(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("dial tcp: connection refused")}
	renderer := &fakeRenderer{html: articleHTML("Rendered Article", "rendered-marker")}
	ext := New(fetcher, renderer, testConfig())

	result, err := ext.Extract(context.Background(), "https://flaky.example.com/story")
	if err != nil {
		t.Fatalf("static transport error must not be terminal, got: %v", err)
	}
	if renderer.calls != 1 {
		t.Errorf("rendered path invoked %d times, want 1", renderer.calls)
	}
	if result.SourceMode != SourceRendered {
		t.Errorf("source mode = %q, want %q", result.SourceMode, SourceRendered)
	}
}

func TestExtract_BothEmptyIsNoContentFound(t *testing.T) {
	fetcher := &fakeFetcher{html: shellHTML}
	renderer := &fakeRenderer{html: shellHTML}
	ext := New(fetcher, renderer, testConfig())

	result, err := ext.Extract(context.Background(), "https://empty.example.com/story")
	if result != nil {
		t.Fatalf("expected no result, got %+v", result)
	}

	var apiErr *models.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *models.APIError, got %T", err)
	}
	if apiErr.Code != models.ErrCodeNoContent {
		t.Errorf("code = %q, want %q", apiErr.Code, models.ErrCodeNoContent)
	}
	if apiErr.Message != "no content found" {
		t.Errorf("message = %q, want %q", apiErr.Message, "no content found")
	}
}

func TestExtract_RenderedTransportErrorIsTerminal(t *testing.T) {
	fetcher := &fakeFetcher{html: shellHTML}
	renderer := &fakeRenderer{err: models.NewAPIError(models.ErrCodeFetchError, "fetch error", errors.New("net::ERR_NAME_NOT_RESOLVED"))}
	ext := New(fetcher, renderer, testConfig())

	result, err := ext.Extract(context.Background(), "https://gone.example.com/story")
	if result != nil {
		t.Fatalf("expected no partial result, got %+v", result)
	}

	var apiErr *models.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *models.APIError, got %T", err)
	}
	if apiErr.Code != models.ErrCodeFetchError {
		t.Errorf("code = %q, want %q", apiErr.Code, models.ErrCodeFetchError)
	}
	if apiErr.Message != "fetch error" {
		t.Errorf("message = %q, want %q", apiErr.Message, "fetch error")
	}
}

func TestExtract_PlainRendererErrorIsWrappedAsFetchError(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("timeout")}
	renderer := &fakeRenderer{err: errors.New("browser crashed")}
	ext := New(fetcher, renderer, testConfig())

	_, err := ext.Extract(context.Background(), "https://crash.example.com/story")

	var apiErr *models.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *models.APIError, got %T", err)
	}
	if apiErr.Code != models.ErrCodeFetchError {
		t.Errorf("code = %q, want %q", apiErr.Code, models.ErrCodeFetchError)
	}
}

func TestExtract_WhitespaceOnlyBodyCountsAsEmpty(t *testing.T) {
	// A page whose extractable text is whitespace must trigger the fallback.
	whitespacePage := `<html><head><title>Blank</title></head><body><article><p>   ` +
		strings.Repeat("\n\t ", 40) + `</p></article></body></html>`
	fetcher := &fakeFetcher{html: whitespacePage}
	renderer := &fakeRenderer{html: articleHTML("Rendered Article", "rendered-marker")}
	ext := New(fetcher, renderer, testConfig())

	result, err := ext.Extract(context.Background(), "https://blank.example.com/story")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if renderer.calls != 1 {
		t.Errorf("rendered path invoked %d times, want 1", renderer.calls)
	}
	if result.SourceMode != SourceRendered {
		t.Errorf("source mode = %q, want %q", result.SourceMode, SourceRendered)
	}
}

func TestExtract_MetadataFromOpenGraphTags(t *testing.T) {
	fetcher := &fakeFetcher{html: articleHTML("Tagged Article", "static-marker")}
	renderer := &fakeRenderer{}
	ext := New(fetcher, renderer, testConfig())

	result, err := ext.Extract(context.Background(), "https://news.example.com/tagged")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Meta.SourceURL != "https://news.example.com/tagged" {
		t.Errorf("source URL = %q", result.Meta.SourceURL)
	}
	if result.Meta.SiteName == "" {
		t.Error("expected site name from og:site_name")
	}
}

func TestExtract_RenderedPathReportsFinalURL(t *testing.T) {
	fetcher := &fakeFetcher{html: shellHTML}
	renderer := &fakeRenderer{
		html:     articleHTML("Rendered Article", "rendered-marker"),
		finalURL: "https://news.example.com/story-after-redirect",
	}
	ext := New(fetcher, renderer, testConfig())

	result, err := ext.Extract(context.Background(), "https://short.example.com/s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Meta.SourceURL != "https://news.example.com/story-after-redirect" {
		t.Errorf("source URL = %q, want the redirect target", result.Meta.SourceURL)
	}
}

func TestUsableBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"empty", "", false},
		{"whitespace only", "   \n\t  ", false},
		{"too short", "short text", false},
		{"exactly at threshold", strings.Repeat("a", minContentLength), true},
		{"padded short content", "  short  " + strings.Repeat(" ", 100), false},
		{"long content", strings.Repeat("word ", 50), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := usableBody(tt.body); got != tt.want {
				t.Errorf("usableBody(%q) = %v, want %v", tt.body, got, tt.want)
			}
		})
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"simple", `<html><head><title>Hello</title></head><body></body></html>`, "Hello"},
		{"whitespace trimmed", "<html><head><title>\n  Spaced \t</title></head></html>", "Spaced"},
		{"missing", `<html><head></head><body><p>x</p></body></html>`, ""},
		{"empty title", `<html><head><title></title></head></html>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractTitle([]byte(tt.html)); got != tt.want {
				t.Errorf("extractTitle = %q, want %q", got, tt.want)
			}
		})
	}
}
