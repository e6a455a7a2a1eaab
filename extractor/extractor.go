package extractor

import (
	"context"
	"log/slog"

	"github.com/use-gist/gist/config"
	"github.com/use-gist/gist/models"
	"github.com/use-gist/gist/scraper"
)

// Source modes recorded on a Result.
const (
	SourceStatic   = "static"
	SourceRendered = "rendered"
)

// Result is the outcome of a successful extraction. It is constructed
// per request and never persisted.
type Result struct {
	// Title is the article title, possibly empty.
	Title string

	// Body is the extracted article text.
	Body string

	// SourceMode records which strategy produced the body:
	// "static" or "rendered".
	SourceMode string

	// Meta carries best-effort article metadata from readability and
	// OpenGraph tags on whichever document produced the body.
	Meta models.ArticleMetadata
}

// Fetcher retrieves a URL's raw, non-script-executed document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Renderer drives a headless browser to produce the fully rendered
// document. Substantially higher latency than a Fetcher; the Extractor
// never invokes it speculatively.
type Renderer interface {
	Render(ctx context.Context, url string) (*scraper.RenderResult, error)
}

// Extractor produces a best-effort (title, body) pair for a URL, trying
// static extraction first and rendered extraction second if the static
// path yields no usable content.
//
// Extractions are independent: the only shared state is the renderer's
// internal page pool, and each call acquires and releases its page
// within the scope of that call.
type Extractor struct {
	fetcher  Fetcher
	renderer Renderer
	cfg      config.ExtractorConfig
}

// New creates an Extractor.
func New(fetcher Fetcher, renderer Renderer, cfg config.ExtractorConfig) *Extractor {
	return &Extractor{fetcher: fetcher, renderer: renderer, cfg: cfg}
}

// Extract runs the two-step fallback chain:
//
//  1. Static: fetch the raw document and run readability over it.
//  2. Rendered: only if step 1 errored or produced an unusable body,
//     render the page in the browser and re-run readability.
//
// A usable static body means the rendered path is never attempted.
// A transport error on the static path merely triggers the fallback;
// a transport error on the rendered path is terminal ("fetch error").
// Unusable bodies from both paths are terminal ("no content found").
func (e *Extractor) Extract(ctx context.Context, url string) (*Result, error) {
	// ── 1. Static attempt ───────────────────────────────────────────
	staticCtx, cancel := context.WithTimeout(ctx, e.cfg.StaticTimeout)
	rawHTML, fetchErr := e.fetcher.Fetch(staticCtx, url)
	cancel()

	if fetchErr != nil {
		slog.Debug("static fetch failed, falling back to rendered extraction",
			"url", url, "error", fetchErr,
		)
	} else {
		html := string(rawHTML)
		if article, ok := extractReadable(html, url); ok {
			return &Result{
				Title:      pickTitle(article.Title, html, ""),
				Body:       article.TextContent,
				SourceMode: SourceStatic,
				Meta:       buildMeta(article, html, url),
			}, nil
		}
		slog.Debug("static extraction yielded no usable content, falling back",
			"url", url,
		)
	}

	// ── 2. Rendered fallback ────────────────────────────────────────
	rendered, renderErr := e.renderer.Render(ctx, url)
	if renderErr != nil {
		if apiErr, ok := renderErr.(*models.APIError); ok {
			return nil, apiErr
		}
		return nil, models.NewAPIError(models.ErrCodeFetchError, "fetch error", renderErr)
	}

	// The browser may have been redirected; resolve relative links and
	// report metadata against the document actually rendered.
	finalURL := rendered.FinalURL
	if finalURL == "" {
		finalURL = url
	}

	if article, ok := extractReadable(rendered.HTML, finalURL); ok {
		return &Result{
			Title:      pickTitle(article.Title, rendered.HTML, rendered.Title),
			Body:       article.TextContent,
			SourceMode: SourceRendered,
			Meta:       buildMeta(article, rendered.HTML, finalURL),
		}, nil
	}

	return nil, models.NewAPIError(models.ErrCodeNoContent, "no content found", nil)
}

// pickTitle prefers the readability title, then the raw <title> tag,
// then the browser-evaluated title.
func pickTitle(readabilityTitle, html, browserTitle string) string {
	if readabilityTitle != "" {
		return readabilityTitle
	}
	if t := extractTitle([]byte(html)); t != "" {
		return t
	}
	return browserTitle
}
