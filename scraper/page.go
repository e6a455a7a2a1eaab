package scraper

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-gist/gist/models"
	"github.com/ysmood/gson"
)

// RenderResult is the outcome of rendering a page in the browser.
type RenderResult struct {
	// HTML is the fully rendered document after script execution.
	HTML string

	// Title is the JS-evaluated document.title.
	Title string

	// FinalURL is the URL after any redirects.
	FinalURL string
}

// Render loads targetURL in a pooled browser page, waits for the DOM to
// settle, and returns the rendered HTML plus the evaluated title.
//
// Lifecycle:
//
//  1. Acquire page        – borrow a tab from the pool (or create one)
//  2. DEFER: cleanup      – about:blank + return to pool (leak prevention)
//  3. Stealth injection   – mask navigator.webdriver etc. (before navigation!)
//  4. Referer header      – Google-search referer unless already present
//  5. Context binding     – propagate the caller's deadline to Rod
//  6. Navigate + wait     – page load, then DOM-stable wait
//  7. Extract             – page.HTML() + document.title
//
// Step 2's about:blank uses the ORIGINAL page reference (without request
// context), so cleanup succeeds even if the request context has expired.
// That guarantee is what keeps concurrent fallbacks from leaking tabs.
func (s *Scraper) Render(ctx context.Context, targetURL string) (*RenderResult, error) {
	// ── 1. Acquire page from pool ─────────────────────────────────────
	s.activePages.Add(1)
	defer s.activePages.Add(-1)

	page, acquireErr := s.pagePool.Get(func() (*rod.Page, error) {
		return s.browser.Page(proto.TargetCreateTarget{})
	})
	if acquireErr != nil {
		return nil, models.NewAPIError(
			models.ErrCodeFetchError,
			"fetch error",
			acquireErr,
		)
	}

	// ── 2. CRITICAL DEFER: prevent DOM memory leak + guarantee pool return
	defer func() {
		if navErr := page.Navigate("about:blank"); navErr != nil {
			slog.Warn("cleanup: failed to navigate to about:blank",
				"error", navErr,
			)
		}
		s.pagePool.Put(page)
	}()

	// ── 3. Stealth injection ──────────────────────────────────────────
	if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
		slog.Warn("stealth injection failed, proceeding without stealth",
			"error", evalErr,
		)
	}

	// ── 4. Google-search referer (best-effort) ────────────────────────
	if u, parseErr := url.Parse(targetURL); parseErr == nil {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: proto.NetworkHeaders{
				"Referer": gson.New("https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())),
			},
		}.Call(page)
	}

	// ── 5. Bind request context to page ───────────────────────────────
	p := page.Context(ctx)

	// ── 6. Navigate + wait for the DOM to settle ──────────────────────
	if navErr := p.Navigate(targetURL); navErr != nil {
		return nil, categorizeError(navErr, "fetch error")
	}

	if stableErr := p.WaitDOMStable(300*time.Millisecond, 0.1); stableErr != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM",
			"error", stableErr,
		)
	}

	// ── 7. Extract rendered HTML + title + final URL ──────────────────
	rawHTML, htmlErr := p.HTML()
	if htmlErr != nil {
		return nil, categorizeError(htmlErr, "fetch error")
	}

	title := evalStringOrEmpty(p, `() => document.title`)
	finalURL := evalStringOrEmpty(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = targetURL
	}

	return &RenderResult{
		HTML:     rawHTML,
		Title:    title,
		FinalURL: finalURL,
	}, nil
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors (useful for optional metadata extraction).
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// categorizeError wraps browser failures as fetch errors, preserving
// timeout/cancel causes for logs.
func categorizeError(err error, msg string) *models.APIError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewAPIError(models.ErrCodeFetchError, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewAPIError(models.ErrCodeFetchError, "request canceled", err)
	default:
		return models.NewAPIError(models.ErrCodeFetchError, msg, err)
	}
}
