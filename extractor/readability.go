package extractor

import (
	"bytes"
	"log/slog"
	nurl "net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// minContentLength is the minimum trimmed body length (in characters)
// for readability output to count as usable. Below this threshold we
// assume the algorithm failed to locate the main content — whitespace-only
// and near-empty bodies both fall through to the rendered path.
const minContentLength = 50

// extractReadable runs the Mozilla Readability algorithm on rawHTML and
// reports whether the extracted body is usable. The same heuristic runs
// over both the static and the rendered document.
func extractReadable(rawHTML, sourceURL string) (readability.Article, bool) {
	parsedURL, err := nurl.Parse(sourceURL)
	if err != nil {
		slog.Warn("readability: invalid source URL",
			"url", sourceURL, "error", err,
		)
		return readability.Article{}, false
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Warn("readability: extraction failed",
			"url", sourceURL, "error", err,
		)
		return readability.Article{}, false
	}

	if !usableBody(article.TextContent) {
		slog.Debug("readability: extracted content too short",
			"url", sourceURL, "length", len(article.TextContent),
		)
		return article, false
	}

	return article, true
}

// usableBody reports whether body passes the minimum-length,
// non-whitespace content check.
func usableBody(body string) bool {
	return len(strings.TrimSpace(body)) >= minContentLength
}

// extractTitle extracts the <title> content from raw HTML bytes.
func extractTitle(body []byte) string {
	tokenizer := html.NewTokenizer(bytes.NewReader(body))
	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			if string(tn) == "title" {
				if tokenizer.Next() == html.TextToken {
					return strings.TrimSpace(string(tokenizer.Text()))
				}
				return ""
			}
		}
	}
}
