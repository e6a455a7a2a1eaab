package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/use-gist/gist/models"
)

// buildMeta merges readability metadata with OpenGraph tags from the
// document that produced the result. Readability fields win; OG tags
// fill the gaps.
func buildMeta(article readability.Article, rawHTML, sourceURL string) models.ArticleMetadata {
	meta := models.ArticleMetadata{
		Description: article.Excerpt,
		SiteName:    article.SiteName,
		Author:      article.Byline,
		SourceURL:   sourceURL,
	}

	og := extractOGMetadata(rawHTML)
	if meta.Description == "" {
		meta.Description = og.description
	}
	if meta.SiteName == "" {
		meta.SiteName = og.siteName
	}
	meta.Image = og.image

	return meta
}

type ogMetadata struct {
	description string
	siteName    string
	image       string
}

// extractOGMetadata parses Open Graph meta tags from the raw HTML.
func extractOGMetadata(rawHTML string) ogMetadata {
	og := ogMetadata{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return og
	}

	doc.Find("meta[property]").Each(func(_ int, s *goquery.Selection) {
		prop, _ := s.Attr("property")
		content, _ := s.Attr("content")
		if content == "" {
			return
		}
		switch prop {
		case "og:description":
			og.description = content
		case "og:site_name":
			og.siteName = content
		case "og:image":
			og.image = content
		}
	})

	return og
}
