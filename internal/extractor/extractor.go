// Package extractor fetches web pages and extracts readable article text.
package extractor

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/openlingua/ingestor/internal/domain"
	"github.com/openlingua/ingestor/internal/logger"
)

// maxResponseBodyBytes limits the size of fetched page responses.
const maxResponseBodyBytes = 10 * 1024 * 1024 // 10 MB

// ArticleExtractor fetches a URL and extracts the main article content,
// discarding navigation and boilerplate. Extraction is best effort: any
// fetch or parse failure degrades to empty text, and the caller decides
// whether empty content is acceptable. The extractor never retries.
type ArticleExtractor struct {
	client *http.Client
	log    logger.Logger
}

// New creates an ArticleExtractor backed by the given http.Client. The
// client's timeout bounds each fetch.
func New(client *http.Client, log logger.Logger) *ArticleExtractor {
	return &ArticleExtractor{client: client, log: log}
}

// Extract fetches pageURL and returns the readable article text with anchor
// tags collapsed to their visible text. Returns empty text on any failure.
func (e *ArticleExtractor) Extract(ctx context.Context, pageURL string) string {
	body, err := e.fetch(ctx, pageURL)
	if err != nil {
		e.log.Warn("article fetch failed",
			logger.String("url", pageURL),
			logger.Error(err),
		)
		return ""
	}

	parsedURL, parseErr := url.Parse(pageURL)
	if parseErr != nil {
		e.log.Warn("article url unparseable",
			logger.String("url", pageURL),
			logger.Error(parseErr),
		)
		return ""
	}

	article, readErr := readability.FromReader(strings.NewReader(body), parsedURL)
	if readErr != nil {
		e.log.Warn("article extraction failed",
			logger.String("url", pageURL),
			logger.Error(readErr),
		)
		return ""
	}

	return StripAnchors(article.Content)
}

// fetch performs the HTTP GET and returns the raw page body. All failures
// wrap domain.ErrFetchFailure.
func (e *ArticleExtractor) fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("article fetch new request: %w: %w", err, domain.ErrFetchFailure)
	}

	resp, doErr := e.client.Do(req)
	if doErr != nil {
		return "", fmt.Errorf("article fetch do request: %w: %w", doErr, domain.ErrFetchFailure)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("article fetch: unexpected status %d for %s: %w",
			resp.StatusCode, pageURL, domain.ErrFetchFailure)
	}

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if readErr != nil {
		return "", fmt.Errorf("article fetch read body: %w: %w", readErr, domain.ErrFetchFailure)
	}

	return string(raw), nil
}

// StripAnchors collapses every anchor element in the given HTML fragment to
// its visible text. All other markup is preserved. Malformed input is
// returned trimmed but otherwise unchanged.
func StripAnchors(content string) string {
	if content == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return strings.TrimSpace(content)
	}

	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml(html.EscapeString(s.Text()))
	})

	// goquery wraps fragments in a full document; serialize the body only.
	out, htmlErr := doc.Find("body").Html()
	if htmlErr != nil {
		return strings.TrimSpace(content)
	}

	return strings.TrimSpace(out)
}
