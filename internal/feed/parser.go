// Package feed provides RSS and Atom feed fetching, parsing, and new-item
// selection.
package feed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// httpPrefix is the scheme prefix used to determine if a GUID is a valid URL.
const httpPrefix = "http"

// Item represents a single entry extracted from an RSS or Atom feed.
type Item struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
}

// Parse parses an RSS or Atom feed body and returns its items in feed order.
// Items without a usable link are silently skipped. An empty feed returns a
// non-nil empty slice.
func Parse(ctx context.Context, body string) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	parser := gofeed.NewParser()

	parsed, err := parser.ParseString(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := make([]Item, 0, len(parsed.Items))

	for _, entry := range parsed.Items {
		link := extractLink(entry)
		if link == "" {
			continue
		}

		item := Item{
			URL:   link,
			Title: entry.Title,
		}
		if entry.PublishedParsed != nil {
			item.PublishedAt = *entry.PublishedParsed
		}

		items = append(items, item)
	}

	return items, nil
}

// extractLink returns the best available URL from a feed entry. It prefers
// the explicit Link field, falling back to the GUID if it looks like an HTTP
// URL.
func extractLink(entry *gofeed.Item) string {
	if entry.Link != "" {
		return entry.Link
	}

	if strings.HasPrefix(entry.GUID, httpPrefix) {
		return entry.GUID
	}

	return ""
}
