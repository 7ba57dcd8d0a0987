package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/openlingua/ingestor/internal/domain"
)

// Fetcher retrieves feed documents over HTTP.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher backed by the given http.Client.
func NewFetcher(client *http.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch performs an HTTP GET for the feed URL and returns its body. All
// failures wrap domain.ErrFeedUnreachable so callers can skip the single
// feed without aborting siblings.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("feed fetch new request: %w: %w", err, domain.ErrFeedUnreachable)
	}

	resp, doErr := f.client.Do(req)
	if doErr != nil {
		return "", fmt.Errorf("feed fetch %s: %w: %w", feedURL, doErr, domain.ErrFeedUnreachable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("feed fetch: unexpected status %d for %s: %w",
			resp.StatusCode, feedURL, domain.ErrFeedUnreachable)
	}

	raw, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return "", fmt.Errorf("feed fetch read body: %w: %w", readErr, domain.ErrFeedUnreachable)
	}

	return string(raw), nil
}
