// Package transcript retrieves timestamped YouTube captions.
package transcript

import (
	"fmt"
	"regexp"

	"github.com/openlingua/ingestor/internal/domain"
)

// videoIDPattern matches the known YouTube URL shapes (watch?v=, youtu.be/,
// embed/, shorts/) and captures the 11-character video identifier.
var videoIDPattern = regexp.MustCompile(
	`(?:youtube\.com/(?:.*v=|embed/|shorts/)|youtu\.be/)([a-zA-Z0-9_-]{11})`,
)

// ExtractVideoID returns the 11-character video identifier from a YouTube
// URL. It is a pure function; unrecognized URLs fail with
// domain.ErrInvalidURL.
func ExtractVideoID(rawURL string) (string, error) {
	if rawURL == "" {
		return "", fmt.Errorf("extract video id: empty url: %w", domain.ErrInvalidURL)
	}

	match := videoIDPattern.FindStringSubmatch(rawURL)
	if match == nil {
		return "", fmt.Errorf("extract video id: no match in %q: %w", rawURL, domain.ErrInvalidURL)
	}

	return match[1], nil
}

// EmbedURL returns the normalized embed URL for a video id. This is the
// canonical URL under which YouTube content is deduplicated and stored.
func EmbedURL(videoID string) string {
	return "https://www.youtube.com/embed/" + videoID
}
