package transcript

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/openlingua/ingestor/internal/domain"
	"github.com/openlingua/ingestor/internal/logger"
)

// timedTextEndpoint serves caption tracks as XML.
const timedTextEndpoint = "https://video.google.com/timedtext"

// Fetcher retrieves caption transcripts from YouTube's timedtext endpoint.
// Each call re-fetches; nothing is cached locally.
type Fetcher struct {
	client   *http.Client
	endpoint string
	language string
	log      logger.Logger
}

// NewFetcher creates a transcript fetcher requesting captions in the given
// language.
func NewFetcher(client *http.Client, language string, log logger.Logger) *Fetcher {
	return &Fetcher{
		client:   client,
		endpoint: timedTextEndpoint,
		language: language,
		log:      log,
	}
}

// timedTextDocument mirrors the timedtext XML response shape.
type timedTextDocument struct {
	XMLName xml.Name       `xml:"transcript"`
	Texts   []timedTextRow `xml:"text"`
}

// timedTextRow is a single caption line with offsets in seconds.
type timedTextRow struct {
	Start    float64 `xml:"start,attr"`
	Duration float64 `xml:"dur,attr"`
	Body     string  `xml:",chardata"`
}

// Fetch resolves the video id from videoURL and returns its ordered caption
// segments. Fails with domain.ErrInvalidURL for unrecognized URLs,
// domain.ErrNotFound when no captions exist for the configured language, and
// domain.ErrUpstream on transport failure.
func (f *Fetcher) Fetch(ctx context.Context, videoURL string) ([]domain.TranscriptSegment, error) {
	videoID, err := ExtractVideoID(videoURL)
	if err != nil {
		return nil, err
	}

	body, fetchErr := f.fetchTimedText(ctx, videoID)
	if fetchErr != nil {
		return nil, fetchErr
	}

	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("transcript: no %s captions for video %s: %w",
			f.language, videoID, domain.ErrNotFound)
	}

	var doc timedTextDocument
	if decodeErr := xml.Unmarshal([]byte(body), &doc); decodeErr != nil {
		return nil, fmt.Errorf("transcript decode for video %s: %w: %w",
			videoID, decodeErr, domain.ErrUpstream)
	}

	if len(doc.Texts) == 0 {
		return nil, fmt.Errorf("transcript: empty %s track for video %s: %w",
			f.language, videoID, domain.ErrNotFound)
	}

	return buildSegments(doc.Texts), nil
}

// fetchTimedText performs the HTTP GET against the timedtext endpoint.
func (f *Fetcher) fetchTimedText(ctx context.Context, videoID string) (string, error) {
	query := url.Values{}
	query.Set("lang", f.language)
	query.Set("v", videoID)

	endpoint := f.endpoint + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("transcript new request: %w: %w", err, domain.ErrUpstream)
	}

	resp, doErr := f.client.Do(req)
	if doErr != nil {
		return "", fmt.Errorf("transcript fetch for video %s: %w: %w",
			videoID, doErr, domain.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("transcript: no captions for video %s: %w",
			videoID, domain.ErrNotFound)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcript: unexpected status %d for video %s: %w",
			resp.StatusCode, videoID, domain.ErrUpstream)
	}

	raw, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return "", fmt.Errorf("transcript read body: %w: %w", readErr, domain.ErrUpstream)
	}

	return string(raw), nil
}

// buildSegments converts caption rows into ordered transcript segments.
// End is always Start + Duration.
func buildSegments(rows []timedTextRow) []domain.TranscriptSegment {
	segments := make([]domain.TranscriptSegment, 0, len(rows))

	for _, row := range rows {
		start := secondsToDuration(row.Start)
		dur := secondsToDuration(row.Duration)

		segments = append(segments, domain.TranscriptSegment{
			Text:     html.UnescapeString(strings.TrimSpace(row.Body)),
			Start:    start,
			Duration: dur,
			End:      start + dur,
		})
	}

	return segments
}

// secondsToDuration converts fractional seconds to a time.Duration.
func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// JoinSegments concatenates segment texts with single-space separators,
// skipping empty lines.
func JoinSegments(segments []domain.TranscriptSegment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.Text == "" {
			continue
		}
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, " ")
}
