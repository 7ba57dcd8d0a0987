package transcript

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlingua/ingestor/internal/domain"
	"github.com/openlingua/ingestor/internal/logger"
)

const watchURL = "https://www.youtube.com/watch?v=abcdefghijk"

const timedTextFixture = `<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0" dur="1.5">Hello</text>
  <text start="1.5" dur="2">world &amp; beyond</text>
</transcript>`

// newTestFetcher points a fetcher at a local timedtext stand-in.
func newTestFetcher(t *testing.T, handler http.HandlerFunc) *Fetcher {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	f := NewFetcher(server.Client(), "en", logger.NewNop())
	f.endpoint = server.URL

	return f
}

func TestFetch_Segments(t *testing.T) {
	t.Parallel()

	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "en", r.URL.Query().Get("lang"))
		assert.Equal(t, "abcdefghijk", r.URL.Query().Get("v"))
		_, _ = w.Write([]byte(timedTextFixture))
	})

	segments, err := f.Fetch(context.Background(), watchURL)
	require.NoError(t, err)
	require.Len(t, segments, 2)

	assert.Equal(t, "Hello", segments[0].Text)
	assert.Equal(t, time.Duration(0), segments[0].Start)
	assert.Equal(t, 1500*time.Millisecond, segments[0].Duration)
	assert.Equal(t, 1500*time.Millisecond, segments[0].End)

	assert.Equal(t, "world & beyond", segments[1].Text)
	assert.Equal(t, 1500*time.Millisecond, segments[1].Start)
	assert.Equal(t, 3500*time.Millisecond, segments[1].End)
}

func TestFetch_NoCaptions(t *testing.T) {
	t.Parallel()

	f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
		// YouTube answers 200 with an empty body when no track exists.
		w.WriteHeader(http.StatusOK)
	})

	_, err := f.Fetch(context.Background(), watchURL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestFetch_UpstreamFailure(t *testing.T) {
	t.Parallel()

	f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := f.Fetch(context.Background(), watchURL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstream))
}

func TestFetch_InvalidURL(t *testing.T) {
	t.Parallel()

	f := NewFetcher(http.DefaultClient, "en", logger.NewNop())

	_, err := f.Fetch(context.Background(), "https://example.com/video")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidURL))
}

func TestJoinSegments(t *testing.T) {
	t.Parallel()

	segments := []domain.TranscriptSegment{
		{Text: "Hello"},
		{Text: ""},
		{Text: "world"},
	}

	assert.Equal(t, "Hello world", JoinSegments(segments))
	assert.Equal(t, "", JoinSegments(nil))
}
