package extractor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openlingua/ingestor/internal/logger"
)

const articleFixture = `<!DOCTYPE html>
<html>
<head><title>Learning Spanish Verbs</title></head>
<body>
  <nav><a href="/home">Home</a> | <a href="/about">About</a></nav>
  <article>
    <h1>Learning Spanish Verbs</h1>
    <p>Regular verbs in Spanish follow predictable conjugation patterns that
    make them an ideal starting point for new learners. The three verb
    families share endings across every tense you will study.</p>
    <p>Start with the present tense and read the <a href="/guide">full
    conjugation guide</a> before moving on to the preterite.</p>
    <p>Practice daily with short sentences. Consistency matters far more than
    session length when building conjugation recall.</p>
  </article>
</body>
</html>`

func TestExtract_ReturnsArticleText(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(articleFixture))
	}))
	t.Cleanup(server.Close)

	e := New(server.Client(), logger.NewNop())

	text := e.Extract(context.Background(), server.URL+"/article")
	assert.Contains(t, text, "predictable conjugation patterns")
	assert.Contains(t, text, "conjugation guide")
	assert.NotContains(t, text, "<a ")
}

func TestExtract_FetchFailureReturnsEmpty(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	e := New(server.Client(), logger.NewNop())

	assert.Empty(t, e.Extract(context.Background(), server.URL+"/missing"))
}

func TestExtract_TransportFailureReturnsEmpty(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	url := server.URL
	server.Close()

	e := New(http.DefaultClient, logger.NewNop())

	assert.Empty(t, e.Extract(context.Background(), url))
}

func TestStripAnchors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "single anchor",
			input:    `<p>Read the <a href="/guide">full guide</a> today.</p>`,
			expected: `<p>Read the full guide today.</p>`,
		},
		{
			name:     "nested markup inside anchor",
			input:    `<p><a href="/x"><strong>bold link</strong></a></p>`,
			expected: `<p>bold link</p>`,
		},
		{
			name:     "anchor text is escaped",
			input:    `<p><a href="/x">a &lt; b</a></p>`,
			expected: `<p>a &lt; b</p>`,
		},
		{
			name:     "no anchors",
			input:    `<p>Plain paragraph.</p>`,
			expected: `<p>Plain paragraph.</p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, StripAnchors(tt.input))
		})
	}
}
