package enrich

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlingua/ingestor/internal/domain"
	"github.com/openlingua/ingestor/internal/logger"
)

// stubGenerator returns a canned response or error.
type stubGenerator struct {
	response string
	err      error
	calls    int
}

func (g *stubGenerator) Generate(_ context.Context, _ string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

const validResponse = `{
  "title": "Ordering Coffee in Madrid",
  "summary": "A short dialogue about ordering coffee.",
  "keyPoints": ["ordering politely", "common cafe vocabulary"],
  "labels": {
    "cefr": "A2",
    "style": "CASUAL",
    "domain": "DINING",
    "topic": ["coffee"],
    "genre": "dialogue",
    "setting": "cafe",
    "speechActs": ["requesting"]
  },
  "suitableForLearners": true,
  "moderationNotes": ""
}`

// newTestClient builds a client backed by gen and a single temp-dir template.
func newTestClient(t *testing.T, gen Generator) *Client {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "analyze"+promptExtension)
	require.NoError(t, os.WriteFile(path, []byte("Analyze this:\n{{.Content}}"), 0o600))

	return NewClient(gen, NewPromptStore([]string{dir}), "analyze", logger.NewNop())
}

func TestAnalyze_ValidResponse(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{response: validResponse}
	client := newTestClient(t, gen)

	analysis, err := client.Analyze(context.Background(), "some article text")
	require.NoError(t, err)

	assert.Equal(t, "Ordering Coffee in Madrid", analysis.Title)
	assert.Equal(t, "A short dialogue about ordering coffee.", analysis.Summary)
	assert.Equal(t, []string{"ordering politely", "common cafe vocabulary"}, analysis.KeyPoints)
	assert.Equal(t, "A2", analysis.Labels.CEFR)
	assert.Equal(t, "DINING", analysis.Labels.Domain)
	assert.True(t, analysis.SuitableForLearners)
	assert.Equal(t, 1, gen.calls)
}

func TestAnalyze_StripsCodeFences(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{response: "```json\n" + validResponse + "\n```"}
	client := newTestClient(t, gen)

	analysis, err := client.Analyze(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "DINING", analysis.Labels.Domain)
}

func TestAnalyze_DomainFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		domainField string
	}{
		{name: "unknown domain", domainField: `"domain": "UNDERWATER_BASKET_WEAVING",`},
		{name: "absent domain", domainField: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			response := `{
			  "summary": "s",
			  "keyPoints": ["k"],
			  "labels": {` + tt.domainField + `"cefr": "B1"},
			  "suitableForLearners": false
			}`

			client := newTestClient(t, &stubGenerator{response: response})

			analysis, err := client.Analyze(context.Background(), "text")
			require.NoError(t, err)
			assert.Equal(t, domain.DomainGeneral, analysis.Labels.Domain)
		})
	}
}

func TestAnalyze_RejectsIncompleteResponses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
	}{
		{
			name:     "not json",
			response: "I could not analyze that content.",
		},
		{
			name:     "missing summary",
			response: `{"keyPoints": ["k"], "labels": {}, "suitableForLearners": true}`,
		},
		{
			name:     "empty summary",
			response: `{"summary": "", "keyPoints": ["k"], "labels": {}, "suitableForLearners": true}`,
		},
		{
			name:     "missing keyPoints",
			response: `{"summary": "s", "labels": {}, "suitableForLearners": true}`,
		},
		{
			name:     "missing labels",
			response: `{"summary": "s", "keyPoints": ["k"], "suitableForLearners": true}`,
		},
		{
			name:     "missing suitableForLearners",
			response: `{"summary": "s", "keyPoints": ["k"], "labels": {}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, &stubGenerator{response: tt.response})

			_, err := client.Analyze(context.Background(), "text")
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrEnrichment))
		})
	}
}

func TestAnalyze_GeneratorFailure(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, &stubGenerator{err: errors.New("model overloaded")})

	_, err := client.Analyze(context.Background(), "text")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEnrichment))
}
