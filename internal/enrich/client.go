// Package enrich sends content text to an external language model and parses
// the response into structured learning metadata.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openlingua/ingestor/internal/domain"
	"github.com/openlingua/ingestor/internal/logger"
)

// enrichTemperature keeps model output deterministic-leaning.
const enrichTemperature = 0.2

// Analysis is the validated metadata produced for one piece of content.
type Analysis struct {
	Title               string
	Summary             string
	KeyPoints           []string
	Labels              domain.Labels
	SuitableForLearners bool
	ModerationNotes     string
}

// Generator produces a model completion for a rendered prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client renders the analysis prompt, invokes the generation model, and
// parses the response into an Analysis. Any call failure or missing required
// field fails with domain.ErrEnrichment; the domain label is the single
// field permitted to self-heal, falling back to GENERAL.
type Client struct {
	gen      Generator
	prompts  *PromptStore
	template string
	log      logger.Logger
}

// NewClient creates an enrichment client using the named prompt template.
func NewClient(gen Generator, prompts *PromptStore, templateName string, log logger.Logger) *Client {
	return &Client{
		gen:      gen,
		prompts:  prompts,
		template: templateName,
		log:      log,
	}
}

// analysisPayload mirrors the model's expected JSON response. Pointer fields
// distinguish absent from zero values so validation can reject incomplete
// responses.
type analysisPayload struct {
	Title               string         `json:"title"`
	Summary             *string        `json:"summary"`
	KeyPoints           []string       `json:"keyPoints"`
	Labels              *domain.Labels `json:"labels"`
	SuitableForLearners *bool          `json:"suitableForLearners"`
	ModerationNotes     string         `json:"moderationNotes"`
}

// Analyze enriches the given text. Content without labels must not be
// persisted, so every failure here is surfaced to the caller.
func (c *Client) Analyze(ctx context.Context, text string) (*Analysis, error) {
	prompt, err := c.prompts.Render(c.template, text)
	if err != nil {
		return nil, fmt.Errorf("enrich render prompt: %w: %w", err, domain.ErrEnrichment)
	}

	raw, genErr := c.gen.Generate(ctx, prompt)
	if genErr != nil {
		return nil, fmt.Errorf("enrich model call: %w: %w", genErr, domain.ErrEnrichment)
	}

	payload, parseErr := parsePayload(raw)
	if parseErr != nil {
		return nil, parseErr
	}

	labels := *payload.Labels
	c.applyDomainFallback(&labels)

	return &Analysis{
		Title:               payload.Title,
		Summary:             *payload.Summary,
		KeyPoints:           payload.KeyPoints,
		Labels:              labels,
		SuitableForLearners: *payload.SuitableForLearners,
		ModerationNotes:     payload.ModerationNotes,
	}, nil
}

// parsePayload decodes the model response and rejects any missing required
// field.
func parsePayload(raw string) (*analysisPayload, error) {
	cleaned := stripFences(raw)

	var payload analysisPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("enrich parse response: %w: %w", err, domain.ErrEnrichment)
	}

	switch {
	case payload.Summary == nil || *payload.Summary == "":
		return nil, fmt.Errorf("enrich response missing summary: %w", domain.ErrEnrichment)
	case len(payload.KeyPoints) == 0:
		return nil, fmt.Errorf("enrich response missing keyPoints: %w", domain.ErrEnrichment)
	case payload.Labels == nil:
		return nil, fmt.Errorf("enrich response missing labels: %w", domain.ErrEnrichment)
	case payload.SuitableForLearners == nil:
		return nil, fmt.Errorf("enrich response missing suitableForLearners: %w", domain.ErrEnrichment)
	}

	return &payload, nil
}

// applyDomainFallback forces the domain label into the known set. An unknown
// value is overwritten with GENERAL and logged; an absent value is set
// silently.
func (c *Client) applyDomainFallback(labels *domain.Labels) {
	if labels.Domain == "" {
		labels.Domain = domain.DomainGeneral
		return
	}

	if !domain.IsKnownDomain(labels.Domain) {
		c.log.Warn("unknown domain label, falling back",
			logger.String("domain", labels.Domain),
			logger.String("fallback", domain.DomainGeneral),
		)
		labels.Domain = domain.DomainGeneral
	}
}

// stripFences removes markdown code fences from model output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
