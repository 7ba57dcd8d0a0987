// Package domain provides domain models used across the application.
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// SourceType identifies which extractor produced a content item.
type SourceType string

const (
	// SourceWebArticle marks content extracted from a web article.
	SourceWebArticle SourceType = "WEB_ARTICLE"

	// SourceYouTubeVideo marks content built from a YouTube transcript.
	SourceYouTubeVideo SourceType = "YOUTUBE_VIDEO"
)

// DefaultLanguage is the language assigned to ingested content.
const DefaultLanguage = "en"

// ContentItem is the persisted unit of ingested content.
// Items are created exactly once by the ingestion pipeline after successful
// enrichment; the pipeline never mutates or deletes them. No two items share
// a (CanonicalURL, SourceType) pair.
type ContentItem struct {
	ID                  string     `db:"id" json:"id"`
	SourceType          SourceType `db:"source_type" json:"sourceType"`
	CanonicalURL        string     `db:"canonical_url" json:"canonicalUrl"`
	Title               string     `db:"title" json:"title"`
	PublishedAt         time.Time  `db:"published_at" json:"publishedAt"`
	Language            string     `db:"language" json:"language"`
	Summary             string     `db:"summary" json:"summary"`
	RawContent          string     `db:"raw_content" json:"rawContent"`
	KeyPoints           StringList `db:"key_points" json:"keyPoints"`
	Labels              Labels     `db:"labels" json:"labels"`
	SuitableForLearners bool       `db:"suitable_for_learners" json:"suitableForLearners"`
	ModerationNotes     string     `db:"moderation_notes" json:"moderationNotes,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updatedAt"`
}

// Labels holds the structured metadata produced by enrichment.
// Domain is always a member of KnownDomains after validation.
type Labels struct {
	CEFR       string   `json:"cefr,omitempty"`
	Style      string   `json:"style,omitempty"`
	Domain     string   `json:"domain"`
	Topic      []string `json:"topic,omitempty"`
	Genre      string   `json:"genre,omitempty"`
	Setting    string   `json:"setting,omitempty"`
	SpeechActs []string `json:"speechActs,omitempty"`
}

// DomainGeneral is the fallback domain label applied when enrichment returns
// a domain outside the known set, or no domain at all.
const DomainGeneral = "GENERAL"

// KnownDomains is the closed set of valid domain labels.
var KnownDomains = []string{
	DomainGeneral,
	"BUSINESS",
	"TECHNOLOGY",
	"SCIENCE",
	"HEALTH",
	"EDUCATION",
	"TRAVEL",
	"CULTURE",
	"SPORTS",
	"ENTERTAINMENT",
	"POLITICS",
	"ENVIRONMENT",
}

// IsKnownDomain reports whether d is a member of KnownDomains.
func IsKnownDomain(d string) bool {
	for _, known := range KnownDomains {
		if d == known {
			return true
		}
	}
	return false
}

// TranscriptSegment is a single timestamped caption line. Segments are
// ephemeral and never persisted standalone; End is always Start + Duration.
type TranscriptSegment struct {
	Text     string        `json:"text"`
	Start    time.Duration `json:"start"`
	Duration time.Duration `json:"duration"`
	End      time.Duration `json:"end"`
}

// Scan implements the sql.Scanner interface for JSONB label columns.
func (l *Labels) Scan(value any) error {
	if value == nil {
		*l = Labels{}
		return nil
	}

	data, err := jsonbBytes(value)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		*l = Labels{}
		return nil
	}

	return json.Unmarshal(data, l)
}

// Value implements the driver.Valuer interface for JSONB label columns.
func (l Labels) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// StringList is a JSONB-backed ordered list of strings.
type StringList []string

// Scan implements the sql.Scanner interface.
func (s *StringList) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}

	data, err := jsonbBytes(value)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		*s = StringList{}
		return nil
	}

	return json.Unmarshal(data, s)
}

// Value implements the driver.Valuer interface.
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// jsonbBytes normalizes a scanned JSONB value to a byte slice.
func jsonbBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, errors.New("unsupported type for JSONB column")
	}
}
