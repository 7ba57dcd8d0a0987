package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/openlingua/ingestor/internal/domain"
)

// contentSelectColumns lists columns for SELECT queries on content_items.
const contentSelectColumns = `id, source_type, canonical_url, title, published_at, language,
	summary, raw_content, key_points, labels, suitable_for_learners, moderation_notes,
	created_at, updated_at`

// ContentRepository handles database operations for content items.
type ContentRepository struct {
	db *sqlx.DB
}

// NewContentRepository creates a new content repository.
func NewContentRepository(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// FindByCanonicalURL returns the item stored under (url, sourceType), or nil
// when none exists.
func (r *ContentRepository) FindByCanonicalURL(
	ctx context.Context,
	url string,
	sourceType domain.SourceType,
) (*domain.ContentItem, error) {
	query := `SELECT ` + contentSelectColumns + `
		FROM content_items WHERE canonical_url = $1 AND source_type = $2`

	var item domain.ContentItem
	err := r.db.GetContext(ctx, &item, query, url, sourceType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find content by url: %w", err)
	}

	return &item, nil
}

// Exists reports whether an item is stored under (url, sourceType).
func (r *ContentRepository) Exists(
	ctx context.Context,
	url string,
	sourceType domain.SourceType,
) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM content_items WHERE canonical_url = $1 AND source_type = $2
	)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, url, sourceType); err != nil {
		return false, fmt.Errorf("failed to check content existence: %w", err)
	}

	return exists, nil
}

// Create inserts a new content item and returns it with generated fields
// populated. A race-lost duplicate insert on (canonical_url, source_type)
// fails with domain.ErrAlreadyExists; any other write error wraps
// domain.ErrPersistFailure.
func (r *ContentRepository) Create(ctx context.Context, item *domain.ContentItem) (*domain.ContentItem, error) {
	query := `
		INSERT INTO content_items (
			id, source_type, canonical_url, title, published_at, language,
			summary, raw_content, key_points, labels, suitable_for_learners, moderation_notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	stored := *item
	stored.ID = uuid.NewString()
	if stored.Language == "" {
		stored.Language = domain.DefaultLanguage
	}

	err := r.db.QueryRowxContext(ctx, query,
		stored.ID, stored.SourceType, stored.CanonicalURL, stored.Title,
		stored.PublishedAt, stored.Language, stored.Summary, stored.RawContent,
		stored.KeyPoints, stored.Labels, stored.SuitableForLearners, stored.ModerationNotes,
	).Scan(&stored.CreatedAt, &stored.UpdatedAt)

	if isUniqueViolation(err) {
		return nil, fmt.Errorf("content %s already stored: %w", stored.CanonicalURL, domain.ErrAlreadyExists)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert content: %w: %w", err, domain.ErrPersistFailure)
	}

	return &stored, nil
}

// FindByID returns the item with the given id.
func (r *ContentRepository) FindByID(ctx context.Context, id string) (*domain.ContentItem, error) {
	query := `SELECT ` + contentSelectColumns + ` FROM content_items WHERE id = $1`

	var item domain.ContentItem
	err := r.db.GetContext(ctx, &item, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("content %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find content by id: %w", err)
	}

	return &item, nil
}

// ContentUpdate holds out-of-band edits applied by external editors. Nil
// fields are left unchanged.
type ContentUpdate struct {
	Title               *string `json:"title"`
	Summary             *string `json:"summary"`
	SuitableForLearners *bool   `json:"suitableForLearners"`
}

// Update applies an out-of-band edit and returns the updated item.
func (r *ContentRepository) Update(ctx context.Context, id string, update ContentUpdate) (*domain.ContentItem, error) {
	query := `
		UPDATE content_items
		SET title = COALESCE($2, title),
			summary = COALESCE($3, summary),
			suitable_for_learners = COALESCE($4, suitable_for_learners),
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, update.Title, update.Summary, update.SuitableForLearners)
	if execErr := execRequireRows(result, err, fmt.Errorf("content %s: %w", id, domain.ErrNotFound)); execErr != nil {
		return nil, execErr
	}

	return r.FindByID(ctx, id)
}

// Delete removes the item with the given id.
func (r *ContentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM content_items WHERE id = $1`, id)
	return execRequireRows(result, err, fmt.Errorf("content %s: %w", id, domain.ErrNotFound))
}

// SearchFilters narrows a content listing. Zero values are ignored.
type SearchFilters struct {
	SourceType          domain.SourceType
	Domain              string
	Style               string
	Topic               string
	Query               string
	SuitableForLearners *bool
}

// SearchPage is a single page of a filtered content listing.
type SearchPage struct {
	Items      []domain.ContentItem `json:"data"`
	Total      int                  `json:"total"`
	TotalPages int                  `json:"totalPages"`
	Page       int                  `json:"page"`
}

// Search returns a filtered, paginated listing ordered by the given sort
// column ("published_at" or the default "created_at"), newest first.
func (r *ContentRepository) Search(
	ctx context.Context,
	filters SearchFilters,
	page, limit int,
	sortColumn string,
) (*SearchPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if sortColumn != "published_at" {
		sortColumn = "created_at"
	}

	where, args := buildSearchWhere(filters)

	countQuery := `SELECT COUNT(*) FROM content_items` + where

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("failed to count content: %w", err)
	}

	listQuery := fmt.Sprintf(
		`SELECT %s FROM content_items%s ORDER BY %s DESC LIMIT $%d OFFSET $%d`,
		contentSelectColumns, where, sortColumn, len(args)+1, len(args)+2,
	)
	args = append(args, limit, (page-1)*limit)

	items := []domain.ContentItem{}
	if err := r.db.SelectContext(ctx, &items, listQuery, args...); err != nil {
		return nil, fmt.Errorf("failed to list content: %w", err)
	}

	totalPages := (total + limit - 1) / limit

	return &SearchPage{
		Items:      items,
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
	}, nil
}

// buildSearchWhere renders the WHERE clause and its arguments for Search.
func buildSearchWhere(filters SearchFilters) (string, []any) {
	conditions := make([]string, 0, 6)
	args := make([]any, 0, 6)

	add := func(condition string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if filters.SourceType != "" {
		add(`source_type = $%d`, filters.SourceType)
	}
	if filters.Domain != "" {
		add(`labels->>'domain' = $%d`, filters.Domain)
	}
	if filters.Style != "" {
		add(`labels->>'style' = $%d`, filters.Style)
	}
	if filters.Topic != "" {
		topicJSON, _ := json.Marshal([]string{filters.Topic})
		add(`labels->'topic' @> $%d`, topicJSON)
	}
	if filters.Query != "" {
		add(`title ILIKE '%%' || $%d || '%%'`, filters.Query)
	}
	if filters.SuitableForLearners != nil {
		add(`suitable_for_learners = $%d`, *filters.SuitableForLearners)
	}

	if len(conditions) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

// execRequireRows validates that an ExecContext result affected at least one
// row. Returns err if non-nil, or notFoundErr if rowsAffected is 0.
func execRequireRows(result sql.Result, err, notFoundErr error) error {
	if err != nil {
		return err
	}
	n, affectedErr := result.RowsAffected()
	if affectedErr != nil {
		return affectedErr
	}
	if n == 0 {
		return notFoundErr
	}
	return nil
}
