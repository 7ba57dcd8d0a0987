// Package pipeline orchestrates content ingestion: dedup, fetch, enrichment,
// and persistence for YouTube videos and RSS feed articles.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openlingua/ingestor/internal/domain"
	"github.com/openlingua/ingestor/internal/enrich"
	"github.com/openlingua/ingestor/internal/feed"
	"github.com/openlingua/ingestor/internal/logger"
	"github.com/openlingua/ingestor/internal/scheduler"
	"github.com/openlingua/ingestor/internal/transcript"
)

// Fallback titles used when a source provides none.
const (
	fallbackYouTubeTitle = "YouTube Resource"
	fallbackArticleTitle = "Untitled"
)

// taskState tracks a single ingestion task through its lifecycle. Any state
// can transition to taskFailed, which is terminal.
type taskState string

const (
	taskFetchingContent taskState = "FETCHING_CONTENT"
	taskEnriching       taskState = "ENRICHING"
	taskPersisting      taskState = "PERSISTING"
	taskDone            taskState = "DONE"
	taskFailed          taskState = "FAILED"
)

// ContentStore persists and deduplicates content items.
type ContentStore interface {
	Exists(ctx context.Context, url string, sourceType domain.SourceType) (bool, error)
	FindByCanonicalURL(ctx context.Context, url string, sourceType domain.SourceType) (*domain.ContentItem, error)
	Create(ctx context.Context, item *domain.ContentItem) (*domain.ContentItem, error)
}

// TranscriptFetcher retrieves caption segments for a YouTube URL.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoURL string) ([]domain.TranscriptSegment, error)
}

// ArticleExtractor extracts readable article text from a URL, best effort.
type ArticleExtractor interface {
	Extract(ctx context.Context, pageURL string) string
}

// Enricher produces structured metadata for content text.
type Enricher interface {
	Analyze(ctx context.Context, text string) (*enrich.Analysis, error)
}

// FeedFetcher retrieves a feed document body.
type FeedFetcher interface {
	Fetch(ctx context.Context, feedURL string) (string, error)
}

// Config holds pipeline configuration.
type Config struct {
	// FeedURLs lists the feeds scanned by IngestFeeds.
	FeedURLs []string
	// PerFeedLimit caps new (non-duplicate) items ingested per feed.
	PerFeedLimit int
	// Concurrency caps in-flight ingestion tasks.
	Concurrency int
}

// Pipeline composes the dedup gate, extractors, enrichment client, and
// content store into the two ingestion entry flows.
type Pipeline struct {
	store       ContentStore
	transcripts TranscriptFetcher
	articles    ArticleExtractor
	enricher    Enricher
	feeds       FeedFetcher
	sched       *scheduler.Bounded
	cfg         Config
	log         logger.Logger
}

// New creates an ingestion pipeline.
func New(
	store ContentStore,
	transcripts TranscriptFetcher,
	articles ArticleExtractor,
	enricher Enricher,
	feeds FeedFetcher,
	cfg Config,
	log logger.Logger,
) *Pipeline {
	return &Pipeline{
		store:       store,
		transcripts: transcripts,
		articles:    articles,
		enricher:    enricher,
		feeds:       feeds,
		sched:       scheduler.NewBounded(cfg.Concurrency),
		cfg:         cfg,
		log:         log,
	}
}

// IngestYouTube ingests a single YouTube video: resolve the canonical embed
// URL, dedup, fetch the transcript, enrich, persist. The first hard failure
// is propagated to the caller.
func (p *Pipeline) IngestYouTube(ctx context.Context, videoURL string) (*domain.ContentItem, error) {
	videoID, err := transcript.ExtractVideoID(videoURL)
	if err != nil {
		return nil, err
	}

	embedURL := transcript.EmbedURL(videoID)

	// Dedup before any enrichment work so an external model call is never
	// spent on already-ingested content.
	existing, existsErr := p.store.FindByCanonicalURL(ctx, embedURL, domain.SourceYouTubeVideo)
	if existsErr != nil {
		return nil, fmt.Errorf("ingest youtube dedup check: %w", existsErr)
	}
	if existing != nil {
		p.log.Info("youtube content already ingested",
			logger.String("url", embedURL),
			logger.String("id", existing.ID),
		)
		return nil, fmt.Errorf("video %s: %w", embedURL, domain.ErrAlreadyExists)
	}

	segments, fetchErr := p.transcripts.Fetch(ctx, videoURL)
	if fetchErr != nil {
		return nil, fetchErr
	}

	fullText := transcript.JoinSegments(segments)

	analysis, enrichErr := p.enricher.Analyze(ctx, fullText)
	if enrichErr != nil {
		return nil, enrichErr
	}

	title := analysis.Title
	if title == "" {
		title = fallbackYouTubeTitle
	}

	item := &domain.ContentItem{
		SourceType:          domain.SourceYouTubeVideo,
		CanonicalURL:        embedURL,
		Title:               title,
		PublishedAt:         time.Now().UTC(),
		Language:            domain.DefaultLanguage,
		Summary:             analysis.Summary,
		RawContent:          fullText,
		KeyPoints:           analysis.KeyPoints,
		Labels:              analysis.Labels,
		SuitableForLearners: analysis.SuitableForLearners,
		ModerationNotes:     analysis.ModerationNotes,
	}

	stored, createErr := p.store.Create(ctx, item)
	if createErr != nil {
		// A race-lost duplicate insert means someone else ingested this
		// video between the dedup check and our write.
		return nil, createErr
	}

	p.log.Info("youtube content ingested",
		logger.String("url", embedURL),
		logger.String("id", stored.ID),
	)

	return stored, nil
}

// IngestFeeds scans the configured feeds in order and ingests up to the
// per-feed limit of new items from each. Failures are isolated per item and
// per feed: a failing item or feed is logged and excluded from the result,
// never aborting sibling work. The returned aggregate preserves per-feed
// submission order regardless of completion order.
func (p *Pipeline) IngestFeeds(ctx context.Context) ([]*domain.ContentItem, error) {
	ingested := make([]*domain.ContentItem, 0)

	for _, feedURL := range p.cfg.FeedURLs {
		if err := ctx.Err(); err != nil {
			return ingested, err
		}

		items, err := p.scanFeed(ctx, feedURL)
		if err != nil {
			p.log.Error("feed skipped",
				logger.String("feed_url", feedURL),
				logger.Error(err),
			)
			continue
		}

		ingested = append(ingested, p.ingestFeedItems(ctx, feedURL, items)...)
	}

	p.log.Info("feed sweep finished", logger.Int("items_ingested", len(ingested)))

	return ingested, nil
}

// scanFeed fetches and parses one feed, then selects the first new items in
// feed order up to the per-feed limit.
func (p *Pipeline) scanFeed(ctx context.Context, feedURL string) ([]feed.Item, error) {
	body, err := p.feeds.Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	items, parseErr := feed.Parse(ctx, body)
	if parseErr != nil {
		return nil, fmt.Errorf("%w: %w", parseErr, domain.ErrFeedUnreachable)
	}

	exists := func(existsCtx context.Context, url string) (bool, error) {
		return p.store.Exists(existsCtx, url, domain.SourceWebArticle)
	}

	selected, selectErr := feed.SelectNew(ctx, items, exists, p.cfg.PerFeedLimit)
	if selectErr != nil {
		return nil, fmt.Errorf("select new feed items: %w", selectErr)
	}

	p.log.Info("feed scanned",
		logger.String("feed_url", feedURL),
		logger.Int("items_total", len(items)),
		logger.Int("items_new", len(selected)),
	)

	return selected, nil
}

// ingestFeedItems runs one ingestion task per item through the bounded
// scheduler and collects the successes in submission order.
func (p *Pipeline) ingestFeedItems(ctx context.Context, feedURL string, items []feed.Item) []*domain.ContentItem {
	tasks := make([]scheduler.Task, 0, len(items))

	for _, item := range items {
		tasks = append(tasks, func(taskCtx context.Context) (*domain.ContentItem, error) {
			return p.ingestArticle(taskCtx, item)
		})
	}

	results := p.sched.Run(ctx, tasks)

	for i, res := range results {
		if res.Err != nil {
			p.log.Error("feed item failed",
				logger.String("feed_url", feedURL),
				logger.String("url", items[i].URL),
				logger.Error(res.Err),
			)
		}
	}

	return scheduler.CollectItems(results)
}

// ingestArticle runs the per-item task for a feed article: extract, enrich,
// persist.
func (p *Pipeline) ingestArticle(ctx context.Context, item feed.Item) (*domain.ContentItem, error) {
	log := p.log.With(logger.String("url", item.URL))

	log.Debug("task state", logger.String("state", string(taskFetchingContent)))
	body := p.articles.Extract(ctx, item.URL)

	log.Debug("task state", logger.String("state", string(taskEnriching)))
	analysis, err := p.enricher.Analyze(ctx, item.Title+"\n"+body)
	if err != nil {
		log.Debug("task state", logger.String("state", string(taskFailed)))
		return nil, err
	}

	title := item.Title
	if title == "" {
		title = fallbackArticleTitle
	}

	publishedAt := item.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = time.Now().UTC()
	}

	content := &domain.ContentItem{
		SourceType:          domain.SourceWebArticle,
		CanonicalURL:        item.URL,
		Title:               title,
		PublishedAt:         publishedAt,
		Language:            domain.DefaultLanguage,
		Summary:             analysis.Summary,
		RawContent:          trimmedBody(body),
		KeyPoints:           analysis.KeyPoints,
		Labels:              analysis.Labels,
		SuitableForLearners: analysis.SuitableForLearners,
		ModerationNotes:     analysis.ModerationNotes,
	}

	log.Debug("task state", logger.String("state", string(taskPersisting)))
	stored, createErr := p.store.Create(ctx, content)
	if createErr != nil {
		// Includes the race-lost duplicate, surfaced as ErrAlreadyExists:
		// another ingestion won between the dedup check and this write.
		log.Debug("task state", logger.String("state", string(taskFailed)))
		return nil, createErr
	}

	log.Debug("task state", logger.String("state", string(taskDone)))
	log.Info("article content ingested", logger.String("id", stored.ID))

	return stored, nil
}

// trimmedBody normalizes extracted article bodies before persistence.
func trimmedBody(body string) string {
	return strings.TrimSpace(body)
}
