// Package api implements the HTTP trigger and query surface of the ingestor.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openlingua/ingestor/internal/domain"
	"github.com/openlingua/ingestor/internal/logger"
	"github.com/openlingua/ingestor/internal/store"
)

// Ingestor triggers ingestion runs.
type Ingestor interface {
	IngestYouTube(ctx context.Context, videoURL string) (*domain.ContentItem, error)
	IngestFeeds(ctx context.Context) ([]*domain.ContentItem, error)
}

// TranscriptFetcher previews a transcript without persisting anything.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoURL string) ([]domain.TranscriptSegment, error)
}

// ContentStore serves the stored-content query and edit surface.
type ContentStore interface {
	FindByID(ctx context.Context, id string) (*domain.ContentItem, error)
	Update(ctx context.Context, id string, update store.ContentUpdate) (*domain.ContentItem, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, filters store.SearchFilters, page, limit int, sortColumn string) (*store.SearchPage, error)
}

// SetupRouter creates and configures the Gin router with all routes.
func SetupRouter(
	log logger.Logger,
	ingestor Ingestor,
	transcripts TranscriptFetcher,
	contents ContentStore,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := &handler{
		ingestor:    ingestor,
		transcripts: transcripts,
		contents:    contents,
		log:         log,
	}

	v1 := router.Group("/api/v1")
	v1.POST("/ingest/youtube", h.ingestYouTube)
	v1.POST("/ingest/feeds", h.ingestFeeds)
	v1.POST("/transcripts", h.getTranscript)
	v1.GET("/contents", h.searchContents)
	v1.GET("/contents/:id", h.getContent)
	v1.PUT("/contents/:id", h.updateContent)
	v1.DELETE("/contents/:id", h.deleteContent)

	return router
}

// loggingMiddleware logs each request with its status and latency.
func loggingMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request handled",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("latency", time.Since(start)),
		)
	}
}
