package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openlingua/ingestor/internal/domain"
	"github.com/openlingua/ingestor/internal/logger"
	"github.com/openlingua/ingestor/internal/store"
)

// Listing defaults.
const (
	defaultPage  = 1
	defaultLimit = 10
)

// handler holds the dependencies shared by all route handlers.
type handler struct {
	ingestor    Ingestor
	transcripts TranscriptFetcher
	contents    ContentStore
	log         logger.Logger
}

// urlRequest is the body of ingest and transcript trigger requests.
type urlRequest struct {
	URL string `json:"url" binding:"required"`
}

// ingestYouTube handles POST /api/v1/ingest/youtube.
func (h *handler) ingestYouTube(c *gin.Context) {
	var req urlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	item, err := h.ingestor.IngestYouTube(c.Request.Context(), req.URL)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Content ingested successfully",
		"data":    item,
	})
}

// ingestFeeds handles POST /api/v1/ingest/feeds.
func (h *handler) ingestFeeds(c *gin.Context) {
	items, err := h.ingestor.IngestFeeds(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Feed sweep finished",
		"count":   len(items),
		"data":    items,
	})
}

// getTranscript handles POST /api/v1/transcripts. It previews a transcript
// without persisting anything.
func (h *handler) getTranscript(c *gin.Context) {
	var req urlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	segments, err := h.transcripts.Fetch(c.Request.Context(), req.URL)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Transcript fetched successfully",
		"data":    segments,
	})
}

// searchContents handles GET /api/v1/contents.
func (h *handler) searchContents(c *gin.Context) {
	page, pageErr := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(defaultPage)))
	limit, limitErr := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if pageErr != nil || limitErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page or limit"})
		return
	}

	filters := store.SearchFilters{
		SourceType: domain.SourceType(c.Query("type")),
		Domain:     c.Query("domain"),
		Style:      c.Query("style"),
		Topic:      c.Query("topic"),
		Query:      c.Query("q"),
	}

	if suitable := c.Query("suitableForLearners"); suitable != "" {
		value := suitable == "true"
		filters.SuitableForLearners = &value
	}

	sortColumn := "created_at"
	if c.Query("sort") == "newest" {
		sortColumn = "published_at"
	}

	result, err := h.contents.Search(c.Request.Context(), filters, page, limit, sortColumn)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Contents fetched successfully",
		"data":    result,
	})
}

// getContent handles GET /api/v1/contents/:id.
func (h *handler) getContent(c *gin.Context) {
	item, err := h.contents.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

// updateContent handles PUT /api/v1/contents/:id.
func (h *handler) updateContent(c *gin.Context) {
	var update store.ContentUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid update payload"})
		return
	}

	item, err := h.contents.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Content updated successfully",
		"data":    item,
	})
}

// deleteContent handles DELETE /api/v1/contents/:id.
func (h *handler) deleteContent(c *gin.Context) {
	if err := h.contents.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Content deleted successfully"})
}

// renderError maps ingestion errors onto HTTP status codes.
func (h *handler) renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, domain.ErrInvalidURL):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrEnrichment), errors.Is(err, domain.ErrUpstream):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		h.log.Error("request failed", logger.Error(err))
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
