// Package handlers exposes the catalog over HTTP.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rehabworks/catalog/internal/events"
	"github.com/rehabworks/catalog/internal/logger"
	"github.com/rehabworks/catalog/internal/models"
	"github.com/rehabworks/catalog/internal/pagination"
	"github.com/rehabworks/catalog/internal/repository"
)

// ContentStore is the repository surface the handlers depend on.
type ContentStore interface {
	Count(ctx context.Context, filter repository.ListFilter) (int, error)
	ListOffset(ctx context.Context, filter repository.ListFilter, ord pagination.Order, limit, offset int) ([]models.Summary, error)
	ListCursor(ctx context.Context, filter repository.ListFilter, ord pagination.Order, limit int, cur *pagination.Cursor) ([]models.Summary, error)
	GetByID(ctx context.Context, id int64) (*models.Content, error)
	UpdateArticle(ctx context.Context, id int64, patch models.UpdatePatch) (*models.Content, error)
	Categories(ctx context.Context) ([]string, error)
}

// OffsetPage is the list envelope for offset mode.
type OffsetPage struct {
	Mode  pagination.Mode  `json:"mode"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
	Total int              `json:"total"`
	Rows  []models.Summary `json:"rows"`
}

// CursorPage is the list envelope for cursor mode. NextCursor is null on the
// final page.
type CursorPage struct {
	Mode       pagination.Mode    `json:"mode"`
	Limit      int                `json:"limit"`
	Total      int                `json:"total"`
	Rows       []models.Summary   `json:"rows"`
	HasNext    bool               `json:"hasNext"`
	NextCursor *pagination.Cursor `json:"nextCursor"`
}

type ContentHandler struct {
	store     ContentStore
	publisher *events.Publisher
	logger    logger.Logger
}

func NewContentHandler(store ContentStore, publisher *events.Publisher, log logger.Logger) *ContentHandler {
	return &ContentHandler{
		store:     store,
		publisher: publisher,
		logger:    log,
	}
}

// List serves GET /api/contents in offset or cursor mode.
func (h *ContentHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := repository.ListFilter{
		Category: c.Query("category"),
		Type:     c.Query("type"),
		Query:    c.Query("q"),
	}
	ord := pagination.ParseOrder(c.Query("sort"), c.Query("order"))
	limit := pagination.ParseLimit(c.Query("limit"))
	mode := pagination.ParseMode(c.Query("mode"))

	var cur *pagination.Cursor
	if mode == pagination.ModeCursor {
		parsed, err := pagination.ParseCursor(c.Query("cursorId"), c.Query("cursorCreatedAt"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cur = parsed
	}

	total, err := h.store.Count(ctx, filter)
	if err != nil {
		h.logger.Error("Failed to count contents", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list contents"})
		return
	}

	if mode == pagination.ModeCursor {
		h.listCursor(c, filter, ord, limit, total, cur)
		return
	}
	h.listOffset(c, filter, ord, limit, total)
}

func (h *ContentHandler) listOffset(
	c *gin.Context,
	filter repository.ListFilter,
	ord pagination.Order,
	limit, total int,
) {
	page := pagination.ParsePage(c.Query("page"))
	offset := pagination.Offset(page, limit)

	rows, err := h.store.ListOffset(c.Request.Context(), filter, ord, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list contents", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list contents"})
		return
	}

	c.JSON(http.StatusOK, OffsetPage{
		Mode:  pagination.ModeOffset,
		Page:  page,
		Limit: limit,
		Total: total,
		Rows:  rows,
	})
}

func (h *ContentHandler) listCursor(
	c *gin.Context,
	filter repository.ListFilter,
	ord pagination.Order,
	limit, total int,
	cur *pagination.Cursor,
) {
	fetched, err := h.store.ListCursor(c.Request.Context(), filter, ord, limit, cur)
	if err != nil {
		h.logger.Error("Failed to list contents", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list contents"})
		return
	}

	rows, hasNext, next := pagination.Window(fetched, limit)

	c.JSON(http.StatusOK, CursorPage{
		Mode:       pagination.ModeCursor,
		Limit:      limit,
		Total:      total,
		Rows:       rows,
		HasNext:    hasNext,
		NextCursor: next,
	})
}

// GetByID serves GET /api/contents/:id with the full record, including the
// body fields the list projection omits.
func (h *ContentHandler) GetByID(c *gin.Context) {
	id, ok := h.contentID(c)
	if !ok {
		return
	}

	content, err := h.store.GetByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Content not found"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to get content",
			logger.Int64("content_id", id),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get content"})
		return
	}

	c.JSON(http.StatusOK, content)
}

// Update serves PUT /api/contents/:id. Only title and content on article
// records are mutable; everything else has no update path.
func (h *ContentHandler) Update(c *gin.Context) {
	id, ok := h.contentID(c)
	if !ok {
		return
	}

	var patch models.UpdatePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.logger.Debug("Invalid request body",
			logger.Int64("content_id", id),
			logger.String("error", err.Error()),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title must not be blank"})
		return
	}

	updated, err := h.store.UpdateArticle(c.Request.Context(), id, patch)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Content not found"})
		return
	case errors.Is(err, repository.ErrNotArticle):
		c.JSON(http.StatusBadRequest, gin.H{"error": "only articles can be updated"})
		return
	case err != nil:
		h.logger.Error("Failed to update content",
			logger.Int64("content_id", id),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update content"})
		return
	}

	h.logger.Info("Content updated", logger.Int64("content_id", id))
	h.publisher.PublishAsync(events.ContentEvent{
		EventType: events.ContentUpdated,
		ContentID: id,
	})

	c.JSON(http.StatusOK, updated)
}

// Categories serves GET /api/categories: the distinct non-empty labels in
// sorted order.
func (h *ContentHandler) Categories(c *gin.Context) {
	categories, err := h.store.Categories(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list categories"})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// contentID parses the :id path parameter; a non-numeric id is a 400.
func (h *ContentHandler) contentID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be numeric"})
		return 0, false
	}
	return id, true
}
