package api

import (
	"net/http"

	"github.com/dochub-api/internal/models"
	"github.com/dochub-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CommentHandler handles comment endpoints
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comment").Logger(),
	}
}

// ListByArticle handles GET /api/v1/comments/article/:articleId
func (h *CommentHandler) ListByArticle(c *gin.Context) {
	articleID, ok := paramID(c, "articleId")
	if !ok {
		return
	}

	comments, err := h.services.Comment.ListByArticle(c.Request.Context(), articleID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// Create handles POST /api/v1/comments/article/:articleId
func (h *CommentHandler) Create(c *gin.Context) {
	articleID, ok := paramID(c, "articleId")
	if !ok {
		return
	}
	var req models.CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.services.Comment.Create(c.Request.Context(), articleID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Get handles GET /api/v1/comments/:commentId
func (h *CommentHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "commentId")
	if !ok {
		return
	}

	comment, err := h.services.Comment.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Update handles PUT /api/v1/comments/:commentId
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "commentId")
	if !ok {
		return
	}
	var req models.UpdateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.services.Comment.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Delete handles DELETE /api/v1/comments/:commentId
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "commentId")
	if !ok {
		return
	}

	if err := h.services.Comment.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
