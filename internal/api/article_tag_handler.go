package api

import (
	"net/http"

	"github.com/dochub-api/internal/models"
	"github.com/dochub-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ArticleTagHandler handles article/tag link endpoints
type ArticleTagHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewArticleTagHandler creates a new ArticleTagHandler
func NewArticleTagHandler(services *service.Services, log zerolog.Logger) *ArticleTagHandler {
	return &ArticleTagHandler{
		services: services,
		log:      log.With().Str("handler", "article_tag").Logger(),
	}
}

// Link handles POST /api/v1/article-tags
func (h *ArticleTagHandler) Link(c *gin.Context) {
	var req models.ArticleTagRequest
	if !bindJSON(c, &req) {
		return
	}

	link, err := h.services.ArticleTag.Link(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

// Unlink handles DELETE /api/v1/article-tags with {articleId, tagId} in the body
func (h *ArticleTagHandler) Unlink(c *gin.Context) {
	var req models.ArticleTagRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.services.ArticleTag.Unlink(c.Request.Context(), &req); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List handles GET /api/v1/article-tags?articleId=&tagId=
func (h *ArticleTagHandler) List(c *gin.Context) {
	articleID, ok := queryID(c, "articleId")
	if !ok {
		return
	}
	tagID, ok := queryID(c, "tagId")
	if !ok {
		return
	}

	links, err := h.services.ArticleTag.List(c.Request.Context(), models.ArticleTagFilter{
		ArticleID: articleID,
		TagID:     tagID,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, links)
}

// Get handles GET /api/v1/article-tags/:id
func (h *ArticleTagHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	link, err := h.services.ArticleTag.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, link)
}
