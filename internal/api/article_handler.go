package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dochub-api/internal/models"
	"github.com/dochub-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ArticleHandler handles article, history and export endpoints
type ArticleHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services: services,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// Create handles POST /api/v1/articles
func (h *ArticleHandler) Create(c *gin.Context) {
	var req models.CreateArticleRequest
	if !bindJSON(c, &req) {
		return
	}

	article, err := h.services.Article.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, article)
}

// List handles GET /api/v1/articles
// Optional filters: categoryId, tag, favorite, q
func (h *ArticleHandler) List(c *gin.Context) {
	categoryID, ok := queryID(c, "categoryId")
	if !ok {
		return
	}
	filter := models.ArticleFilter{
		CategoryID: categoryID,
		Tag:        c.Query("tag"),
		Query:      c.Query("q"),
	}
	if raw := c.Query("favorite"); raw != "" {
		fav, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "favorite must be true or false"})
			return
		}
		filter.Favorite = &fav
	}

	articles, err := h.services.Article.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

// Statistics handles GET /api/v1/articles/statistics
func (h *ArticleHandler) Statistics(c *gin.Context) {
	stats, err := h.services.Article.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Get handles GET /api/v1/articles/:id
func (h *ArticleHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	article, err := h.services.Article.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Update handles PUT /api/v1/articles/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateArticleRequest
	if !bindJSON(c, &req) {
		return
	}

	article, err := h.services.Article.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Delete handles DELETE /api/v1/articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.services.Article.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleFavorite handles PATCH /api/v1/articles/:id/favorite
func (h *ArticleHandler) ToggleFavorite(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	article, err := h.services.Article.ToggleFavorite(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// ListVersions handles GET /api/v1/articles/:id/versions
func (h *ArticleHandler) ListVersions(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	versions, err := h.services.Article.ListVersions(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, versions)
}

// GetVersion handles GET /api/v1/articles/:id/versions/:versionNumber
func (h *ArticleHandler) GetVersion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	number, ok := paramID(c, "versionNumber")
	if !ok {
		return
	}

	version, err := h.services.Article.GetVersion(c.Request.Context(), id, int(number))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, version)
}

// RestoreVersion handles POST /api/v1/articles/:id/versions/:versionNumber/restore
func (h *ArticleHandler) RestoreVersion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	number, ok := paramID(c, "versionNumber")
	if !ok {
		return
	}

	article, err := h.services.Article.RestoreVersion(c.Request.Context(), id, int(number))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// ExportPDF handles GET /api/v1/articles/:id/pdf
func (h *ArticleHandler) ExportPDF(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	export, err := h.services.Article.RenderPDF(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Header("Content-Disposition", contentDisposition(export.Filename))
	c.Data(http.StatusOK, "application/pdf", export.Data)
}

// contentDisposition builds an attachment header with an ASCII fallback
// and the UTF-8 encoded name
func contentDisposition(filename string) string {
	fallback := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, filename)
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, fallback, url.PathEscape(filename))
}
