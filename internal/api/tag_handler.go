package api

import (
	"net/http"

	"github.com/dochub-api/internal/models"
	"github.com/dochub-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// TagHandler handles tag endpoints
type TagHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(services *service.Services, log zerolog.Logger) *TagHandler {
	return &TagHandler{
		services: services,
		log:      log.With().Str("handler", "tag").Logger(),
	}
}

// Create handles POST /api/v1/tags
func (h *TagHandler) Create(c *gin.Context) {
	var req models.TagRequest
	if !bindJSON(c, &req) {
		return
	}

	tag, err := h.services.Tag.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

// List handles GET /api/v1/tags
func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.services.Tag.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

// Get handles GET /api/v1/tags/:id
func (h *TagHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	tag, err := h.services.Tag.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

// Update handles PUT /api/v1/tags/:id
func (h *TagHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.TagRequest
	if !bindJSON(c, &req) {
		return
	}

	tag, err := h.services.Tag.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

// Delete handles DELETE /api/v1/tags/:id
func (h *TagHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.services.Tag.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
