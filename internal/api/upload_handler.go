package api

import (
	"errors"
	"net/http"

	"github.com/dochub-api/internal/config"
	"github.com/dochub-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// multipartOverhead is allowed on top of the file bytes for headers and boundaries
const multipartOverhead = 1 << 20

// UploadHandler handles image upload endpoints
type UploadHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "upload").Logger(),
	}
}

func (h *UploadHandler) limitBody(c *gin.Context, files int) {
	limit := h.cfg.Upload.MaxFileSize*int64(files) + multipartOverhead
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
}

func (h *UploadHandler) formError(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload is too large"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "파일이 업로드되지 않았습니다."})
}

// UploadImage handles POST /api/v1/uploads/image with the file in field "image"
func (h *UploadHandler) UploadImage(c *gin.Context) {
	h.limitBody(c, 1)

	file, err := c.FormFile("image")
	if err != nil {
		h.formError(c, err)
		return
	}

	uploaded, err := h.services.Upload.SaveImage(c.Request.Context(), file)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "이미지가 성공적으로 업로드되었습니다.",
		"filename":     uploaded.Filename,
		"originalName": uploaded.OriginalName,
		"size":         uploaded.Size,
		"url":          uploaded.URL,
	})
}

// UploadImages handles POST /api/v1/uploads/images with files in field "images"
func (h *UploadHandler) UploadImages(c *gin.Context) {
	h.limitBody(c, h.cfg.Upload.MaxFiles)

	form, err := c.MultipartForm()
	if err != nil {
		h.formError(c, err)
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "파일이 업로드되지 않았습니다."})
		return
	}

	uploaded, err := h.services.Upload.SaveImages(c.Request.Context(), files)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "이미지들이 성공적으로 업로드되었습니다.",
		"files":   uploaded,
	})
}

// DeleteImage handles DELETE /api/v1/uploads/image/:filename
func (h *UploadHandler) DeleteImage(c *gin.Context) {
	if err := h.services.Upload.DeleteImage(c.Request.Context(), c.Param("filename")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "파일이 성공적으로 삭제되었습니다."})
}
