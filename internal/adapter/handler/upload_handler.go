package handler

import (
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/hashbeam/hashbeam/internal/usecase"
	"github.com/hashbeam/hashbeam/pkg/metrics"
)

// UploadHandler exposes the upload pipeline over HTTP.
type UploadHandler struct {
	upload *usecase.UploadUseCase
	stats  *metrics.Collector
}

// NewUploadHandler creates a new upload handler. stats may be nil.
func NewUploadHandler(upload *usecase.UploadUseCase, stats *metrics.Collector) *UploadHandler {
	return &UploadHandler{upload: upload, stats: stats}
}

// RegisterRoutes registers the upload endpoints.
func (h *UploadHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/upload", h.Upload)
	router.POST("/api/upload", h.Upload)
}

// Upload accepts a multipart form with a "file" field and an optional
// "description" field.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer file.Close()

	result, err := h.upload.Upload(
		c.Request.Context(),
		file,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		c.PostForm("description"),
	)
	if err != nil {
		writeError(c, err)
		return
	}

	if h.stats != nil {
		h.stats.RecordUpload(result.SizeBytes, result.Deduped)
	}

	response := gin.H{
		"fingerprint": result.Fingerprint,
		"short_link":  result.ShortLink,
		"size":        humanize.IBytes(uint64(result.SizeBytes)),
		"size_bytes":  result.SizeBytes,
		"deduped":     result.Deduped,
	}
	if result.PublicURL != "" {
		response["url"] = result.PublicURL
	}
	c.JSON(http.StatusOK, response)
}
