package handler

import (
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/hashbeam/hashbeam/internal/domain/entities"
	"github.com/hashbeam/hashbeam/internal/usecase"
	"github.com/hashbeam/hashbeam/pkg/metrics"
)

// ResolveHandler exposes the read path: short links, downloads, recent
// listings, and search.
type ResolveHandler struct {
	resolve *usecase.ResolveUseCase
	stats   *metrics.Collector
}

// NewResolveHandler creates a new resolve handler. stats may be nil.
func NewResolveHandler(resolve *usecase.ResolveUseCase, stats *metrics.Collector) *ResolveHandler {
	return &ResolveHandler{resolve: resolve, stats: stats}
}

// RegisterRoutes registers the read-path endpoints.
func (h *ResolveHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/f/:prefix", h.Resolve)
	router.GET("/download/:ref", h.Download)
	router.GET("/files", h.Recent)
	router.GET("/api/recent", h.Recent)
	router.GET("/search", h.Search)
}

// Resolve looks up a fingerprint prefix. A single match returns the record;
// an ambiguous prefix returns the candidate set for the client to pick from.
func (h *ResolveHandler) Resolve(c *gin.Context) {
	res, err := h.resolve.Resolve(c.Request.Context(), c.Param("prefix"))
	if err != nil {
		writeError(c, err)
		return
	}

	if res.Ambiguous() {
		c.JSON(http.StatusOK, gin.H{
			"prefix":  c.Param("prefix"),
			"matches": recordViews(res.Matches),
		})
		return
	}

	if h.stats != nil {
		h.stats.RecordResolve()
	}
	c.JSON(http.StatusOK, recordView(res.Record))
}

// Download returns a time-limited URL for a full fingerprint or an
// unambiguous prefix.
func (h *ResolveHandler) Download(c *gin.Context) {
	url, ttl, err := h.resolve.DownloadURL(c.Request.Context(), c.Param("ref"))
	if err != nil {
		writeError(c, err)
		return
	}

	response := gin.H{"url": url}
	if ttl > 0 {
		response["expires_in"] = int64(ttl.Seconds())
	}
	c.JSON(http.StatusOK, response)
}

// Recent lists the newest records.
func (h *ResolveHandler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	records, err := h.resolve.Recent(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"files": recordViews(records),
		"count": len(records),
	})
}

// Search finds records by filename or fingerprint substring.
func (h *ResolveHandler) Search(c *gin.Context) {
	records, err := h.resolve.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   c.Query("q"),
		"results": recordViews(records),
		"total":   len(records),
	})
}

// recordView flattens a record for JSON responses, adding the short link
// and a human-readable size alongside the raw byte count.
func recordView(record *entities.FileRecord) gin.H {
	view := gin.H{
		"fingerprint":    record.Fingerprint,
		"short_link":     record.ShortLink(),
		"original_name":  record.OriginalName,
		"size":           humanize.IBytes(uint64(record.SizeBytes)),
		"size_bytes":     record.SizeBytes,
		"content_type":   record.ContentType,
		"created_at":     record.CreatedAt,
		"download_count": record.DownloadCount,
	}
	if record.Description != "" {
		view["description"] = record.Description
	}
	if len(record.Tags) > 0 {
		view["tags"] = record.Tags
	}
	if record.PublicURL != "" {
		view["url"] = record.PublicURL
	}
	return view
}

func recordViews(records []*entities.FileRecord) []gin.H {
	views := make([]gin.H, len(records))
	for i, record := range records {
		views[i] = recordView(record)
	}
	return views
}
