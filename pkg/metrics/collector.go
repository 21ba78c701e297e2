package metrics

import (
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

// Collector accumulates service counters. All counters are atomic; the
// numbers are operational telemetry, not billing data.
type Collector struct {
	httpRequests int64
	httpErrors   int64

	uploads       int64
	uploadsDedup  int64
	bytesUploaded int64
	resolves      int64

	startTime time.Time
}

// NewCollector creates a collector with the uptime clock started.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// Middleware counts every HTTP request and its error status.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()
		atomic.AddInt64(&c.httpRequests, 1)
		if ctx.Writer.Status() >= http.StatusBadRequest {
			atomic.AddInt64(&c.httpErrors, 1)
		}
	}
}

// RecordUpload registers a completed upload. Deduplicated uploads transfer
// no bytes, so only new content counts toward bytesUploaded.
func (c *Collector) RecordUpload(sizeBytes int64, deduped bool) {
	atomic.AddInt64(&c.uploads, 1)
	if deduped {
		atomic.AddInt64(&c.uploadsDedup, 1)
		return
	}
	atomic.AddInt64(&c.bytesUploaded, sizeBytes)
}

// RecordResolve registers a successful short-link resolution.
func (c *Collector) RecordResolve() {
	atomic.AddInt64(&c.resolves, 1)
}

// Snapshot is a point-in-time view of all counters.
type Snapshot struct {
	HTTPRequests    int64         `json:"http_requests"`
	HTTPErrors      int64         `json:"http_errors"`
	Uploads         int64         `json:"uploads"`
	UploadsDeduped  int64         `json:"uploads_deduped"`
	BytesUploaded   int64         `json:"bytes_uploaded"`
	Resolves        int64         `json:"resolves"`
	Uptime          time.Duration `json:"uptime"`
	GoroutineCount  int           `json:"goroutine_count"`
}

// GetSnapshot returns the current counter values.
func (c *Collector) GetSnapshot() Snapshot {
	return Snapshot{
		HTTPRequests:   atomic.LoadInt64(&c.httpRequests),
		HTTPErrors:     atomic.LoadInt64(&c.httpErrors),
		Uploads:        atomic.LoadInt64(&c.uploads),
		UploadsDeduped: atomic.LoadInt64(&c.uploadsDedup),
		BytesUploaded:  atomic.LoadInt64(&c.bytesUploaded),
		Resolves:       atomic.LoadInt64(&c.resolves),
		Uptime:         time.Since(c.startTime),
		GoroutineCount: runtime.NumGoroutine(),
	}
}

// StatsHandler serves the counters as JSON.
func (c *Collector) StatsHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, c.GetSnapshot())
	}
}
