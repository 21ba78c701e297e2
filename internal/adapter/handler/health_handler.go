package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hashbeam/hashbeam/internal/domain/entities"
	"github.com/hashbeam/hashbeam/internal/usecase"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	health *usecase.HealthUseCase
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(health *usecase.HealthUseCase) *HealthHandler {
	return &HealthHandler{health: health}
}

// RegisterRoutes registers health check routes
func (h *HealthHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.GetHealth)
	router.GET("/health/live", h.GetLiveness)
	router.GET("/health/ready", h.GetReadiness)
}

// GetHealth returns per-subsystem status; 503 when any collaborator is down.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	health := h.health.GetHealth(c.Request.Context())

	statusCode := http.StatusOK
	if health.Status == entities.HealthStatusDown {
		statusCode = http.StatusServiceUnavailable
	}
	c.JSON(statusCode, health)
}

// GetLiveness returns liveness status
func (h *HealthHandler) GetLiveness(c *gin.Context) {
	if h.health.GetLiveness(c.Request.Context()) {
		c.JSON(http.StatusOK, gin.H{"status": "alive"})
		return
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"status": "dead"})
}

// GetReadiness returns readiness status
func (h *HealthHandler) GetReadiness(c *gin.Context) {
	ready, message := h.health.GetReadiness(c.Request.Context())
	if ready {
		c.JSON(http.StatusOK, gin.H{"status": "ready", "message": message})
		return
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "message": message})
}
