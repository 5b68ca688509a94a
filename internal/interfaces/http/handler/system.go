package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/backend/internal/interfaces/http/dto"
)

// Pinger checks that a dependency is reachable
type Pinger interface {
	Ping() error
}

// SystemHandler serves health and metrics endpoints
type SystemHandler struct {
	db        Pinger
	metrics   http.Handler
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler. metrics may be nil.
func NewSystemHandler(db Pinger, metrics http.Handler) *SystemHandler {
	return &SystemHandler{
		db:        db,
		metrics:   metrics,
		startTime: time.Now(),
	}
}

// Health reports whether the database answers
func (h *SystemHandler) Health(c *gin.Context) {
	resp := dto.HealthResponse{
		Status:   "ok",
		Database: "ok",
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
	}
	if err := h.db.Ping(); err != nil {
		resp.Status = "degraded"
		resp.Database = err.Error()
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegisterRoutes mounts /health and, when configured, /metrics
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	if h.metrics != nil {
		rg.GET("/metrics", gin.WrapH(h.metrics))
	}
}
