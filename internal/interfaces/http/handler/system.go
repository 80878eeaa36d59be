package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hyperflow/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// readyTimeout bounds the dependency checks of /ready
const readyTimeout = 2 * time.Second

// Pinger is a dependency checked by /ready
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the body of /health
type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	Timestamp string `json:"timestamp" example:"2026-01-23T12:00:00Z"`
	Version   string `json:"version" example:"1.0.0"`
}

// ReadyResponse is the body of /ready
type ReadyResponse struct {
	Status   string `json:"status" example:"ready"`
	Database string `json:"database" example:"ok"`
}

// SystemHandler serves liveness and readiness probes
type SystemHandler struct {
	BaseHandler
	version string
	db      Pinger
	now     func() time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(version string, db Pinger) *SystemHandler {
	return &SystemHandler{version: version, db: db, now: time.Now}
}

// Health godoc
// @ID           health
// @Summary      Liveness probe
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Version:   h.version,
	})
}

// Ready godoc
// @ID           ready
// @Summary      Readiness probe
// @Description  Fails with 503 while the database is unreachable
// @Tags         system
// @Produce      json
// @Success      200 {object} ReadyResponse
// @Failure      503 {object} ReadyResponse
// @Router       /ready [get]
func (h *SystemHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			logger.FromContext(c.Request.Context()).Warn("Readiness check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, ReadyResponse{Status: "unavailable", Database: "error"})
			return
		}
	}
	c.JSON(http.StatusOK, ReadyResponse{Status: "ready", Database: "ok"})
}
