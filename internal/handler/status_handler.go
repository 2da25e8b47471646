package handler

import (
	"context"
	"net/http"
	"time"

	"gptading/backend/internal/util"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
	Name() string
}

// StatusHandler serves liveness endpoints
type StatusHandler struct {
	store Pinger
	now   func() time.Time
}

func NewStatusHandler(store Pinger) *StatusHandler {
	return &StatusHandler{store: store, now: time.Now}
}

// StatusResponse is the body of /api/status
type StatusResponse struct {
	Status    string `json:"status"`
	App       string `json:"app"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// Status handles GET /api/status. The body is not wrapped in the API envelope.
func (h *StatusHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		Status:    "online",
		App:       util.AppName,
		Version:   util.AppVersion,
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}

// Health handles GET /health
func (h *StatusHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"store":  h.store.Name(),
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"store":  h.store.Name(),
	})
}
