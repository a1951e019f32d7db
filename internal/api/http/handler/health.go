package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/JordyV23/social-app/internal/logger"
	"github.com/JordyV23/social-app/internal/model"
	"github.com/gin-gonic/gin"
)

const pingTimeout = 2 * time.Second

// Health reports whether the backing store answers.
type Health struct {
	pinger model.Pinger
	logger *logger.Logger
}

func NewHealth(pinger model.Pinger, logger *logger.Logger) *Health {
	return &Health{pinger: pinger, logger: logger}
}

func (h *Health) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
