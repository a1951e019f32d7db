package middleware

import (
	"net/http"
	"time"

	"github.com/JordyV23/social-app/internal/logger"
	"github.com/gin-gonic/gin"
)

// Logging logs every HTTP request with its route, status and duration.
type Logging struct {
	logger *logger.Logger
}

func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

func (l *Logging) Handle(c *gin.Context) {
	start := time.Now()

	c.Next()

	duration := time.Since(start)
	status := c.Writer.Status()

	attrs := []any{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"route", c.FullPath(),
		"status", status,
		"duration_ms", duration.Milliseconds(),
		"client_ip", c.ClientIP(),
	}
	if userID, ok := c.Get(UserIDKey); ok {
		attrs = append(attrs, "user_id", userID)
	}
	l.logger.Info("HTTP request completed", attrs...)

	if status >= http.StatusInternalServerError {
		l.logger.Error("HTTP request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"error", c.Errors.String())
	}
}
