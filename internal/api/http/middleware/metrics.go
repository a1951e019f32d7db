package middleware

import (
	"time"

	"github.com/JordyV23/social-app/internal/metrics"
	"github.com/gin-gonic/gin"
)

const unmatchedRoute = "unmatched"

// Metrics records request counts and latencies per route template.
type Metrics struct {
	metrics *metrics.Metrics
}

func NewMetrics(m *metrics.Metrics) *Metrics {
	return &Metrics{metrics: m}
}

func (m *Metrics) Handle(c *gin.Context) {
	start := time.Now()
	m.metrics.RequestStarted()

	c.Next()

	route := c.FullPath()
	if route == "" {
		route = unmatchedRoute
	}
	m.metrics.RequestFinished(c.Request.Method, route, c.Writer.Status(), time.Since(start))
}
