package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hyperflow/backend/internal/infrastructure/telemetry"
)

// HTTPMetrics records request count and latency per route pattern.
// Unmatched routes are folded into "unknown" to bound cardinality.
func HTTPMetrics(metrics *telemetry.Metrics) gin.HandlerFunc {
	if metrics == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.ObserveHTTP(c.Request.Method, routePattern(c), c.Writer.Status(), time.Since(start))
	}
}

func routePattern(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unknown"
}
