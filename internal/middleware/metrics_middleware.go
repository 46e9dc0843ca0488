package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hardware_shop_backend/internal/metrics"
)

// MetricsMiddleware records count and latency of every request, labelled by route
// template so ids do not explode the label set.
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
