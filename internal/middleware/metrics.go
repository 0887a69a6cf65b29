package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zideo/fintrack-api/internal/service"
)

// Metrics records per-request duration and count. Requests are labelled by
// route template, not the raw URL, so path parameters don't explode the
// label cardinality.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	if metricsSvc == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
