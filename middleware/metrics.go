package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"pulse/metrics"
)

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start).Seconds()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RequestLatency.WithLabelValues(endpoint).Observe(duration)
	}
}
