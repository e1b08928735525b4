package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"pulse/logger"
)

// RequestLogger emits one structured line per request.
func RequestLogger() gin.HandlerFunc {
	log := logger.With("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	}
}
