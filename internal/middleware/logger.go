package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ZapLogger logs each request. API calls are logged at info, pages and assets at debug,
// and server errors at error regardless of path.
func ZapLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start).String(),
			"clientIP", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Sugar().Errorw("HTTP", fields...)
		case strings.HasPrefix(path, "/api/"):
			log.Sugar().Infow("HTTP", fields...)
		default:
			log.Sugar().Debugw("HTTP", fields...)
		}
	}
}
