package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"logoobjects/pkg/logger"
)

// Logger middleware logs HTTP requests with timing and status.
// 5xx responses, which usually mean the Logo Objects API failed, log at warn.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.Last().Error())
		}

		l := log.WithContext(c.Request.Context())
		if status >= http.StatusInternalServerError {
			l.Warnw("http request", fields...)
			return
		}
		l.Infow("http request", fields...)
	}
}
