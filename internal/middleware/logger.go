package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace/internal/pkg/response"
)

// ErrorLogger logs every request, logs errors attached with c.Error, and
// recovers from panics with a JSON 500.
func ErrorLogger(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.Error("panic",
					append(requestAttrs(c, start), "error", fmt.Sprint(recovered), "stack", string(debug.Stack()))...)
				response.Error(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
				c.Abort()
				return
			}

			attrs := requestAttrs(c, start)
			switch {
			case len(c.Errors) > 0:
				for _, err := range c.Errors {
					logger.Error("request_error", append(attrs, "error", err.Error())...)
				}
			case c.Writer.Status() >= http.StatusInternalServerError:
				logger.Error("request_error", attrs...)
			default:
				logger.Info("request", attrs...)
			}
		}()

		c.Next()
	}
}

func requestAttrs(c *gin.Context, start time.Time) []any {
	return []any{
		"status", c.Writer.Status(),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"client_ip", c.ClientIP(),
		"request_id", requestID(c),
		"latency", time.Since(start),
	}
}

func requestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = c.GetHeader("X-Request-Id")
	}
	return requestID
}
