package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/stores-rest-api/pkg/logger"
)

const (
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
	loggerKey    = "logger"
)

// quietPaths are logged at debug level only.
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// LoggingMiddleware attaches a request-scoped logger and logs one line per
// finished request. The request id is taken from X-Request-ID when the client
// sends one and echoed back either way.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		reqLog := logger.WithContext(map[string]interface{}{
			requestIDKey: requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		})
		c.Set(loggerKey, reqLog)

		c.Next()

		status := c.Writer.Status()
		fields := map[string]interface{}{
			"route":       c.FullPath(),
			"status_code": status,
			"latency_ms":  time.Since(start).Milliseconds(),
			"body_size":   c.Writer.Size(),
			"ip":          c.ClientIP(),
		}
		if userID, ok := GetUserID(c); ok {
			fields["user_id"] = userID
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch {
		case status >= 500:
			reqLog.Error("Request failed", nil, fields)
		case status >= 400:
			reqLog.Warn("Request rejected", fields)
		case quietPaths[c.Request.URL.Path]:
			reqLog.Debug("Request completed", fields)
		default:
			reqLog.Info("Request completed", fields)
		}
	}
}

// GetLoggerFromContext returns the request logger, or the global logger
// outside LoggingMiddleware.
func GetLoggerFromContext(c *gin.Context) *logger.Logger {
	if l, ok := c.Get(loggerKey); ok {
		if reqLog, ok := l.(*logger.Logger); ok {
			return reqLog
		}
	}
	return logger.Get()
}
