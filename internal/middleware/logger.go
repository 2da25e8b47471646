package middleware

import (
	"time"

	"gptading/backend/internal/util"
	"gptading/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(util.ContextKeyRequestID, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// Logger middleware logs HTTP requests
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		statusCode := c.Writer.Status()
		logFields := map[string]interface{}{
			"request_id": c.GetString(util.ContextKeyRequestID),
			"method":     method,
			"path":       path,
			"status":     statusCode,
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
		}
		if sessionID := c.GetString(util.ContextKeySessionID); sessionID != "" {
			logFields["session_id"] = sessionID
		}

		switch {
		case statusCode >= 500:
			log.WithFields(logFields).Error("Server error", nil)
		case statusCode >= 400:
			log.WithFields(logFields).Warn("Client error")
		default:
			log.WithFields(logFields).Info("Request completed")
		}
	}
}
