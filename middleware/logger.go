package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// SlowRequest is the latency above which a request is logged as a warning.
var SlowRequest = 200 * time.Millisecond

// Logger tags each request with an id and logs method, path, status and latency.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set("requestId", reqID)
		c.Header(RequestIDHeader, reqID)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		if latency > SlowRequest {
			log.Printf("🐢 [%s] %s %s %s %d %s", reqID, c.Request.Method, c.Request.URL.Path, c.ClientIP(), status, latency)
			return
		}
		log.Printf("[%s] %s %s %s %d %s", reqID, c.Request.Method, c.Request.URL.Path, c.ClientIP(), status, latency)
	}
}
