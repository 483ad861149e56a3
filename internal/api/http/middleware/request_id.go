package middleware

import (
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID on both the request and the response.
const RequestIDHeader = "X-Request-Id"

// ContextRequestID is the gin context key handlers can read the ID from.
const ContextRequestID = "request_id"

// RequestID tags every request with an ID and writes one access-log line per
// request. A caller-supplied X-Request-Id is kept and echoed back; requests
// without one get a fresh UUID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(ContextRequestID, id)
		c.Writer.Header().Set(RequestIDHeader, id)

		start := time.Now()
		c.Next()

		log.Printf("[http] %s %s status=%d took=%s id=%s",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
			id,
		)
	}
}
