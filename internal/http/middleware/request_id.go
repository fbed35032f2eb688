package middleware

import (
	"prompt_badges/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags each request with an id (reusing a valid incoming one)
// and puts a logger carrying it into the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Header(RequestIDHeader, id)
		c.Set("request_id", id)

		ctx := logger.NewContext(c.Request.Context(), logger.With("request_id", id))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
