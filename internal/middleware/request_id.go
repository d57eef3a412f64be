// Package middleware provides the gin middleware stack of the cart service.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/guttosm/cart-service/internal/logger"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength bounds client supplied ids before they reach logs.
const maxRequestIDLength = 128

// ContextKey type for context keys to avoid collisions.
type ContextKey string

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey ContextKey = "request_id"

// RequestID tags the request with an id and attaches a request scoped
// logger to the request context. A client supplied id is kept only when it
// is short and printable; otherwise a UUIDv7 is generated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !acceptableRequestID(id) {
			id = newRequestID()
		}

		c.Set(string(RequestIDKey), id)
		c.Header(RequestIDHeader, id)

		reqLog := logger.ForRequest(id, c.Param("session"))
		c.Request = c.Request.WithContext(reqLog.WithContext(c.Request.Context()))

		c.Next()
	}
}

// GetRequestID returns the id set by RequestID, or "" outside of it.
func GetRequestID(c *gin.Context) string {
	return c.GetString(string(RequestIDKey))
}

// RequestLog returns the logger attached by RequestID. Outside of it the
// global logger is returned.
func RequestLog(c *gin.Context) *zerolog.Logger {
	if l := zerolog.Ctx(c.Request.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	l := logger.ForRequest(GetRequestID(c), c.Param("session"))
	return &l
}

func acceptableRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

func newRequestID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
