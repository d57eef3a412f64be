package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/cart-service/internal/i18n"
)

// Locale stores the Accept-Language locale in the request context so that
// services can translate notifications without seeing gin.
func Locale() gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := i18n.GetLocale(c)
		c.Request = c.Request.WithContext(i18n.WithLocale(c.Request.Context(), locale))
		c.Next()
	}
}
