package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"marketplace/internal/pkg/response"
)

// BearerToken returns the credential from the Authorization header, or "" when
// the header is missing or not a bearer token. The gate treats "" as
// unauthenticated.
func BearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// HideForbidden makes ownership denials answer 404 on the routes it wraps.
func HideForbidden(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if enabled {
			c.Set(response.HideForbiddenKey, true)
		}
		c.Next()
	}
}
