package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

const AdminRole = "admin"

// RequireAdmin lets through callers whose token carries the admin role, or
// whom isAdmin confirms. Backend-issued tokens carry no role, so isAdmin
// is normally the backend profile lookup.
func RequireAdmin(isAdmin func(ctx context.Context) (bool, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("userRole") == AdminRole {
			c.Next()
			return
		}

		ok, err := isAdmin(c.Request.Context())
		if err != nil {
			log.Printf("[AUTH] admin lookup for %s failed: %v", UserID(c), err)
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "could not verify admin privileges"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin privileges required"})
			return
		}

		c.Next()
	}
}
