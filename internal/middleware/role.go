package middleware

import (
	"net/http" // HTTP status codes

	"tourism_system/internal/domain"

	"github.com/gin-gonic/gin" // Gin web framework
)

// RequireRoleForWrites gates every non-GET request under a route group behind
// a single role. GET requests pass through; role-mismatched reads are handled
// per-handler with a redirect to the caller's own dashboard.
func RequireRoleForWrites(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			c.Next()
			return
		}
		user := CurrentUser(c)
		if user == nil || user.Role != role {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
