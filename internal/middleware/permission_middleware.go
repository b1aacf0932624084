package middleware

import (
	"net/http"

	"leavedesk/internal/domain"
	"leavedesk/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RequirePermission gates a route on the closed permission table. It assumes
// AuthMiddleware has already populated the role.
func RequirePermission(perm domain.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := RoleFromContext(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing auth context", nil)
			c.Abort()
			return
		}

		if !domain.Can(role, perm) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN",
				"You do not have permission to access this resource",
				gin.H{"required": string(perm)},
			)
			c.Abort()
			return
		}

		c.Next()
	}
}
