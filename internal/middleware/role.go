package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"staybook/internal/domain"
	"staybook/internal/pkg/response"
)

// Require gates a route on a capability instead of a role name; the
// role-to-capability mapping lives in domain.Role.Allows.
func Require(action domain.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, role := Principal(c)
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		if !role.Allows(action) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}
