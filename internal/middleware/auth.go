package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"staybook/internal/domain"
	jwtsvc "staybook/internal/pkg/jwt"
	"staybook/internal/pkg/response"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// JWTAuth validates the bearer token and attaches the principal's id and role
// to the request context.
func JWTAuth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Access token required")
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Access token required")
			c.Abort()
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)

		c.Next()
	}
}

// Principal reads the authenticated user id and role set by JWTAuth.
func Principal(c *gin.Context) (int64, domain.Role) {
	id := c.GetInt64(CtxUserID)
	role, _ := c.Get(CtxRole)
	r, ok := role.(domain.Role)
	if !ok {
		return id, ""
	}
	return id, r
}
