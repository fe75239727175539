package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nova-graduation/backend/internal/auth"
	"github.com/nova-graduation/backend/pkg/response"
)

const (
	// ContextAdminID is the key for the authenticated administrator's ID.
	ContextAdminID = "admin_id"
	// ContextAdminRole is the key for the administrator's role.
	ContextAdminRole = "admin_role"
	// ContextAdminUsername is the key for the administrator's username.
	ContextAdminUsername = "admin_username"
)

// JWT returns a middleware that validates the bearer token and stores the
// administrator's claims in the gin context. Missing, malformed, expired and
// forged tokens are all rejected with 401.
func JWT(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextAdminID, claims.AdminID)
		c.Set(ContextAdminRole, claims.Role)
		c.Set(ContextAdminUsername, claims.Username)
		c.Next()
	}
}
