package middleware

import (
	"asset-manager-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const RoleAdmin = "admin"

// AdminMiddleware checks if user has admin role
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Role được set bởi AuthMiddleware
		if c.GetString(ContextRole) != RoleAdmin {
			response.Forbidden(c, "Access denied: admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
