package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lms/api/internal/models"
)

// RequireRoles lets the request through only when the authenticated user
// holds one of roles. It must run after Auth.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		if _, ok := roleSet[user.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden: insufficient role"})
			return
		}

		c.Next()
	}
}
