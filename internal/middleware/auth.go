package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lms/api/internal/models"
	"lms/api/internal/security"
	"lms/api/internal/service"
)

const currentUserKey = "current_user"

// Authenticator resolves a bearer access token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (models.User, error)
}

func Auth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing bearer token"})
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		user, err := auth.Authenticate(c.Request.Context(), tokenStr)
		switch {
		case errors.Is(err, security.ErrInvalidToken), errors.Is(err, service.ErrUserNotFound):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		case err != nil:
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by Auth.
func CurrentUser(c *gin.Context) (models.User, bool) {
	val, ok := c.Get(currentUserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}
