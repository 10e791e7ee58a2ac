package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms/api/internal/models"
	"lms/api/internal/security"
	"lms/api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuth map[string]models.User

func (s stubAuth) Authenticate(_ context.Context, token string) (models.User, error) {
	switch token {
	case "gone":
		return models.User{}, service.ErrUserNotFound
	case "db-down":
		return models.User{}, errors.New("conn refused")
	}
	user, ok := s[token]
	if !ok {
		return models.User{}, security.ErrInvalidToken
	}
	return user, nil
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/x", append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})...)
	return r
}

func do(r http.Handler, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuth(t *testing.T) {
	auth := stubAuth{"good": {ID: "u1", Role: models.UserRoleLearner}}
	r := newRouter(Auth(auth))

	assert.Equal(t, http.StatusUnauthorized, do(r, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, map[string]string{"Authorization": "Basic good"}).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, map[string]string{"Authorization": "Bearer bad"}).Code)
	assert.Equal(t, http.StatusOK, do(r, map[string]string{"Authorization": "Bearer good"}).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, map[string]string{"Authorization": "Bearer gone"}).Code)
}

func TestAuthStoreFailureIsNotUnauthorized(t *testing.T) {
	r := newRouter(Auth(stubAuth{}))

	rec := do(r, map[string]string{"Authorization": "Bearer db-down"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"conn refused"}`, rec.Body.String())
}

func TestRequireRoles(t *testing.T) {
	auth := stubAuth{
		"admin":   {ID: "a", Role: models.UserRoleAdmin},
		"learner": {ID: "l", Role: models.UserRoleLearner},
	}
	r := newRouter(Auth(auth), RequireRoles(models.UserRoleAdmin))

	rec := do(r, map[string]string{"Authorization": "Bearer learner"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"Forbidden: insufficient role"}`, rec.Body.String())

	assert.Equal(t, http.StatusOK, do(r, map[string]string{"Authorization": "Bearer admin"}).Code)

	noAuth := newRouter(RequireRoles(models.UserRoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, do(noAuth, nil).Code)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zerolog.Nop()))
	r.GET("/x", func(c *gin.Context) { panic("boom") })

	rec := do(r, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Internal Server Error"}`, rec.Body.String())
}

func TestRequestID(t *testing.T) {
	r := newRouter(RequestID())

	rec := do(r, nil)
	assert.Len(t, rec.Header().Get(requestIDHeader), 36)

	rec = do(r, map[string]string{requestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://app.example.com"}))
	r.OPTIONS("/x", func(c *gin.Context) {})

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	rl := NewRateLimiter(0.5, 2, time.Minute)
	defer rl.Stop()
	r := newRouter(rl.Middleware())

	assert.Equal(t, http.StatusOK, do(r, nil).Code)
	assert.Equal(t, http.StatusOK, do(r, nil).Code)

	rec := do(r, nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"message":"Too many requests"}`, rec.Body.String())
}

func TestRateLimitCleanupDropsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Minute)
	defer rl.Stop()

	rl.limiterFor("10.0.0.1")
	rl.cleanup(time.Now().Add(2 * time.Minute))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.clients)
}

func TestSecurityHeaders(t *testing.T) {
	rec := do(newRouter(SecurityHeaders()), nil)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
}
