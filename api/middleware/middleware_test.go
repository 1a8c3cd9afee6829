package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Annany2002/bookreader-backend/internal/auth"
	"github.com/Annany2002/bookreader-backend/internal/core"
	"github.com/Annany2002/bookreader-backend/internal/domain"
	"github.com/Annany2002/bookreader-backend/internal/files"
	"github.com/Annany2002/bookreader-backend/internal/storage"
	"github.com/Annany2002/bookreader-backend/internal/translate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }
	ctx := context.Background()

	assert.True(t, rl.Allow(ctx, "10.0.0.1"))
	assert.True(t, rl.Allow(ctx, "10.0.0.1"))
	assert.False(t, rl.Allow(ctx, "10.0.0.1"))
	assert.True(t, rl.Allow(ctx, "10.0.0.2"), "keys are counted separately")

	now = now.Add(time.Minute + time.Second)
	assert.True(t, rl.Allow(ctx, "10.0.0.1"), "window has slid past the old requests")
}

func TestNewLimiterWithoutRedis(t *testing.T) {
	_, ok := NewLimiter(nil, 5, time.Second).(*RateLimiter)
	assert.True(t, ok)
}

func TestRateLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RateLimitMiddleware(NewRateLimiter(1, time.Minute)))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	request := func() int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.7:5555"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, request())
	assert.Equal(t, http.StatusTooManyRequests, request())
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
	}{
		{"missing file", storage.ErrFileNotFound, http.StatusNotFound},
		{"missing mapping", fmt.Errorf("lookup: %w", storage.ErrMappingNotFound), http.StatusNotFound},
		{"bad login", storage.ErrInvalidCredentials, http.StatusUnauthorized},
		{"expired token", fmt.Errorf("%w: %w", auth.ErrUnauthenticated, auth.ErrTokenExpired), http.StatusUnauthorized},
		{"inactive", auth.ErrInactiveUser, http.StatusUnauthorized},
		{"forbidden", auth.ErrForbidden, http.StatusForbidden},
		{"duplicate username", storage.ErrUsernameExists, http.StatusBadRequest},
		{"unsupported type", files.ErrUnsupportedType, http.StatusBadRequest},
		{"bad input", fmt.Errorf("%w: limit", core.ErrValidation), http.StatusBadRequest},
		{"too large", fmt.Errorf("%w: %w", files.ErrStorage, files.ErrFileTooLarge), http.StatusRequestEntityTooLarge},
		{"storage", files.ErrStorage, http.StatusInternalServerError},
		{"empty translation", translate.ErrEmptyTranslation, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, msg := classify(tc.err)
			assert.Equal(t, tc.status, status)
			assert.NotEmpty(t, msg)
		})
	}

	_, msg := classify(fmt.Errorf("%w: %w", auth.ErrUnauthenticated, auth.ErrTokenExpired))
	assert.Equal(t, "Authentication token has expired.", msg)
	_, msg = classify(errors.New("sql: connection refused"))
	assert.Equal(t, "An unexpected internal server error occurred.", msg, "internal details stay in the log")
}

func TestErrorHandlerSetsBearerChallenge(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/", func(c *gin.Context) { _ = c.Error(auth.ErrUnauthenticated) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	assert.JSONEq(t, `{"error":"Could not validate credentials"}`, w.Body.String())
}

func TestRequireSuperuser(t *testing.T) {
	newRouter := func(user *domain.User) *gin.Engine {
		router := gin.New()
		router.Use(ErrorHandler())
		router.Use(func(c *gin.Context) { c.Set(currentUserKey, user) })
		router.GET("/", RequireSuperuser(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
		return router
	}

	w := httptest.NewRecorder()
	newRouter(&domain.User{ID: "u1"}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	newRouter(&domain.User{ID: "u2", IsSuperuser: true}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
