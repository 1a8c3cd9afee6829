// api/middleware/auth_middleware.go
package middleware

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/bookreader-backend/internal/auth" // Import internal auth logic and errors
	"github.com/Annany2002/bookreader-backend/internal/domain"
)

const currentUserKey = "currentUser"

// AuthMiddleware resolves the bearer token of every request to an active user
// and stores it in the context. Failures are attached to the context and
// rendered by ErrorHandler.
func AuthMiddleware(db *sql.DB, tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			_ = c.Error(fmt.Errorf("%w: authorization header required", auth.ErrUnauthenticated))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			_ = c.Error(fmt.Errorf("%w: authorization header format must be Bearer {token}", auth.ErrUnauthenticated))
			c.Abort()
			return
		}

		user, err := auth.ResolveUser(c.Request.Context(), db, tokens, strings.TrimSpace(parts[1]))
		if err != nil {
			customLog.Printf("AuthMiddleware: Token rejected: %v", err)
			_ = c.Error(err)
			c.Abort()
			return
		}

		customLog.Debugf("AuthMiddleware: Authenticated user %s", user.ID)
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user resolved by AuthMiddleware. It panics when
// called on a route without AuthMiddleware.
func CurrentUser(c *gin.Context) *domain.User {
	return c.MustGet(currentUserKey).(*domain.User)
}

// RequireSuperuser lets only superusers through. It must run after AuthMiddleware.
func RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentUser(c).IsSuperuser {
			_ = c.Error(auth.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
