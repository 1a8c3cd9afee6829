// api/handlers/auth_handler.go
package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/bookreader-backend/api/middleware"
	"github.com/Annany2002/bookreader-backend/api/models"
	"github.com/Annany2002/bookreader-backend/config"
	"github.com/Annany2002/bookreader-backend/internal/auth" // Import internal auth logic
)

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	DB     *sql.DB        // Metadata DB connection pool
	Cfg    *config.Config // Application configuration
	Tokens *auth.TokenService
}

// NewAuthHandler creates a new AuthHandler with dependencies.
func NewAuthHandler(db *sql.DB, cfg *config.Config, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{
		DB:     db,
		Cfg:    cfg,
		Tokens: tokens,
	}
}

// Register handles user registration requests.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("Register binding error: %v", err)
		_ = c.Error(bindError(err))
		return
	}

	user, err := auth.RegisterUser(c.Request.Context(), h.DB, req.Username, req.Email, req.Password, h.Cfg.BcryptCost, false)
	if err != nil {
		customLog.Warnf("Failed to register user %s: %v", req.Username, err)
		_ = c.Error(err) // Attach storage error (e.g., ErrUsernameExists)
		return
	}

	customLog.Printf("Successfully registered user %s", user.Username)
	c.JSON(http.StatusCreated, user)
}

// Login checks the credentials and issues an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest

	if err := c.ShouldBind(&req); err != nil {
		customLog.Warnf("Login binding error: %v", err)
		_ = c.Error(bindError(err))
		return
	}

	user, err := auth.VerifyCredentials(c.Request.Context(), h.DB, req.Username, req.Password)
	if err != nil {
		customLog.Warnf("Login failed for username %s: %v", req.Username, err)
		_ = c.Error(err)
		return
	}
	if !user.IsActive {
		customLog.Warnf("Login refused for inactive user %s", user.ID)
		_ = c.Error(auth.ErrInactiveUser)
		return
	}

	tokenString, err := h.Tokens.Issue(user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{
		AccessToken: tokenString,
		TokenType:   "bearer",
		ExpiresIn:   int64(h.Tokens.TTL().Seconds()),
	})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}
