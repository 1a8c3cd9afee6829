// api/models/auth_models.go
package models

// --- Auth Request/Response Structs ---

// RegisterRequest defines the structure for the registration request body
type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LoginRequest is the OAuth2 password-grant login, sent as a form or as JSON.
type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// TokenResponse defines the structure for the login response body
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// UpdateUserRequest is the admin change of a user's account flags.
type UpdateUserRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
