// api/middleware/error_handler.go
package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10" // Import validator for binding errors

	"github.com/Annany2002/bookreader-backend/internal/auth"
	"github.com/Annany2002/bookreader-backend/internal/core"
	"github.com/Annany2002/bookreader-backend/internal/files"
	"github.com/Annany2002/bookreader-backend/internal/logger"
	"github.com/Annany2002/bookreader-backend/internal/storage"
	"github.com/Annany2002/bookreader-backend/internal/translate"
)

var (
	customLog = logger.NewLogger()
)

// ErrorHandler creates a Gin middleware for centralized error handling.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Process request using subsequent handlers
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// We only handle the last error for the response.
		err := c.Errors.Last().Err
		customLog.Debugf("[ErrorHandler] Detected error: %v | Type: %T", err, err)

		statusCode, userMessage := classify(err)
		if statusCode == http.StatusUnauthorized {
			c.Header("WWW-Authenticate", "Bearer")
		}
		if statusCode == http.StatusInternalServerError {
			customLog.Errorf("[ErrorHandler] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		}

		if !c.Writer.Written() {
			c.AbortWithStatusJSON(statusCode, gin.H{"error": userMessage})
		} else {
			customLog.Warnf("[ErrorHandler] Response already written before handling error: %v", err)
		}
	}
}

// classify maps an error to the HTTP status and the message shown to the client.
func classify(err error) (int, string) {
	var validationErrs validator.ValidationErrors

	switch {
	// --- 404: absent, or owned by someone else ---
	case errors.Is(err, storage.ErrFileNotFound),
		errors.Is(err, storage.ErrMappingNotFound),
		errors.Is(err, storage.ErrUserNotFound):
		return http.StatusNotFound, err.Error()

	// --- 401 ---
	case errors.Is(err, storage.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Incorrect username or password"
	case errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized, "Authentication token has expired."
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized, "Could not validate credentials"
	case errors.Is(err, auth.ErrInactiveUser):
		return http.StatusUnauthorized, "Inactive user"

	// --- 403 ---
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden, err.Error()

	// --- 400: conflicts and bad input ---
	case errors.Is(err, storage.ErrUsernameExists),
		errors.Is(err, storage.ErrEmailExists),
		errors.Is(err, storage.ErrEmptyField),
		errors.Is(err, files.ErrUnsupportedType),
		errors.Is(err, auth.ErrPasswordTooLong):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &validationErrs):
		for _, fe := range validationErrs {
			customLog.Debugf("Validation Error: Field %s failed on %s", fe.Field(), fe.Tag())
		}
		return http.StatusBadRequest, "Validation failed. Please check your input."
	case errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest, err.Error()

	// --- 413 ---
	case errors.Is(err, files.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, files.ErrFileTooLarge.Error()

	// --- 500 ---
	case errors.Is(err, files.ErrStorage):
		return http.StatusInternalServerError, files.ErrStorage.Error()
	case errors.Is(err, translate.ErrEmptyTranslation):
		return http.StatusInternalServerError, translate.ErrEmptyTranslation.Error()
	default:
		return http.StatusInternalServerError, "An unexpected internal server error occurred."
	}
}
