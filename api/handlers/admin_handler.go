// api/handlers/admin_handler.go
package handlers

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/bookreader-backend/api/middleware"
	"github.com/Annany2002/bookreader-backend/api/models"
	"github.com/Annany2002/bookreader-backend/internal/core"
	"github.com/Annany2002/bookreader-backend/internal/storage"
)

// AdminHandler holds the superuser-only account management endpoints.
type AdminHandler struct {
	DB *sql.DB
}

func NewAdminHandler(db *sql.DB) *AdminHandler {
	return &AdminHandler{DB: db}
}

// UpdateUser activates or deactivates an account.
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(err))
		return
	}
	targetID := c.Param("user_id")
	admin := middleware.CurrentUser(c)

	if targetID == admin.ID && !*req.IsActive {
		_ = c.Error(fmt.Errorf("%w: superusers cannot deactivate themselves", core.ErrValidation))
		return
	}

	if err := storage.SetUserActive(c.Request.Context(), h.DB, targetID, *req.IsActive); err != nil {
		_ = c.Error(err)
		return
	}
	user, err := storage.FindUserByID(c.Request.Context(), h.DB, targetID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	customLog.Printf("Admin %s set is_active=%t for user %s", admin.ID, user.IsActive, user.ID)
	c.JSON(http.StatusOK, user)
}
