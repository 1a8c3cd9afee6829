// api/handlers/book_handler.go
package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/bookreader-backend/api/middleware"
	"github.com/Annany2002/bookreader-backend/api/models"
	"github.com/Annany2002/bookreader-backend/internal/core"
	"github.com/Annany2002/bookreader-backend/internal/storage"
)

// BookHandler builds and serves paragraph alignments for uploaded files.
type BookHandler struct {
	DB *sql.DB
}

func NewBookHandler(db *sql.DB) *BookHandler {
	return &BookHandler{DB: db}
}

// PrepareBook aligns the two texts paragraph by paragraph and stores the
// result for the file, replacing any earlier alignment.
func (h *BookHandler) PrepareBook(c *gin.Context) {
	var req models.PrepareBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(err))
		return
	}
	user := middleware.CurrentUser(c)

	file, err := storage.FindFileByID(c.Request.Context(), h.DB, user.ID, req.FileID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	pairs := core.AlignParagraphs(req.SourceText, req.TargetText)
	if err := storage.UpsertMapping(c.Request.Context(), h.DB, file.ID, pairs, time.Now()); err != nil {
		_ = c.Error(err)
		return
	}

	customLog.Printf("Prepared book %s for user %s: %d paragraph pairs", file.ID, user.ID, len(pairs))
	c.JSON(http.StatusOK, models.PrepareBookResponse{
		Success:    true,
		Message:    "Book prepared successfully",
		Paragraphs: len(pairs),
	})
}

// GetMapping returns the stored alignment of a file, addressed by its stored name.
func (h *BookHandler) GetMapping(c *gin.Context) {
	filename := c.Param("filename")
	if !core.IsValidStoredName(filename) {
		_ = c.Error(fmt.Errorf("%w: invalid file name", core.ErrValidation))
		return
	}

	file, err := storage.FindFileByStoredName(c.Request.Context(), h.DB, middleware.CurrentUser(c).ID, filename)
	if err != nil {
		_ = c.Error(err)
		return
	}

	alignment, err := storage.FindMapping(c.Request.Context(), h.DB, file.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, alignment)
}
