// api/handlers/dictionary_handler.go
package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/bookreader-backend/api/middleware"
	"github.com/Annany2002/bookreader-backend/api/models"
	"github.com/Annany2002/bookreader-backend/internal/core"
	"github.com/Annany2002/bookreader-backend/internal/storage"
)

// DictionaryHandler manages the personal dictionary of the current user.
type DictionaryHandler struct {
	DB *sql.DB
}

func NewDictionaryHandler(db *sql.DB) *DictionaryHandler {
	return &DictionaryHandler{DB: db}
}

func (h *DictionaryHandler) List(c *gin.Context) {
	opts, err := core.ParseListQueryOptions(c.Request.URL.Query())
	if err != nil {
		_ = c.Error(err)
		return
	}

	words, err := storage.ListDictionaryEntries(c.Request.Context(), h.DB, middleware.CurrentUser(c).ID, opts)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.DictionaryResponse{Words: words})
}

// Add saves a word, or updates the translation and context of a word that is
// already in the dictionary.
func (h *DictionaryHandler) Add(c *gin.Context) {
	var req models.AddWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(err))
		return
	}
	user := middleware.CurrentUser(c)

	err := storage.UpsertDictionaryEntry(c.Request.Context(), h.DB, user.ID, req.Word, req.Translation, req.Context, time.Now())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{Status: "success", Message: "Word added to dictionary"})
}

// Check reports whether the query parameter "word" is in the dictionary.
func (h *DictionaryHandler) Check(c *gin.Context) {
	word, ok := core.NormalizeText(c.Query("word"))
	if !ok {
		_ = c.Error(fmt.Errorf("%w: query parameter 'word' is required", core.ErrValidation))
		return
	}

	exists, err := storage.DictionaryWordExists(c.Request.Context(), h.DB, middleware.CurrentUser(c).ID, word)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.WordExistsResponse{Exists: exists})
}

// Delete removes an entry. Unknown or foreign entries are ignored.
func (h *DictionaryHandler) Delete(c *gin.Context) {
	entryID, err := strconv.ParseInt(c.Param("entry_id"), 10, 64)
	if err != nil {
		_ = c.Error(fmt.Errorf("%w: entry id must be an integer", core.ErrValidation))
		return
	}

	if err := storage.DeleteDictionaryEntry(c.Request.Context(), h.DB, middleware.CurrentUser(c).ID, entryID); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{Status: "success"})
}
