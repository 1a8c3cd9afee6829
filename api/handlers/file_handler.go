// api/handlers/file_handler.go
package handlers

import (
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/bookreader-backend/api/middleware"
	"github.com/Annany2002/bookreader-backend/api/models"
	"github.com/Annany2002/bookreader-backend/internal/core"
	"github.com/Annany2002/bookreader-backend/internal/files"
)

// Allowance for multipart boundaries and headers on top of the file itself.
const multipartOverhead = 1 << 20

// FileHandler serves the uploaded books of the current user.
type FileHandler struct {
	Files    *files.Service
	MaxBytes int64
}

func NewFileHandler(svc *files.Service, maxBytes int64) *FileHandler {
	return &FileHandler{Files: svc, MaxBytes: maxBytes}
}

// Upload stores the multipart field "file".
func (h *FileHandler) Upload(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if h.MaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBytes+multipartOverhead)
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			_ = c.Error(files.ErrFileTooLarge)
			return
		}
		_ = c.Error(fmt.Errorf("%w: multipart field 'file' is required", core.ErrValidation))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		_ = c.Error(fmt.Errorf("%w: %w", files.ErrStorage, err))
		return
	}
	defer src.Close()

	customLog.Printf("Uploading file: %s for user %s", fileHeader.Filename, user.Username)
	stored, err := h.Files.Save(c.Request.Context(), user.ID, fileHeader.Filename, src)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, stored)
}

// List returns the user's files, newest first.
func (h *FileHandler) List(c *gin.Context) {
	opts, err := core.ParseListQueryOptions(c.Request.URL.Query())
	if err != nil {
		_ = c.Error(err)
		return
	}

	list, err := h.Files.List(c.Request.Context(), middleware.CurrentUser(c).ID, opts)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Content streams the PDF bytes of a file owned by the user.
func (h *FileHandler) Content(c *gin.Context) {
	meta, rc, err := h.Files.Open(c.Request.Context(), middleware.CurrentUser(c).ID, c.Param("file_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer rc.Close()

	disposition := mime.FormatMediaType("inline", map[string]string{"filename": meta.OriginalName})
	c.DataFromReader(http.StatusOK, meta.SizeBytes, "application/pdf", rc, map[string]string{
		"Content-Disposition": disposition,
	})
}

// Delete removes a file owned by the user.
func (h *FileHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.Files.Delete(c.Request.Context(), user.ID, c.Param("file_id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{Status: "success", Message: "File deleted successfully"})
}
