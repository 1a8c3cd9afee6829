// api/handlers/translate_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/bookreader-backend/api/models"
	"github.com/Annany2002/bookreader-backend/internal/translate"
)

type TranslateHandler struct {
	Translator *translate.Translator
}

func NewTranslateHandler(t *translate.Translator) *TranslateHandler {
	return &TranslateHandler{Translator: t}
}

func (h *TranslateHandler) Translate(c *gin.Context) {
	var req models.TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	translated, err := h.Translator.Translate(c.Request.Context(), req.Text, req.SourceLang, req.TargetLang)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.TranslateResponse{TranslatedText: translated})
}
