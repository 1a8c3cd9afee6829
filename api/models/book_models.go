// api/models/book_models.go
package models

import "github.com/Annany2002/bookreader-backend/internal/domain"

// PrepareBookRequest carries the two parallel texts of an uploaded book.
type PrepareBookRequest struct {
	FileID     string `json:"file_id" binding:"required"`
	SourceText string `json:"source_text" binding:"required"`
	TargetText string `json:"target_text" binding:"required"`
}

type PrepareBookResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Paragraphs int    `json:"paragraphs"`
}

// AddWordRequest adds or updates a dictionary entry.
type AddWordRequest struct {
	Word        string `json:"word" binding:"required"`
	Translation string `json:"translation" binding:"required"`
	Context     string `json:"context"`
}

type DictionaryResponse struct {
	Words []domain.DictionaryEntry `json:"words"`
}

type WordExistsResponse struct {
	Exists bool `json:"exists"`
}

type TranslateRequest struct {
	Text       string `json:"text" binding:"required"`
	SourceLang string `json:"source_lang" binding:"omitempty,max=16"`
	TargetLang string `json:"target_lang" binding:"omitempty,max=16"`
}

type TranslateResponse struct {
	TranslatedText string `json:"translated_text"`
}

// StatusResponse is the generic acknowledgement body.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
