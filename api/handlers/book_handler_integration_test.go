package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Annany2002/bookreader-backend/api/models"
	"github.com/Annany2002/bookreader-backend/internal/domain"
)

func TestBookEndpoints(t *testing.T) {
	server, _, _ := setupTestServer(t)
	ownerToken := registerAndLogin(t, server, "jim")
	otherToken := registerAndLogin(t, server, "silver")

	res := uploadFile(t, server, ownerToken, "book.pdf", samplePDF)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	file := decode[domain.StoredFile](t, res)

	prepare := models.PrepareBookRequest{
		FileID:     file.ID,
		SourceText: "A\n\nB",
		TargetText: "X\n\nY\n\nZ",
	}

	t.Run("Mapping Missing Before Prepare", func(t *testing.T) {
		res := doJSON(t, http.MethodGet, server.URL+"/api/book-mapping/"+file.StoredName, ownerToken, nil)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	t.Run("Prepare Book", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, server.URL+"/api/prepare-book", ownerToken, prepare)
		require.Equal(t, http.StatusOK, res.StatusCode)
		body := decode[models.PrepareBookResponse](t, res)
		assert.True(t, body.Success)
		assert.Equal(t, 2, body.Paragraphs)
	})

	t.Run("Get Mapping", func(t *testing.T) {
		res := doJSON(t, http.MethodGet, server.URL+"/api/book-mapping/"+file.StoredName, ownerToken, nil)
		require.Equal(t, http.StatusOK, res.StatusCode)
		alignment := decode[domain.BookAlignment](t, res)
		assert.Equal(t, file.ID, alignment.FileID)
		assert.Equal(t, []domain.ParagraphPair{{Source: "A", Target: "X"}, {Source: "B", Target: "Y"}}, alignment.Pairs)
	})

	t.Run("Prepare Again Replaces Mapping", func(t *testing.T) {
		again := prepare
		again.SourceText = "One"
		again.TargetText = "Один"
		res := doJSON(t, http.MethodPost, server.URL+"/api/prepare-book", ownerToken, again)
		require.Equal(t, http.StatusOK, res.StatusCode)

		res = doJSON(t, http.MethodGet, server.URL+"/api/book-mapping/"+file.StoredName, ownerToken, nil)
		require.Equal(t, http.StatusOK, res.StatusCode)
		alignment := decode[domain.BookAlignment](t, res)
		assert.Equal(t, []domain.ParagraphPair{{Source: "One", Target: "Один"}}, alignment.Pairs)
	})

	t.Run("Other User", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, server.URL+"/api/prepare-book", otherToken, prepare)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)

		res = doJSON(t, http.MethodGet, server.URL+"/api/book-mapping/"+file.StoredName, otherToken, nil)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	t.Run("Bad Input", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, server.URL+"/api/prepare-book", ownerToken,
			models.PrepareBookRequest{FileID: file.ID, SourceText: "only source"})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)

		res = doJSON(t, http.MethodGet, server.URL+"/api/book-mapping/..%2Fapp.db", ownerToken, nil)
		assert.Contains(t, []int{http.StatusBadRequest, http.StatusNotFound}, res.StatusCode)

		res = doJSON(t, http.MethodGet, server.URL+"/api/book-mapping/book.pdf", ownerToken, nil)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("Mapping Removed With File", func(t *testing.T) {
		res := doJSON(t, http.MethodDelete, server.URL+"/api/files/"+file.ID, ownerToken, nil)
		require.Equal(t, http.StatusOK, res.StatusCode)

		res = doJSON(t, http.MethodGet, server.URL+"/api/book-mapping/"+file.StoredName, ownerToken, nil)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}
