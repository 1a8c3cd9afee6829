// api/handlers/auth_handler_integration_test.go
package handlers_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Annany2002/bookreader-backend/api"
	"github.com/Annany2002/bookreader-backend/api/models"
	"github.com/Annany2002/bookreader-backend/config"
	"github.com/Annany2002/bookreader-backend/internal/auth"
	"github.com/Annany2002/bookreader-backend/internal/storage"
)

const testJWTSecret = "test_secret_key_for_integration_tests_1234567890"

// testDBSetup creates a temporary SQLite DB and a config pointing at temp dirs.
func testDBSetup(t *testing.T) (*sql.DB, *config.Config) {
	t.Helper()

	tempDir := t.TempDir()

	// Translation upstream that always fails, so the fallback table is used.
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(upstream.Close)

	testCfg := &config.Config{
		ServerPort:         "0",
		JWTSecret:          testJWTSecret,
		JWTExpiration:      5 * time.Minute,
		BcryptCost:         bcrypt.MinCost,
		MetadataDbDir:      tempDir,
		MetadataDbFile:     "test_app.db",
		UploadDir:          t.TempDir(),
		MaxUploadBytes:     1 << 20,
		BlobBackend:        config.BlobBackendLocal,
		TranslateEndpoint:  upstream.URL,
		TranslateTimeout:   time.Second,
		CORSAllowedOrigins: []string{"*"},
		AuthRateLimit:      1000,
		AuthRateWindow:     time.Minute,
	}

	db, err := storage.ConnectMetadataDB(testCfg) // Creates tables
	require.NoError(t, err, "failed to connect to test database")

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close test database: %v", err)
		}
	})
	return db, testCfg
}

// setupTestServerWithConfig creates a test server after letting mutate adjust the config.
func setupTestServerWithConfig(t *testing.T, mutate func(*config.Config)) (*httptest.Server, *sql.DB, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, cfg := testDBSetup(t)
	if mutate != nil {
		mutate(cfg)
	}
	router, err := api.SetupRouter(db, cfg, nil)
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, db, cfg
}

func setupTestServer(t *testing.T) (*httptest.Server, *sql.DB, *config.Config) {
	return setupTestServerWithConfig(t, nil)
}

// doJSON sends body as JSON with an optional bearer token.
func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func decode[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&v))
	return v
}

func errorMessage(t *testing.T, res *http.Response) string {
	t.Helper()
	return decode[map[string]string](t, res)["error"]
}

func register(t *testing.T, server *httptest.Server, username, password string) {
	t.Helper()
	res := doJSON(t, http.MethodPost, server.URL+"/api/register", "", models.RegisterRequest{Username: username, Password: password})
	require.Equal(t, http.StatusCreated, res.StatusCode)
}

func login(t *testing.T, server *httptest.Server, username, password string) string {
	t.Helper()
	res, err := http.PostForm(server.URL+"/api/token", url.Values{"username": {username}, "password": {password}})
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	return decode[models.TokenResponse](t, res).AccessToken
}

// registerAndLogin creates a user and returns an access token for it.
func registerAndLogin(t *testing.T, server *httptest.Server, username string) string {
	t.Helper()
	register(t, server, username, "password-"+username)
	return login(t, server, username, "password-"+username)
}

// TestAuthEndpoints performs integration tests on registration, login and /users/me.
func TestAuthEndpoints(t *testing.T) {
	server, db, _ := setupTestServer(t)

	t.Run("Register Success", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, server.URL+"/api/register", "",
			models.RegisterRequest{Username: "jim", Email: "jim@hispaniola.test", Password: "treasure"})
		assert.Equal(t, http.StatusCreated, res.StatusCode)

		body := decode[map[string]any](t, res)
		assert.Equal(t, "jim", body["username"])
		assert.Equal(t, "jim@hispaniola.test", body["email"])
		assert.Equal(t, true, body["is_active"])
		assert.Equal(t, false, body["is_superuser"])
		assert.NotContains(t, body, "hashed_password")
		assert.NotContains(t, body, "PasswordHash")

		user, err := storage.FindUserByUsername(context.Background(), db, "jim")
		require.NoError(t, err)
		assert.True(t, auth.CheckPasswordHash("treasure", user.PasswordHash), "Stored password hash should match")
	})

	t.Run("Register Duplicate Username", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, server.URL+"/api/register", "",
			models.RegisterRequest{Username: "jim", Password: "another"})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, storage.ErrUsernameExists.Error(), errorMessage(t, res))
	})

	t.Run("Register Duplicate Email", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, server.URL+"/api/register", "",
			models.RegisterRequest{Username: "jimmy", Email: "jim@hispaniola.test", Password: "another"})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, storage.ErrEmailExists.Error(), errorMessage(t, res))
	})

	t.Run("Register Bad Request", func(t *testing.T) {
		testCases := []struct {
			name string
			body any
		}{
			{"short password", models.RegisterRequest{Username: "ben", Password: "short"}},
			{"invalid email", models.RegisterRequest{Username: "ben", Email: "not-an-email", Password: "password"}},
			{"missing username", models.RegisterRequest{Password: "password"}},
			{"not an object", "just a string"},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				res := doJSON(t, http.MethodPost, server.URL+"/api/register", "", tc.body)
				assert.Equal(t, http.StatusBadRequest, res.StatusCode)
			})
		}
	})

	t.Run("Login Form Success", func(t *testing.T) {
		token := login(t, server, "jim", "treasure")
		assert.NotEmpty(t, token)

		subject, err := auth.NewTokenService(testJWTSecret, time.Minute).Verify(token)
		require.NoError(t, err)
		user, err := storage.FindUserByUsername(context.Background(), db, "jim")
		require.NoError(t, err)
		assert.Equal(t, user.ID, subject)
	})

	t.Run("Login JSON Success", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, server.URL+"/api/login", "", models.LoginRequest{Username: "jim", Password: "treasure"})
		require.Equal(t, http.StatusOK, res.StatusCode)
		body := decode[models.TokenResponse](t, res)
		assert.Equal(t, "bearer", body.TokenType)
		assert.Equal(t, int64(300), body.ExpiresIn)
		assert.NotEmpty(t, body.AccessToken)
	})

	t.Run("Login Unauthorized", func(t *testing.T) {
		wrongPassword := doJSON(t, http.MethodPost, server.URL+"/api/token", "", models.LoginRequest{Username: "jim", Password: "wrong-one"})
		unknownUser := doJSON(t, http.MethodPost, server.URL+"/api/token", "", models.LoginRequest{Username: "nobody", Password: "treasure"})

		assert.Equal(t, http.StatusUnauthorized, wrongPassword.StatusCode)
		assert.Equal(t, http.StatusUnauthorized, unknownUser.StatusCode)
		assert.Equal(t, "Bearer", wrongPassword.Header.Get("WWW-Authenticate"))
		assert.Equal(t, errorMessage(t, wrongPassword), errorMessage(t, unknownUser))
	})

	t.Run("Me", func(t *testing.T) {
		token := login(t, server, "jim", "treasure")
		res := doJSON(t, http.MethodGet, server.URL+"/api/users/me", token, nil)
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "jim", decode[map[string]any](t, res)["username"])
	})

	t.Run("Me Unauthenticated", func(t *testing.T) {
		expired, err := auth.NewTokenService(testJWTSecret, time.Minute).IssueWithTTL("someone", -time.Minute)
		require.NoError(t, err)

		for name, header := range map[string]string{
			"missing header": "",
			"wrong scheme":   "Basic abc",
			"garbage token":  "Bearer not.a.token",
			"expired token":  "Bearer " + expired,
		} {
			t.Run(name, func(t *testing.T) {
				req, err := http.NewRequest(http.MethodGet, server.URL+"/api/users/me", nil)
				require.NoError(t, err)
				if header != "" {
					req.Header.Set("Authorization", header)
				}
				res, err := http.DefaultClient.Do(req)
				require.NoError(t, err)
				defer res.Body.Close()
				assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
				assert.Equal(t, "Bearer", res.Header.Get("WWW-Authenticate"))
			})
		}
	})

	t.Run("Inactive User", func(t *testing.T) {
		token := registerAndLogin(t, server, "pew")
		user, err := storage.FindUserByUsername(context.Background(), db, "pew")
		require.NoError(t, err)
		require.NoError(t, storage.SetUserActive(context.Background(), db, user.ID, false))

		res := doJSON(t, http.MethodGet, server.URL+"/api/users/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
		assert.Equal(t, "Inactive user", errorMessage(t, res))

		res = doJSON(t, http.MethodPost, server.URL+"/api/login", "", models.LoginRequest{Username: "pew", Password: "password-pew"})
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})
}

func TestAuthRateLimit(t *testing.T) {
	server, _, _ := setupTestServerWithConfig(t, func(cfg *config.Config) {
		cfg.AuthRateLimit = 2
	})

	for i := 0; i < 2; i++ {
		res := doJSON(t, http.MethodPost, server.URL+"/api/token", "", models.LoginRequest{Username: "x", Password: "y"})
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	}
	res := doJSON(t, http.MethodPost, server.URL+"/api/token", "", models.LoginRequest{Username: "x", Password: "y"})
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)

	// Protected routes are not counted.
	res = doJSON(t, http.MethodGet, server.URL+"/ping", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestAdminEndpoints(t *testing.T) {
	server, db, _ := setupTestServer(t)

	_, err := auth.RegisterUser(context.Background(), db, "smollett", "", "captain-pass", bcrypt.MinCost, true)
	require.NoError(t, err)
	adminToken := login(t, server, "smollett", "captain-pass")
	userToken := registerAndLogin(t, server, "silver")

	target, err := storage.FindUserByUsername(context.Background(), db, "silver")
	require.NoError(t, err)
	adminUser, err := storage.FindUserByUsername(context.Background(), db, "smollett")
	require.NoError(t, err)
	deactivate := map[string]any{"is_active": false}

	t.Run("Forbidden For Regular Users", func(t *testing.T) {
		res := doJSON(t, http.MethodPatch, server.URL+"/api/admin/users/"+target.ID, userToken, deactivate)
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
	})

	t.Run("Missing Flag", func(t *testing.T) {
		res := doJSON(t, http.MethodPatch, server.URL+"/api/admin/users/"+target.ID, adminToken, map[string]any{})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("Unknown User", func(t *testing.T) {
		res := doJSON(t, http.MethodPatch, server.URL+"/api/admin/users/nobody", adminToken, deactivate)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	t.Run("Cannot Deactivate Self", func(t *testing.T) {
		res := doJSON(t, http.MethodPatch, server.URL+"/api/admin/users/"+adminUser.ID, adminToken, deactivate)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("Deactivate And Reactivate", func(t *testing.T) {
		res := doJSON(t, http.MethodPatch, server.URL+"/api/admin/users/"+target.ID, adminToken, deactivate)
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, false, decode[map[string]any](t, res)["is_active"])

		res = doJSON(t, http.MethodGet, server.URL+"/api/users/me", userToken, nil)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode, "existing token of a deactivated user must be rejected")

		res = doJSON(t, http.MethodPatch, server.URL+"/api/admin/users/"+target.ID, adminToken, map[string]any{"is_active": true})
		require.Equal(t, http.StatusOK, res.StatusCode)

		res = doJSON(t, http.MethodGet, server.URL+"/api/users/me", userToken, nil)
		assert.Equal(t, http.StatusOK, res.StatusCode)
	})
}

// uploadFile posts content as multipart field "file".
func uploadFile(t *testing.T, server *httptest.Server, token, filename, content string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.Copy(part, strings.NewReader(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, server.URL+"/api/files/upload", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}
