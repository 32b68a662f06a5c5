package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"cloudnine/internal/config"
	"cloudnine/internal/database"
	"cloudnine/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

// newTestServer wires a Server against an in-memory database and no Redis,
// with routes mounted on a fresh Fiber app.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:    "handler-test-secret",
		Port:         "0",
		Env:          "test",
		FeedTimeZone: "UTC",
		UploadDir:    t.TempDir(),
	}

	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	srv.SetupRoutes(app)
	return srv, app
}

// doJSON performs a request with an optional JSON body and bearer token and
// decodes the JSON response body.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	decoded := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

// decodeBody reads and JSON-decodes a response body.
func decodeBody(resp *http.Response, out any) error {
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// signupUser registers a user through the API and returns its token and ID.
func signupUser(t *testing.T, app *fiber.App, username string) (string, uint) {
	t.Helper()

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/auth/signup", "", fiber.Map{
		"username": username,
		"email":    username + "@example.com",
		"password": "Sup3rSecret!Pw",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, "signup body: %v", body)

	token, ok := body["token"].(string)
	require.True(t, ok, "token missing: %v", body)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	id, ok := user["id"].(float64)
	require.True(t, ok)
	return token, uint(id)
}

// createDiaryViaAPI posts a diary and returns its ID.
func createDiaryViaAPI(t *testing.T, app *fiber.App, token, content string, isPublic bool) uint {
	t.Helper()

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/diary/posting", token, fiber.Map{
		"content":   content,
		"is_public": isPublic,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, "posting body: %v", body)

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	id, ok := data["id"].(float64)
	require.True(t, ok)
	return uint(id)
}
