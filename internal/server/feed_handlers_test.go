package server

import (
	"fmt"
	"net/url"
	"testing"
	"time"

	"cloudnine/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFeeds(t *testing.T) {
	srv, app := newTestServer(t)
	token, userID := signupUser(t, app, "alice")

	// Three public diaries inside the window, one private, one too old.
	now := time.Now()
	for i := 0; i < 3; i++ {
		diary := &models.Diary{
			Content:   fmt.Sprintf("public %d", i),
			UserID:    userID,
			IsPublic:  true,
			CreatedAt: now.Add(-time.Duration(i) * time.Hour),
		}
		require.NoError(t, srv.db.Create(diary).Error)
	}
	require.NoError(t, srv.db.Create(&models.Diary{
		Content: "private", UserID: userID, IsPublic: false, CreatedAt: now,
	}).Error)
	require.NoError(t, srv.db.Create(&models.Diary{
		Content: "ancient", UserID: userID, IsPublic: true,
		CreatedAt: now.AddDate(0, -4, 0),
	}).Error)

	t.Run("Anonymous", func(t *testing.T) {
		resp, body := doJSON(t, app, fiber.MethodGet, "/api/feeds", "", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		data := body["data"].([]any)
		require.Len(t, data, 3, "private and out-of-window entries are hidden")
		first := data[0].(map[string]any)
		assert.Equal(t, "public 0", first["content"], "newest first")
	})

	t.Run("Cursor Pagination", func(t *testing.T) {
		resp, body := doJSON(t, app, fiber.MethodGet, "/api/feeds", token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		data := body["data"].([]any)
		require.Len(t, data, 3)

		cursor := data[0].(map[string]any)["created_at"].(string)
		resp, body = doJSON(t, app, fiber.MethodGet,
			"/api/feeds?lastCreatedAt="+url.QueryEscape(cursor), token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		next := body["data"].([]any)
		require.Len(t, next, 2, "cursor row itself is excluded")
		assert.Equal(t, "public 1", next[0].(map[string]any)["content"])
	})

	t.Run("Invalid Cursor", func(t *testing.T) {
		resp, _ := doJSON(t, app, fiber.MethodGet, "/api/feeds?lastCreatedAt=nonsense", "", nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetMyDiaries(t *testing.T) {
	srv, app := newTestServer(t)
	token, userID := signupUser(t, app, "alice")
	_, otherID := signupUser(t, app, "bob")

	require.NoError(t, srv.db.Create(&models.Diary{
		Content: "mine, private", UserID: userID, IsPublic: false, CreatedAt: time.Now(),
	}).Error)
	require.NoError(t, srv.db.Create(&models.Diary{
		Content: "mine, old", UserID: userID, IsPublic: true,
		CreatedAt: time.Now().AddDate(0, -6, 0),
	}).Error)
	require.NoError(t, srv.db.Create(&models.Diary{
		Content: "someone else's", UserID: otherID, IsPublic: true, CreatedAt: time.Now(),
	}).Error)

	t.Run("Requires Auth", func(t *testing.T) {
		resp, _ := doJSON(t, app, fiber.MethodGet, "/api/feeds/mydiaries", "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Owner Sees Everything Of Their Own", func(t *testing.T) {
		resp, body := doJSON(t, app, fiber.MethodGet, "/api/feeds/mydiaries", token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		data := body["data"].([]any)
		require.Len(t, data, 2, "no window or visibility filter, no other users")
		assert.Equal(t, "mine, private", data[0].(map[string]any)["content"])
		assert.Equal(t, "mine, old", data[1].(map[string]any)["content"])
	})
}

func TestToggleLike(t *testing.T) {
	_, app := newTestServer(t)
	token, _ := signupUser(t, app, "alice")
	diaryID := createDiaryViaAPI(t, app, token, "likeable", true)
	likePath := fmt.Sprintf("/api/feeds/%d/like", diaryID)

	t.Run("Add", func(t *testing.T) {
		resp, body := doJSON(t, app, fiber.MethodPost, likePath, token, nil)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode, "body: %v", body)
		assert.Equal(t, "like added", body["message"])
		assert.Equal(t, float64(1), body["data"])
	})

	t.Run("Remove", func(t *testing.T) {
		resp, body := doJSON(t, app, fiber.MethodPost, likePath, token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "like removed", body["message"])
		assert.Equal(t, float64(0), body["data"])
	})

	t.Run("Liked Flag In Detail", func(t *testing.T) {
		resp, body := doJSON(t, app, fiber.MethodPost, likePath, token, nil)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)

		resp, body = doJSON(t, app, fiber.MethodGet,
			fmt.Sprintf("/api/diary/detail/%d", diaryID), token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		data := body["data"].(map[string]any)
		assert.Equal(t, true, data["liked"])
		assert.Equal(t, float64(1), data["like_count"])
	})

	t.Run("Missing Diary", func(t *testing.T) {
		resp, body := doJSON(t, app, fiber.MethodPost, "/api/feeds/999999/like", token, nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "no such diary", body["message"])
		assert.NotContains(t, body, "error")
	})

	t.Run("Requires Auth", func(t *testing.T) {
		resp, _ := doJSON(t, app, fiber.MethodPost, likePath, "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestReconcileLikes(t *testing.T) {
	srv, app := newTestServer(t)
	token, _ := signupUser(t, app, "admin")
	diaryID := createDiaryViaAPI(t, app, token, "counted", true)

	_, _ = doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/api/feeds/%d/like", diaryID), token, nil)

	// Drift the counter behind the repository's back.
	require.NoError(t, srv.db.Model(&models.Diary{}).
		Where("id = ?", diaryID).
		UpdateColumn("like_count", 42).Error)

	resp, body := doJSON(t, app, fiber.MethodPost,
		fmt.Sprintf("/api/admin/diaries/%d/reconcile-likes", diaryID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, "body: %v", body)
	assert.Equal(t, "like counter reconciled", body["message"])
	assert.Equal(t, float64(1), body["data"])
}
