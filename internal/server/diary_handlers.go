// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloudnine/internal/models"
	"cloudnine/internal/service"

	"github.com/gofiber/fiber/v2"
)

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// GetDiary handles GET /api/diary/detail/:diaryId
func (s *Server) GetDiary(c *fiber.Ctx) error {
	diaryID, err := s.parseID(c, "diaryId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	diary, err := s.diaryService.GetDiary(c.UserContext(), diaryID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"data": diary})
}

// PostDiary handles POST /api/diary/posting. The body is either JSON or a
// multipart form with an optional `image` part.
func (s *Server) PostDiary(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Content  string `json:"content" form:"content"`
		IsPublic bool   `json:"is_public" form:"is_public"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	imageURL := ""
	if file, err := c.FormFile("image"); err == nil && file != nil {
		imageURL, err = s.saveUploadedImage(c, file.Filename)
		if err != nil {
			return respondServiceError(c, err)
		}
	}

	diary, err := s.diaryService.CreateDiary(c.UserContext(), service.CreateDiaryInput{
		UserID:   userID,
		Content:  req.Content,
		IsPublic: req.IsPublic,
		ImageURL: imageURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": diary})
}

// UpdateDiary handles PATCH /api/diary/edit/:diaryId
func (s *Server) UpdateDiary(c *fiber.Ctx) error {
	diaryID, err := s.parseID(c, "diaryId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	var req struct {
		Content  *string `json:"content"`
		IsPublic *bool   `json:"is_public"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	diary, err := s.diaryService.UpdateDiary(c.UserContext(), service.UpdateDiaryInput{
		UserID:   userID,
		DiaryID:  diaryID,
		Content:  req.Content,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"data": diary})
}

// DeleteDiary handles DELETE /api/diary/delete/:diaryId
func (s *Server) DeleteDiary(c *fiber.Ctx) error {
	diaryID, err := s.parseID(c, "diaryId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if err := s.diaryService.DeleteDiary(c.UserContext(), userID, diaryID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Diary deleted successfully"})
}

// saveUploadedImage stores the uploaded image part on disk under a content
// hash and returns the URL path it will be served from. Resizing and
// transcoding are left to a downstream media pipeline; only the reference is
// recorded here.
func (s *Server) saveUploadedImage(c *fiber.Ctx, filename string) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", models.NewValidationError("Unable to read uploaded file")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedImageExtensions[ext]; !ok {
		return "", models.NewValidationError("Unsupported image type")
	}

	src, err := file.Open()
	if err != nil {
		return "", models.NewValidationError("Unable to read uploaded file")
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return "", models.NewValidationError("Unable to read uploaded file")
	}

	sum := sha256.Sum256(content)
	name := hex.EncodeToString(sum[:]) + ext

	if err := os.MkdirAll(s.config.UploadDir, 0o755); err != nil {
		return "", models.NewInternalError(err)
	}
	if err := os.WriteFile(filepath.Join(s.config.UploadDir, name), content, 0o644); err != nil {
		return "", models.NewInternalError(err)
	}

	return "/uploads/" + name, nil
}
