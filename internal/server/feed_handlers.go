// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"

	"cloudnine/internal/middleware"
	"cloudnine/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFeeds handles GET /api/feeds?lastCreatedAt=
//
// Returns public diaries from the recent window, newest first. Pass the
// created_at of the last received diary as lastCreatedAt to fetch the next
// page; pages never repeat or skip entries even while new diaries are posted.
func (s *Server) GetFeeds(c *fiber.Ctx) error {
	cursor := c.Query("lastCreatedAt")

	// Anonymous browsing is allowed; a token only enriches the log context.
	if userID, ok := s.optionalUserID(c); ok {
		c.SetUserContext(context.WithValue(c.UserContext(), middleware.UserIDKey, userID))
	}

	diaries, err := s.feedService.PublicFeed(c.UserContext(), cursor)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"data": diaries})
}

// GetMyDiaries handles GET /api/feeds/mydiaries?lastCreatedAt=
//
// The caller's own diaries, public and private alike, with no time window.
func (s *Server) GetMyDiaries(c *fiber.Ctx) error {
	cursor := c.Query("lastCreatedAt")
	userID := currentUserID(c)

	diaries, err := s.feedService.MyDiaries(c.UserContext(), userID, cursor)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"data": diaries})
}

// ToggleLike handles POST /api/feeds/:diaryId/like
//
// One like per user per diary. The same request adds the like when absent
// and removes it when present; the response carries the counter after the
// toggle.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	diaryID, err := s.parseID(c, "diaryId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	result, err := s.likeService.Toggle(c.UserContext(), userID, diaryID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "no such diary",
			})
		}
		return respondServiceError(c, err)
	}

	if result.Added {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "like added",
			"data":    result.LikeCount,
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "like removed",
		"data":    result.LikeCount,
	})
}

// ReconcileLikes handles POST /api/admin/diaries/:diaryId/reconcile-likes
//
// Recomputes the denormalized like counter from the like rows. The counter
// is derivable state; this endpoint recovers it after any drift.
func (s *Server) ReconcileLikes(c *fiber.Ctx) error {
	diaryID, err := s.parseID(c, "diaryId")
	if err != nil {
		return nil
	}

	count, err := s.likeService.Reconcile(c.UserContext(), diaryID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "like counter reconciled",
		"data":    count,
	})
}
