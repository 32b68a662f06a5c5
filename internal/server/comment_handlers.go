// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"cloudnine/internal/models"
	"cloudnine/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/diary/:diaryId/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	diaryID, err := s.parseID(c, "diaryId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:  userID,
		DiaryID: diaryID,
		Content: req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": comment})
}

// GetComments handles GET /api/diary/:diaryId/comments
//
// Comments are returned newest first. The listing is unbounded; comment
// volume per diary is expected to stay small.
func (s *Server) GetComments(c *fiber.Ctx) error {
	diaryID, err := s.parseID(c, "diaryId")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(c.UserContext(), diaryID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"data": comments})
}

// UpdateComment handles PATCH /api/comments/:commentId
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(c.UserContext(), service.UpdateCommentInput{
		UserID:    userID,
		CommentID: commentID,
		Content:   req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"data": comment})
}

// DeleteComment handles DELETE /api/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if _, err := s.commentService.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		UserID:    userID,
		CommentID: commentID,
	}); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Comment deleted successfully"})
}
