package service

import (
	"context"
	"errors"

	"cloudnine/internal/models"
	"cloudnine/internal/observability"
	"cloudnine/internal/repository"

	"gorm.io/gorm"
)

// LikeService implements the like toggle and counter reconciliation.
type LikeService struct {
	likeRepo  repository.LikeRepository
	diaryRepo repository.DiaryRepository
}

// ToggleResult reports the outcome of a like toggle.
type ToggleResult struct {
	Added     bool
	LikeCount int
}

// NewLikeService creates a new LikeService.
func NewLikeService(likeRepo repository.LikeRepository, diaryRepo repository.DiaryRepository) *LikeService {
	return &LikeService{likeRepo: likeRepo, diaryRepo: diaryRepo}
}

// Toggle adds the like for (userID, diaryID) when absent and removes it when
// present. Two sequential toggles by the same user return the counter to its
// original value and leave no residual like row.
func (s *LikeService) Toggle(ctx context.Context, userID, diaryID uint) (*ToggleResult, error) {
	if _, err := s.diaryRepo.GetByID(ctx, diaryID, 0); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Diary", diaryID)
		}
		return nil, err
	}

	added, likeCount, err := s.likeRepo.Toggle(ctx, userID, diaryID)
	if err != nil {
		observability.LikeToggles.WithLabelValues("error").Inc()
		return nil, err
	}

	if added {
		observability.LikeToggles.WithLabelValues("added").Inc()
	} else {
		observability.LikeToggles.WithLabelValues("removed").Inc()
	}
	return &ToggleResult{Added: added, LikeCount: likeCount}, nil
}

// Reconcile recomputes the diary's like counter from the like rows. The
// counter is only a cache; this recovers it after any drift.
func (s *LikeService) Reconcile(ctx context.Context, diaryID uint) (int, error) {
	if _, err := s.diaryRepo.GetByID(ctx, diaryID, 0); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, models.NewNotFoundError("Diary", diaryID)
		}
		return 0, err
	}
	return s.likeRepo.Reconcile(ctx, diaryID)
}
