// Package service contains the application's use-case layer.
package service

import (
	"context"
	"errors"

	"cloudnine/internal/models"
	"cloudnine/internal/repository"

	"gorm.io/gorm"
)

const maxDiaryLen = 20000

// DiaryService composes diary repository calls into use cases.
type DiaryService struct {
	diaryRepo repository.DiaryRepository
}

// CreateDiaryInput carries the fields for creating a diary entry.
type CreateDiaryInput struct {
	UserID   uint
	Content  string
	IsPublic bool
	ImageURL string
}

// UpdateDiaryInput carries a partial update; nil fields are left unchanged.
type UpdateDiaryInput struct {
	UserID   uint
	DiaryID  uint
	Content  *string
	IsPublic *bool
}

// NewDiaryService creates a new DiaryService.
func NewDiaryService(diaryRepo repository.DiaryRepository) *DiaryService {
	return &DiaryService{diaryRepo: diaryRepo}
}

func (s *DiaryService) GetDiary(ctx context.Context, diaryID, currentUserID uint) (*models.Diary, error) {
	diary, err := s.diaryRepo.GetByID(ctx, diaryID, currentUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Diary", diaryID)
		}
		return nil, err
	}
	return diary, nil
}

func (s *DiaryService) CreateDiary(ctx context.Context, in CreateDiaryInput) (*models.Diary, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxDiaryLen {
		return nil, models.NewValidationError("Diary too long (max 20000 characters)")
	}

	diary := &models.Diary{
		UserID:   in.UserID,
		Content:  in.Content,
		IsPublic: in.IsPublic,
		ImageURL: in.ImageURL,
	}
	if err := s.diaryRepo.Create(ctx, diary); err != nil {
		return nil, err
	}
	return s.diaryRepo.GetByID(ctx, diary.ID, in.UserID)
}

func (s *DiaryService) UpdateDiary(ctx context.Context, in UpdateDiaryInput) (*models.Diary, error) {
	diary, err := s.diaryRepo.GetByID(ctx, in.DiaryID, in.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Diary", in.DiaryID)
		}
		return nil, err
	}
	if diary.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only edit your own diaries")
	}

	if in.Content != nil {
		if *in.Content == "" {
			return nil, models.NewValidationError("Content is required")
		}
		if len(*in.Content) > maxDiaryLen {
			return nil, models.NewValidationError("Diary too long (max 20000 characters)")
		}
		diary.Content = *in.Content
	}
	if in.IsPublic != nil {
		diary.IsPublic = *in.IsPublic
	}

	if err := s.diaryRepo.Update(ctx, diary); err != nil {
		return nil, err
	}
	return s.diaryRepo.GetByID(ctx, diary.ID, in.UserID)
}

func (s *DiaryService) DeleteDiary(ctx context.Context, userID, diaryID uint) error {
	diary, err := s.diaryRepo.GetByID(ctx, diaryID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Diary", diaryID)
		}
		return err
	}
	if diary.UserID != userID {
		return models.NewUnauthorizedError("You can only delete your own diaries")
	}
	return s.diaryRepo.Delete(ctx, diaryID)
}
