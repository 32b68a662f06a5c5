// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"time"

	"cloudnine/internal/cache"
	"cloudnine/internal/models"

	"gorm.io/gorm"
)

// DiaryRepository defines the interface for diary data operations
type DiaryRepository interface {
	Create(ctx context.Context, diary *models.Diary) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Diary, error)
	Update(ctx context.Context, diary *models.Diary) error
	Delete(ctx context.Context, id uint) error
	ListPublic(ctx context.Context, from, to time.Time, cursor *time.Time, limit int) ([]*models.Diary, error)
	ListByUser(ctx context.Context, userID uint, cursor *time.Time, limit int) ([]*models.Diary, error)
}

type diaryRepository struct {
	db *gorm.DB
}

// NewDiaryRepository creates a new diary repository
func NewDiaryRepository(db *gorm.DB) DiaryRepository {
	return &diaryRepository{db: db}
}

func (r *diaryRepository) Create(ctx context.Context, diary *models.Diary) error {
	err := r.db.WithContext(ctx).Create(diary).Error
	if err == nil {
		cache.InvalidateFeed(ctx)
	}
	return err
}

// applyLiked adds a subquery so Liked is resolved in the same query.
func (r *diaryRepository) applyLiked(db *gorm.DB, currentUserID uint) *gorm.DB {
	if currentUserID != 0 {
		return db.Select("diaries.*, EXISTS(SELECT 1 FROM diary_likes WHERE diary_likes.diary_id = diaries.id AND diary_likes.user_id = ?) as liked", currentUserID)
	}
	return db.Select("diaries.*, false as liked")
}

func (r *diaryRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Diary, error) {
	var diary models.Diary

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, cache.DiaryKey(id), &diary, cache.DiaryTTL, func() error {
			return r.applyLiked(r.db.WithContext(ctx), 0).
				Preload("User").
				First(&diary, id).Error
		})
	} else {
		err = r.applyLiked(r.db.WithContext(ctx), currentUserID).
			Preload("User").
			First(&diary, id).Error
	}
	if err != nil {
		return nil, err
	}
	return &diary, nil
}

// Update writes the editable columns only. like_count belongs to the toggle
// and reconcile paths; a stale in-memory value must not overwrite it.
func (r *diaryRepository) Update(ctx context.Context, diary *models.Diary) error {
	err := r.db.WithContext(ctx).Model(diary).
		Select("content", "is_public", "image_url").
		Updates(diary).Error
	if err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.DiaryKey(diary.ID))
	cache.InvalidateFeed(ctx)
	return nil
}

func (r *diaryRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Diary{}, id).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.DiaryKey(id))
	cache.InvalidateFeed(ctx)
	return nil
}

// ListPublic returns public diaries with created_at inside [from, to],
// keyset-paginated: rows strictly older than the cursor, newest first.
// The first page (no cursor) is served cache-aside with a short TTL; every
// write path invalidates it.
func (r *diaryRepository) ListPublic(ctx context.Context, from, to time.Time, cursor *time.Time, limit int) ([]*models.Diary, error) {
	var diaries []*models.Diary
	fetch := func() error {
		q := r.db.WithContext(ctx).
			Where("is_public = ?", true).
			Where("created_at >= ? AND created_at <= ?", from, to)
		if cursor != nil {
			q = q.Where("created_at < ?", *cursor)
		}
		return q.Preload("User").
			Order("created_at DESC").
			Limit(limit).
			Find(&diaries).Error
	}

	if cursor == nil {
		if err := cache.Aside(ctx, cache.FeedFirstPageKey, &diaries, cache.FeedTTL, fetch); err != nil {
			return nil, err
		}
		return diaries, nil
	}
	if err := fetch(); err != nil {
		return nil, err
	}
	return diaries, nil
}

// ListByUser returns the user's own diaries, public or private, with the
// same keyset pagination but no time window.
func (r *diaryRepository) ListByUser(ctx context.Context, userID uint, cursor *time.Time, limit int) ([]*models.Diary, error) {
	var diaries []*models.Diary
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if cursor != nil {
		q = q.Where("created_at < ?", *cursor)
	}
	err := q.Order("created_at DESC").
		Limit(limit).
		Find(&diaries).Error
	return diaries, err
}
