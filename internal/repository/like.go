package repository

import (
	"context"

	"cloudnine/internal/cache"
	"cloudnine/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for like data operations.
type LikeRepository interface {
	// Toggle removes the like for (userID, diaryID) if it exists, otherwise
	// creates it, adjusting the diary's denormalized counter in the same
	// transaction. It reports whether the like was added and the resulting
	// counter value.
	Toggle(ctx context.Context, userID, diaryID uint) (added bool, likeCount int, err error)
	Exists(ctx context.Context, userID, diaryID uint) (bool, error)
	CountByDiary(ctx context.Context, diaryID uint) (int64, error)
	// Reconcile recomputes the diary's counter from the like rows and
	// returns the corrected value.
	Reconcile(ctx context.Context, diaryID uint) (int, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Toggle(ctx context.Context, userID, diaryID uint) (bool, int, error) {
	var added bool
	var likeCount int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND diary_id = ?", userID, diaryID).
			Delete(&models.DiaryLike{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected > 0 {
			added = false
			if err := tx.Model(&models.Diary{}).
				Where("id = ? AND like_count > 0", diaryID).
				UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error; err != nil {
				return err
			}
		} else {
			added = true
			ins := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.DiaryLike{UserID: userID, DiaryID: diaryID})
			if ins.Error != nil {
				return ins.Error
			}
			// RowsAffected == 0 means a concurrent toggle inserted first;
			// the unique index makes a duplicate row impossible and the
			// counter was already adjusted by the winner.
			if ins.RowsAffected > 0 {
				if err := tx.Model(&models.Diary{}).
					Where("id = ?", diaryID).
					UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
					return err
				}
			}
		}

		return tx.Model(&models.Diary{}).
			Select("like_count").
			Where("id = ?", diaryID).
			Scan(&likeCount).Error
	})
	if err != nil {
		return false, 0, err
	}

	cache.Invalidate(ctx, cache.DiaryKey(diaryID))
	cache.InvalidateFeed(ctx)
	return added, likeCount, nil
}

func (r *likeRepository) Exists(ctx context.Context, userID, diaryID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.DiaryLike{}).
		Where("user_id = ? AND diary_id = ?", userID, diaryID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *likeRepository) CountByDiary(ctx context.Context, diaryID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DiaryLike{}).
		Where("diary_id = ?", diaryID).
		Count(&count).Error
	return count, err
}

func (r *likeRepository) Reconcile(ctx context.Context, diaryID uint) (int, error) {
	var likeCount int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`UPDATE diaries SET like_count = (SELECT COUNT(*) FROM diary_likes WHERE diary_likes.diary_id = diaries.id) WHERE id = ?`,
			diaryID,
		).Error; err != nil {
			return err
		}
		return tx.Model(&models.Diary{}).
			Select("like_count").
			Where("id = ?", diaryID).
			Scan(&likeCount).Error
	})
	if err != nil {
		return 0, err
	}

	cache.Invalidate(ctx, cache.DiaryKey(diaryID))
	return likeCount, nil
}
