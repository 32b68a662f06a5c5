package repository

import (
	"context"
	"testing"
	"time"

	"cloudnine/internal/cache"
	"cloudnine/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// withCache points the cache package at a throwaway miniredis for one test.
func withCache(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })
	return mr
}

func TestDiaryRepository_ListPublic(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDiaryRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	now := time.Now().Truncate(time.Second)

	// Three public entries in the window, one private, one too old.
	newest := createTestDiary(t, db, author.ID, true, now.Add(-1*time.Hour))
	middle := createTestDiary(t, db, author.ID, true, now.Add(-2*time.Hour))
	oldest := createTestDiary(t, db, author.ID, true, now.Add(-3*time.Hour))
	createTestDiary(t, db, author.ID, false, now.Add(-90*time.Minute))
	createTestDiary(t, db, author.ID, true, now.Add(-100*24*time.Hour))

	from := now.Add(-60 * 24 * time.Hour)
	to := now

	t.Run("Newest First Within Window", func(t *testing.T) {
		diaries, err := repo.ListPublic(ctx, from, to, nil, 10)
		require.NoError(t, err)
		require.Len(t, diaries, 3)
		assert.Equal(t, newest.ID, diaries[0].ID)
		assert.Equal(t, middle.ID, diaries[1].ID)
		assert.Equal(t, oldest.ID, diaries[2].ID)
	})

	t.Run("Cursor Excludes Its Own Row", func(t *testing.T) {
		cursor := newest.CreatedAt
		diaries, err := repo.ListPublic(ctx, from, to, &cursor, 10)
		require.NoError(t, err)
		require.Len(t, diaries, 2)
		assert.Equal(t, middle.ID, diaries[0].ID)
		assert.Equal(t, oldest.ID, diaries[1].ID)
	})

	t.Run("Pages Do Not Overlap While Writes Land", func(t *testing.T) {
		first, err := repo.ListPublic(ctx, from, to, nil, 2)
		require.NoError(t, err)
		require.Len(t, first, 2)

		// A diary posted between page fetches must not shift the next page.
		createTestDiary(t, db, author.ID, true, now.Add(-30*time.Minute))

		cursor := first[len(first)-1].CreatedAt
		second, err := repo.ListPublic(ctx, from, to, &cursor, 2)
		require.NoError(t, err)

		seen := map[uint]bool{}
		for _, d := range first {
			seen[d.ID] = true
		}
		for _, d := range second {
			assert.False(t, seen[d.ID], "page overlap on diary %d", d.ID)
			assert.True(t, d.CreatedAt.Before(cursor))
		}
	})

	t.Run("Limit Respected", func(t *testing.T) {
		diaries, err := repo.ListPublic(ctx, from, to, nil, 1)
		require.NoError(t, err)
		assert.Len(t, diaries, 1)
	})
}

func TestDiaryRepository_ListByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDiaryRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	other := createTestUser(t, db, "other")
	now := time.Now().Truncate(time.Second)

	pub := createTestDiary(t, db, owner.ID, true, now.Add(-1*time.Hour))
	priv := createTestDiary(t, db, owner.ID, false, now.Add(-2*time.Hour))
	old := createTestDiary(t, db, owner.ID, true, now.Add(-200*24*time.Hour))
	createTestDiary(t, db, other.ID, true, now.Add(-30*time.Minute))

	diaries, err := repo.ListByUser(ctx, owner.ID, nil, 10)
	require.NoError(t, err)
	require.Len(t, diaries, 3, "own listing has no window and no visibility filter")
	assert.Equal(t, pub.ID, diaries[0].ID)
	assert.Equal(t, priv.ID, diaries[1].ID)
	assert.Equal(t, old.ID, diaries[2].ID)
}

func TestDiaryRepository_GetByID_Liked(t *testing.T) {
	db := setupTestDB(t)
	diaryRepo := NewDiaryRepository(db)
	likeRepo := NewLikeRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	viewer := createTestUser(t, db, "viewer")
	diary := createTestDiary(t, db, author.ID, true, time.Now())

	_, _, err := likeRepo.Toggle(ctx, viewer.ID, diary.ID)
	require.NoError(t, err)

	t.Run("Liked For The Liking Viewer", func(t *testing.T) {
		got, err := diaryRepo.GetByID(ctx, diary.ID, viewer.ID)
		require.NoError(t, err)
		assert.True(t, got.Liked)
		assert.Equal(t, 1, got.LikeCount)
	})

	t.Run("Not Liked For The Author", func(t *testing.T) {
		got, err := diaryRepo.GetByID(ctx, diary.ID, author.ID)
		require.NoError(t, err)
		assert.False(t, got.Liked)
	})
}

func TestDiaryRepository_Update_PreservesLikeCount(t *testing.T) {
	db := setupTestDB(t)
	diaryRepo := NewDiaryRepository(db)
	likeRepo := NewLikeRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	liker := createTestUser(t, db, "liker")
	diary := createTestDiary(t, db, author.ID, true, time.Now())

	stale, err := diaryRepo.GetByID(ctx, diary.ID, author.ID)
	require.NoError(t, err)
	require.Equal(t, 0, stale.LikeCount)

	// A like lands after the read but before the edit is written.
	added, count, err := likeRepo.Toggle(ctx, liker.ID, diary.ID)
	require.NoError(t, err)
	require.True(t, added)
	require.Equal(t, 1, count)

	stale.Content = "edited after the like"
	stale.IsPublic = false
	require.NoError(t, diaryRepo.Update(ctx, stale))

	var reloaded models.Diary
	require.NoError(t, db.First(&reloaded, diary.ID).Error)
	assert.Equal(t, "edited after the like", reloaded.Content)
	assert.False(t, reloaded.IsPublic)
	assert.Equal(t, 1, reloaded.LikeCount)
}

func TestDiaryRepository_ListPublic_FirstPageCached(t *testing.T) {
	withCache(t)
	db := setupTestDB(t)
	repo := NewDiaryRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	now := time.Now().Truncate(time.Second)
	createTestDiary(t, db, author.ID, true, now.Add(-2*time.Hour))
	newest := createTestDiary(t, db, author.ID, true, now.Add(-1*time.Hour))

	from := now.Add(-60 * 24 * time.Hour)
	to := now

	first, err := repo.ListPublic(ctx, from, to, nil, 10)
	require.NoError(t, err)
	require.Len(t, first, 2)

	t.Run("First Page Served From Cache", func(t *testing.T) {
		// Inserted behind the repository's back, so no invalidation fires.
		createTestDiary(t, db, author.ID, true, now.Add(-30*time.Minute))

		again, err := repo.ListPublic(ctx, from, to, nil, 10)
		require.NoError(t, err)
		assert.Len(t, again, 2)
	})

	t.Run("Cursor Pages Bypass The Cache", func(t *testing.T) {
		cursor := newest.CreatedAt
		page, err := repo.ListPublic(ctx, from, to, &cursor, 10)
		require.NoError(t, err)
		assert.Len(t, page, 1)
	})

	t.Run("Write Through Repository Invalidates", func(t *testing.T) {
		fresh := &models.Diary{
			Content:   "fresh",
			UserID:    author.ID,
			IsPublic:  true,
			CreatedAt: now.Add(-10 * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, fresh))

		page, err := repo.ListPublic(ctx, from, to, nil, 10)
		require.NoError(t, err)
		assert.Len(t, page, 4)
	})
}

func TestDiaryRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDiaryRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	diary := createTestDiary(t, db, author.ID, true, time.Now())

	require.NoError(t, repo.Delete(ctx, diary.ID))

	_, err := repo.GetByID(ctx, diary.ID, 0)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
