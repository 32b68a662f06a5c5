package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloudnine/internal/models"

	"github.com/stretchr/testify/require"
)

// diaryRepoStub is a stub for repository.DiaryRepository.
type diaryRepoStub struct {
	createFn     func(context.Context, *models.Diary) error
	getByIDFn    func(context.Context, uint, uint) (*models.Diary, error)
	updateFn     func(context.Context, *models.Diary) error
	deleteFn     func(context.Context, uint) error
	listPublicFn func(context.Context, time.Time, time.Time, *time.Time, int) ([]*models.Diary, error)
	listByUserFn func(context.Context, uint, *time.Time, int) ([]*models.Diary, error)
}

func (s *diaryRepoStub) Create(ctx context.Context, diary *models.Diary) error {
	return s.createFn(ctx, diary)
}
func (s *diaryRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Diary, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *diaryRepoStub) Update(ctx context.Context, diary *models.Diary) error {
	return s.updateFn(ctx, diary)
}
func (s *diaryRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *diaryRepoStub) ListPublic(ctx context.Context, from, to time.Time, cursor *time.Time, limit int) ([]*models.Diary, error) {
	return s.listPublicFn(ctx, from, to, cursor, limit)
}
func (s *diaryRepoStub) ListByUser(ctx context.Context, userID uint, cursor *time.Time, limit int) ([]*models.Diary, error) {
	return s.listByUserFn(ctx, userID, cursor, limit)
}

func noopDiaryRepo() *diaryRepoStub {
	return &diaryRepoStub{
		createFn: func(_ context.Context, d *models.Diary) error { d.ID = 1; return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Diary, error) {
			return &models.Diary{ID: id, UserID: 1}, nil
		},
		updateFn: func(_ context.Context, _ *models.Diary) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
		listPublicFn: func(_ context.Context, _, _ time.Time, _ *time.Time, _ int) ([]*models.Diary, error) {
			return nil, nil
		},
		listByUserFn: func(_ context.Context, _ uint, _ *time.Time, _ int) ([]*models.Diary, error) {
			return nil, nil
		},
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	getByIDFn     func(context.Context, uint) (*models.Comment, error)
	listByDiaryFn func(context.Context, uint) ([]*models.Comment, error)
	updateFn      func(context.Context, *models.Comment) error
	deleteFn      func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByDiary(ctx context.Context, diaryID uint) ([]*models.Comment, error) {
	return s.listByDiaryFn(ctx, diaryID)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error { c.ID = 1; return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 1}, nil
		},
		listByDiaryFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		updateFn:      func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
	}
}

// likeRepoStub is a stub for repository.LikeRepository.
type likeRepoStub struct {
	toggleFn    func(context.Context, uint, uint) (bool, int, error)
	existsFn    func(context.Context, uint, uint) (bool, error)
	countFn     func(context.Context, uint) (int64, error)
	reconcileFn func(context.Context, uint) (int, error)
}

func (s *likeRepoStub) Toggle(ctx context.Context, userID, diaryID uint) (bool, int, error) {
	return s.toggleFn(ctx, userID, diaryID)
}
func (s *likeRepoStub) Exists(ctx context.Context, userID, diaryID uint) (bool, error) {
	return s.existsFn(ctx, userID, diaryID)
}
func (s *likeRepoStub) CountByDiary(ctx context.Context, diaryID uint) (int64, error) {
	return s.countFn(ctx, diaryID)
}
func (s *likeRepoStub) Reconcile(ctx context.Context, diaryID uint) (int, error) {
	return s.reconcileFn(ctx, diaryID)
}

func noopLikeRepo() *likeRepoStub {
	return &likeRepoStub{
		toggleFn:    func(_ context.Context, _, _ uint) (bool, int, error) { return true, 1, nil },
		existsFn:    func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		countFn:     func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		reconcileFn: func(_ context.Context, _ uint) (int, error) { return 0, nil },
	}
}

// chatRepoStub is a stub for repository.ChatRepository.
type chatRepoStub struct {
	createMessageFn  func(context.Context, *models.ChatMessage) error
	recentMessagesFn func(context.Context, int) ([]*models.ChatMessage, error)
}

func (s *chatRepoStub) CreateMessage(ctx context.Context, msg *models.ChatMessage) error {
	return s.createMessageFn(ctx, msg)
}
func (s *chatRepoStub) RecentMessages(ctx context.Context, limit int) ([]*models.ChatMessage, error) {
	return s.recentMessagesFn(ctx, limit)
}

func noopChatRepo() *chatRepoStub {
	return &chatRepoStub{
		createMessageFn:  func(_ context.Context, m *models.ChatMessage) error { m.ID = 1; return nil },
		recentMessagesFn: func(_ context.Context, _ int) ([]*models.ChatMessage, error) { return nil, nil },
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeValidation)
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeUnauthorized)
}
