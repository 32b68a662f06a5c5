package service

import (
	"context"
	"time"

	"cloudnine/internal/models"
	"cloudnine/internal/repository"
)

const (
	// FeedPageSize is the fixed number of diaries per feed page.
	FeedPageSize = 10
	// feedWindowMonths is how far back the public feed reaches.
	feedWindowMonths = 2
)

// FeedService builds time-windowed, keyset-paginated feed queries.
// Pagination is keyset-only: the cursor is the created_at of the last row the
// client has seen, and each page returns strictly older rows. An empty page
// signals exhaustion, not an error.
type FeedService struct {
	diaryRepo repository.DiaryRepository
	loc       *time.Location
	now       func() time.Time
}

// NewFeedService creates a FeedService using the given IANA time zone for the
// public feed's day-boundary window. Falls back to UTC when the zone cannot
// be loaded.
func NewFeedService(diaryRepo repository.DiaryRepository, timeZone string) *FeedService {
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		loc = time.UTC
	}
	return &FeedService{
		diaryRepo: diaryRepo,
		loc:       loc,
		now:       time.Now,
	}
}

// ParseCursor parses a lastCreatedAt query value. An empty value means no
// cursor (first page).
func ParseCursor(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, models.NewValidationError("Invalid lastCreatedAt cursor")
}

// window returns [start of day two months ago, end of today] in the feed's
// time zone.
func (s *FeedService) window() (time.Time, time.Time) {
	now := s.now().In(s.loc)
	y, m, d := now.Date()
	endOfDay := time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), s.loc)
	from := time.Date(y, m-feedWindowMonths, d, 0, 0, 0, 0, s.loc)
	return from, endOfDay
}

// PublicFeed returns one page of public diaries inside the sliding window.
func (s *FeedService) PublicFeed(ctx context.Context, rawCursor string) ([]*models.Diary, error) {
	cursor, err := ParseCursor(rawCursor)
	if err != nil {
		return nil, err
	}
	from, to := s.window()
	diaries, err := s.diaryRepo.ListPublic(ctx, from, to, cursor, FeedPageSize)
	if err != nil {
		return nil, err
	}
	if diaries == nil {
		diaries = []*models.Diary{}
	}
	return diaries, nil
}

// MyDiaries returns one page of the caller's own diaries. The time window
// and visibility filter do not apply to the owner's view.
func (s *FeedService) MyDiaries(ctx context.Context, userID uint, rawCursor string) ([]*models.Diary, error) {
	cursor, err := ParseCursor(rawCursor)
	if err != nil {
		return nil, err
	}
	diaries, err := s.diaryRepo.ListByUser(ctx, userID, cursor, FeedPageSize)
	if err != nil {
		return nil, err
	}
	if diaries == nil {
		diaries = []*models.Diary{}
	}
	return diaries, nil
}
