// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"cloudnine/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers   int
	NumDiaries int
	// MaxDays bounds how far back generated diaries spread.
	MaxDays int
	// SkipBcrypt stores a plaintext password; much faster for large seeds.
	SkipBcrypt bool
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	// #nosec G404: acceptable for seeding
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateDiary constructs and persists a sample `models.Diary` for the given
// user with a realistic created_at spread.
func (f *Factory) CreateDiary(user *models.User, overrides ...func(*models.Diary)) (*models.Diary, error) {
	diary := &models.Diary{
		Content:  gofakeit.Paragraph(1, 3, 5, "\n"),
		UserID:   user.ID,
		IsPublic: f.rng.Intn(4) > 0, // roughly 3 in 4 diaries are public
	}

	if f.rng.Intn(3) == 0 {
		diary.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
	}

	daysBack := f.rng.Intn(f.opts.MaxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	diary.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour -
			time.Duration(hoursBack)*time.Hour -
			time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(diary)
	}

	if err := f.db.Create(diary).Error; err != nil {
		return nil, err
	}
	return diary, nil
}

// CreateComment constructs and persists a sample `models.Comment` on the
// provided diary authored by the provided user.
func (f *Factory) CreateComment(user *models.User, diary *models.Diary, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content: gofakeit.Sentence(8),
		UserID:  user.ID,
		DiaryID: diary.ID,
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike persists a like from `user` on `diary` and bumps the diary's
// counter in the same transaction so seeded data never starts out drifted.
func (f *Factory) CreateLike(user *models.User, diary *models.Diary) error {
	return f.db.Transaction(func(tx *gorm.DB) error {
		like := &models.DiaryLike{
			UserID:  user.ID,
			DiaryID: diary.ID,
		}
		if err := tx.Create(like).Error; err != nil {
			return err
		}
		return tx.Model(&models.Diary{}).
			Where("id = ?", diary.ID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
	})
}

// CreateChatMessage persists a sample chat room message from the given user.
func (f *Factory) CreateChatMessage(user *models.User, overrides ...func(*models.ChatMessage)) (*models.ChatMessage, error) {
	msg := &models.ChatMessage{
		SenderID: user.ID,
		Sender:   user.Username,
		Content:  gofakeit.Sentence(10),
	}

	for _, override := range overrides {
		override(msg)
	}

	if err := f.db.Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}
