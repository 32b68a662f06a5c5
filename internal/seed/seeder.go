package seed

import (
	"log"

	"cloudnine/internal/models"

	"gorm.io/gorm"
)

// Seeder populates the database with a believable social mesh: users,
// diaries spread over the feed window, comments, likes with a consistent
// denormalized counter, and a bit of chat history.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	opts    Options
}

// NewSeeder creates a Seeder with the provided options.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 50
	}
	if opts.NumDiaries <= 0 {
		opts.NumDiaries = 200
	}
	return &Seeder{db: db, factory: NewFactory(db, opts), opts: opts}
}

// ClearAll removes every seeded row. Order respects foreign keys.
func (s *Seeder) ClearAll() error {
	for _, model := range []any{
		&models.DiaryLike{},
		&models.Comment{},
		&models.ChatMessage{},
		&models.Diary{},
		&models.User{},
	} {
		if err := s.db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	log.Println("cleared existing data")
	return nil
}

// Run seeds users, diaries, comments, likes and chat history.
func (s *Seeder) Run() error {
	users := make([]*models.User, 0, s.opts.NumUsers)
	for i := 0; i < s.opts.NumUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return err
		}
		users = append(users, user)
	}
	log.Printf("seeded %d users", len(users))

	diaries := make([]*models.Diary, 0, s.opts.NumDiaries)
	for i := 0; i < s.opts.NumDiaries; i++ {
		author := users[s.factory.rng.Intn(len(users))]
		diary, err := s.factory.CreateDiary(author)
		if err != nil {
			return err
		}
		diaries = append(diaries, diary)
	}
	log.Printf("seeded %d diaries", len(diaries))

	comments := 0
	likes := 0
	for _, diary := range diaries {
		for i := s.factory.rng.Intn(5); i > 0; i-- {
			commenter := users[s.factory.rng.Intn(len(users))]
			if _, err := s.factory.CreateComment(commenter, diary); err != nil {
				return err
			}
			comments++
		}

		// Distinct likers per diary keep the (user, diary) uniqueness intact.
		wantLikes := s.factory.rng.Intn(len(users)/4 + 1)
		for _, idx := range s.factory.rng.Perm(len(users))[:wantLikes] {
			if err := s.factory.CreateLike(users[idx], diary); err != nil {
				return err
			}
			likes++
		}
	}
	log.Printf("seeded %d comments, %d likes", comments, likes)

	for i := 0; i < len(users)*2; i++ {
		sender := users[s.factory.rng.Intn(len(users))]
		if _, err := s.factory.CreateChatMessage(sender); err != nil {
			return err
		}
	}
	log.Printf("seeded %d chat messages", len(users)*2)

	return nil
}
