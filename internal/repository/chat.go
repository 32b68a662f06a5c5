package repository

import (
	"context"

	"cloudnine/internal/models"

	"gorm.io/gorm"
)

// ChatRepository defines the interface for chat message persistence.
type ChatRepository interface {
	CreateMessage(ctx context.Context, msg *models.ChatMessage) error
	RecentMessages(ctx context.Context, limit int) ([]*models.ChatMessage, error)
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) CreateMessage(ctx context.Context, msg *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// RecentMessages returns the newest messages, oldest first so clients can
// render them in order.
func (r *chatRepository) RecentMessages(ctx context.Context, limit int) ([]*models.ChatMessage, error) {
	var messages []*models.ChatMessage
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
