package service

import (
	"context"
	"strings"

	"cloudnine/internal/models"
	"cloudnine/internal/repository"
)

const (
	maxChatMessageLen = 2000
	maxChatNameLen    = 64
)

// ChatService persists chat messages and validates chat identities.
type ChatService struct {
	chatRepo repository.ChatRepository
}

// NewChatService creates a new ChatService.
func NewChatService(chatRepo repository.ChatRepository) *ChatService {
	return &ChatService{chatRepo: chatRepo}
}

// ValidateName checks a login display name. The full name is kept; shortening
// for join/leave notices happens at broadcast time.
func (s *ChatService) ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", models.NewValidationError("Name is required")
	}
	if len(name) > maxChatNameLen {
		return "", models.NewValidationError("Name too long (max 64 characters)")
	}
	return name, nil
}

// SaveMessage validates and persists a chat message from an identified sender.
func (s *ChatService) SaveMessage(ctx context.Context, sender models.ChatUser, content string) (*models.ChatMessage, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("Message is required")
	}
	if len(content) > maxChatMessageLen {
		return nil, models.NewValidationError("Message too long (max 2000 characters)")
	}

	msg := &models.ChatMessage{
		SenderID: sender.ID,
		Sender:   sender.Name,
		Content:  content,
	}
	if err := s.chatRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// RecentMessages returns the newest persisted messages, oldest first.
func (s *ChatService) RecentMessages(ctx context.Context, limit int) ([]*models.ChatMessage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.chatRepo.RecentMessages(ctx, limit)
}
