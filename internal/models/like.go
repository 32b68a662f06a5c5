package models

import "time"

// DiaryLike represents a user's like on a diary entry.
// The combination of UserID and DiaryID must be unique; the row's existence
// is the source of truth for "has this user liked this diary".
type DiaryLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_diary" json:"user_id"`
	DiaryID   uint      `gorm:"not null;uniqueIndex:idx_user_diary" json:"diary_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	User  User  `gorm:"foreignKey:UserID" json:"user"`
	Diary Diary `gorm:"foreignKey:DiaryID" json:"diary"`
}
