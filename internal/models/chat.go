// Package models contains data structures for the application's domain models.
package models

import "time"

// ChatMessage is a message sent to the shared chat room. The author name is
// stored as a snapshot of the sender's display name at send time; chat
// identities live only in the hub roster for the lifetime of the connection.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SenderID  uint      `gorm:"index" json:"sender_id"`
	Sender    string    `gorm:"not null" json:"sender"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatUser is a roster entry for a connected, identified chat participant.
// It exists only for the lifetime of the websocket connection.
type ChatUser struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
