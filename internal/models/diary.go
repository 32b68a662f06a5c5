// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Diary represents a diary entry in the Cloudnine application.
// LikeCount is a denormalized counter; it is mutated only by the like toggle
// and the reconcile operation, never directly by clients.
type Diary struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Content  string `gorm:"type:text;not null" json:"content"`
	ImageURL string `json:"image_url"`
	IsPublic bool   `gorm:"not null;default:false;index" json:"is_public"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	User     User   `gorm:"foreignKey:UserID" json:"user"`
	LikeCount int   `gorm:"not null;default:0" json:"like_count"`
	// Liked indicates whether the current requesting user liked this diary (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
