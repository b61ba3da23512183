package models

import (
	"time"
)

// Post is a piece of content owned by a single user.
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Content string `gorm:"type:text;not null" json:"content"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"-:migration;->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int       `gorm:"-:migration;->" json:"comments_count"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PostStats is the engagement snapshot the trending scorer reads.
type PostStats struct {
	PostID       uint
	UserID       uint
	CreatedAt    time.Time
	LikeCount    int
	CommentCount int
}
