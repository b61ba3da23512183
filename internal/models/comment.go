package models

import (
	"time"
)

// Comment belongs to exactly one post and one author.
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	PostID     uint      `gorm:"not null;index" json:"post_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Post       *Post     `gorm:"foreignKey:PostID" json:"-"`
	LikesCount int       `gorm:"-:migration;->" json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
