package models

import (
	"time"
)

// PostLike records a user's membership in a post's liker set.
// The composite key makes a second like by the same user impossible.
type PostLike struct {
	PostID    uint      `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (PostLike) TableName() string {
	return "post_likes"
}

// CommentLike records a user's membership in a comment's liker set.
type CommentLike struct {
	CommentID uint      `gorm:"primaryKey;autoIncrement:false" json:"comment_id"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (CommentLike) TableName() string {
	return "comment_likes"
}
