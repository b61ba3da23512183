package repository

import (
	"gorm.io/gorm"
)

// Stores bundles every repository over one database handle, usually a
// transaction opened by a unit of work.
type Stores struct {
	Users         UserRepository
	Friends       FriendRepository
	Posts         PostRepository
	Comments      CommentRepository
	Notifications NotificationRepository
}

// NewStores builds the repositories over db.
func NewStores(db *gorm.DB) Stores {
	return Stores{
		Users:         NewUserRepository(db),
		Friends:       NewFriendRepository(db),
		Posts:         NewPostRepository(db),
		Comments:      NewCommentRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}
