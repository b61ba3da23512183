package models

import (
	"time"
)

// RelationshipStatus is the friend state of a pair seen from one side.
type RelationshipStatus string

const (
	// RelationshipNone means neither a friendship nor a pending request exists.
	RelationshipNone RelationshipStatus = "none"
	// RelationshipPendingSent means the viewer has a pending request to the other user.
	RelationshipPendingSent RelationshipStatus = "pending_sent"
	// RelationshipPendingReceived means the other user has a pending request to the viewer.
	RelationshipPendingReceived RelationshipStatus = "pending_received"
	// RelationshipFriends means the pair are friends.
	RelationshipFriends RelationshipStatus = "friends"
)

// Friendship is one direction of a symmetric friend link. Both directions are stored.
type Friendship struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	FriendID  uint      `gorm:"primaryKey;autoIncrement:false;index" json:"friend_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Friendship) TableName() string {
	return "friendships"
}

// FriendRequest is a live pending request from SenderID to ReceiverID.
type FriendRequest struct {
	SenderID   uint      `gorm:"primaryKey;autoIncrement:false" json:"sender_id"`
	ReceiverID uint      `gorm:"primaryKey;autoIncrement:false;index" json:"receiver_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (FriendRequest) TableName() string {
	return "friend_requests"
}

// FriendRequestMeta keeps the send time of a pending request. Rows are only
// inserted and deleted, never updated.
type FriendRequestMeta struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;uniqueIndex:idx_friend_request_meta_pair" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;uniqueIndex:idx_friend_request_meta_pair;index" json:"receiver_id"`
	SentAt     time.Time `gorm:"not null" json:"sent_at"`
}

// TableName specifies the table name for GORM
func (FriendRequestMeta) TableName() string {
	return "friend_request_meta"
}

// FriendRequestView is a pending request as shown to one of its parties.
type FriendRequestView struct {
	User   UserSummary `json:"user"`
	SentAt time.Time   `json:"sent_at"`
}
