package models

import (
	"time"
)

// EventKind identifies the state change a DomainEvent describes.
type EventKind string

const (
	EventFriendRequestSend   EventKind = "FRIEND_REQUEST_SEND"
	EventFriendRequestAccept EventKind = "FRIEND_REQUEST_ACCEPT"
	EventFriendRequestReject EventKind = "FRIEND_REQUEST_REJECT"
	EventPostLike            EventKind = "POST_LIKE"
	EventPostComment         EventKind = "POST_COMMENT"
	EventCommentLike         EventKind = "COMMENT_LIKE"
	EventUpdateProfile       EventKind = "UPDATE_PROFILE"
)

// DomainEvent is an immutable notice of a committed state change. It travels
// on the event bus and is never stored as-is.
type DomainEvent struct {
	Kind        EventKind `json:"kind"`
	ActorID     uint      `json:"actor_id"`
	RecipientID uint      `json:"recipient_id"`
	Message     string    `json:"message"`
	Link        string    `json:"link"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// SelfAddressed reports whether the actor and the recipient are the same user.
func (e DomainEvent) SelfAddressed() bool {
	return e.ActorID == e.RecipientID
}
