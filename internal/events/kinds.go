package events

import (
	"fmt"
	"time"

	"kinship/internal/models"
)

// Message bodies are suffixes; clients prefix the notifier's name.
const (
	msgFriendRequestSend   = " has sent you a friend request."
	msgFriendRequestAccept = " has accepted your friend request."
	msgFriendRequestReject = " has rejected your friend request."
	msgPostLike            = " has liked your post."
	msgUpdateProfile       = "Your profile details has been updated successfully."
)

func userLink(id uint) string { return fmt.Sprintf("/users/%d", id) }
func postLink(id uint) string { return fmt.Sprintf("/posts/%d", id) }

func newEvent(kind models.EventKind, actor, recipient uint, message, link string) models.DomainEvent {
	return models.DomainEvent{
		Kind:        kind,
		ActorID:     actor,
		RecipientID: recipient,
		Message:     message,
		Link:        link,
		OccurredAt:  time.Now().UTC(),
	}
}

// FriendRequestSent is addressed to the receiver of a new request.
func FriendRequestSent(sender, receiver uint) models.DomainEvent {
	return newEvent(models.EventFriendRequestSend, sender, receiver, msgFriendRequestSend, userLink(sender))
}

// FriendRequestAccepted is addressed to the original sender.
func FriendRequestAccepted(receiver, sender uint) models.DomainEvent {
	return newEvent(models.EventFriendRequestAccept, receiver, sender, msgFriendRequestAccept, userLink(receiver))
}

// FriendRequestRejected is addressed to the original sender.
func FriendRequestRejected(receiver, sender uint) models.DomainEvent {
	return newEvent(models.EventFriendRequestReject, receiver, sender, msgFriendRequestReject, userLink(receiver))
}

func PostLiked(liker, owner, postID uint) models.DomainEvent {
	return newEvent(models.EventPostLike, liker, owner, msgPostLike, postLink(postID))
}

func PostCommented(author, owner, postID uint, content string) models.DomainEvent {
	return newEvent(models.EventPostComment, author, owner,
		fmt.Sprintf(" commented on your post: \"%s\".", content), postLink(postID))
}

func CommentLiked(liker, author, postID uint, content string) models.DomainEvent {
	return newEvent(models.EventCommentLike, liker, author,
		fmt.Sprintf(" liked your comment: \"%s\".", content), postLink(postID))
}

// ProfileUpdated is the account notice a user receives about their own edit.
func ProfileUpdated(userID uint) models.DomainEvent {
	return newEvent(models.EventUpdateProfile, userID, userID, msgUpdateProfile, "/profile")
}
