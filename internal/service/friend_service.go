package service

import (
	"context"
	"time"

	"kinship/internal/events"
	"kinship/internal/models"

	"gorm.io/gorm"
)

// FriendService drives the friend-request state machine. Every transition
// locks both user rows in ascending id order before reading the pair state,
// so concurrent transitions on the same pair are serialised.
type FriendService struct {
	graph
}

// NewFriendService returns a new FriendService.
func NewFriendService(uow *events.UnitOfWork) *FriendService {
	return &FriendService{graph: newGraph(uow)}
}

// SendRequest records a pending request from senderID to receiverID.
func (s *FriendService) SendRequest(ctx context.Context, senderID, receiverID uint) error {
	if senderID == receiverID {
		return models.NewInvalidStateError("Cannot send friend request to oneself")
	}

	return s.uow.Do(ctx, func(tx *gorm.DB, out *events.Outbox) error {
		st := s.stores(tx)
		if _, err := st.Users.LockForUpdate(ctx, senderID, receiverID); err != nil {
			return err
		}

		status, err := relationship(ctx, st.Friends, senderID, receiverID)
		if err != nil {
			return err
		}
		switch status {
		case models.RelationshipFriends:
			return models.NewInvalidStateError("You are already friends with this user.")
		case models.RelationshipPendingSent:
			return models.NewInvalidStateError("Friend request already sent to this user.")
		case models.RelationshipPendingReceived:
			return models.NewInvalidStateError("This user has already sent you a friend request.")
		}

		if err := st.Friends.CreateRequest(ctx, senderID, receiverID, time.Now().UTC()); err != nil {
			return err
		}
		out.Stage(events.FriendRequestSent(senderID, receiverID))
		return nil
	})
}

// AcceptRequest turns the pending request from senderID into a friendship.
func (s *FriendService) AcceptRequest(ctx context.Context, receiverID, senderID uint) error {
	return s.uow.Do(ctx, func(tx *gorm.DB, out *events.Outbox) error {
		st := s.stores(tx)
		if _, err := st.Users.LockForUpdate(ctx, receiverID, senderID); err != nil {
			return err
		}

		existed, err := st.Friends.DeleteRequest(ctx, senderID, receiverID)
		if err != nil {
			return err
		}
		if !existed {
			return models.NewInvalidStateError("No friend request from this user.")
		}
		if err := st.Friends.CreateFriendship(ctx, senderID, receiverID); err != nil {
			return err
		}
		out.Stage(events.FriendRequestAccepted(receiverID, senderID))
		return nil
	})
}

// RejectRequest drops the pending request from senderID and tells the sender.
func (s *FriendService) RejectRequest(ctx context.Context, receiverID, senderID uint) error {
	return s.uow.Do(ctx, func(tx *gorm.DB, out *events.Outbox) error {
		st := s.stores(tx)
		if _, err := st.Users.LockForUpdate(ctx, receiverID, senderID); err != nil {
			return err
		}

		existed, err := st.Friends.DeleteRequest(ctx, senderID, receiverID)
		if err != nil {
			return err
		}
		if !existed {
			return models.NewInvalidStateError("No friend request from this user.")
		}
		out.Stage(events.FriendRequestRejected(receiverID, senderID))
		return nil
	})
}

// CancelRequest withdraws a request senderID sent. Nobody is notified.
func (s *FriendService) CancelRequest(ctx context.Context, senderID, receiverID uint) error {
	return s.uow.Do(ctx, func(tx *gorm.DB, _ *events.Outbox) error {
		st := s.stores(tx)
		if _, err := st.Users.LockForUpdate(ctx, senderID, receiverID); err != nil {
			return err
		}

		existed, err := st.Friends.DeleteRequest(ctx, senderID, receiverID)
		if err != nil {
			return err
		}
		if !existed {
			return models.NewInvalidStateError("No sent friend request to this user.")
		}
		return nil
	})
}

// RemoveFriend ends the friendship between userID and friendID.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendID uint) error {
	return s.uow.Do(ctx, func(tx *gorm.DB, _ *events.Outbox) error {
		st := s.stores(tx)
		if _, err := st.Users.LockForUpdate(ctx, userID, friendID); err != nil {
			return err
		}

		removed, err := st.Friends.DeleteFriendship(ctx, userID, friendID)
		if err != nil {
			return err
		}
		if !removed {
			return models.NewInvalidStateError("This user is not in your friends list.")
		}
		return nil
	})
}

// RelationshipStatus reports the pair state as seen by userID.
func (s *FriendService) RelationshipStatus(ctx context.Context, userID, otherID uint) (models.RelationshipStatus, error) {
	st := s.read()
	if _, err := st.Users.GetByID(ctx, otherID); err != nil {
		return "", err
	}
	return relationship(ctx, st.Friends, userID, otherID)
}

type pairReader interface {
	AreFriends(ctx context.Context, a, b uint) (bool, error)
	HasRequest(ctx context.Context, senderID, receiverID uint) (bool, error)
}

func relationship(ctx context.Context, friends pairReader, a, b uint) (models.RelationshipStatus, error) {
	if a == b {
		return models.RelationshipNone, nil
	}
	ok, err := friends.AreFriends(ctx, a, b)
	if err != nil {
		return "", err
	}
	if ok {
		return models.RelationshipFriends, nil
	}
	if ok, err = friends.HasRequest(ctx, a, b); err != nil {
		return "", err
	} else if ok {
		return models.RelationshipPendingSent, nil
	}
	if ok, err = friends.HasRequest(ctx, b, a); err != nil {
		return "", err
	} else if ok {
		return models.RelationshipPendingReceived, nil
	}
	return models.RelationshipNone, nil
}
