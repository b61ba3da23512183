// Package authz answers ownership questions for the HTTP layer. The graph
// services never consult it.
package authz

import (
	"context"
	"errors"

	"kinship/internal/models"
	"kinship/internal/repository"
)

// Policy is the set of ownership predicates checked before a mutation.
type Policy interface {
	IsSameUser(ctx context.Context, userID uint, email string) (bool, error)
	IsPostOwner(ctx context.Context, postID uint, email string) (bool, error)
	IsCommentOwner(ctx context.Context, commentID uint, email string) (bool, error)
	IsNotificationOwner(ctx context.Context, notificationID uint, email string) (bool, error)
}

// OwnershipPolicy resolves the caller by email and compares the id with the
// owner of the resource. Unknown callers and resources are simply not owned.
type OwnershipPolicy struct {
	users         repository.UserRepository
	posts         repository.PostRepository
	comments      repository.CommentRepository
	notifications repository.NotificationRepository
}

// NewOwnershipPolicy builds an OwnershipPolicy.
func NewOwnershipPolicy(
	users repository.UserRepository,
	posts repository.PostRepository,
	comments repository.CommentRepository,
	notifications repository.NotificationRepository,
) *OwnershipPolicy {
	return &OwnershipPolicy{users: users, posts: posts, comments: comments, notifications: notifications}
}

var _ Policy = (*OwnershipPolicy)(nil)

func (p *OwnershipPolicy) caller(ctx context.Context, email string) (uint, error) {
	u, err := p.users.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return 0, err
	}
	return u.ID, nil
}

func (p *OwnershipPolicy) IsSameUser(ctx context.Context, userID uint, email string) (bool, error) {
	id, err := p.caller(ctx, email)
	if err != nil || id == 0 {
		return false, err
	}
	return id == userID, nil
}

func (p *OwnershipPolicy) IsPostOwner(ctx context.Context, postID uint, email string) (bool, error) {
	id, err := p.caller(ctx, email)
	if err != nil || id == 0 {
		return false, err
	}
	post, err := p.posts.GetByID(ctx, postID)
	if err != nil {
		return false, ignoreNotFound(err)
	}
	return post.UserID == id, nil
}

func (p *OwnershipPolicy) IsCommentOwner(ctx context.Context, commentID uint, email string) (bool, error) {
	id, err := p.caller(ctx, email)
	if err != nil || id == 0 {
		return false, err
	}
	comment, err := p.comments.GetByID(ctx, commentID)
	if err != nil {
		return false, ignoreNotFound(err)
	}
	return comment.UserID == id, nil
}

func (p *OwnershipPolicy) IsNotificationOwner(ctx context.Context, notificationID uint, email string) (bool, error) {
	id, err := p.caller(ctx, email)
	if err != nil || id == 0 {
		return false, err
	}
	if _, err := p.notifications.GetByIDAndRecipient(ctx, notificationID, id); err != nil {
		return false, ignoreNotFound(err)
	}
	return true, nil
}

func ignoreNotFound(err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
		return nil
	}
	return err
}
