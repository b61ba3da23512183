package service

import (
	"context"
	"strings"

	"kinship/internal/events"
	"kinship/internal/models"

	"gorm.io/gorm"
)

const maxCommentLen = 10000

type CommentService struct {
	graph
}

type CreateCommentInput struct {
	UserID  uint
	PostID  uint
	Content string
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Content   string
}

func NewCommentService(uow *events.UnitOfWork) *CommentService {
	return &CommentService{graph: newGraph(uow)}
}

func validCommentContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentLen {
		return "", models.NewValidationError("Comment too long (max 10000 characters)")
	}
	return content, nil
}

// Create adds a comment and tells the post owner, unless the owner wrote it.
func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	content, err := validCommentContent(in.Content)
	if err != nil {
		return nil, err
	}

	var id uint
	err = s.uow.Do(ctx, func(tx *gorm.DB, out *events.Outbox) error {
		st := s.stores(tx)
		if _, err := st.Users.GetByID(ctx, in.UserID); err != nil {
			return err
		}
		post, err := st.Posts.LockForUpdate(ctx, in.PostID)
		if err != nil {
			return err
		}

		comment := &models.Comment{UserID: in.UserID, PostID: in.PostID, Content: content}
		if err := st.Comments.Create(ctx, comment); err != nil {
			return err
		}
		id = comment.ID

		if post.UserID != in.UserID {
			out.Stage(events.PostCommented(in.UserID, post.UserID, post.ID, content))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.read().Comments.GetByID(ctx, id)
}

func (s *CommentService) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	st := s.read()
	if _, err := st.Posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return st.Comments.ListByPost(ctx, postID)
}

func (s *CommentService) Get(ctx context.Context, id uint) (*models.Comment, error) {
	return s.read().Comments.GetByID(ctx, id)
}

// ListByUser returns every comment userID wrote, newest first.
func (s *CommentService) ListByUser(ctx context.Context, userID uint) ([]*models.Comment, error) {
	st := s.read()
	if _, err := st.Users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return st.Comments.ListByUser(ctx, userID)
}

func (s *CommentService) Update(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	content, err := validCommentContent(in.Content)
	if err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(tx *gorm.DB, _ *events.Outbox) error {
		st := s.stores(tx)
		comment, err := st.Comments.LockForUpdate(ctx, in.CommentID)
		if err != nil {
			return err
		}
		if comment.UserID != in.UserID {
			return models.NewUnauthorizedError("You can only update your own comments")
		}
		comment.Content = content
		return st.Comments.Update(ctx, comment)
	})
	if err != nil {
		return nil, err
	}
	return s.read().Comments.GetByID(ctx, in.CommentID)
}

func (s *CommentService) Delete(ctx context.Context, userID, commentID uint) error {
	return s.uow.Do(ctx, func(tx *gorm.DB, _ *events.Outbox) error {
		st := s.stores(tx)
		comment, err := st.Comments.LockForUpdate(ctx, commentID)
		if err != nil {
			return err
		}
		if comment.UserID != userID {
			return models.NewUnauthorizedError("You can only delete your own comments")
		}
		return st.Comments.Delete(ctx, commentID)
	})
}

// LikeComment adds userID to the comment's liker set and notifies the author.
func (s *CommentService) LikeComment(ctx context.Context, userID, commentID uint) error {
	return s.uow.Do(ctx, func(tx *gorm.DB, out *events.Outbox) error {
		st := s.stores(tx)
		if _, err := st.Users.LockForUpdate(ctx, userID); err != nil {
			return err
		}
		comment, err := st.Comments.LockForUpdate(ctx, commentID)
		if err != nil {
			return err
		}
		if comment.UserID == userID {
			return models.NewInvalidStateError("You cannot like your own comment")
		}
		if err := st.Comments.AddLike(ctx, commentID, userID); err != nil {
			return err
		}
		out.Stage(events.CommentLiked(userID, comment.UserID, comment.PostID, comment.Content))
		return nil
	})
}

func (s *CommentService) UnlikeComment(ctx context.Context, userID, commentID uint) error {
	return s.uow.Do(ctx, func(tx *gorm.DB, _ *events.Outbox) error {
		st := s.stores(tx)
		if _, err := st.Users.LockForUpdate(ctx, userID); err != nil {
			return err
		}
		if _, err := st.Comments.LockForUpdate(ctx, commentID); err != nil {
			return err
		}
		removed, err := st.Comments.RemoveLike(ctx, commentID, userID)
		if err != nil {
			return err
		}
		if !removed {
			return models.NewInvalidStateError("The user has not liked this comment")
		}
		return nil
	})
}

func (s *CommentService) Likers(ctx context.Context, commentID uint) ([]models.UserSummary, error) {
	st := s.read()
	if _, err := st.Comments.GetByID(ctx, commentID); err != nil {
		return nil, err
	}
	users, err := st.Comments.Likers(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return summaries(users), nil
}
