package service

import (
	"context"
	"strings"

	"kinship/internal/events"
	"kinship/internal/models"

	"gorm.io/gorm"
)

const (
	maxPostContent   = 50000
	defaultPageLimit = 20
)

type PostService struct {
	graph
}

type CreatePostInput struct {
	UserID  uint
	Content string
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Content string
}

type ListPostsInput struct {
	UserID uint
	Limit  int
	Offset int
}

func NewPostService(uow *events.UnitOfWork) *PostService {
	return &PostService{graph: newGraph(uow)}
}

func validPostContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", models.NewValidationError("Content is required")
	}
	if len(content) > maxPostContent {
		return "", models.NewValidationError("Content too long (max 50000 characters)")
	}
	return content, nil
}

func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	content, err := validPostContent(in.Content)
	if err != nil {
		return nil, err
	}

	st := s.read()
	if _, err := st.Users.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}

	post := &models.Post{UserID: in.UserID, Content: content}
	if err := st.Posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return st.Posts.GetByID(ctx, post.ID)
}

func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	return s.read().Posts.GetByID(ctx, id)
}

// Update replaces the post's content. Only the owner may edit it.
func (s *PostService) Update(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	content, err := validPostContent(in.Content)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(tx *gorm.DB, _ *events.Outbox) error {
		st := s.stores(tx)
		post, err := st.Posts.LockForUpdate(ctx, in.PostID)
		if err != nil {
			return err
		}
		if post.UserID != in.UserID {
			return models.NewUnauthorizedError("You can only update your own posts")
		}
		return st.Posts.UpdateContent(ctx, in.PostID, content)
	})
	if err != nil {
		return nil, err
	}
	return s.read().Posts.GetByID(ctx, in.PostID)
}

// List is the global feed, newest first.
func (s *PostService) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.read().Posts.List(ctx, pageLimit(limit), max(offset, 0))
}

func (s *PostService) ListByUser(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	st := s.read()
	if _, err := st.Users.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}
	return st.Posts.ListByUser(ctx, in.UserID, pageLimit(in.Limit), max(in.Offset, 0))
}

func (s *PostService) Search(ctx context.Context, query string, limit, offset int) ([]*models.Post, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.read().Posts.Search(ctx, query, pageLimit(limit), max(offset, 0))
}

// Delete removes the post with its likes and comments. Only the owner may
// delete it.
func (s *PostService) Delete(ctx context.Context, userID, postID uint) error {
	return s.uow.Do(ctx, func(tx *gorm.DB, _ *events.Outbox) error {
		st := s.stores(tx)
		post, err := st.Posts.LockForUpdate(ctx, postID)
		if err != nil {
			return err
		}
		if post.UserID != userID {
			return models.NewUnauthorizedError("You can only delete your own posts")
		}
		return st.Posts.Delete(ctx, postID)
	})
}

func (s *PostService) Likers(ctx context.Context, postID uint) ([]models.UserSummary, error) {
	st := s.read()
	if _, err := st.Posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	users, err := st.Posts.Likers(ctx, postID)
	if err != nil {
		return nil, err
	}
	return summaries(users), nil
}

// LikePost adds userID to the post's liker set and notifies the owner.
func (s *PostService) LikePost(ctx context.Context, userID, postID uint) error {
	return s.uow.Do(ctx, func(tx *gorm.DB, out *events.Outbox) error {
		st := s.stores(tx)
		if _, err := st.Users.LockForUpdate(ctx, userID); err != nil {
			return err
		}
		post, err := st.Posts.LockForUpdate(ctx, postID)
		if err != nil {
			return err
		}
		if post.UserID == userID {
			return models.NewInvalidStateError("You cannot like your own post")
		}

		liked, err := st.Posts.HasLike(ctx, postID, userID)
		if err != nil {
			return err
		}
		if liked {
			return models.NewInvalidStateError("already liked")
		}
		// The composite key still catches a like that raced past HasLike.
		if err := st.Posts.AddLike(ctx, postID, userID); err != nil {
			return err
		}
		out.Stage(events.PostLiked(userID, post.UserID, postID))
		return nil
	})
}

func (s *PostService) UnlikePost(ctx context.Context, userID, postID uint) error {
	return s.uow.Do(ctx, func(tx *gorm.DB, _ *events.Outbox) error {
		st := s.stores(tx)
		if _, err := st.Users.LockForUpdate(ctx, userID); err != nil {
			return err
		}
		if _, err := st.Posts.LockForUpdate(ctx, postID); err != nil {
			return err
		}
		removed, err := st.Posts.RemoveLike(ctx, postID, userID)
		if err != nil {
			return err
		}
		if !removed {
			return models.NewInvalidStateError("The user has not liked this post")
		}
		return nil
	})
}

func summaries(users []models.User) []models.UserSummary {
	out := make([]models.UserSummary, 0, len(users))
	for i := range users {
		out = append(out, users[i].Summary())
	}
	return out
}

func pageLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return defaultPageLimit
	}
	return limit
}
