package repository

import (
	"context"
	"errors"
	"time"

	"kinship/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	LockForUpdate(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint) error
	AddLike(ctx context.Context, commentID, userID uint) error
	RemoveLike(ctx context.Context, commentID, userID uint) (bool, error)
	Likers(ctx context.Context, commentID uint) ([]models.User, error)
	DeleteAllByUser(ctx context.Context, userID uint) error
	DeleteLikesByUser(ctx context.Context, userID uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

const commentSelect = "comments.*, " +
	"(SELECT COUNT(*) FROM comment_likes WHERE comment_likes.comment_id = comments.id) as likes_count"

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Select(commentSelect).Preload("User").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *commentRepository) LockForUpdate(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := forUpdate(r.db.WithContext(ctx)).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Select(commentSelect).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at desc, id desc").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Select(commentSelect).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Model(comment).Update("content", comment.Content).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("comment_id = ?", id).Delete(&models.CommentLike{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	res := db.Delete(&models.Comment{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	return nil
}

func (r *commentRepository) AddLike(ctx context.Context, commentID, userID uint) error {
	like := &models.CommentLike{CommentID: commentID, UserID: userID, CreatedAt: time.Now()}
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewInvalidStateError("already liked")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) RemoveLike(ctx context.Context, commentID, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&models.CommentLike{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *commentRepository) Likers(ctx context.Context, commentID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN comment_likes ON comment_likes.user_id = users.id").
		Where("comment_likes.comment_id = ?", commentID).
		Order("comment_likes.created_at ASC, users.id ASC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// DeleteAllByUser removes every comment userID wrote, with their likes.
func (r *commentRepository) DeleteAllByUser(ctx context.Context, userID uint) error {
	db := r.db.WithContext(ctx)
	ids := db.Model(&models.Comment{}).Select("id").Where("user_id = ?", userID)
	if err := db.Where("comment_id IN (?)", ids).Delete(&models.CommentLike{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := db.Where("user_id = ?", userID).Delete(&models.Comment{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) DeleteLikesByUser(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CommentLike{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
