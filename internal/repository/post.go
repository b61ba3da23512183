package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"kinship/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts and their liker sets.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	LockForUpdate(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*models.Post, error)
	UpdateContent(ctx context.Context, id uint, content string) error
	Delete(ctx context.Context, id uint) error
	HasLike(ctx context.Context, postID, userID uint) (bool, error)
	AddLike(ctx context.Context, postID, userID uint) error
	RemoveLike(ctx context.Context, postID, userID uint) (bool, error)
	Likers(ctx context.Context, postID uint) ([]models.User, error)
	EngagementStats(ctx context.Context) ([]models.PostStats, error)
	IDsByUser(ctx context.Context, userID uint) ([]uint, error)
	DeleteAllByUser(ctx context.Context, userID uint) error
	DeleteLikesByUser(ctx context.Context, userID uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx)).
		Preload("User").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// LockForUpdate loads a bare post row under a row lock.
func (r *postRepository) LockForUpdate(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := forUpdate(r.db.WithContext(ctx)).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// List returns the feed of every post, newest first.
func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx)).
		Preload("User").
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) UpdateContent(ctx context.Context, id uint, content string) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Update("content", content)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx)).
		Preload("User").
		Where("posts.user_id = ?", userID).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Search(ctx context.Context, query string, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	like := "%" + strings.ToLower(query) + "%"
	err := r.applyPostDetails(r.db.WithContext(ctx)).
		Preload("User").
		Where("LOWER(posts.content) LIKE ?", like).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// applyPostDetails adds subqueries to fetch counts in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) as comments_count, " +
		"(SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = posts.id) as likes_count")
}

// Delete removes the post together with its comments and every like that
// hangs off either.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	commentIDs := db.Model(&models.Comment{}).Select("id").Where("post_id = ?", id)
	if err := db.Where("comment_id IN (?)", commentIDs).Delete(&models.CommentLike{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := db.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := db.Where("post_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	res := db.Delete(&models.Post{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

func (r *postRepository) HasLike(ctx context.Context, postID, userID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PostLike{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// AddLike inserts userID into the post's liker set. The composite key
// rejects a second insert, which surfaces as INVALID_STATE.
func (r *postRepository) AddLike(ctx context.Context, postID, userID uint) error {
	like := &models.PostLike{PostID: postID, UserID: userID, CreatedAt: time.Now()}
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewInvalidStateError("already liked")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) RemoveLike(ctx context.Context, postID, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.PostLike{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Likers returns the users in the post's liker set, earliest like first.
func (r *postRepository) Likers(ctx context.Context, postID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN post_likes ON post_likes.user_id = users.id").
		Where("post_likes.post_id = ?", postID).
		Order("post_likes.created_at ASC, users.id ASC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// EngagementStats returns the like and comment counts of every post.
func (r *postRepository) EngagementStats(ctx context.Context) ([]models.PostStats, error) {
	var stats []models.PostStats
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("posts.id AS post_id, posts.user_id, posts.created_at, " +
			"(SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = posts.id) AS like_count, " +
			"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count").
		Order("posts.id ASC").
		Scan(&stats).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return stats, nil
}

func (r *postRepository) IDsByUser(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("user_id = ?", userID).Pluck("id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

// DeleteAllByUser removes every post authored by userID along with their
// comments and likes.
func (r *postRepository) DeleteAllByUser(ctx context.Context, userID uint) error {
	db := r.db.WithContext(ctx)
	postIDs := db.Model(&models.Post{}).Select("id").Where("user_id = ?", userID)
	commentIDs := db.Model(&models.Comment{}).Select("id").Where("post_id IN (?)", postIDs)
	if err := db.Where("comment_id IN (?)", commentIDs).Delete(&models.CommentLike{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := db.Where("post_id IN (?)", postIDs).Delete(&models.Comment{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := db.Where("post_id IN (?)", postIDs).Delete(&models.PostLike{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := db.Where("user_id = ?", userID).Delete(&models.Post{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// DeleteLikesByUser removes userID from every post liker set.
func (r *postRepository) DeleteLikesByUser(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.PostLike{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
