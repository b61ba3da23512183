package repository

import (
	"context"
	"time"

	"kinship/internal/models"

	"gorm.io/gorm"
)

// FriendRepository stores friendships and pending friend requests.
// Friendships are kept as two directed rows so adjacency reads are a
// single indexed lookup.
type FriendRepository interface {
	AreFriends(ctx context.Context, a, b uint) (bool, error)
	HasRequest(ctx context.Context, senderID, receiverID uint) (bool, error)
	CreateRequest(ctx context.Context, senderID, receiverID uint, sentAt time.Time) error
	DeleteRequest(ctx context.Context, senderID, receiverID uint) (bool, error)
	CreateFriendship(ctx context.Context, a, b uint) error
	DeleteFriendship(ctx context.Context, a, b uint) (bool, error)
	FriendIDs(ctx context.Context, userID uint) ([]uint, error)
	FriendIDsOf(ctx context.Context, userIDs []uint) (map[uint][]uint, error)
	PendingCounterpartIDs(ctx context.Context, userID uint) ([]uint, error)
	SentRequests(ctx context.Context, userID uint) ([]models.FriendRequestView, error)
	ReceivedRequests(ctx context.Context, userID uint) ([]models.FriendRequestView, error)
	DeleteAllForUser(ctx context.Context, userID uint) error
}

type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new friend repository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) AreFriends(ctx context.Context, a, b uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("user_id = ? AND friend_id = ?", a, b).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *friendRepository) HasRequest(ctx context.Context, senderID, receiverID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.FriendRequest{}).
		Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// CreateRequest inserts the pending request and its send-time record.
// A duplicate is reported as INVALID_STATE.
func (r *friendRepository) CreateRequest(ctx context.Context, senderID, receiverID uint, sentAt time.Time) error {
	db := r.db.WithContext(ctx)
	req := &models.FriendRequest{SenderID: senderID, ReceiverID: receiverID, CreatedAt: sentAt}
	if err := db.Create(req).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewInvalidStateError("friend request already sent")
		}
		return models.NewInternalError(err)
	}
	meta := &models.FriendRequestMeta{SenderID: senderID, ReceiverID: receiverID, SentAt: sentAt}
	if err := db.Create(meta).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewInvalidStateError("friend request already sent")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// DeleteRequest removes the request and its send-time record and reports
// whether a request existed.
func (r *friendRepository) DeleteRequest(ctx context.Context, senderID, receiverID uint) (bool, error) {
	db := r.db.WithContext(ctx)
	res := db.Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).Delete(&models.FriendRequest{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	if err := db.Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).
		Delete(&models.FriendRequestMeta{}).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return res.RowsAffected > 0, nil
}

func (r *friendRepository) CreateFriendship(ctx context.Context, a, b uint) error {
	now := time.Now()
	rows := []models.Friendship{
		{UserID: a, FriendID: b, CreatedAt: now},
		{UserID: b, FriendID: a, CreatedAt: now},
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewInvalidStateError("users are already friends")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *friendRepository) DeleteFriendship(ctx context.Context, a, b uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", a, b, b, a).
		Delete(&models.Friendship{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *friendRepository) FriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("user_id = ?", userID).
		Order("friend_id ASC").
		Pluck("friend_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

// FriendIDsOf returns the friend lists of several users in one query.
func (r *friendRepository) FriendIDsOf(ctx context.Context, userIDs []uint) (map[uint][]uint, error) {
	out := make(map[uint][]uint, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var rows []models.Friendship
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("user_id ASC, friend_id ASC").
		Find(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], row.FriendID)
	}
	return out, nil
}

// PendingCounterpartIDs lists everyone with a pending request to or from userID.
func (r *friendRepository) PendingCounterpartIDs(ctx context.Context, userID uint) ([]uint, error) {
	var rows []models.FriendRequest
	if err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Find(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		if row.SenderID == userID {
			ids = append(ids, row.ReceiverID)
		} else {
			ids = append(ids, row.SenderID)
		}
	}
	return uniqueIDs(ids), nil
}

type requestRow struct {
	models.User
	SentAt time.Time
}

func (r *friendRepository) SentRequests(ctx context.Context, userID uint) ([]models.FriendRequestView, error) {
	return r.requestViews(ctx, "friend_request_meta.receiver_id", "friend_request_meta.sender_id = ?", userID)
}

func (r *friendRepository) ReceivedRequests(ctx context.Context, userID uint) ([]models.FriendRequestView, error) {
	return r.requestViews(ctx, "friend_request_meta.sender_id", "friend_request_meta.receiver_id = ?", userID)
}

func (r *friendRepository) requestViews(ctx context.Context, joinCol, where string, userID uint) ([]models.FriendRequestView, error) {
	var rows []requestRow
	if err := r.db.WithContext(ctx).
		Table("friend_request_meta").
		Select("users.*, friend_request_meta.sent_at AS sent_at").
		Joins("JOIN users ON users.id = "+joinCol).
		Where(where, userID).
		Order("friend_request_meta.sent_at DESC, users.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	views := make([]models.FriendRequestView, 0, len(rows))
	for i := range rows {
		views = append(views, models.FriendRequestView{User: rows[i].User.Summary(), SentAt: rows[i].SentAt})
	}
	return views, nil
}

// DeleteAllForUser removes every friendship and request that touches userID.
func (r *friendRepository) DeleteAllForUser(ctx context.Context, userID uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("user_id = ? OR friend_id = ?", userID, userID).Delete(&models.Friendship{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := db.Where("sender_id = ? OR receiver_id = ?", userID, userID).Delete(&models.FriendRequest{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := db.Where("sender_id = ? OR receiver_id = ?", userID, userID).Delete(&models.FriendRequestMeta{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
