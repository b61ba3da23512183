package repository

import (
	"context"
	"errors"

	"kinship/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository defines persistence for the notification projection.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByRecipient(ctx context.Context, recipientID uint) ([]models.NotificationView, error)
	GetByIDAndRecipient(ctx context.Context, id, recipientID uint) (*models.Notification, error)
	MarkRead(ctx context.Context, id, recipientID uint) error
	MarkAllRead(ctx context.Context, recipientID uint) (int64, error)
	Delete(ctx context.Context, id, recipientID uint) error
	DeleteAllByRecipient(ctx context.Context, recipientID uint) (int64, error)
	DeleteAllForUser(ctx context.Context, userID uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

type notificationRow struct {
	models.Notification
	NotifierUsername  string
	NotifierFirstName string
	NotifierLastName  string
}

// ListByRecipient returns the recipient's notifications newest first. Rows
// whose notifier no longer exists are skipped by the inner join.
func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID uint) ([]models.NotificationView, error) {
	var rows []notificationRow
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Select("notifications.*, users.username AS notifier_username, " +
			"users.first_name AS notifier_first_name, users.last_name AS notifier_last_name").
		Joins("JOIN users ON users.id = notifications.notifier_id").
		Where("notifications.recipient_id = ?", recipientID).
		Order("notifications.created_at DESC, notifications.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	views := make([]models.NotificationView, 0, len(rows))
	for _, row := range rows {
		views = append(views, models.NotificationView{
			Notification: row.Notification,
			Notifier: models.UserSummary{
				ID:        row.NotifierID,
				Username:  row.NotifierUsername,
				FirstName: row.NotifierFirstName,
				LastName:  row.NotifierLastName,
			},
		})
	}
	return views, nil
}

func (r *notificationRepository) GetByIDAndRecipient(ctx context.Context, id, recipientID uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).Where("id = ? AND recipient_id = ?", id, recipientID).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Notification", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &n, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, recipientID uint) error {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("read", true)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Notification", id)
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Update("read", true)
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *notificationRepository) Delete(ctx context.Context, id, recipientID uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND recipient_id = ?", id, recipientID).Delete(&models.Notification{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Notification", id)
	}
	return nil
}

func (r *notificationRepository) DeleteAllByRecipient(ctx context.Context, recipientID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("recipient_id = ?", recipientID).Delete(&models.Notification{})
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteAllForUser removes notifications the user received or caused.
func (r *notificationRepository) DeleteAllForUser(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).
		Where("recipient_id = ? OR notifier_id = ?", userID, userID).
		Delete(&models.Notification{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
