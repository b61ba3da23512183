package service

import (
	"context"

	"kinship/internal/events"
	"kinship/internal/models"

	"gorm.io/gorm"
)

// NotificationService is the recipient's view of their notifications.
type NotificationService struct {
	graph
}

func NewNotificationService(uow *events.UnitOfWork) *NotificationService {
	return &NotificationService{graph: newGraph(uow)}
}

// List returns the recipient's notifications, newest first. Entries whose
// notifier has been deleted are left out.
func (s *NotificationService) List(ctx context.Context, recipientID uint) ([]models.NotificationView, error) {
	return s.read().Notifications.ListByRecipient(ctx, recipientID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, recipientID uint) error {
	return s.read().Notifications.MarkRead(ctx, id, recipientID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	return s.read().Notifications.MarkAllRead(ctx, recipientID)
}

func (s *NotificationService) Delete(ctx context.Context, id, recipientID uint) error {
	return s.read().Notifications.Delete(ctx, id, recipientID)
}

func (s *NotificationService) DeleteAll(ctx context.Context, recipientID uint) (int64, error) {
	var n int64
	err := s.uow.Do(ctx, func(tx *gorm.DB, _ *events.Outbox) error {
		var err error
		n, err = s.stores(tx).Notifications.DeleteAllByRecipient(ctx, recipientID)
		return err
	})
	return n, err
}
