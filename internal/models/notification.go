package models

import (
	"time"
)

// Notification is the persisted projection of a DomainEvent.
type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RecipientID uint      `gorm:"not null;index:idx_notifications_recipient_created,priority:1" json:"recipient_id"`
	NotifierID  uint      `gorm:"not null;index" json:"notifier_id"`
	Kind        EventKind `gorm:"type:varchar(40);not null" json:"kind"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	Link        string    `json:"link"`
	Read        bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt   time.Time `gorm:"index:idx_notifications_recipient_created,priority:2" json:"created_at"`
}

// NotificationView is a notification joined with its notifier.
type NotificationView struct {
	Notification
	Notifier UserSummary `json:"notifier"`
}
