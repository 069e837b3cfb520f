package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType classifies why a notification was produced.
type NotificationType string

const (
	NotificationReminder  NotificationType = "reminder"
	NotificationOverdue   NotificationType = "overdue"
	NotificationDueSoon   NotificationType = "due_soon"
	NotificationCompleted NotificationType = "completed"
)

// TaskNotification is an append-only record of a reminder or lifecycle event
// tied to a task. SentAt is fixed at creation; only IsRead and ActionTaken
// change afterwards.
type TaskNotification struct {
	ID          uint             `gorm:"primaryKey"`
	TaskID      uuid.UUID        `gorm:"type:uuid;index"`
	Type        NotificationType `gorm:"column:notification_type"`
	Message     string
	SentAt      time.Time
	IsRead      bool   `gorm:"default:false"`
	ActionTaken string // e.g. snooze, complete, reschedule
}
