package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskmaster/internal/model"
)

// NotificationRepository stores the append-only notification log.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *model.TaskNotification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) ListByTask(ctx context.Context, taskID uuid.UUID, limit int) ([]model.TaskNotification, error) {
	q := r.db.WithContext(ctx).Where("task_id = ?", taskID).Order("sent_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var notifications []model.TaskNotification
	if err := q.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// ListByUser returns notifications for every task owned by the user, newest
// first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uint, unreadOnly bool) ([]model.TaskNotification, error) {
	q := r.db.WithContext(ctx).
		Joins("JOIN tasks ON tasks.id = task_notifications.task_id").
		Where("tasks.user_id = ?", userID).
		Order("task_notifications.sent_at DESC")
	if unreadOnly {
		q = q.Where("task_notifications.is_read = ?", false)
	}
	var notifications []model.TaskNotification
	if err := q.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// FindByIDForUser loads a notification only if its task belongs to the user.
func (r *NotificationRepository) FindByIDForUser(ctx context.Context, userID uint, id uint) (*model.TaskNotification, error) {
	var n model.TaskNotification
	if err := r.db.WithContext(ctx).
		Joins("JOIN tasks ON tasks.id = task_notifications.task_id").
		Where("tasks.user_id = ? AND task_notifications.id = ?", userID, id).
		First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, n *model.TaskNotification) error {
	n.IsRead = true
	if err := r.db.WithContext(ctx).Save(n).Error; err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

func (r *NotificationRepository) RecordAction(ctx context.Context, n *model.TaskNotification, action string) error {
	n.ActionTaken = action
	if err := r.db.WithContext(ctx).Save(n).Error; err != nil {
		return fmt.Errorf("record notification action: %w", err)
	}
	return nil
}

// ExistsForTask reports whether a notification of the given type was already
// produced for the task. Used to emit overdue/due-soon notices only once.
func (r *NotificationRepository) ExistsForTask(ctx context.Context, taskID uuid.UUID, typ model.NotificationType) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.TaskNotification{}).
		Where("task_id = ? AND notification_type = ?", taskID, typ).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
