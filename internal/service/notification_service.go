package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taskmaster/internal/model"
	"taskmaster/internal/repository"
)

// NotificationService exposes the notification log: append on creation, then
// only the read flag and the recorded action may change.
type NotificationService struct {
	notifRepo *repository.NotificationRepository
	taskRepo  *repository.TaskRepository
}

func NewNotificationService(notifRepo *repository.NotificationRepository, taskRepo *repository.TaskRepository) *NotificationService {
	return &NotificationService{notifRepo: notifRepo, taskRepo: taskRepo}
}

// Record appends a notification for the task.
func (s *NotificationService) Record(ctx context.Context, task *model.Task, typ model.NotificationType, message string, now time.Time) (*model.TaskNotification, error) {
	notification := model.TaskNotification{
		TaskID:  task.ID,
		Type:    typ,
		Message: message,
		SentAt:  now,
	}
	if err := s.notifRepo.Create(ctx, &notification); err != nil {
		return nil, err
	}
	return &notification, nil
}

// ListForTask returns the task's notifications, newest first, after checking
// the task belongs to the user.
func (s *NotificationService) ListForTask(ctx context.Context, user *model.User, taskID uuid.UUID, limit int) ([]model.TaskNotification, error) {
	if _, err := s.taskRepo.FindByID(ctx, user.ID, taskID); err != nil {
		return nil, notFound(err, fmt.Sprintf("task %s", taskID))
	}
	return s.notifRepo.ListByTask(ctx, taskID, limit)
}

// ListForUser returns notifications across all of the user's tasks.
func (s *NotificationService) ListForUser(ctx context.Context, user *model.User, unreadOnly bool) ([]model.TaskNotification, error) {
	return s.notifRepo.ListByUser(ctx, user.ID, unreadOnly)
}

// MarkRead flips the read flag.
func (s *NotificationService) MarkRead(ctx context.Context, user *model.User, notificationID uint) (*model.TaskNotification, error) {
	notification, err := s.notifRepo.FindByIDForUser(ctx, user.ID, notificationID)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("notification %d", notificationID))
	}
	if err := s.notifRepo.MarkRead(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// RecordAction stores what the user did in response (snooze, complete,
// reschedule).
func (s *NotificationService) RecordAction(ctx context.Context, user *model.User, notificationID uint, action string) (*model.TaskNotification, error) {
	notification, err := s.notifRepo.FindByIDForUser(ctx, user.ID, notificationID)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("notification %d", notificationID))
	}
	if err := s.notifRepo.RecordAction(ctx, notification, action); err != nil {
		return nil, err
	}
	return notification, nil
}
