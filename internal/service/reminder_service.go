package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"taskmaster/internal/model"
	"taskmaster/internal/repository"
)

// Sender delivers a notification text to a user's linked chat. A nil Sender
// means notifications are recorded but not delivered anywhere.
type Sender interface {
	Send(chatID int64, text string) error
}

// ReminderService scans tasks on a schedule and turns crossed reminder and
// due-date edges into notification log entries, optionally pushing them to
// the user's delivery channel.
type ReminderService struct {
	taskRepo  *repository.TaskRepository
	notifRepo *repository.NotificationRepository
	userRepo  *repository.UserRepository
	sender    Sender
}

func NewReminderService(
	taskRepo *repository.TaskRepository,
	notifRepo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	sender Sender,
) *ReminderService {
	return &ReminderService{
		taskRepo:  taskRepo,
		notifRepo: notifRepo,
		userRepo:  userRepo,
		sender:    sender,
	}
}

// Scan runs one pass over all users' tasks: fire due reminders, then emit
// one-time overdue and due-soon notices.
func (s *ReminderService) Scan(ctx context.Context, now time.Time) error {
	if err := s.fireReminders(ctx, now); err != nil {
		return err
	}
	if err := s.noticeOverdue(ctx, now); err != nil {
		return err
	}
	return s.noticeDueSoon(ctx, now)
}

func (s *ReminderService) fireReminders(ctx context.Context, now time.Time) error {
	tasks, err := s.taskRepo.DueReminders(ctx, now)
	if err != nil {
		return fmt.Errorf("list due reminders: %w", err)
	}

	for i := range tasks {
		task := &tasks[i]
		message := fmt.Sprintf("Reminder: %q", task.Title)
		if err := s.record(ctx, task, model.NotificationReminder, message, now); err != nil {
			return err
		}

		task.NotificationSent = true
		if err := s.taskRepo.Save(ctx, task); err != nil {
			return err
		}
		log.Printf("[info] reminder fired task=%s user=%d", task.ID, task.UserID)
	}
	return nil
}

func (s *ReminderService) noticeOverdue(ctx context.Context, now time.Time) error {
	tasks, err := s.taskRepo.ListOverdueAll(ctx, now)
	if err != nil {
		return fmt.Errorf("list overdue: %w", err)
	}

	for i := range tasks {
		task := &tasks[i]
		exists, err := s.notifRepo.ExistsForTask(ctx, task.ID, model.NotificationOverdue)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		message := fmt.Sprintf("Task %q is overdue", task.Title)
		if err := s.record(ctx, task, model.NotificationOverdue, message, now); err != nil {
			return err
		}
	}
	return nil
}

func (s *ReminderService) noticeDueSoon(ctx context.Context, now time.Time) error {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	for _, user := range users {
		tasks, err := s.taskRepo.ListDueBetween(ctx, user.ID, now, now.Add(24*time.Hour),
			[]model.Status{model.StatusPending})
		if err != nil {
			return fmt.Errorf("list due soon: %w", err)
		}
		for i := range tasks {
			task := &tasks[i]
			if !task.NotificationEnabled {
				continue
			}
			exists, err := s.notifRepo.ExistsForTask(ctx, task.ID, model.NotificationDueSoon)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			message := fmt.Sprintf("Task %q is due soon", task.Title)
			if err := s.record(ctx, task, model.NotificationDueSoon, message, now); err != nil {
				return err
			}
		}
	}
	return nil
}

// record appends the log entry and best-effort delivers it; delivery failures
// are logged, not returned, so one unreachable chat does not stall the scan.
func (s *ReminderService) record(ctx context.Context, task *model.Task, typ model.NotificationType, message string, now time.Time) error {
	notification := model.TaskNotification{
		TaskID:  task.ID,
		Type:    typ,
		Message: message,
		SentAt:  now,
	}
	if err := s.notifRepo.Create(ctx, &notification); err != nil {
		return err
	}

	if s.sender == nil {
		return nil
	}
	user, err := s.userRepo.FindByID(ctx, task.UserID)
	if err != nil || user.TelegramChatID == 0 {
		return nil
	}
	if err := s.sender.Send(user.TelegramChatID, message); err != nil {
		log.Printf("deliver notification task=%s user=%d: %v", task.ID, task.UserID, err)
	}
	return nil
}
