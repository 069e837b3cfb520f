package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmaster/internal/model"
)

type fakeSender struct {
	sent []string
}

func (f *fakeSender) Send(chatID int64, text string) error {
	f.sent = append(f.sent, text)
	return nil
}

func TestScanFiresDueRemindersOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	sender := &fakeSender{}
	reminders := NewReminderService(env.taskRepo, env.notifRepo, env.userRepo, sender)

	require.NoError(t, env.userRepo.LinkTelegramChat(ctx, env.user.ID, 42))

	task := env.seedTask(t, model.Task{
		Title:               "water plants",
		Status:              model.StatusPending,
		NotificationEnabled: true,
		ReminderTime:        timePtr(now.Add(-time.Minute)),
	})

	require.NoError(t, reminders.Scan(ctx, now))

	notifications, err := env.notifRepo.ListByTask(ctx, task.ID, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationReminder, notifications[0].Type)
	assert.False(t, notifications[0].IsRead)
	assert.Len(t, sender.sent, 1)

	stored, err := env.taskRepo.FindByID(ctx, env.user.ID, task.ID)
	require.NoError(t, err)
	assert.True(t, stored.NotificationSent)

	// A second pass finds nothing to fire.
	require.NoError(t, reminders.Scan(ctx, now))
	notifications, err = env.notifRepo.ListByTask(ctx, task.ID, 0)
	require.NoError(t, err)
	assert.Len(t, notifications, 1)
}

func TestScanEmitsOverdueNoticeOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	reminders := NewReminderService(env.taskRepo, env.notifRepo, env.userRepo, nil)

	task := env.seedTask(t, model.Task{
		Title:               "late",
		Status:              model.StatusPending,
		NotificationEnabled: true,
		DueDate:             timePtr(now.Add(-time.Hour)),
	})

	require.NoError(t, reminders.Scan(ctx, now))
	require.NoError(t, reminders.Scan(ctx, now))

	notifications, err := env.notifRepo.ListByTask(ctx, task.ID, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationOverdue, notifications[0].Type)
}

func TestScanEmitsDueSoonNotice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	reminders := NewReminderService(env.taskRepo, env.notifRepo, env.userRepo, nil)

	task := env.seedTask(t, model.Task{
		Title:               "deadline ahead",
		Status:              model.StatusPending,
		NotificationEnabled: true,
		DueDate:             timePtr(now.Add(6 * time.Hour)),
	})
	muted := env.seedTask(t, model.Task{
		Title:               "muted",
		Status:              model.StatusPending,
		NotificationEnabled: false,
		DueDate:             timePtr(now.Add(6 * time.Hour)),
	})

	require.NoError(t, reminders.Scan(ctx, now))

	notifications, err := env.notifRepo.ListByTask(ctx, task.ID, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationDueSoon, notifications[0].Type)

	mutedNotifications, err := env.notifRepo.ListByTask(ctx, muted.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, mutedNotifications)
}

func TestSnoozeReschedulesReminder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	sender := &fakeSender{}
	reminders := NewReminderService(env.taskRepo, env.notifRepo, env.userRepo, sender)

	task := env.seedTask(t, model.Task{
		Title:               "push back",
		Status:              model.StatusPending,
		NotificationEnabled: true,
		ReminderTime:        timePtr(now.Add(-time.Minute)),
	})

	require.NoError(t, reminders.Scan(ctx, now))

	_, err := env.tasks.Snooze(ctx, env.user, task.ID, 2, now)
	require.NoError(t, err)

	// Before the snoozed time nothing fires; after it, the reminder fires
	// again because the snooze reset the sent flag.
	require.NoError(t, reminders.Scan(ctx, now.Add(time.Hour)))
	notifications, err := env.notifRepo.ListByTask(ctx, task.ID, 0)
	require.NoError(t, err)
	assert.Len(t, notifications, 1)

	require.NoError(t, reminders.Scan(ctx, now.Add(3*time.Hour)))
	notifications, err = env.notifRepo.ListByTask(ctx, task.ID, 0)
	require.NoError(t, err)
	assert.Len(t, notifications, 2)
}
