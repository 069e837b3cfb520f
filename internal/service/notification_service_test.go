package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmaster/internal/model"
)

func TestNotificationLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	task, err := env.tasks.Create(ctx, env.user, TaskInput{Title: "inbox zero"}, now)
	require.NoError(t, err)

	recorded, err := env.notifications.Record(ctx, task, model.NotificationReminder, "Reminder: inbox zero", now)
	require.NoError(t, err)
	assert.False(t, recorded.IsRead)
	assert.Empty(t, recorded.ActionTaken)

	unread, err := env.notifications.ListForUser(ctx, env.user, true)
	require.NoError(t, err)
	require.Len(t, unread, 1)

	read, err := env.notifications.MarkRead(ctx, env.user, recorded.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	assert.WithinDuration(t, now, read.SentAt, time.Second)

	unread, err = env.notifications.ListForUser(ctx, env.user, true)
	require.NoError(t, err)
	assert.Empty(t, unread)

	acted, err := env.notifications.RecordAction(ctx, env.user, recorded.ID, "snooze")
	require.NoError(t, err)
	assert.Equal(t, "snooze", acted.ActionTaken)
}

func TestNotificationOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	stranger := &model.User{Username: "bob"}
	require.NoError(t, env.userRepo.Create(ctx, stranger))

	task, err := env.tasks.Create(ctx, env.user, TaskInput{Title: "private"}, now)
	require.NoError(t, err)
	recorded, err := env.notifications.Record(ctx, task, model.NotificationDueSoon, "soon", now)
	require.NoError(t, err)

	_, err = env.notifications.MarkRead(ctx, stranger, recorded.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.notifications.ListForTask(ctx, stranger, task.ID, 0)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := env.notifications.ListForTask(ctx, env.user, task.ID, 5)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
