package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func taskWith(priority Priority, status Status, dueDate *time.Time) *Task {
	return &Task{Title: "t", Priority: priority, Status: status, DueDate: dueDate}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestUrgencyScoreOverdueUrgent(t *testing.T) {
	now := time.Now()
	due := timePtr(now.Add(-time.Hour))

	task := taskWith(PriorityUrgent, StatusPending, due)
	assert.Equal(t, 90, task.UrgencyScore(now))

	// Already marked overdue scores the same: the due component depends on
	// the due date, not the status.
	task.Status = StatusOverdue
	assert.Equal(t, 90, task.UrgencyScore(now))
}

func TestUrgencyScoreDueSoonLow(t *testing.T) {
	now := time.Now()
	task := taskWith(PriorityLow, StatusPending, timePtr(now.Add(30*time.Minute)))
	assert.Equal(t, 50, task.UrgencyScore(now))
}

func TestUrgencyScoreDueComponents(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name string
		due  *time.Time
		want int
	}{
		{"no due date", nil, 20},
		{"within the hour", timePtr(now.Add(10 * time.Minute)), 60},
		{"within a day", timePtr(now.Add(10 * time.Hour)), 50},
		{"within a week", timePtr(now.Add(3 * 24 * time.Hour)), 40},
		{"far out", timePtr(now.Add(30 * 24 * time.Hour)), 20},
		{"overdue", timePtr(now.Add(-time.Minute)), 70},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := taskWith(PriorityMedium, StatusPending, tc.due)
			assert.Equal(t, tc.want, task.UrgencyScore(now))
		})
	}
}

func TestUrgencyScoreInProgressBonus(t *testing.T) {
	now := time.Now()
	due := timePtr(now.Add(2 * time.Hour))

	pending := taskWith(PriorityHigh, StatusPending, due)
	inProgress := taskWith(PriorityHigh, StatusInProgress, due)
	assert.Equal(t, pending.UrgencyScore(now)+5, inProgress.UrgencyScore(now))
}

func TestUrgencyScoreMonotonicInPriority(t *testing.T) {
	now := time.Now()
	due := timePtr(now.Add(6 * time.Hour))

	priorities := []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
	prev := -1
	for _, p := range priorities {
		task := taskWith(p, StatusPending, due)
		score := task.UrgencyScore(now)
		assert.Greater(t, score, prev, "priority %s", p)
		prev = score
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Now()
	past := timePtr(now.Add(-time.Hour))

	assert.True(t, taskWith(PriorityMedium, StatusPending, past).IsOverdue(now))
	assert.True(t, taskWith(PriorityMedium, StatusInProgress, past).IsOverdue(now))

	// Terminal or already-marked statuses never report overdue.
	for _, status := range []Status{StatusCompleted, StatusCancelled, StatusOverdue} {
		assert.False(t, taskWith(PriorityMedium, status, past).IsOverdue(now), "status %s", status)
	}

	// No due date, or due date still ahead.
	assert.False(t, taskWith(PriorityMedium, StatusPending, nil).IsOverdue(now))
	assert.False(t, taskWith(PriorityMedium, StatusPending, timePtr(now.Add(time.Hour))).IsOverdue(now))
}

func TestRemainingTime(t *testing.T) {
	now := time.Now()

	task := taskWith(PriorityMedium, StatusPending, timePtr(now.Add(90*time.Minute)))
	remaining, ok := task.RemainingTime(now)
	assert.True(t, ok)
	assert.Equal(t, 90*time.Minute, remaining)

	// Exactly at the due instant there is no remaining time, not zero time.
	task.DueDate = timePtr(now)
	_, ok = task.RemainingTime(now)
	assert.False(t, ok)

	task.DueDate = timePtr(now.Add(-time.Second))
	_, ok = task.RemainingTime(now)
	assert.False(t, ok)

	task.DueDate = nil
	_, ok = task.RemainingTime(now)
	assert.False(t, ok)
}
