package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Priority is the user-assigned importance of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Rank returns a numeric weight for sorting and scoring.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusOverdue    Status = "overdue"
)

// Active reports whether the task still needs attention. Completed,
// cancelled and overdue-marked tasks are not active.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusInProgress
}

// Task represents a single item in the planner, optionally nested under a
// parent task.
type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uint      `gorm:"index:idx_task_user_status;index:idx_task_user_due"`
	CategoryID  *uint     `gorm:"index"`
	Title       string
	Description string
	Priority    Priority `gorm:"default:medium;index"`
	Status      Status   `gorm:"default:pending;index:idx_task_user_status"`

	DueDate      *time.Time `gorm:"index:idx_task_user_due"`
	CompletedAt  *time.Time
	ReminderTime *time.Time

	// Durations are in minutes.
	EstimatedDuration *int
	ActualDuration    *int

	IsRecurring       bool           `gorm:"default:false"`
	RecurrencePattern map[string]any `gorm:"serializer:json"`
	Tags              []string       `gorm:"serializer:json"`

	// NotificationEnabled carries no column default; it is set explicitly at
	// creation time.
	NotificationEnabled bool
	NotificationSent    bool `gorm:"default:false"`
	SnoozeCount         int  `gorm:"default:0"`
	LastSnoozed         *time.Time

	// Progress percentage, 0-100.
	Progress int `gorm:"default:0"`

	ParentTaskID *uuid.UUID `gorm:"type:uuid;index"`

	IsSynced   bool `gorm:"default:false"`
	LastSynced *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate assigns an opaque identifier when the caller did not.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// IsOverdue reports whether the due date has passed while the task is still
// active. It never mutates the task; tasks already marked overdue, completed
// or cancelled report false because the status already tells the story.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || !t.Status.Active() {
		return false
	}
	return now.After(*t.DueDate)
}

// UrgencyScore combines priority, due-date proximity and in-progress status
// into a single sortable integer. Higher means more urgent. The score is a
// heuristic for default ordering, not a probability; callers break ties on
// due date and creation time.
func (t *Task) UrgencyScore(now time.Time) int {
	score := t.Priority.Rank() * 10

	if t.DueDate != nil {
		untilDue := t.DueDate.Sub(now)
		switch {
		case untilDue < 0:
			score += 50
		case untilDue < time.Hour:
			score += 40
		case untilDue < 24*time.Hour:
			score += 30
		case untilDue < 7*24*time.Hour:
			score += 20
		}
	}

	if t.Status == StatusInProgress {
		score += 5
	}

	return score
}

// RemainingTime returns the time left until the due date. The boolean is
// false when there is no remaining time: no due date set, or the due instant
// has been reached or passed.
func (t *Task) RemainingTime(now time.Time) (time.Duration, bool) {
	if t.DueDate == nil {
		return 0, false
	}
	remaining := t.DueDate.Sub(now)
	if remaining <= 0 {
		return 0, false
	}
	return remaining, true
}
