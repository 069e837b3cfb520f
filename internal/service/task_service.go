package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"taskmaster/internal/model"
	"taskmaster/internal/repository"
)

// maxEstimatedDuration caps the estimated duration at 24 hours, in minutes.
const maxEstimatedDuration = 1440

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title               string
	Description         string
	CategoryID          *uint
	Priority            model.Priority
	DueDate             *time.Time
	ReminderTime        *time.Time
	EstimatedDuration   *int
	IsRecurring         bool
	RecurrencePattern   map[string]any
	Tags                []string
	NotificationEnabled *bool
	ParentTaskID        *uuid.UUID
}

// TaskUpdate carries a partial field edit; nil pointers leave the field as is.
type TaskUpdate struct {
	Title             *string
	Description       *string
	CategoryID        *uint
	ClearCategory     bool
	Priority          *model.Priority
	Status            *model.Status
	DueDate           *time.Time
	ReminderTime      *time.Time
	EstimatedDuration *int
	ActualDuration    *int
	Tags              []string
	Progress          *int
}

// BulkChanges is the field set a bulk update may touch.
type BulkChanges struct {
	Status     *model.Status
	Priority   *model.Priority
	CategoryID *uint
}

// TaskService wraps task lifecycle rules: creation validation, status
// derivation and the explicit transitions (complete, snooze, start,
// progress update).
type TaskService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
	notifRepo    *repository.NotificationRepository
}

func NewTaskService(taskRepo *repository.TaskRepository, categoryRepo *repository.CategoryRepository, notifRepo *repository.NotificationRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, categoryRepo: categoryRepo, notifRepo: notifRepo}
}

// Create validates input and stores a new pending task.
func (s *TaskService) Create(ctx context.Context, user *model.User, input TaskInput, now time.Time) (*model.Task, error) {
	if input.Title == "" {
		return nil, validationErr("title", "title is required")
	}
	if input.DueDate != nil && input.DueDate.Before(now) {
		return nil, validationErr("due_date", "due date cannot be in the past")
	}
	if input.EstimatedDuration != nil && *input.EstimatedDuration > maxEstimatedDuration {
		return nil, validationErr("estimated_duration", "estimated duration cannot exceed 24 hours")
	}

	if input.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *input.CategoryID); err != nil {
			return nil, notFound(err, fmt.Sprintf("category %d", *input.CategoryID))
		}
	}
	if input.ParentTaskID != nil {
		if _, err := s.taskRepo.FindByID(ctx, user.ID, *input.ParentTaskID); err != nil {
			return nil, notFound(err, fmt.Sprintf("parent task %s", input.ParentTaskID))
		}
	}

	priority := input.Priority
	if priority == "" {
		priority = user.DefaultPriority
	}
	if priority == "" {
		priority = model.PriorityMedium
	}

	notificationEnabled := true
	if input.NotificationEnabled != nil {
		notificationEnabled = *input.NotificationEnabled
	}

	task := model.Task{
		UserID:              user.ID,
		CategoryID:          input.CategoryID,
		Title:               input.Title,
		Description:         input.Description,
		Priority:            priority,
		Status:              model.StatusPending,
		DueDate:             input.DueDate,
		ReminderTime:        input.ReminderTime,
		EstimatedDuration:   input.EstimatedDuration,
		IsRecurring:         input.IsRecurring,
		RecurrencePattern:   input.RecurrencePattern,
		Tags:                input.Tags,
		NotificationEnabled: notificationEnabled,
		ParentTaskID:        input.ParentTaskID,
		Progress:            0,
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}

	return &task, nil
}

// recomputeStatus derives the overdue status from the due date. A pending
// task whose due date has passed becomes overdue; other statuses are left
// alone. The transition is evaluated on every access and never reverts:
// pushing the due date into the future does not turn an overdue task back to
// pending.
func recomputeStatus(task *model.Task, now time.Time) bool {
	if task.Status != model.StatusPending || task.DueDate == nil {
		return false
	}
	if now.After(*task.DueDate) {
		task.Status = model.StatusOverdue
		return true
	}
	return false
}

// refresh applies status derivation and persists the task when it changed.
func (s *TaskService) refresh(ctx context.Context, task *model.Task, now time.Time) error {
	if recomputeStatus(task, now) {
		return s.taskRepo.Save(ctx, task)
	}
	return nil
}

// Get loads one task, deriving the overdue status before returning it.
func (s *TaskService) Get(ctx context.Context, user *model.User, taskID uuid.UUID, now time.Time) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("task %s", taskID))
	}
	if err := s.refresh(ctx, task, now); err != nil {
		return nil, err
	}
	return task, nil
}

// List returns all tasks for the user with statuses derived.
func (s *TaskService) List(ctx context.Context, user *model.User, now time.Time) ([]model.Task, error) {
	tasks, err := s.taskRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if err := s.refresh(ctx, &tasks[i], now); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

// Update applies a partial edit. Setting status to completed routes through
// the complete transition so progress and completion time stay consistent.
func (s *TaskService) Update(ctx context.Context, user *model.User, taskID uuid.UUID, update TaskUpdate, now time.Time) (*model.Task, error) {
	task, err := s.Get(ctx, user, taskID, now)
	if err != nil {
		return nil, err
	}

	if update.DueDate != nil && update.DueDate.Before(now) {
		return nil, validationErr("due_date", "due date cannot be in the past")
	}
	if update.EstimatedDuration != nil && *update.EstimatedDuration > maxEstimatedDuration {
		return nil, validationErr("estimated_duration", "estimated duration cannot exceed 24 hours")
	}
	if update.Progress != nil && (*update.Progress < 0 || *update.Progress > 100) {
		return nil, validationErr("progress", "progress must be between 0 and 100")
	}
	if update.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *update.CategoryID); err != nil {
			return nil, notFound(err, fmt.Sprintf("category %d", *update.CategoryID))
		}
		task.CategoryID = update.CategoryID
	}
	if update.ClearCategory {
		task.CategoryID = nil
	}

	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Priority != nil {
		task.Priority = *update.Priority
	}
	if update.DueDate != nil {
		task.DueDate = update.DueDate
	}
	if update.ReminderTime != nil {
		task.ReminderTime = update.ReminderTime
	}
	if update.EstimatedDuration != nil {
		task.EstimatedDuration = update.EstimatedDuration
	}
	if update.ActualDuration != nil {
		task.ActualDuration = update.ActualDuration
	}
	if update.Tags != nil {
		task.Tags = update.Tags
	}
	if update.Progress != nil {
		task.Progress = *update.Progress
	}

	if update.Status != nil && *update.Status != task.Status {
		if *update.Status == model.StatusCompleted {
			s.markCompleted(task, now)
		} else {
			task.Status = *update.Status
		}
	}

	recomputeStatus(task, now)

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// markCompleted applies the completion transition in place. Re-applying it
// does not move an already-set completion time.
func (s *TaskService) markCompleted(task *model.Task, now time.Time) {
	task.Status = model.StatusCompleted
	task.Progress = 100
	if task.CompletedAt == nil {
		completedAt := now
		task.CompletedAt = &completedAt
	}
}

// Complete marks a task as done, optionally recording how long it took.
func (s *TaskService) Complete(ctx context.Context, user *model.User, taskID uuid.UUID, actualDuration *int, now time.Time) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("task %s", taskID))
	}

	if actualDuration != nil {
		task.ActualDuration = actualDuration
	}
	s.markCompleted(task, now)

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}

	notification := model.TaskNotification{
		TaskID:  task.ID,
		Type:    model.NotificationCompleted,
		Message: fmt.Sprintf("Task %q completed", task.Title),
		SentAt:  now,
	}
	if err := s.notifRepo.Create(ctx, &notification); err != nil {
		return nil, err
	}

	return task, nil
}

// Snooze pushes the reminder forward by the given number of hours.
func (s *TaskService) Snooze(ctx context.Context, user *model.User, taskID uuid.UUID, hours int, now time.Time) (*model.Task, error) {
	if hours < 1 || hours > 72 {
		return nil, validationErr("hours", "snooze hours must be between 1 and 72")
	}

	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("task %s", taskID))
	}

	recomputeStatus(task, now)

	reminderTime := now.Add(time.Duration(hours) * time.Hour)
	lastSnoozed := now
	task.ReminderTime = &reminderTime
	task.LastSnoozed = &lastSnoozed
	task.SnoozeCount++
	// The reminder should fire again at the new time.
	task.NotificationSent = false

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// StartProgress moves a task to in_progress. The transition is deliberately
// unguarded: restarting a completed or cancelled task is allowed.
func (s *TaskService) StartProgress(ctx context.Context, user *model.User, taskID uuid.UUID) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("task %s", taskID))
	}

	task.Status = model.StatusInProgress
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateProgress sets the progress percentage; reaching 100 completes the
// task regardless of its prior status.
func (s *TaskService) UpdateProgress(ctx context.Context, user *model.User, taskID uuid.UUID, progress int, now time.Time) (*model.Task, error) {
	if progress < 0 || progress > 100 {
		return nil, validationErr("progress", "progress must be between 0 and 100")
	}

	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("task %s", taskID))
	}

	recomputeStatus(task, now)

	task.Progress = progress
	if progress == 100 {
		s.markCompleted(task, now)
	}

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// SubtasksProgress derives a parent's progress from its direct subtasks,
// falling back to the stored value for leaf tasks.
func (s *TaskService) SubtasksProgress(ctx context.Context, task *model.Task) (int, error) {
	subtasks, err := s.taskRepo.Subtasks(ctx, task.ID)
	if err != nil {
		return 0, err
	}
	if len(subtasks) == 0 {
		return task.Progress, nil
	}

	completed := 0
	for _, sub := range subtasks {
		if sub.Status == model.StatusCompleted {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(subtasks)))), nil
}

// Delete removes a task and its subtasks.
func (s *TaskService) Delete(ctx context.Context, user *model.User, taskID uuid.UUID) error {
	if err := s.taskRepo.Delete(ctx, user.ID, taskID); err != nil {
		return notFound(err, fmt.Sprintf("task %s", taskID))
	}
	return nil
}

// BulkUpdate applies the same changes to every listed task atomically and
// returns how many rows changed.
func (s *TaskService) BulkUpdate(ctx context.Context, user *model.User, taskIDs []uuid.UUID, changes BulkChanges) (int64, error) {
	if len(taskIDs) == 0 {
		return 0, validationErr("task_ids", "at least one task id is required")
	}

	updates := map[string]any{}
	if changes.Status != nil {
		updates["status"] = *changes.Status
	}
	if changes.Priority != nil {
		updates["priority"] = *changes.Priority
	}
	if changes.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *changes.CategoryID); err != nil {
			return 0, notFound(err, fmt.Sprintf("category %d", *changes.CategoryID))
		}
		updates["category_id"] = *changes.CategoryID
	}
	if len(updates) == 0 {
		return 0, nil
	}

	return s.taskRepo.BulkUpdate(ctx, user.ID, taskIDs, updates)
}

// Overdue returns the user's overdue tasks, earliest due first.
func (s *TaskService) Overdue(ctx context.Context, user *model.User, now time.Time) ([]model.Task, error) {
	return s.taskRepo.ListOverdue(ctx, user.ID, now)
}

// DueToday returns tasks due on the current day in the given location.
func (s *TaskService) DueToday(ctx context.Context, user *model.User, now time.Time) ([]model.Task, error) {
	start := startOfDay(now)
	return s.taskRepo.ListDueBetween(ctx, user.ID, start, start.Add(24*time.Hour), nil)
}

// DueThisWeek returns tasks due within the next seven days.
func (s *TaskService) DueThisWeek(ctx context.Context, user *model.User, now time.Time) ([]model.Task, error) {
	start := startOfDay(now)
	return s.taskRepo.ListDueBetween(ctx, user.ID, start, start.Add(8*24*time.Hour), nil)
}

// Urgent returns high/urgent-priority or due-soon tasks ordered by urgency
// score, most urgent first.
func (s *TaskService) Urgent(ctx context.Context, user *model.User, now time.Time) ([]model.Task, error) {
	tasks, err := s.taskRepo.ListUrgent(ctx, user.ID, now)
	if err != nil {
		return nil, err
	}
	sortByUrgency(tasks, now)
	return tasks, nil
}

// Calendar groups a month's tasks by due date, keyed as YYYY-MM-DD.
func (s *TaskService) Calendar(ctx context.Context, user *model.User, year int, month time.Month, loc *time.Location) (map[string][]model.Task, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	tasks, err := s.taskRepo.ListDueBetween(ctx, user.ID, start, end, nil)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]model.Task)
	for _, task := range tasks {
		key := task.DueDate.In(loc).Format("2006-01-02")
		grouped[key] = append(grouped[key], task)
	}
	return grouped, nil
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
