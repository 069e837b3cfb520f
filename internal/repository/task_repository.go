package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskmaster/internal/model"
)

// TaskRepository handles CRUD and query views for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID uint, taskID uuid.UUID) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// overdueStatuses are the statuses overdue queries match. Tasks already
// marked overdue by the status derivation stay on every overdue surface.
var overdueStatuses = []model.Status{model.StatusPending, model.StatusInProgress, model.StatusOverdue}

// ListOverdue returns tasks whose due date has passed and that are not yet
// done or cancelled, earliest first.
func (r *TaskRepository) ListOverdue(ctx context.Context, userID uint, now time.Time) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status IN ? AND due_date < ?", userID, overdueStatuses, now).
		Order("due_date ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListDueBetween returns tasks with a due date inside [from, to), optionally
// restricted to the given statuses.
func (r *TaskRepository) ListDueBetween(ctx context.Context, userID uint, from, to time.Time, statuses []model.Status) ([]model.Task, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ? AND due_date >= ? AND due_date < ?", userID, from, to)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var tasks []model.Task
	if err := q.Order("due_date ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) ListPendingByPriority(ctx context.Context, userID uint, priorities []model.Priority) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND priority IN ?", userID, model.StatusPending, priorities).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListUrgent returns tasks that are high/urgent priority or due within a day.
func (r *TaskRepository) ListUrgent(ctx context.Context, userID uint, now time.Time) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND (priority IN ? OR (due_date IS NOT NULL AND due_date <= ?))",
			userID, []model.Priority{model.PriorityHigh, model.PriorityUrgent}, now.Add(24*time.Hour)).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Subtasks returns the direct children of a task.
func (r *TaskRepository) Subtasks(ctx context.Context, parentID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("parent_task_id = ?", parentID).
		Order("created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Delete removes a task and its subtasks in one transaction.
func (r *TaskRepository) Delete(ctx context.Context, userID uint, taskID uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_task_id = ?", taskID).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		res := tx.Where("user_id = ? AND id = ?", userID, taskID).Delete(&model.Task{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// BulkUpdate applies the same column changes to every listed task owned by
// the user. The whole batch commits or rolls back as one unit.
func (r *TaskRepository) BulkUpdate(ctx context.Context, userID uint, taskIDs []uuid.UUID, updates map[string]any) (int64, error) {
	var updated int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Task{}).
			Where("user_id = ? AND id IN ?", userID, taskIDs).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		updated = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("bulk update tasks: %w", err)
	}
	return updated, nil
}

// DueReminders returns active tasks across all users whose reminder time has
// arrived and whose reminder has not been sent yet.
func (r *TaskRepository) DueReminders(ctx context.Context, now time.Time) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("notification_enabled = ? AND notification_sent = ? AND reminder_time IS NOT NULL AND reminder_time <= ?",
			true, false, now).
		Where("status IN ?", []model.Status{model.StatusPending, model.StatusInProgress, model.StatusOverdue}).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListOverdueAll returns overdue tasks for every user, for the notification
// scan.
func (r *TaskRepository) ListOverdueAll(ctx context.Context, now time.Time) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND due_date < ? AND notification_enabled = ?",
			overdueStatuses, now, true).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) CountCompletedBetween(ctx context.Context, userID uint, from, to time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND status = ? AND completed_at >= ? AND completed_at < ?",
			userID, model.StatusCompleted, from, to).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *TaskRepository) CountOverdue(ctx context.Context, userID uint, now time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND status IN ? AND due_date < ?", userID, overdueStatuses, now).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListCompletedBetween returns tasks completed inside [from, to), used by the
// rollup job to sum durations.
func (r *TaskRepository) ListCompletedBetween(ctx context.Context, userID uint, from, to time.Time) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND completed_at >= ? AND completed_at < ?",
			userID, model.StatusCompleted, from, to).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListCreatedBetween returns tasks created inside [from, to), used for the
// priority and category histograms.
func (r *TaskRepository) ListCreatedBetween(ctx context.Context, userID uint, from, to time.Time) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, from, to).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}
