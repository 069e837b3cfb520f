package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"taskmaster/internal/model"
	"taskmaster/internal/repository"
)

// Summary is the read-path analytics answer for a user and date range.
// Overdue tasks are always counted as of now, independent of the range.
type Summary struct {
	TotalTasks           int
	CompletedTasks       int
	OverdueTasks         int
	CompletionRate       float64
	PriorityDistribution map[string]int
	CategoryDistribution map[string]int
}

// uncategorizedBucket keys tasks with no category in the category histogram.
const uncategorizedBucket = "uncategorized"

// AnalyticsService computes range summaries on demand and writes the daily
// per-user rollup rows.
type AnalyticsService struct {
	taskRepo      *repository.TaskRepository
	categoryRepo  *repository.CategoryRepository
	userRepo      *repository.UserRepository
	analyticsRepo *repository.AnalyticsRepository
}

func NewAnalyticsService(
	taskRepo *repository.TaskRepository,
	categoryRepo *repository.CategoryRepository,
	userRepo *repository.UserRepository,
	analyticsRepo *repository.AnalyticsRepository,
) *AnalyticsService {
	return &AnalyticsService{
		taskRepo:      taskRepo,
		categoryRepo:  categoryRepo,
		userRepo:      userRepo,
		analyticsRepo: analyticsRepo,
	}
}

// Summarize computes created/completed counts, completion rate and priority
// and category histograms for tasks created in [from, to).
func (s *AnalyticsService) Summarize(ctx context.Context, user *model.User, from, to time.Time, now time.Time) (*Summary, error) {
	created, err := s.taskRepo.ListCreatedBetween(ctx, user.ID, from, to)
	if err != nil {
		return nil, err
	}

	completed, err := s.taskRepo.CountCompletedBetween(ctx, user.ID, from, to)
	if err != nil {
		return nil, err
	}

	overdue, err := s.taskRepo.CountOverdue(ctx, user.ID, now)
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	categoryNames := make(map[uint]string, len(categories))
	for _, cat := range categories {
		categoryNames[cat.ID] = cat.Name
	}

	summary := Summary{
		TotalTasks:           len(created),
		CompletedTasks:       int(completed),
		OverdueTasks:         int(overdue),
		PriorityDistribution: make(map[string]int),
		CategoryDistribution: make(map[string]int),
	}
	if summary.TotalTasks > 0 {
		summary.CompletionRate = float64(summary.CompletedTasks) / float64(summary.TotalTasks) * 100
	}

	for _, task := range created {
		summary.PriorityDistribution[string(task.Priority)]++
		if task.CategoryID != nil {
			summary.CategoryDistribution[categoryNames[*task.CategoryID]]++
		} else {
			summary.CategoryDistribution[uncategorizedBucket]++
		}
	}

	return &summary, nil
}

// AggregateDaily writes the rollup row for every user for the day containing
// date. Re-running for the same day overwrites the previous counters.
func (s *AnalyticsService) AggregateDaily(ctx context.Context, date time.Time, now time.Time) error {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	dayStart := startOfDay(date)
	dayEnd := dayStart.Add(24 * time.Hour)

	for i := range users {
		if err := s.aggregateUserDay(ctx, &users[i], dayStart, dayEnd, now); err != nil {
			return fmt.Errorf("aggregate user %d: %w", users[i].ID, err)
		}
	}

	log.Printf("[info] analytics rollup done for %s, users=%d", dayStart.Format("2006-01-02"), len(users))
	return nil
}

func (s *AnalyticsService) aggregateUserDay(ctx context.Context, user *model.User, dayStart, dayEnd, now time.Time) error {
	createdTasks, err := s.taskRepo.ListCreatedBetween(ctx, user.ID, dayStart, dayEnd)
	if err != nil {
		return err
	}

	completedTasks, err := s.taskRepo.ListCompletedBetween(ctx, user.ID, dayStart, dayEnd)
	if err != nil {
		return err
	}

	overdue, err := s.taskRepo.CountOverdue(ctx, user.ID, now)
	if err != nil {
		return err
	}

	totalDuration := 0
	withDuration := 0
	for _, task := range completedTasks {
		if task.ActualDuration != nil {
			totalDuration += *task.ActualDuration
			withDuration++
		}
	}

	priorityDistribution := make(map[string]int)
	for _, task := range createdTasks {
		priorityDistribution[string(task.Priority)]++
	}

	rollup := model.TaskAnalytics{
		UserID:               user.ID,
		Date:                 dayStart,
		TasksCreated:         len(createdTasks),
		TasksCompleted:       len(completedTasks),
		TasksOverdue:         int(overdue),
		TotalDuration:        totalDuration,
		PriorityDistribution: priorityDistribution,
	}
	if len(createdTasks) > 0 {
		rollup.CompletionRate = float64(len(completedTasks)) / float64(len(createdTasks)) * 100
	}
	if withDuration > 0 {
		rollup.AverageTaskDuration = float64(totalDuration) / float64(withDuration)
	}

	return s.analyticsRepo.Upsert(ctx, &rollup)
}

// History returns the stored rollup rows for [from, to], oldest first.
func (s *AnalyticsService) History(ctx context.Context, user *model.User, from, to time.Time) ([]model.TaskAnalytics, error) {
	return s.analyticsRepo.ListBetween(ctx, user.ID, startOfDay(from), startOfDay(to))
}
