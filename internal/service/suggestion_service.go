package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"taskmaster/internal/model"
	"taskmaster/internal/repository"
)

// SuggestionType classifies why an entry was surfaced.
type SuggestionType string

const (
	SuggestionOverdue      SuggestionType = "overdue"
	SuggestionDueSoon      SuggestionType = "due_soon"
	SuggestionHighPriority SuggestionType = "high_priority"
	SuggestionTip          SuggestionType = "productivity_tip"
)

// Severity ranks how strongly the entry should be presented.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Recommended actions attached to suggestion entries.
const (
	ActionCompleteNow   = "complete_now"
	ActionStartWorking  = "start_working"
	ActionPrioritize    = "prioritize"
	ActionGeneralAdvice = "general_advice"
)

// Suggestion is one ranked recommendation. Task is nil for the generic tip.
type Suggestion struct {
	Type     SuggestionType
	Severity Severity
	Message  string
	Task     *model.Task
	Action   string
}

// Bucket caps keep the response size bounded regardless of how many tasks
// qualify.
const (
	maxOverdueSuggestions      = 5
	maxDueSoonSuggestions      = 5
	maxHighPrioritySuggestions = 3
)

// SuggestionService reads the current task set and proposes a ranked action
// list: overdue first, then due-soon, then high-priority, then one generic
// tip. Buckets are evaluated independently; a task qualifying for more than
// one bucket appears in each.
type SuggestionService struct {
	taskRepo *repository.TaskRepository
}

func NewSuggestionService(taskRepo *repository.TaskRepository) *SuggestionService {
	return &SuggestionService{taskRepo: taskRepo}
}

func (s *SuggestionService) Suggest(ctx context.Context, user *model.User, now time.Time) ([]Suggestion, error) {
	var suggestions []Suggestion

	overdue, err := s.taskRepo.ListOverdue(ctx, user.ID, now)
	if err != nil {
		return nil, err
	}
	sortByPriorityThenDue(overdue)
	for _, task := range capTasks(overdue, maxOverdueSuggestions) {
		suggestions = append(suggestions, Suggestion{
			Type:     SuggestionOverdue,
			Severity: SeverityHigh,
			Message:  fmt.Sprintf("Task %q is overdue", task.Title),
			Task:     task,
			Action:   ActionCompleteNow,
		})
	}

	dueSoon, err := s.taskRepo.ListDueBetween(ctx, user.ID, now, now.Add(24*time.Hour),
		[]model.Status{model.StatusPending})
	if err != nil {
		return nil, err
	}
	sortByPriorityThenDue(dueSoon)
	for _, task := range capTasks(dueSoon, maxDueSoonSuggestions) {
		suggestions = append(suggestions, Suggestion{
			Type:     SuggestionDueSoon,
			Severity: SeverityMedium,
			Message:  fmt.Sprintf("Task %q is due soon", task.Title),
			Task:     task,
			Action:   ActionStartWorking,
		})
	}

	highPriority, err := s.taskRepo.ListPendingByPriority(ctx, user.ID,
		[]model.Priority{model.PriorityHigh, model.PriorityUrgent})
	if err != nil {
		return nil, err
	}
	sortByUrgency(highPriority, now)
	for _, task := range capTasks(highPriority, maxHighPrioritySuggestions) {
		suggestions = append(suggestions, Suggestion{
			Type:     SuggestionHighPriority,
			Severity: SeverityMedium,
			Message:  fmt.Sprintf("High priority task %q needs attention", task.Title),
			Task:     task,
			Action:   ActionPrioritize,
		})
	}

	if len(suggestions) > 0 {
		suggestions = append(suggestions, Suggestion{
			Type:     SuggestionTip,
			Severity: SeverityLow,
			Message:  "Focus on completing overdue tasks first, then work on high-priority items",
			Action:   ActionGeneralAdvice,
		})
	}

	return suggestions, nil
}

func capTasks(tasks []model.Task, limit int) []*model.Task {
	if len(tasks) > limit {
		tasks = tasks[:limit]
	}
	out := make([]*model.Task, len(tasks))
	for i := range tasks {
		out[i] = &tasks[i]
	}
	return out
}

// sortByPriorityThenDue orders tasks by priority rank descending, then by due
// date ascending, then by creation time.
func sortByPriorityThenDue(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Priority.Rank() != tasks[j].Priority.Rank() {
			return tasks[i].Priority.Rank() > tasks[j].Priority.Rank()
		}
		switch {
		case tasks[i].DueDate == nil && tasks[j].DueDate == nil:
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		case tasks[i].DueDate == nil:
			return false
		case tasks[j].DueDate == nil:
			return true
		case !tasks[i].DueDate.Equal(*tasks[j].DueDate):
			return tasks[i].DueDate.Before(*tasks[j].DueDate)
		default:
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
	})
}

// sortByUrgency orders tasks by urgency score descending, breaking ties on
// due date then creation time.
func sortByUrgency(tasks []model.Task, now time.Time) {
	sort.SliceStable(tasks, func(i, j int) bool {
		si, sj := tasks[i].UrgencyScore(now), tasks[j].UrgencyScore(now)
		if si != sj {
			return si > sj
		}
		switch {
		case tasks[i].DueDate == nil && tasks[j].DueDate == nil:
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		case tasks[i].DueDate == nil:
			return false
		case tasks[j].DueDate == nil:
			return true
		case !tasks[i].DueDate.Equal(*tasks[j].DueDate):
			return tasks[i].DueDate.Before(*tasks[j].DueDate)
		default:
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
	})
}
