package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmaster/internal/model"
)

func TestSuggestOverdueCapAndTrailingTip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 6; i++ {
		env.seedTask(t, model.Task{
			Title:   fmt.Sprintf("late %d", i),
			Status:  model.StatusPending,
			DueDate: timePtr(now.Add(-time.Duration(i+1) * time.Hour)),
		})
	}

	suggestions, err := env.suggestions.Suggest(ctx, env.user, now)
	require.NoError(t, err)

	// 5 capped overdue entries, no due-soon, no high-priority, one tip.
	require.Len(t, suggestions, 6)
	for _, s := range suggestions[:5] {
		assert.Equal(t, SuggestionOverdue, s.Type)
		assert.Equal(t, SeverityHigh, s.Severity)
		assert.Equal(t, ActionCompleteNow, s.Action)
		require.NotNil(t, s.Task)
	}
	tip := suggestions[5]
	assert.Equal(t, SuggestionTip, tip.Type)
	assert.Equal(t, SeverityLow, tip.Severity)
	assert.Nil(t, tip.Task)
}

func TestSuggestEmptyTaskSet(t *testing.T) {
	env := newTestEnv(t)

	suggestions, err := env.suggestions.Suggest(context.Background(), env.user, time.Now())
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestSuggestOverdueOrdering(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	env.seedTask(t, model.Task{
		Title:    "medium old",
		Priority: model.PriorityMedium,
		Status:   model.StatusPending,
		DueDate:  timePtr(now.Add(-48 * time.Hour)),
	})
	env.seedTask(t, model.Task{
		Title:    "urgent fresh",
		Priority: model.PriorityUrgent,
		Status:   model.StatusPending,
		DueDate:  timePtr(now.Add(-time.Hour)),
	})
	env.seedTask(t, model.Task{
		Title:    "urgent older",
		Priority: model.PriorityUrgent,
		Status:   model.StatusPending,
		DueDate:  timePtr(now.Add(-24 * time.Hour)),
	})

	suggestions, err := env.suggestions.Suggest(ctx, env.user, now)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(suggestions), 3)

	// Priority descending first, then earliest due date.
	assert.Equal(t, "urgent older", suggestions[0].Task.Title)
	assert.Equal(t, "urgent fresh", suggestions[1].Task.Title)
	assert.Equal(t, "medium old", suggestions[2].Task.Title)
}

func TestSuggestBucketsAreIndependent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	// Pending, urgent, due within 24h: qualifies for both the due-soon and
	// the high-priority buckets and is listed in each.
	env.seedTask(t, model.Task{
		Title:    "double",
		Priority: model.PriorityUrgent,
		Status:   model.StatusPending,
		DueDate:  timePtr(now.Add(2 * time.Hour)),
	})

	suggestions, err := env.suggestions.Suggest(ctx, env.user, now)
	require.NoError(t, err)
	require.Len(t, suggestions, 3)

	assert.Equal(t, SuggestionDueSoon, suggestions[0].Type)
	assert.Equal(t, ActionStartWorking, suggestions[0].Action)
	assert.Equal(t, SuggestionHighPriority, suggestions[1].Type)
	assert.Equal(t, ActionPrioritize, suggestions[1].Action)
	assert.Equal(t, SuggestionTip, suggestions[2].Type)
}

func TestSuggestDueSoonExcludesInProgress(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	env.seedTask(t, model.Task{
		Title:    "already working",
		Priority: model.PriorityMedium,
		Status:   model.StatusInProgress,
		DueDate:  timePtr(now.Add(3 * time.Hour)),
	})

	suggestions, err := env.suggestions.Suggest(ctx, env.user, now)
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestSuggestHighPriorityCap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 4; i++ {
		env.seedTask(t, model.Task{
			Title:    fmt.Sprintf("big %d", i),
			Priority: model.PriorityHigh,
			Status:   model.StatusPending,
		})
	}

	suggestions, err := env.suggestions.Suggest(ctx, env.user, now)
	require.NoError(t, err)
	require.Len(t, suggestions, 4) // 3 capped entries + tip

	for _, s := range suggestions[:3] {
		assert.Equal(t, SuggestionHighPriority, s.Type)
	}
}
