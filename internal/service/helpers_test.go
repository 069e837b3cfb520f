package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskmaster/internal/model"
	"taskmaster/internal/repository"
)

// testEnv wires repositories and services over a throwaway SQLite database.
type testEnv struct {
	db            *gorm.DB
	taskRepo      *repository.TaskRepository
	categoryRepo  *repository.CategoryRepository
	userRepo      *repository.UserRepository
	notifRepo     *repository.NotificationRepository
	analyticsRepo *repository.AnalyticsRepository

	tasks         *TaskService
	categories    *CategoryService
	suggestions   *SuggestionService
	analytics     *AnalyticsService
	notifications *NotificationService

	user *model.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	env := &testEnv{
		db:            db,
		taskRepo:      repository.NewTaskRepository(db),
		categoryRepo:  repository.NewCategoryRepository(db),
		userRepo:      repository.NewUserRepository(db),
		notifRepo:     repository.NewNotificationRepository(db),
		analyticsRepo: repository.NewAnalyticsRepository(db),
	}
	env.tasks = NewTaskService(env.taskRepo, env.categoryRepo, env.notifRepo)
	env.categories = NewCategoryService(env.categoryRepo)
	env.suggestions = NewSuggestionService(env.taskRepo)
	env.analytics = NewAnalyticsService(env.taskRepo, env.categoryRepo, env.userRepo, env.analyticsRepo)
	env.notifications = NewNotificationService(env.notifRepo, env.taskRepo)

	env.user = &model.User{Username: "alice", DefaultPriority: model.PriorityMedium, Timezone: "UTC"}
	require.NoError(t, env.userRepo.Create(context.Background(), env.user))

	return env
}

// seedTask inserts a task directly, bypassing creation-time validation, so
// tests can build overdue and historical fixtures.
func (e *testEnv) seedTask(t *testing.T, task model.Task) *model.Task {
	t.Helper()
	if task.UserID == 0 {
		task.UserID = e.user.ID
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if task.Status == "" {
		task.Status = model.StatusPending
	}
	require.NoError(t, e.taskRepo.Create(context.Background(), &task))
	return &task
}

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }
