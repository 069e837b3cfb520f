package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskmaster/internal/model"
)

// AnalyticsRepository stores the per-user per-day rollup rows.
type AnalyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// Upsert writes the rollup row for (user, date), replacing the counters of an
// existing row so the job can be re-run for the same day.
func (r *AnalyticsRepository) Upsert(ctx context.Context, rollup *model.TaskAnalytics) error {
	db := r.db.WithContext(ctx)

	var existing model.TaskAnalytics
	err := db.Where("user_id = ? AND date = ?", rollup.UserID, rollup.Date).First(&existing).Error
	switch {
	case err == nil:
		rollup.ID = existing.ID
		rollup.CreatedAt = existing.CreatedAt
		if err := db.Save(rollup).Error; err != nil {
			return fmt.Errorf("update analytics row: %w", err)
		}
		return nil
	case err == gorm.ErrRecordNotFound:
		if err := db.Create(rollup).Error; err != nil {
			return fmt.Errorf("create analytics row: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("find analytics row: %w", err)
	}
}

// ListBetween returns stored rollups for [from, to], oldest first.
func (r *AnalyticsRepository) ListBetween(ctx context.Context, userID uint, from, to time.Time) ([]model.TaskAnalytics, error) {
	var rows []model.TaskAnalytics
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
