package model

import "time"

// TaskAnalytics is a per-user per-day rollup written by the daily aggregation
// job. One row per (user, date); the rest of the system treats it as
// read-only history.
type TaskAnalytics struct {
	ID     uint      `gorm:"primaryKey"`
	UserID uint      `gorm:"index:idx_analytics_user_date,unique"`
	Date   time.Time `gorm:"index:idx_analytics_user_date,unique"`

	TasksCreated   int `gorm:"default:0"`
	TasksCompleted int `gorm:"default:0"`
	TasksOverdue   int `gorm:"default:0"`
	// TotalDuration is the sum of actual durations, in minutes.
	TotalDuration int `gorm:"default:0"`

	CompletionRate       float64        `gorm:"default:0"`
	AverageTaskDuration  float64        `gorm:"default:0"`
	PriorityDistribution map[string]int `gorm:"serializer:json"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
