package model

import "time"

// User owns tasks, notifications and analytics rows. TelegramChatID links an
// optional delivery channel for reminders; zero means not linked.
type User struct {
	ID              uint   `gorm:"primaryKey"`
	Username        string `gorm:"uniqueIndex"`
	Email           string
	FirstName       string
	LastName        string
	Timezone        string   `gorm:"default:UTC"`
	DefaultPriority Priority `gorm:"default:medium"`
	TelegramChatID  int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
