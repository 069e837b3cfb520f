package model

import "time"

// Category is shared reference data tasks attach to (work, health, study,
// etc.). Categories are unowned; deleting one detaches its tasks rather than
// deleting them.
type Category struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex"`
	Color       string `gorm:"default:#007AFF"` // hex color
	Icon        string `gorm:"default:📋"`
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Tasks       []Task `gorm:"foreignKey:CategoryID"`
}
