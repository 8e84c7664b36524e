package model

import "time"

// QuickNote is a free-form, append-only note.
type QuickNote struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"index"`
	Content   string
	CreatedAt time.Time
}
