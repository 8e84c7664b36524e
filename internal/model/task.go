package model

import "time"

// DailyTask is a single time block in a day's plan. Rows for a date are
// seeded once from the template; (user, date, slot) uniqueness is kept by
// seeding discipline, not a stored constraint.
type DailyTask struct {
	ID              uint    `gorm:"primaryKey"`
	UserID          uint    `gorm:"index:idx_tasks_user_date"`
	TaskDate        DateKey `gorm:"index:idx_tasks_user_date;type:varchar(10)"`
	TimeSlot        string
	Title           string
	Description     string
	Completed       bool `gorm:"default:false"`
	CompletedAt     *time.Time
	DurationMinutes int
	SortOrder       int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
