package model

import "time"

// Habit is a recurring practice with cached streak counters. The counters
// are mutated only by completion toggles; current_streak never goes below
// zero and best_streak never decreases.
type Habit struct {
	ID            uint `gorm:"primaryKey"`
	UserID        uint `gorm:"index"`
	Name          string
	Category      string
	Frequency     string `gorm:"default:daily"`
	IsActive      bool   `gorm:"default:true"`
	CurrentStreak int    `gorm:"default:0"`
	BestStreak    int    `gorm:"default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HabitCompletion marks a habit done on a date. At most one row exists per
// (habit, date).
type HabitCompletion struct {
	ID             uint    `gorm:"primaryKey"`
	HabitID        uint    `gorm:"index:idx_completions_habit_date,unique"`
	UserID         uint    `gorm:"index"`
	CompletionDate DateKey `gorm:"index:idx_completions_habit_date,unique;type:varchar(10)"`
	CreatedAt      time.Time
}
