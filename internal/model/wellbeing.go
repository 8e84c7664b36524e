package model

import (
	"time"

	"gorm.io/datatypes"
)

// MoodEntry records mood and energy for a date, one row per (user, date),
// last write wins.
type MoodEntry struct {
	ID          uint    `gorm:"primaryKey"`
	UserID      uint    `gorm:"index:idx_moods_user_date,unique"`
	EntryDate   DateKey `gorm:"index:idx_moods_user_date,unique;type:varchar(10)"`
	MoodScore   int
	EnergyLevel int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GratitudeEntry records the day's gratitude items, one row per (user, date).
// MoodCorrelation snapshots the mood score at save time, if any.
type GratitudeEntry struct {
	ID              uint    `gorm:"primaryKey"`
	UserID          uint    `gorm:"index:idx_gratitude_user_date,unique"`
	EntryDate       DateKey `gorm:"index:idx_gratitude_user_date,unique;type:varchar(10)"`
	Items           datatypes.JSON
	MoodCorrelation *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HealthMetric records sleep and hydration for a date, one row per
// (user, date).
type HealthMetric struct {
	ID            uint    `gorm:"primaryKey"`
	UserID        uint    `gorm:"index:idx_health_user_date,unique"`
	MetricDate    DateKey `gorm:"index:idx_health_user_date,unique;type:varchar(10)"`
	SleepHours    *float64
	WaterIntakeML *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
