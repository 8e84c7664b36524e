package model

import "time"

// Goal statuses.
const (
	GoalStatusActive   = "active"
	GoalStatusArchived = "archived"
)

// GoalCategories are the selectable goal areas; "primary" marks the single
// headline goal.
var GoalCategories = []string{"primary", "skill", "health", "financial", "personal"}

// Goal is a 90-day objective. Goals are archived, never hard-deleted.
type Goal struct {
	ID                 uint `gorm:"primaryKey"`
	UserID             uint `gorm:"index"`
	Title              string
	Description        string
	Category           string
	IsPrimary          bool    `gorm:"default:false"`
	ProgressPercentage int     `gorm:"default:0"`
	TargetDate         DateKey `gorm:"type:varchar(10)"`
	Status             string  `gorm:"default:active;index"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
