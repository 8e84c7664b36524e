package model

import (
	"time"

	"gorm.io/datatypes"
)

// InsightTypeDailyMotivation is the insight consumed by the daily view; the
// newest same-day row is the active one, older rows are history.
const InsightTypeDailyMotivation = "daily_motivation"

// AIInsight is one generated motivational message. Rows accumulate;
// regeneration appends rather than replacing.
type AIInsight struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index:idx_insights_user_type"`
	InsightType string `gorm:"index:idx_insights_user_type"`
	Content     string
	Context     datatypes.JSON
	GeneratedAt time.Time `gorm:"index"`
}
