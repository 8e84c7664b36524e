package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"lifeos/internal/model"
)

// InsightRepository handles the append-only AI insight history.
type InsightRepository struct {
	db *gorm.DB
}

func NewInsightRepository(db *gorm.DB) *InsightRepository {
	return &InsightRepository{db: db}
}

// FindSince returns the newest insight of the given type generated at or
// after since, or gorm.ErrRecordNotFound.
func (r *InsightRepository) FindSince(ctx context.Context, userID uint, insightType string, since time.Time) (*model.AIInsight, error) {
	var insight model.AIInsight
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND insight_type = ? AND generated_at >= ?", userID, insightType, since).
		Order("generated_at DESC").
		First(&insight).Error; err != nil {
		return nil, err
	}
	return &insight, nil
}

func (r *InsightRepository) Create(ctx context.Context, insight *model.AIInsight) error {
	if err := r.db.WithContext(ctx).Create(insight).Error; err != nil {
		return fmt.Errorf("create insight: %w", err)
	}
	return nil
}
