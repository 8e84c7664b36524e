package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"lifeos/internal/model"
)

// PlanRepository handles the one-row-per-week plan records.
type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// FindByWeek returns the plan for (user, weekStart), or
// gorm.ErrRecordNotFound.
func (r *PlanRepository) FindByWeek(ctx context.Context, userID uint, weekStart model.DateKey) (*model.WeeklyPlan, error) {
	var plan model.WeeklyPlan
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND week_start_date = ?", userID, weekStart).
		First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) ListByUser(ctx context.Context, userID uint) ([]model.WeeklyPlan, error) {
	var plans []model.WeeklyPlan
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("week_start_date ASC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// Upsert writes the plan keyed by (user_id, week_start_date): read the
// existing row, then create or fully replace the text fields. The explicit
// read-then-write keeps the operation independent of any store-native
// ON CONFLICT syntax.
func (r *PlanRepository) Upsert(ctx context.Context, plan *model.WeeklyPlan) error {
	db := r.db.WithContext(ctx)

	var existing model.WeeklyPlan
	err := db.Where("user_id = ? AND week_start_date = ?", plan.UserID, plan.WeekStartDate).
		First(&existing).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"week_theme":     plan.WeekTheme,
			"focus_area":     plan.FocusArea,
			"monday_plan":    plan.MondayPlan,
			"tuesday_plan":   plan.TuesdayPlan,
			"wednesday_plan": plan.WednesdayPlan,
			"thursday_plan":  plan.ThursdayPlan,
			"friday_plan":    plan.FridayPlan,
			"saturday_plan":  plan.SaturdayPlan,
			"sunday_plan":    plan.SundayPlan,
			"updated_at":     time.Now(),
		}
		if err := db.Model(&existing).Updates(updates).Error; err != nil {
			return fmt.Errorf("update weekly plan: %w", err)
		}
		plan.ID = existing.ID
		plan.CreatedAt = existing.CreatedAt
		return nil
	case err == gorm.ErrRecordNotFound:
		if err := db.Create(plan).Error; err != nil {
			return fmt.Errorf("create weekly plan: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("find weekly plan: %w", err)
	}
}
