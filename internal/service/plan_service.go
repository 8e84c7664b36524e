package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"lifeos/internal/model"
	"lifeos/internal/repository"
)

// WeekFields carries the replaceable text fields of a weekly plan.
type WeekFields struct {
	Theme string
	Focus string
	Days  [7]string // Monday..Sunday
}

// PlanService reads and upserts the one-row-per-week plans.
type PlanService struct {
	plans *repository.PlanRepository
}

func NewPlanService(plans *repository.PlanRepository) *PlanService {
	return &PlanService{plans: plans}
}

// WeekPlan returns the plan for the week containing date. A week that was
// never saved yields an all-blank plan rather than an error, keyed to the
// week's Monday.
func (s *PlanService) WeekPlan(ctx context.Context, user *model.User, date model.DateKey) (*model.WeeklyPlan, error) {
	weekStart := date.WeekStart()
	plan, err := s.plans.FindByWeek(ctx, user.ID, weekStart)
	switch {
	case err == nil:
		return plan, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &model.WeeklyPlan{UserID: user.ID, WeekStartDate: weekStart}, nil
	default:
		return nil, fmt.Errorf("load weekly plan: %w", err)
	}
}

// SaveWeek upserts the plan for the week containing date, fully replacing
// the theme, focus and seven day fields. Saving identical fields twice
// leaves exactly one record.
func (s *PlanService) SaveWeek(ctx context.Context, user *model.User, date model.DateKey, fields WeekFields) (*model.WeeklyPlan, error) {
	plan := &model.WeeklyPlan{
		UserID:        user.ID,
		WeekStartDate: date.WeekStart(),
		WeekTheme:     fields.Theme,
		FocusArea:     fields.Focus,
	}
	plan.SetDayPlans(fields.Days)

	if err := s.plans.Upsert(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}
