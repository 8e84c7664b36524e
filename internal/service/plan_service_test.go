package service

import (
	"context"
	"testing"

	"lifeos/internal/model"
	"lifeos/internal/repository"
)

func newPlanService(t *testing.T) (*PlanService, *model.User, func() int64) {
	t.Helper()
	db := setupTestDB(t)
	count := func() int64 {
		var n int64
		db.Model(&model.WeeklyPlan{}).Count(&n)
		return n
	}
	return NewPlanService(repository.NewPlanRepository(db)), createTestUser(t, db, 300), count
}

func TestWeekPlanBlankWhenUnsaved(t *testing.T) {
	svc, user, _ := newPlanService(t)

	plan, err := svc.WeekPlan(context.Background(), user, model.DateKey("2026-03-05")) // Thursday
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if plan.WeekStartDate != model.DateKey("2026-03-02") {
		t.Errorf("week start = %s, want 2026-03-02", plan.WeekStartDate)
	}
	if plan.ID != 0 || plan.WeekTheme != "" || plan.FocusArea != "" {
		t.Errorf("expected a blank unsaved plan, got %+v", plan)
	}
}

func TestSaveWeekUpsertsOneRow(t *testing.T) {
	svc, user, count := newPlanService(t)
	ctx := context.Background()

	fields := WeekFields{
		Theme: "Deep work",
		Focus: "Shipping",
		Days:  [7]string{"Kickoff", "Heads down", "", "Review", "", "Rest", "Plan next"},
	}

	if _, err := svc.SaveWeek(ctx, user, model.DateKey("2026-03-04"), fields); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if _, err := svc.SaveWeek(ctx, user, model.DateKey("2026-03-04"), fields); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if n := count(); n != 1 {
		t.Fatalf("expected 1 plan row, got %d", n)
	}

	// A later save for the same week fully replaces the fields.
	fields.Theme = "Recovery"
	fields.Days[1] = ""
	if _, err := svc.SaveWeek(ctx, user, model.DateKey("2026-03-06"), fields); err != nil {
		t.Fatalf("third save: %v", err)
	}
	if n := count(); n != 1 {
		t.Fatalf("replacing save created a row: %d", n)
	}

	plan, err := svc.WeekPlan(ctx, user, model.DateKey("2026-03-08")) // Sunday, same week
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if plan.WeekTheme != "Recovery" {
		t.Errorf("theme = %q, want Recovery", plan.WeekTheme)
	}
	days := plan.DayPlans()
	if days[0] != "Kickoff" || days[1] != "" {
		t.Errorf("day fields not replaced: %v", days)
	}
}

func TestSaveWeekSeparatesWeeks(t *testing.T) {
	svc, user, count := newPlanService(t)
	ctx := context.Background()

	if _, err := svc.SaveWeek(ctx, user, model.DateKey("2026-03-04"), WeekFields{Theme: "A"}); err != nil {
		t.Fatalf("save week A: %v", err)
	}
	if _, err := svc.SaveWeek(ctx, user, model.DateKey("2026-03-11"), WeekFields{Theme: "B"}); err != nil {
		t.Fatalf("save week B: %v", err)
	}
	if n := count(); n != 2 {
		t.Errorf("expected 2 plan rows, got %d", n)
	}
}
