package service

import (
	"context"
	"errors"
	"testing"

	"lifeos/internal/model"
	"lifeos/internal/repository"
)

func newGoalService(t *testing.T) (*GoalService, *model.User) {
	t.Helper()
	db := setupTestDB(t)
	return NewGoalService(repository.NewGoalRepository(db)), createTestUser(t, db, 600)
}

func TestCreateGoalDefaults(t *testing.T) {
	svc, user := newGoalService(t)
	ctx := context.Background()

	goal, err := svc.CreateGoal(ctx, user, "Ship the side project", "MVP in prod", "Primary")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if goal.Category != "primary" {
		t.Errorf("category = %q, want primary (lowercased)", goal.Category)
	}
	if !goal.IsPrimary {
		t.Error("primary category must mark the goal primary")
	}
	if goal.Status != model.GoalStatusActive {
		t.Errorf("status = %q", goal.Status)
	}
	if want := model.Today().AddDays(90); goal.TargetDate != want {
		t.Errorf("target date = %s, want %s", goal.TargetDate, want)
	}

	skill, err := svc.CreateGoal(ctx, user, "Learn Rust", "", "skill")
	if err != nil {
		t.Fatalf("create skill goal: %v", err)
	}
	if skill.IsPrimary {
		t.Error("non-primary category must not mark the goal primary")
	}
}

func TestCreateGoalValidation(t *testing.T) {
	svc, user := newGoalService(t)
	ctx := context.Background()

	if _, err := svc.CreateGoal(ctx, user, "  ", "", "skill"); !errors.Is(err, ErrValidation) {
		t.Errorf("blank title: expected ErrValidation, got %v", err)
	}
	if _, err := svc.CreateGoal(ctx, user, "Something", "", ""); !errors.Is(err, ErrValidation) {
		t.Errorf("blank category: expected ErrValidation, got %v", err)
	}
	if _, err := svc.CreateGoal(ctx, user, "Something", "", "hobby"); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown category: expected ErrValidation, got %v", err)
	}
}

func TestUpdateProgressClamps(t *testing.T) {
	svc, user := newGoalService(t)
	ctx := context.Background()

	goal, err := svc.CreateGoal(ctx, user, "Run a marathon", "", "health")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateProgress(ctx, user, goal.ID, 150)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ProgressPercentage != 100 {
		t.Errorf("progress = %d, want clamped 100", updated.ProgressPercentage)
	}

	updated, err = svc.UpdateProgress(ctx, user, goal.ID, -10)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ProgressPercentage != 0 {
		t.Errorf("progress = %d, want clamped 0", updated.ProgressPercentage)
	}
}

func TestArchiveRemovesFromActiveList(t *testing.T) {
	svc, user := newGoalService(t)
	ctx := context.Background()

	goal, err := svc.CreateGoal(ctx, user, "Save 10k", "", "financial")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Archive(ctx, user, goal.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}

	active, err := svc.ListActive(ctx, user)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("archived goal still active: %d goals", len(active))
	}
}
