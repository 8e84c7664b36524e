package service

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"lifeos/internal/model"
	"lifeos/internal/repository"
)

func newHabitService(t *testing.T) (*HabitService, *repository.HabitRepository, *model.User) {
	t.Helper()
	db := setupTestDB(t)
	repo := repository.NewHabitRepository(db)
	return NewHabitService(repo), repo, createTestUser(t, db, 200)
}

func TestCreateHabitDefaults(t *testing.T) {
	svc, _, user := newHabitService(t)
	ctx := context.Background()

	habit, err := svc.CreateHabit(ctx, user, "  Meditate  ", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if habit.Name != "Meditate" {
		t.Errorf("name = %q", habit.Name)
	}
	if habit.Category != "general" {
		t.Errorf("category = %q, want general", habit.Category)
	}
	if habit.Frequency != "daily" || !habit.IsActive {
		t.Errorf("unexpected defaults: freq=%q active=%t", habit.Frequency, habit.IsActive)
	}
	if habit.CurrentStreak != 0 || habit.BestStreak != 0 {
		t.Errorf("streaks should start at zero: %d/%d", habit.CurrentStreak, habit.BestStreak)
	}

	if _, err := svc.CreateHabit(ctx, user, "   ", "health"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for blank name, got %v", err)
	}
}

func TestToggleCompletionRoundTrip(t *testing.T) {
	svc, _, user := newHabitService(t)
	ctx := context.Background()
	date := model.DateKey("2026-03-02")

	habit, err := svc.CreateHabit(ctx, user, "Meditate", "mindfulness")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	toggled, done, err := svc.ToggleCompletion(ctx, user, habit.ID, date)
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if !done {
		t.Error("expected done=true after first toggle")
	}
	if toggled.CurrentStreak != 1 || toggled.BestStreak != 1 {
		t.Errorf("after toggle on: streak %d/%d, want 1/1", toggled.CurrentStreak, toggled.BestStreak)
	}

	toggled, done, err = svc.ToggleCompletion(ctx, user, habit.ID, date)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if done {
		t.Error("expected done=false after second toggle")
	}
	if toggled.CurrentStreak != 0 {
		t.Errorf("after toggle off: current %d, want 0", toggled.CurrentStreak)
	}
	if toggled.BestStreak != 1 {
		t.Errorf("best streak must not decrease: %d", toggled.BestStreak)
	}

	completions, err := svc.CompletionsOn(ctx, user, date)
	if err != nil {
		t.Fatalf("completions: %v", err)
	}
	if len(completions) != 0 {
		t.Errorf("expected no completion rows after toggle off, got %d", len(completions))
	}
}

func TestToggleCompletionAdjustsCachedCounter(t *testing.T) {
	svc, repo, user := newHabitService(t)
	ctx := context.Background()

	habit, err := svc.CreateHabit(ctx, user, "Run", "fitness")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.UpdateStreaks(ctx, habit, 3, 5); err != nil {
		t.Fatalf("prime streaks: %v", err)
	}

	// Toggling a week-old date still moves the cached counter by one.
	past := model.DateKey("2026-02-23")
	toggled, _, err := svc.ToggleCompletion(ctx, user, habit.ID, past)
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if toggled.CurrentStreak != 4 || toggled.BestStreak != 5 {
		t.Errorf("after toggle on: %d/%d, want 4/5", toggled.CurrentStreak, toggled.BestStreak)
	}

	toggled, _, err = svc.ToggleCompletion(ctx, user, habit.ID, past)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if toggled.CurrentStreak != 3 || toggled.BestStreak != 5 {
		t.Errorf("after toggle off: %d/%d, want 3/5", toggled.CurrentStreak, toggled.BestStreak)
	}
}

func TestToggleCompletionFloorsAtZero(t *testing.T) {
	svc, repo, user := newHabitService(t)
	ctx := context.Background()
	date := model.DateKey("2026-03-02")

	habit, err := svc.CreateHabit(ctx, user, "Journal", "mindfulness")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// A completion row with a zero cached counter, as a partial write leaves.
	if err := repo.CreateCompletion(ctx, &model.HabitCompletion{
		HabitID: habit.ID, UserID: user.ID, CompletionDate: date,
	}); err != nil {
		t.Fatalf("insert completion: %v", err)
	}

	toggled, done, err := svc.ToggleCompletion(ctx, user, habit.ID, date)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if done {
		t.Error("expected done=false")
	}
	if toggled.CurrentStreak != 0 {
		t.Errorf("current streak went negative: %d", toggled.CurrentStreak)
	}
}

func TestToggleCompletionUnknownHabit(t *testing.T) {
	svc, _, user := newHabitService(t)

	_, _, err := svc.ToggleCompletion(context.Background(), user, 999, model.DateKey("2026-03-02"))
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestDeactivateKeepsCompletionHistory(t *testing.T) {
	svc, repo, user := newHabitService(t)
	ctx := context.Background()
	date := model.DateKey("2026-03-02")

	habit, err := svc.CreateHabit(ctx, user, "Stretch", "fitness")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, _, err := svc.ToggleCompletion(ctx, user, habit.ID, date); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if err := svc.Deactivate(ctx, user, habit.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	active, err := svc.ListActive(ctx, user)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("deactivated habit still listed")
	}

	rows, err := repo.ListCompletionsByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("completions: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("completion history lost: %d rows", len(rows))
	}

	if err := svc.Deactivate(ctx, user, habit.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("second deactivate: expected ErrRecordNotFound, got %v", err)
	}
}

func TestAuditStreaksDetectsDivergence(t *testing.T) {
	svc, repo, user := newHabitService(t)
	ctx := context.Background()
	today := model.DateKey("2026-03-04")

	habit, err := svc.CreateHabit(ctx, user, "Read", "learning")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, d := range []model.DateKey{"2026-03-02", "2026-03-03", "2026-03-04"} {
		if err := repo.CreateCompletion(ctx, &model.HabitCompletion{
			HabitID: habit.ID, UserID: user.ID, CompletionDate: d,
		}); err != nil {
			t.Fatalf("insert completion %s: %v", d, err)
		}
	}
	// Cached counter says 1; the rows say 3.
	if err := repo.UpdateStreaks(ctx, habit, 1, 1); err != nil {
		t.Fatalf("prime streaks: %v", err)
	}

	audits, err := svc.AuditStreaks(ctx, user, today)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if len(audits) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(audits))
	}
	if audits[0].DerivedStreak != 3 {
		t.Errorf("derived streak = %d, want 3", audits[0].DerivedStreak)
	}
}

func TestContiguousRunOpenDay(t *testing.T) {
	completions := []model.HabitCompletion{
		{CompletionDate: "2026-03-01"},
		{CompletionDate: "2026-03-02"},
		{CompletionDate: "2026-03-03"},
	}
	// Today unchecked: the run ending yesterday is still alive.
	if got := contiguousRun(completions, "2026-03-04"); got != 3 {
		t.Errorf("open day run = %d, want 3", got)
	}
	// Today checked extends it.
	completions = append(completions, model.HabitCompletion{CompletionDate: "2026-03-04"})
	if got := contiguousRun(completions, "2026-03-04"); got != 4 {
		t.Errorf("closed day run = %d, want 4", got)
	}
	// A gap two days back breaks the run.
	if got := contiguousRun(completions, "2026-03-06"); got != 0 {
		t.Errorf("gapped run = %d, want 0", got)
	}
}
