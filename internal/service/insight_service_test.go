package service

import (
	"context"
	"encoding/json"
	"testing"

	"gorm.io/gorm"

	"lifeos/internal/insight"
	"lifeos/internal/model"
	"lifeos/internal/repository"
)

type stubGenerator struct {
	calls   int
	message string
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string, stats insight.Stats) (string, error) {
	g.calls++
	return g.message, nil
}

func newInsightService(t *testing.T, gen Generator) (*InsightService, *model.User, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	stats := NewStatsService(
		repository.NewTaskRepository(db),
		repository.NewGoalRepository(db),
		repository.NewHabitRepository(db),
	)
	svc := NewInsightService(repository.NewInsightRepository(db), stats, gen)
	return svc, createTestUser(t, db, 500), db
}

func TestDailyMotivationGeneratesOncePerDay(t *testing.T) {
	gen := &stubGenerator{message: "Great job!"}
	svc, user, _ := newInsightService(t, gen)
	ctx := context.Background()
	today := model.Today()

	first, cached, err := svc.DailyMotivation(ctx, user, today)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if cached {
		t.Error("first call must not be a cache hit")
	}
	if first.Content != "Great job!" {
		t.Errorf("content = %q", first.Content)
	}
	if gen.calls != 1 {
		t.Fatalf("generator calls = %d, want 1", gen.calls)
	}

	second, cached, err := svc.DailyMotivation(ctx, user, today)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !cached {
		t.Error("second call must be a cache hit")
	}
	if second.Content != "Great job!" {
		t.Errorf("cached content = %q", second.Content)
	}
	if gen.calls != 1 {
		t.Errorf("generator ran again on a cache hit: %d calls", gen.calls)
	}
}

func TestDailyMotivationStoresStatsContext(t *testing.T) {
	gen := &stubGenerator{message: "Keep going"}
	svc, user, _ := newInsightService(t, gen)

	row, _, err := svc.DailyMotivation(context.Background(), user, model.Today())
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if row.InsightType != model.InsightTypeDailyMotivation {
		t.Errorf("insight type = %q", row.InsightType)
	}

	var snapshot DailyStats
	if err := json.Unmarshal(row.Context, &snapshot); err != nil {
		t.Fatalf("context is not a stats snapshot: %v", err)
	}
}

func TestRegenerateAppendsHistory(t *testing.T) {
	gen := &stubGenerator{message: "v1"}
	svc, user, db := newInsightService(t, gen)
	ctx := context.Background()
	today := model.Today()

	if _, _, err := svc.DailyMotivation(ctx, user, today); err != nil {
		t.Fatalf("seed: %v", err)
	}

	gen.message = "v2"
	fresh, err := svc.Regenerate(ctx, user, today)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if fresh.Content != "v2" {
		t.Errorf("regenerated content = %q", fresh.Content)
	}
	if gen.calls != 2 {
		t.Errorf("generator calls = %d, want 2", gen.calls)
	}

	var rows int64
	db.Model(&model.AIInsight{}).Count(&rows)
	if rows != 2 {
		t.Errorf("expected 2 insight rows, got %d", rows)
	}

	// The day view now serves the regenerated row.
	latest, cached, err := svc.DailyMotivation(ctx, user, today)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !cached || latest.Content != "v2" {
		t.Errorf("latest = %q cached=%t, want v2/true", latest.Content, cached)
	}
}
