package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"lifeos/internal/insight"
	"lifeos/internal/model"
	"lifeos/internal/repository"
)

// Generator produces motivational text from a prompt and the stats the
// fallback selector weights on.
type Generator interface {
	Generate(ctx context.Context, prompt string, stats insight.Stats) (string, error)
}

// InsightService caches one generated daily-motivation message per (user,
// date): the generator runs at most once a day unless Regenerate is called.
// Rows are never deleted; history accumulates.
type InsightService struct {
	insights *repository.InsightRepository
	stats    *StatsService
	gen      Generator
}

func NewInsightService(insights *repository.InsightRepository, stats *StatsService, gen Generator) *InsightService {
	return &InsightService{insights: insights, stats: stats, gen: gen}
}

// DailyMotivation returns the day's motivation message. An insight generated
// on or after the start of date is returned as-is; otherwise the generator
// runs once and the result is persisted with the stats snapshot as context.
// The bool reports a cache hit.
func (s *InsightService) DailyMotivation(ctx context.Context, user *model.User, date model.DateKey) (*model.AIInsight, bool, error) {
	since := date.StartOfDay(time.Local)
	existing, err := s.insights.FindSince(ctx, user.ID, model.InsightTypeDailyMotivation, since)
	switch {
	case err == nil:
		return existing, true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		generated, err := s.generateAndStore(ctx, user, date)
		return generated, false, err
	default:
		return nil, false, fmt.Errorf("find insight: %w", err)
	}
}

// Regenerate always calls the generator and appends a new row; earlier rows
// stay as history.
func (s *InsightService) Regenerate(ctx context.Context, user *model.User, date model.DateKey) (*model.AIInsight, error) {
	return s.generateAndStore(ctx, user, date)
}

func (s *InsightService) generateAndStore(ctx context.Context, user *model.User, date model.DateKey) (*model.AIInsight, error) {
	snapshot, err := s.stats.Snapshot(ctx, user, date)
	if err != nil {
		return nil, err
	}

	content, err := s.gen.Generate(ctx, motivationPrompt(snapshot), insight.Stats{
		CompletionRate: snapshot.CompletionRate(),
		CurrentStreak:  snapshot.LongestStreak,
	})
	if err != nil {
		return nil, fmt.Errorf("generate insight: %w", err)
	}

	contextJSON, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encode insight context: %w", err)
	}

	row := &model.AIInsight{
		UserID:      user.ID,
		InsightType: model.InsightTypeDailyMotivation,
		Content:     content,
		Context:     datatypes.JSON(contextJSON),
		GeneratedAt: time.Now(),
	}
	if err := s.insights.Create(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func motivationPrompt(stats DailyStats) string {
	return fmt.Sprintf(`Generate a brief, motivational message for a professional who:
- Completed %d out of %d tasks today (%.0f%% completion rate)
- Has %d active 90-day goals
- Has a longest habit streak of %d days

Keep it encouraging, specific to their progress, and actionable. Max 2-3 sentences.`,
		stats.TodayCompleted, stats.TodayTotal, stats.CompletionRate(),
		stats.ActiveGoals, stats.LongestStreak)
}
