package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lifeos/internal/model"
	"lifeos/internal/repository"
)

// Export is the full JSON dump of one user's data.
type Export struct {
	ExportID    string                  `json:"export_id"`
	ExportedAt  time.Time               `json:"exported_at"`
	Tasks       []model.DailyTask       `json:"tasks"`
	Habits      []model.Habit           `json:"habits"`
	Completions []model.HabitCompletion `json:"habit_completions"`
	Goals       []model.Goal            `json:"goals"`
	Plans       []model.WeeklyPlan      `json:"weekly_plans"`
	Moods       []model.MoodEntry       `json:"mood_entries"`
	Gratitude   []model.GratitudeEntry  `json:"gratitude_entries"`
	Health      []model.HealthMetric    `json:"health_metrics"`
	Notes       []model.QuickNote       `json:"quick_notes"`
}

// ExportService assembles the dump across all repositories.
type ExportService struct {
	tasks     *repository.TaskRepository
	habits    *repository.HabitRepository
	goals     *repository.GoalRepository
	plans     *repository.PlanRepository
	wellbeing *repository.WellbeingRepository
	notes     *repository.NoteRepository
}

func NewExportService(
	tasks *repository.TaskRepository,
	habits *repository.HabitRepository,
	goals *repository.GoalRepository,
	plans *repository.PlanRepository,
	wellbeing *repository.WellbeingRepository,
	notes *repository.NoteRepository,
) *ExportService {
	return &ExportService{
		tasks:     tasks,
		habits:    habits,
		goals:     goals,
		plans:     plans,
		wellbeing: wellbeing,
		notes:     notes,
	}
}

// Export marshals every row the user owns into one indented JSON document
// tagged with a fresh UUID.
func (s *ExportService) Export(ctx context.Context, user *model.User) ([]byte, error) {
	out := Export{
		ExportID:   uuid.NewString(),
		ExportedAt: time.Now(),
	}

	var err error
	if out.Tasks, err = s.tasks.ListByUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("export tasks: %w", err)
	}
	if out.Habits, err = s.habits.ListByUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("export habits: %w", err)
	}
	if out.Completions, err = s.habits.ListCompletionsByUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("export completions: %w", err)
	}
	if out.Goals, err = s.goals.ListByUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("export goals: %w", err)
	}
	if out.Plans, err = s.plans.ListByUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("export plans: %w", err)
	}
	if out.Moods, err = s.wellbeing.ListMoodsByUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("export moods: %w", err)
	}
	if out.Gratitude, err = s.wellbeing.ListGratitudeByUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("export gratitude: %w", err)
	}
	if out.Health, err = s.wellbeing.ListHealthByUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("export health: %w", err)
	}
	if out.Notes, err = s.notes.ListByUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("export notes: %w", err)
	}

	payload, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return payload, nil
}
