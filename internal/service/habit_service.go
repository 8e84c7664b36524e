package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"lifeos/internal/model"
	"lifeos/internal/repository"
)

// HabitService owns habit lifecycle and the streak engine.
//
// The streak counters are a cached derived value, not recomputed from
// history: each toggle applies ±1 to current_streak regardless of which date
// was toggled, and best_streak only ever rises. AuditStreaks exposes the
// divergence this (or a partial write) can produce.
type HabitService struct {
	habits *repository.HabitRepository
}

func NewHabitService(habits *repository.HabitRepository) *HabitService {
	return &HabitService{habits: habits}
}

// CreateHabit adds an active daily habit. Name is required; a blank category
// defaults to "general".
func (s *HabitService) CreateHabit(ctx context.Context, user *model.User, name, category string) (*model.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: habit name is required", ErrValidation)
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = "general"
	}

	habit := model.Habit{
		UserID:    user.ID,
		Name:      name,
		Category:  category,
		Frequency: "daily",
		IsActive:  true,
	}
	if err := s.habits.Create(ctx, &habit); err != nil {
		return nil, err
	}
	return &habit, nil
}

func (s *HabitService) ListActive(ctx context.Context, user *model.User) ([]model.Habit, error) {
	return s.habits.ListActive(ctx, user.ID)
}

// Deactivate soft-deletes a habit; its completion history stays.
func (s *HabitService) Deactivate(ctx context.Context, user *model.User, habitID uint) error {
	return s.habits.Deactivate(ctx, user.ID, habitID)
}

// CompletionsOn returns the user's completions for a date indexed by habit.
func (s *HabitService) CompletionsOn(ctx context.Context, user *model.User, date model.DateKey) (map[uint]model.HabitCompletion, error) {
	completions, err := s.habits.ListCompletionsOn(ctx, user.ID, date)
	if err != nil {
		return nil, err
	}
	byHabit := make(map[uint]model.HabitCompletion, len(completions))
	for _, c := range completions {
		byHabit[c.HabitID] = c
	}
	return byHabit, nil
}

// ToggleCompletion flips the habit's completion for a date and mutates the
// cached counters:
//
//	not done -> done:  insert row, current++, best = max(best, current)
//	done -> not done:  delete row, current = max(0, current-1), best untouched
//
// The returned bool is the new done state. If the completion write lands but
// the counter update fails, the habit is returned alongside an error wrapping
// ErrStreakInconsistent: the rows and the counters now disagree and only a
// reconciliation pass (see AuditStreaks) can fix it.
func (s *HabitService) ToggleCompletion(ctx context.Context, user *model.User, habitID uint, date model.DateKey) (*model.Habit, bool, error) {
	habit, err := s.habits.FindByID(ctx, user.ID, habitID)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.habits.FindCompletion(ctx, habit.ID, date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("find completion: %w", err)
	}

	if existing != nil {
		if err := s.habits.DeleteCompletion(ctx, existing.ID); err != nil {
			return nil, true, err
		}
		current := habit.CurrentStreak - 1
		if current < 0 {
			current = 0
		}
		if err := s.habits.UpdateStreaks(ctx, habit, current, habit.BestStreak); err != nil {
			return habit, false, fmt.Errorf("%w: %v", ErrStreakInconsistent, err)
		}
		return habit, false, nil
	}

	completion := model.HabitCompletion{
		HabitID:        habit.ID,
		UserID:         user.ID,
		CompletionDate: date,
	}
	if err := s.habits.CreateCompletion(ctx, &completion); err != nil {
		return nil, false, err
	}
	current := habit.CurrentStreak + 1
	best := habit.BestStreak
	if current > best {
		best = current
	}
	if err := s.habits.UpdateStreaks(ctx, habit, current, best); err != nil {
		return habit, true, fmt.Errorf("%w: %v", ErrStreakInconsistent, err)
	}
	return habit, true, nil
}

// StreakAudit reports one habit whose cached counter disagrees with its
// completion rows.
type StreakAudit struct {
	Habit         model.Habit
	DerivedStreak int
}

// AuditStreaks compares each active habit's current_streak against the
// contiguous completion run ending at date (or at the day before, while the
// date itself is still open). Detection only; nothing is mutated.
func (s *HabitService) AuditStreaks(ctx context.Context, user *model.User, date model.DateKey) ([]StreakAudit, error) {
	habits, err := s.habits.ListActive(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	var audits []StreakAudit
	for _, habit := range habits {
		completions, err := s.habits.ListCompletionsForHabit(ctx, habit.ID, date)
		if err != nil {
			return nil, err
		}
		derived := contiguousRun(completions, date)
		if derived != habit.CurrentStreak {
			audits = append(audits, StreakAudit{Habit: habit, DerivedStreak: derived})
		}
	}
	return audits, nil
}

// contiguousRun counts consecutive completion dates ending at date. A run is
// still alive if date itself has no completion yet but date-1 does.
func contiguousRun(completions []model.HabitCompletion, date model.DateKey) int {
	done := make(map[model.DateKey]bool, len(completions))
	for _, c := range completions {
		done[c.CompletionDate] = true
	}

	cursor := date
	if !done[cursor] {
		cursor = cursor.AddDays(-1)
	}

	run := 0
	for done[cursor] {
		run++
		cursor = cursor.AddDays(-1)
	}
	return run
}
