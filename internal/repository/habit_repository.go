package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"lifeos/internal/model"
)

// HabitRepository handles habits and their completion rows.
type HabitRepository struct {
	db *gorm.DB
}

func NewHabitRepository(db *gorm.DB) *HabitRepository {
	return &HabitRepository{db: db}
}

func (r *HabitRepository) Create(ctx context.Context, habit *model.Habit) error {
	if err := r.db.WithContext(ctx).Create(habit).Error; err != nil {
		return fmt.Errorf("create habit: %w", err)
	}
	return nil
}

// ListActive returns the user's active habits, newest first.
func (r *HabitRepository) ListActive(ctx context.Context, userID uint) ([]model.Habit, error) {
	var habits []model.Habit
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		Find(&habits).Error; err != nil {
		return nil, err
	}
	return habits, nil
}

func (r *HabitRepository) FindByID(ctx context.Context, userID, habitID uint) (*model.Habit, error) {
	var habit model.Habit
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, habitID).First(&habit).Error; err != nil {
		return nil, err
	}
	return &habit, nil
}

// UpdateStreaks persists new counter values on the habit row.
func (r *HabitRepository) UpdateStreaks(ctx context.Context, habit *model.Habit, current, best int) error {
	updates := map[string]interface{}{
		"current_streak": current,
		"best_streak":    best,
	}
	if err := r.db.WithContext(ctx).Model(habit).Updates(updates).Error; err != nil {
		return fmt.Errorf("update streaks: %w", err)
	}
	habit.CurrentStreak = current
	habit.BestStreak = best
	return nil
}

// Deactivate soft-deletes a habit; completion history stays.
func (r *HabitRepository) Deactivate(ctx context.Context, userID, habitID uint) error {
	res := r.db.WithContext(ctx).Model(&model.Habit{}).
		Where("user_id = ? AND id = ?", userID, habitID).
		Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("deactivate habit: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindCompletion returns the completion row for (habit, date), or
// gorm.ErrRecordNotFound.
func (r *HabitRepository) FindCompletion(ctx context.Context, habitID uint, date model.DateKey) (*model.HabitCompletion, error) {
	var completion model.HabitCompletion
	if err := r.db.WithContext(ctx).
		Where("habit_id = ? AND completion_date = ?", habitID, date).
		First(&completion).Error; err != nil {
		return nil, err
	}
	return &completion, nil
}

func (r *HabitRepository) CreateCompletion(ctx context.Context, completion *model.HabitCompletion) error {
	if err := r.db.WithContext(ctx).Create(completion).Error; err != nil {
		return fmt.Errorf("create completion: %w", err)
	}
	return nil
}

func (r *HabitRepository) DeleteCompletion(ctx context.Context, completionID uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.HabitCompletion{}, completionID).Error; err != nil {
		return fmt.Errorf("delete completion: %w", err)
	}
	return nil
}

// ListCompletionsOn returns all of a user's completions for one date.
func (r *HabitRepository) ListCompletionsOn(ctx context.Context, userID uint, date model.DateKey) ([]model.HabitCompletion, error) {
	var completions []model.HabitCompletion
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND completion_date = ?", userID, date).
		Find(&completions).Error; err != nil {
		return nil, err
	}
	return completions, nil
}

// ListCompletionsForHabit returns a habit's completions up to and including
// date, newest first.
func (r *HabitRepository) ListCompletionsForHabit(ctx context.Context, habitID uint, until model.DateKey) ([]model.HabitCompletion, error) {
	var completions []model.HabitCompletion
	if err := r.db.WithContext(ctx).
		Where("habit_id = ? AND completion_date <= ?", habitID, until).
		Order("completion_date DESC").
		Find(&completions).Error; err != nil {
		return nil, err
	}
	return completions, nil
}

func (r *HabitRepository) ListByUser(ctx context.Context, userID uint) ([]model.Habit, error) {
	var habits []model.Habit
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&habits).Error; err != nil {
		return nil, err
	}
	return habits, nil
}

func (r *HabitRepository) ListCompletionsByUser(ctx context.Context, userID uint) ([]model.HabitCompletion, error) {
	var completions []model.HabitCompletion
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completion_date ASC").
		Find(&completions).Error; err != nil {
		return nil, err
	}
	return completions, nil
}
