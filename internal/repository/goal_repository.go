package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"lifeos/internal/model"
)

// GoalRepository handles CRUD for 90-day goals.
type GoalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

func (r *GoalRepository) Create(ctx context.Context, goal *model.Goal) error {
	if err := r.db.WithContext(ctx).Create(goal).Error; err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

// ListActive returns active goals, primary first, then newest first.
func (r *GoalRepository) ListActive(ctx context.Context, userID uint) ([]model.Goal, error) {
	var goals []model.Goal
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.GoalStatusActive).
		Order("is_primary DESC, created_at DESC").
		Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *GoalRepository) FindByID(ctx context.Context, userID, goalID uint) (*model.Goal, error) {
	var goal model.Goal
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, goalID).First(&goal).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *GoalRepository) UpdateProgress(ctx context.Context, goal *model.Goal, progress int) error {
	if err := r.db.WithContext(ctx).Model(goal).Update("progress_percentage", progress).Error; err != nil {
		return fmt.Errorf("update goal progress: %w", err)
	}
	goal.ProgressPercentage = progress
	return nil
}

// Archive flips the goal's status; goal rows are never hard-deleted.
func (r *GoalRepository) Archive(ctx context.Context, userID, goalID uint) error {
	res := r.db.WithContext(ctx).Model(&model.Goal{}).
		Where("user_id = ? AND id = ?", userID, goalID).
		Update("status", model.GoalStatusArchived)
	if res.Error != nil {
		return fmt.Errorf("archive goal: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GoalRepository) ListByUser(ctx context.Context, userID uint) ([]model.Goal, error) {
	var goals []model.Goal
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}
