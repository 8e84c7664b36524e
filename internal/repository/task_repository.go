package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"lifeos/internal/model"
)

// TaskRepository handles CRUD for daily time-block tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// ListByDate returns the tasks for one day ordered by sort_order.
func (r *TaskRepository) ListByDate(ctx context.Context, userID uint, date model.DateKey) ([]model.DailyTask, error) {
	var tasks []model.DailyTask
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND task_date = ?", userID, date).
		Order("sort_order ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateBatch inserts a day's seeded tasks in one statement.
func (r *TaskRepository) CreateBatch(ctx context.Context, tasks []model.DailyTask) error {
	if len(tasks) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&tasks).Error; err != nil {
		return fmt.Errorf("seed tasks: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID uint) (*model.DailyTask, error) {
	var task model.DailyTask
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// SetCompleted flips the completion flag and stamps or clears completed_at.
func (r *TaskRepository) SetCompleted(ctx context.Context, task *model.DailyTask, completed bool, at time.Time) error {
	task.Completed = completed
	if completed {
		task.CompletedAt = &at
	} else {
		task.CompletedAt = nil
	}
	updates := map[string]interface{}{
		"completed":    task.Completed,
		"completed_at": task.CompletedAt,
	}
	if err := r.db.WithContext(ctx).Model(task).Updates(updates).Error; err != nil {
		return fmt.Errorf("toggle task: %w", err)
	}
	return nil
}

func (r *TaskRepository) UpdateTitle(ctx context.Context, task *model.DailyTask, title string) error {
	task.Title = title
	if err := r.db.WithContext(ctx).Model(task).Update("title", title).Error; err != nil {
		return fmt.Errorf("rename task: %w", err)
	}
	return nil
}

// CountCompletedSince counts completed tasks with task_date >= from.
func (r *TaskRepository) CountCompletedSince(ctx context.Context, userID uint, from model.DateKey) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.DailyTask{}).
		Where("user_id = ? AND task_date >= ? AND completed = ?", userID, from, true).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID uint) ([]model.DailyTask, error) {
	var tasks []model.DailyTask
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("task_date ASC, sort_order ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}
