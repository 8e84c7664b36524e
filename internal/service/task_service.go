package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lifeos/internal/model"
	"lifeos/internal/repository"
)

// TimeBlock is one template entry for seeding a day.
type TimeBlock struct {
	TimeSlot        string
	Title           string
	Description     string
	DurationMinutes int
}

// defaultTimeBlocks is the day template. Edits here affect only dates that
// have not been seeded yet; historical days keep the rows they were created
// with.
var defaultTimeBlocks = []TimeBlock{
	{TimeSlot: "06:00", Title: "Wake up & Hydrate", DurationMinutes: 15},
	{TimeSlot: "06:15", Title: "Exercise/Movement", DurationMinutes: 60},
	{TimeSlot: "07:15", Title: "Learning", DurationMinutes: 45},
	{TimeSlot: "09:00", Title: "Work Focus - Priority 1", DurationMinutes: 120},
	{TimeSlot: "11:00", Title: "Work Focus - Priority 2", DurationMinutes: 120},
	{TimeSlot: "13:00", Title: "Lunch Break", DurationMinutes: 60},
	{TimeSlot: "14:00", Title: "Work Focus - Priority 3", DurationMinutes: 120},
	{TimeSlot: "16:00", Title: "Administrative Tasks", DurationMinutes: 60},
	{TimeSlot: "17:00", Title: "Wrap up & Planning", DurationMinutes: 30},
	{TimeSlot: "18:30", Title: "Personal Projects", DurationMinutes: 90},
	{TimeSlot: "20:00", Title: "Reading/Growth", DurationMinutes: 60},
	{TimeSlot: "21:30", Title: "Tomorrow's Planning", DurationMinutes: 30},
}

// TemplateSize is the number of rows a fresh day seeds.
const TemplateSize = 12

// TaskService seeds and mutates the daily time-block list.
type TaskService struct {
	tasks *repository.TaskRepository
}

func NewTaskService(tasks *repository.TaskRepository) *TaskService {
	return &TaskService{tasks: tasks}
}

// TasksForDay returns the ordered task list for (user, date), seeding it
// from the template if and only if no rows exist yet. The read and the batch
// insert are not atomic: a concurrent first view of the same date can
// double-seed, which is tolerated as a best-effort duplicate avoidance, not
// a hard guarantee. Any valid calendar date is allowed, past or future.
func (s *TaskService) TasksForDay(ctx context.Context, user *model.User, date model.DateKey) ([]model.DailyTask, error) {
	existing, err := s.tasks.ListByDate(ctx, user.ID, date)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	if len(existing) > 0 {
		return existing, nil
	}

	seeded := make([]model.DailyTask, 0, len(defaultTimeBlocks))
	for i, block := range defaultTimeBlocks {
		seeded = append(seeded, model.DailyTask{
			UserID:          user.ID,
			TaskDate:        date,
			TimeSlot:        block.TimeSlot,
			Title:           block.Title,
			Description:     block.Description,
			DurationMinutes: block.DurationMinutes,
			SortOrder:       i,
		})
	}
	if err := s.tasks.CreateBatch(ctx, seeded); err != nil {
		return nil, err
	}
	return seeded, nil
}

func (s *TaskService) GetTask(ctx context.Context, user *model.User, taskID uint) (*model.DailyTask, error) {
	return s.tasks.FindByID(ctx, user.ID, taskID)
}

// ToggleTask flips a task's completion. Completing stamps completed_at;
// un-completing clears it.
func (s *TaskService) ToggleTask(ctx context.Context, user *model.User, taskID uint, now time.Time) (*model.DailyTask, error) {
	task, err := s.tasks.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.SetCompleted(ctx, task, !task.Completed, now); err != nil {
		return nil, err
	}
	return task, nil
}

// RenameTask replaces a task's title. Empty titles are rejected before any
// store call.
func (s *TaskService) RenameTask(ctx context.Context, user *model.User, taskID uint, title string) (*model.DailyTask, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	task, err := s.tasks.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.UpdateTitle(ctx, task, title); err != nil {
		return nil, err
	}
	return task, nil
}
