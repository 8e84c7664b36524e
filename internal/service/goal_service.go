package service

import (
	"context"
	"fmt"
	"strings"

	"lifeos/internal/model"
	"lifeos/internal/repository"
)

// goalHorizonDays is the default goal window.
const goalHorizonDays = 90

// GoalService manages the 90-day goals.
type GoalService struct {
	goals *repository.GoalRepository
}

func NewGoalService(goals *repository.GoalRepository) *GoalService {
	return &GoalService{goals: goals}
}

// CreateGoal adds an active goal with a target date 90 days out. Title and
// category are required; the "primary" category marks the headline goal.
func (s *GoalService) CreateGoal(ctx context.Context, user *model.User, title, description, category string) (*model.Goal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: goal title is required", ErrValidation)
	}
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		return nil, fmt.Errorf("%w: goal category is required", ErrValidation)
	}
	if !validGoalCategory(category) {
		return nil, fmt.Errorf("%w: unknown goal category %q", ErrValidation, category)
	}

	goal := model.Goal{
		UserID:      user.ID,
		Title:       title,
		Description: strings.TrimSpace(description),
		Category:    category,
		IsPrimary:   category == "primary",
		TargetDate:  model.Today().AddDays(goalHorizonDays),
		Status:      model.GoalStatusActive,
	}
	if err := s.goals.Create(ctx, &goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

func (s *GoalService) ListActive(ctx context.Context, user *model.User) ([]model.Goal, error) {
	return s.goals.ListActive(ctx, user.ID)
}

// UpdateProgress sets a goal's progress, clamped to [0, 100].
func (s *GoalService) UpdateProgress(ctx context.Context, user *model.User, goalID uint, progress int) (*model.Goal, error) {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	goal, err := s.goals.FindByID(ctx, user.ID, goalID)
	if err != nil {
		return nil, err
	}
	if err := s.goals.UpdateProgress(ctx, goal, progress); err != nil {
		return nil, err
	}
	return goal, nil
}

// Archive removes a goal from the active list without deleting the row.
func (s *GoalService) Archive(ctx context.Context, user *model.User, goalID uint) error {
	return s.goals.Archive(ctx, user.ID, goalID)
}

func validGoalCategory(category string) bool {
	for _, c := range model.GoalCategories {
		if c == category {
			return true
		}
	}
	return false
}
