package service

import (
	"context"
	"fmt"

	"lifeos/internal/model"
	"lifeos/internal/repository"
)

// DailyStats is the aggregated snapshot fed to the insight generator, the
// report and the status view.
type DailyStats struct {
	Date           model.DateKey `json:"date"`
	TodayCompleted int           `json:"todayCompleted"`
	TodayTotal     int           `json:"todayTotal"`
	WeekCompleted  int           `json:"weekCompleted"`
	ActiveGoals    int           `json:"activeGoals"`
	LongestStreak  int           `json:"longestStreak"`
	HabitsToday    int           `json:"habitsToday"`
	TotalHabits    int           `json:"totalHabits"`
}

// CompletionRate is today's task completion in percent.
func (s DailyStats) CompletionRate() float64 {
	if s.TodayTotal == 0 {
		return 0
	}
	return float64(s.TodayCompleted) / float64(s.TodayTotal) * 100
}

// HabitRate is today's habit completion in percent.
func (s DailyStats) HabitRate() float64 {
	if s.TotalHabits == 0 {
		return 0
	}
	return float64(s.HabitsToday) / float64(s.TotalHabits) * 100
}

// StatsService aggregates the day's numbers across tasks, goals and habits.
type StatsService struct {
	tasks  *repository.TaskRepository
	goals  *repository.GoalRepository
	habits *repository.HabitRepository
}

func NewStatsService(tasks *repository.TaskRepository, goals *repository.GoalRepository, habits *repository.HabitRepository) *StatsService {
	return &StatsService{tasks: tasks, goals: goals, habits: habits}
}

// Snapshot aggregates the user's numbers for date. Reads only; an unseeded
// date simply counts zero tasks.
func (s *StatsService) Snapshot(ctx context.Context, user *model.User, date model.DateKey) (DailyStats, error) {
	stats := DailyStats{Date: date}

	tasks, err := s.tasks.ListByDate(ctx, user.ID, date)
	if err != nil {
		return stats, fmt.Errorf("stats tasks: %w", err)
	}
	stats.TodayTotal = len(tasks)
	for _, t := range tasks {
		if t.Completed {
			stats.TodayCompleted++
		}
	}

	weekCompleted, err := s.tasks.CountCompletedSince(ctx, user.ID, date.WeekStart())
	if err != nil {
		return stats, fmt.Errorf("stats week: %w", err)
	}
	stats.WeekCompleted = int(weekCompleted)

	goals, err := s.goals.ListActive(ctx, user.ID)
	if err != nil {
		return stats, fmt.Errorf("stats goals: %w", err)
	}
	stats.ActiveGoals = len(goals)

	habits, err := s.habits.ListActive(ctx, user.ID)
	if err != nil {
		return stats, fmt.Errorf("stats habits: %w", err)
	}
	stats.TotalHabits = len(habits)
	for _, h := range habits {
		if h.CurrentStreak > stats.LongestStreak {
			stats.LongestStreak = h.CurrentStreak
		}
	}

	completions, err := s.habits.ListCompletionsOn(ctx, user.ID, date)
	if err != nil {
		return stats, fmt.Errorf("stats completions: %w", err)
	}
	stats.HabitsToday = len(completions)

	return stats, nil
}
