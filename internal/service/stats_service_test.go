package service

import (
	"context"
	"testing"
	"time"

	"lifeos/internal/model"
	"lifeos/internal/repository"
)

func TestSnapshotAggregates(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, 700)
	ctx := context.Background()

	taskRepo := repository.NewTaskRepository(db)
	habitRepo := repository.NewHabitRepository(db)
	taskSvc := NewTaskService(taskRepo)
	habitSvc := NewHabitService(habitRepo)
	goalSvc := NewGoalService(repository.NewGoalRepository(db))
	stats := NewStatsService(taskRepo, repository.NewGoalRepository(db), habitRepo)

	date := model.Today()
	tasks, err := taskSvc.TasksForDay(ctx, user, date)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	for _, task := range tasks[:3] {
		if _, err := taskSvc.ToggleTask(ctx, user, task.ID, time.Now()); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}

	if _, err := goalSvc.CreateGoal(ctx, user, "Ship it", "", "primary"); err != nil {
		t.Fatalf("goal: %v", err)
	}

	for _, name := range []string{"Meditate", "Run"} {
		habit, err := habitSvc.CreateHabit(ctx, user, name, "")
		if err != nil {
			t.Fatalf("habit: %v", err)
		}
		if name == "Run" {
			if _, _, err := habitSvc.ToggleCompletion(ctx, user, habit.ID, date); err != nil {
				t.Fatalf("complete habit: %v", err)
			}
		}
	}

	snapshot, err := stats.Snapshot(ctx, user, date)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	if snapshot.TodayTotal != TemplateSize || snapshot.TodayCompleted != 3 {
		t.Errorf("tasks = %d/%d, want 3/%d", snapshot.TodayCompleted, snapshot.TodayTotal, TemplateSize)
	}
	if snapshot.ActiveGoals != 1 {
		t.Errorf("active goals = %d", snapshot.ActiveGoals)
	}
	if snapshot.TotalHabits != 2 || snapshot.HabitsToday != 1 {
		t.Errorf("habits = %d/%d, want 1/2", snapshot.HabitsToday, snapshot.TotalHabits)
	}
	if snapshot.LongestStreak != 1 {
		t.Errorf("longest streak = %d", snapshot.LongestStreak)
	}
	if want := 3.0 / float64(TemplateSize) * 100; snapshot.CompletionRate() != want {
		t.Errorf("completion rate = %.2f, want %.2f", snapshot.CompletionRate(), want)
	}
}

func TestSnapshotUnseededDateIsZero(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, 701)

	stats := NewStatsService(
		repository.NewTaskRepository(db),
		repository.NewGoalRepository(db),
		repository.NewHabitRepository(db),
	)

	snapshot, err := stats.Snapshot(context.Background(), user, model.DateKey("2026-03-02"))
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snapshot.TodayTotal != 0 || snapshot.CompletionRate() != 0 || snapshot.HabitRate() != 0 {
		t.Errorf("unseeded snapshot not zero: %+v", snapshot)
	}
}
