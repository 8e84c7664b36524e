package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"lifeos/internal/model"
)

// ReportService builds the human-readable morning summary.
type ReportService struct {
	tasks     *TaskService
	habits    *HabitService
	wellbeing *WellbeingService
	stats     *StatsService
}

func NewReportService(tasks *TaskService, habits *HabitService, wellbeing *WellbeingService, stats *StatsService) *ReportService {
	return &ReportService{tasks: tasks, habits: habits, wellbeing: wellbeing, stats: stats}
}

// DailySummary renders the day report: the seeded time blocks, habits with
// streaks and today's check state, and yesterday's mood if recorded. Viewing
// the report seeds the day like any other first view.
func (s *ReportService) DailySummary(ctx context.Context, user *model.User, now time.Time) (string, error) {
	date := model.NewDateKey(now)

	tasks, err := s.tasks.TasksForDay(ctx, user, date)
	if err != nil {
		return "", err
	}

	habits, err := s.habits.ListActive(ctx, user)
	if err != nil {
		return "", err
	}
	doneToday, err := s.habits.CompletionsOn(ctx, user, date)
	if err != nil {
		return "", err
	}

	snapshot, err := s.stats.Snapshot(ctx, user, date)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	builder.WriteString("📋 <b>Daily Report</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", date.Format("Mon, Jan 2 2006")))

	builder.WriteString("⏰ <b>Today's blocks</b>\n")
	for _, task := range tasks {
		icon := "⬜"
		if task.Completed {
			icon = "✅"
		}
		builder.WriteString(fmt.Sprintf("%s <code>%s</code> %s\n", icon, task.TimeSlot, html.EscapeString(task.Title)))
	}
	builder.WriteString(fmt.Sprintf("— %d of %d done (%.0f%%)\n", snapshot.TodayCompleted, snapshot.TodayTotal, snapshot.CompletionRate()))

	builder.WriteString("\n🔥 <b>Habits</b>\n")
	if len(habits) == 0 {
		builder.WriteString("— no habits yet\n")
	} else {
		for _, habit := range habits {
			mark := "⬜"
			if _, ok := doneToday[habit.ID]; ok {
				mark = "✅"
			}
			builder.WriteString(fmt.Sprintf("%s %s · streak %d (best %d)\n",
				mark, html.EscapeString(habit.Name), habit.CurrentStreak, habit.BestStreak))
		}
	}

	yesterdayMood, err := s.wellbeing.MoodOn(ctx, user, date.AddDays(-1))
	if err == nil && yesterdayMood != nil {
		builder.WriteString(fmt.Sprintf("\n🙂 Yesterday's mood: %d/10, energy %d/10\n",
			yesterdayMood.MoodScore, yesterdayMood.EnergyLevel))
	}

	return strings.TrimSpace(builder.String()), nil
}
