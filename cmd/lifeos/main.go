package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lifeos/internal/bot"
	"lifeos/internal/config"
	"lifeos/internal/insight"
	"lifeos/internal/repository"
	"lifeos/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	habitRepo := repository.NewHabitRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	planRepo := repository.NewPlanRepository(db)
	wellbeingRepo := repository.NewWellbeingRepository(db)
	insightRepo := repository.NewInsightRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	taskSvc := service.NewTaskService(taskRepo)
	habitSvc := service.NewHabitService(habitRepo)
	goalSvc := service.NewGoalService(goalRepo)
	planSvc := service.NewPlanService(planRepo)
	wellbeingSvc := service.NewWellbeingService(wellbeingRepo)
	statsSvc := service.NewStatsService(taskRepo, goalRepo, habitRepo)
	insightSvc := service.NewInsightService(insightRepo, statsSvc, insight.NewClient(cfg.OpenRouterAPIKey))
	reportSvc := service.NewReportService(taskSvc, habitSvc, wellbeingSvc, statsSvc)
	exportSvc := service.NewExportService(taskRepo, habitRepo, goalRepo, planRepo, wellbeingRepo, noteRepo)

	telegramBot, err := bot.New(cfg.TelegramToken, bot.Deps{
		UserRepo:  userRepo,
		NoteRepo:  noteRepo,
		Tasks:     taskSvc,
		Habits:    habitSvc,
		Goals:     goalSvc,
		Plans:     planSvc,
		Wellbeing: wellbeingSvc,
		Insights:  insightSvc,
		Reports:   reportSvc,
		Exports:   exportSvc,
	})
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	scheduler := service.NewSchedulerService(time.Local)
	if _, err := scheduler.ScheduleDaily(cfg.ReportTime, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := telegramBot.SendDailyReports(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("daily reports: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule reports: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Println("Life OS bot started.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
