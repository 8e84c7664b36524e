package repository

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lifeos/internal/model"
)

// NewDB opens the backing store and runs migrations. A postgres URL selects
// the remote store; anything else is treated as a SQLite file path (local
// runs and tests).
func NewDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "lifeos.db"
	}

	dbLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var dialector gorm.Dialector
	if isPostgresDSN(dsn) {
		dialector = postgres.Open(dsn)
	} else {
		if err := ensureDirForSQLite(dsn); err != nil {
			return nil, err
		}
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.DailyTask{},
		&model.Habit{},
		&model.HabitCompletion{},
		&model.Goal{},
		&model.WeeklyPlan{},
		&model.MoodEntry{},
		&model.GratitudeEntry{},
		&model.HealthMetric{},
		&model.AIInsight{},
		&model.QuickNote{},
	); err != nil {
		return fmt.Errorf("migrate db: %w", err)
	}

	// Helper indexes not expressible as column tags. daily_tasks stays
	// deliberately non-unique on (user, date, slot): seeding discipline owns
	// that invariant.
	stmts := []string{
		`create index if not exists idx_insights_user_generated on ai_insights(user_id, insight_type, generated_at);`,
		`create index if not exists idx_completions_user_date on habit_completions(user_id, completion_date);`,
	}
	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

// ensureDirForSQLite creates the parent dir for a SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
