package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"lifeos/internal/model"
)

// WellbeingRepository handles the date-keyed mood, gratitude and health
// tables. All three share the same upsert shape: read by (user, date), then
// create or overwrite.
type WellbeingRepository struct {
	db *gorm.DB
}

func NewWellbeingRepository(db *gorm.DB) *WellbeingRepository {
	return &WellbeingRepository{db: db}
}

func (r *WellbeingRepository) FindMood(ctx context.Context, userID uint, date model.DateKey) (*model.MoodEntry, error) {
	var entry model.MoodEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND entry_date = ?", userID, date).
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *WellbeingRepository) UpsertMood(ctx context.Context, entry *model.MoodEntry) error {
	db := r.db.WithContext(ctx)

	var existing model.MoodEntry
	err := db.Where("user_id = ? AND entry_date = ?", entry.UserID, entry.EntryDate).
		First(&existing).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"mood_score":   entry.MoodScore,
			"energy_level": entry.EnergyLevel,
			"updated_at":   time.Now(),
		}
		if err := db.Model(&existing).Updates(updates).Error; err != nil {
			return fmt.Errorf("update mood entry: %w", err)
		}
		entry.ID = existing.ID
		return nil
	case err == gorm.ErrRecordNotFound:
		if err := db.Create(entry).Error; err != nil {
			return fmt.Errorf("create mood entry: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("find mood entry: %w", err)
	}
}

func (r *WellbeingRepository) FindGratitude(ctx context.Context, userID uint, date model.DateKey) (*model.GratitudeEntry, error) {
	var entry model.GratitudeEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND entry_date = ?", userID, date).
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *WellbeingRepository) UpsertGratitude(ctx context.Context, entry *model.GratitudeEntry) error {
	db := r.db.WithContext(ctx)

	var existing model.GratitudeEntry
	err := db.Where("user_id = ? AND entry_date = ?", entry.UserID, entry.EntryDate).
		First(&existing).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"items":            entry.Items,
			"mood_correlation": entry.MoodCorrelation,
			"updated_at":       time.Now(),
		}
		if err := db.Model(&existing).Updates(updates).Error; err != nil {
			return fmt.Errorf("update gratitude entry: %w", err)
		}
		entry.ID = existing.ID
		return nil
	case err == gorm.ErrRecordNotFound:
		if err := db.Create(entry).Error; err != nil {
			return fmt.Errorf("create gratitude entry: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("find gratitude entry: %w", err)
	}
}

func (r *WellbeingRepository) FindHealth(ctx context.Context, userID uint, date model.DateKey) (*model.HealthMetric, error) {
	var metric model.HealthMetric
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND metric_date = ?", userID, date).
		First(&metric).Error; err != nil {
		return nil, err
	}
	return &metric, nil
}

func (r *WellbeingRepository) UpsertHealth(ctx context.Context, metric *model.HealthMetric) error {
	db := r.db.WithContext(ctx)

	var existing model.HealthMetric
	err := db.Where("user_id = ? AND metric_date = ?", metric.UserID, metric.MetricDate).
		First(&existing).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"sleep_hours":     metric.SleepHours,
			"water_intake_ml": metric.WaterIntakeML,
			"updated_at":      time.Now(),
		}
		if err := db.Model(&existing).Updates(updates).Error; err != nil {
			return fmt.Errorf("update health metric: %w", err)
		}
		metric.ID = existing.ID
		return nil
	case err == gorm.ErrRecordNotFound:
		if err := db.Create(metric).Error; err != nil {
			return fmt.Errorf("create health metric: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("find health metric: %w", err)
	}
}

func (r *WellbeingRepository) ListMoodsByUser(ctx context.Context, userID uint) ([]model.MoodEntry, error) {
	var entries []model.MoodEntry
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("entry_date ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *WellbeingRepository) ListGratitudeByUser(ctx context.Context, userID uint) ([]model.GratitudeEntry, error) {
	var entries []model.GratitudeEntry
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("entry_date ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *WellbeingRepository) ListHealthByUser(ctx context.Context, userID uint) ([]model.HealthMetric, error) {
	var metrics []model.HealthMetric
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("metric_date ASC").Find(&metrics).Error; err != nil {
		return nil, err
	}
	return metrics, nil
}
