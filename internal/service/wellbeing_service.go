package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"lifeos/internal/model"
	"lifeos/internal/repository"
)

// WellbeingService upserts the date-keyed mood, gratitude and health
// records. A second save for the same date replaces the first; no history is
// kept.
type WellbeingService struct {
	wellbeing *repository.WellbeingRepository
}

func NewWellbeingService(wellbeing *repository.WellbeingRepository) *WellbeingService {
	return &WellbeingService{wellbeing: wellbeing}
}

// SaveMood records mood and energy (both 1-10) for a date.
func (s *WellbeingService) SaveMood(ctx context.Context, user *model.User, date model.DateKey, mood, energy int) (*model.MoodEntry, error) {
	if mood < 1 || mood > 10 {
		return nil, fmt.Errorf("%w: mood score must be 1-10", ErrValidation)
	}
	if energy < 1 || energy > 10 {
		return nil, fmt.Errorf("%w: energy level must be 1-10", ErrValidation)
	}

	entry := &model.MoodEntry{
		UserID:      user.ID,
		EntryDate:   date,
		MoodScore:   mood,
		EnergyLevel: energy,
	}
	if err := s.wellbeing.UpsertMood(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// MoodOn returns the day's mood entry, or nil when none was recorded.
func (s *WellbeingService) MoodOn(ctx context.Context, user *model.User, date model.DateKey) (*model.MoodEntry, error) {
	entry, err := s.wellbeing.FindMood(ctx, user.ID, date)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// SaveGratitude records the day's gratitude items. Blank items are dropped;
// at least one non-blank item is required. The day's mood score, if present,
// is snapshotted as the correlation value.
func (s *WellbeingService) SaveGratitude(ctx context.Context, user *model.User, date model.DateKey, items []string) (*model.GratitudeEntry, error) {
	var kept []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			kept = append(kept, item)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: at least one gratitude item is required", ErrValidation)
	}

	encoded, err := json.Marshal(kept)
	if err != nil {
		return nil, fmt.Errorf("encode gratitude items: %w", err)
	}

	entry := &model.GratitudeEntry{
		UserID:    user.ID,
		EntryDate: date,
		Items:     datatypes.JSON(encoded),
	}
	if mood, err := s.MoodOn(ctx, user, date); err == nil && mood != nil {
		entry.MoodCorrelation = &mood.MoodScore
	}

	if err := s.wellbeing.UpsertGratitude(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// GratitudeOn returns the day's gratitude entry, or nil when none exists.
func (s *WellbeingService) GratitudeOn(ctx context.Context, user *model.User, date model.DateKey) (*model.GratitudeEntry, error) {
	entry, err := s.wellbeing.FindGratitude(ctx, user.ID, date)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// SaveHealth records sleep hours and/or water intake for a date. At least
// one value is required; non-positive values are rejected.
func (s *WellbeingService) SaveHealth(ctx context.Context, user *model.User, date model.DateKey, sleepHours *float64, waterML *int) (*model.HealthMetric, error) {
	if sleepHours == nil && waterML == nil {
		return nil, fmt.Errorf("%w: provide sleep hours or water intake", ErrValidation)
	}
	if sleepHours != nil && (*sleepHours <= 0 || *sleepHours > 24) {
		return nil, fmt.Errorf("%w: sleep hours must be between 0 and 24", ErrValidation)
	}
	if waterML != nil && *waterML <= 0 {
		return nil, fmt.Errorf("%w: water intake must be positive", ErrValidation)
	}

	metric := &model.HealthMetric{
		UserID:        user.ID,
		MetricDate:    date,
		SleepHours:    sleepHours,
		WaterIntakeML: waterML,
	}
	if err := s.wellbeing.UpsertHealth(ctx, metric); err != nil {
		return nil, err
	}
	return metric, nil
}
