package services

import (
	"errors"
	"fmt"
	"time"

	"hansei-os/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DailyLogService handles daily reflection entries. A (user, date) pair holds
// at most one log; saves upsert in place. Saving a log is one of the two
// explicit streak triggers; the other is the day-boundary rollover.
type DailyLogService struct {
	DB       *gorm.DB
	Progress *ProgressService
}

func NewDailyLogService(db *gorm.DB, progress *ProgressService) *DailyLogService {
	return &DailyLogService{DB: db, Progress: progress}
}

// Save upserts the log for its date (defaulting to today), recomputes the PEI
// total from the three factors, then applies the streak transition and
// returns the re-evaluated progress alongside the stored log.
func (s *DailyLogService) Save(userID string, log *models.DailyLog, now time.Time) (*models.DailyLog, *models.BeltProgress, error) {
	if userID == "" {
		return nil, nil, ErrNotAuthenticated
	}
	if !log.PEI.Valid() {
		return nil, nil, ErrInvalidPEI
	}
	if log.Date == "" {
		log.Date = models.DateOf(now)
	}
	if _, err := time.Parse(models.DateLayout, log.Date); err != nil {
		return nil, nil, fmt.Errorf("invalid log date %q: %w", log.Date, err)
	}

	log.UserID = userID
	log.PEI.ComputeTotal()

	err := s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"horizon_sync", "fire_checklist", "takt_timeline",
			"pei_availability", "pei_effectiveness", "pei_quality", "pei_total",
			"muda", "updated_at",
		}),
	}).Create(log).Error
	if err != nil {
		return nil, nil, fmt.Errorf("save daily log: %w", err)
	}

	progress, err := s.Progress.ApplyStreak(userID, now)
	if err != nil && !errors.Is(err, ErrNotOnboarded) {
		return nil, nil, err
	}

	return log, progress, nil
}

// ForDate returns the log for one calendar date, or nil when none exists.
func (s *DailyLogService) ForDate(userID, date string) (*models.DailyLog, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	var log models.DailyLog
	err := s.DB.Where("user_id = ? AND date = ?", userID, date).First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch daily log: %w", err)
	}
	return &log, nil
}

// Range returns logs with date in [start, end], newest first.
func (s *DailyLogService) Range(userID, start, end string) ([]models.DailyLog, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	var logs []models.DailyLog
	err := s.DB.
		Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date DESC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("fetch daily logs: %w", err)
	}
	return logs, nil
}

// Recent returns the last N days of logs ending today.
func (s *DailyLogService) Recent(userID string, days int, now time.Time) ([]models.DailyLog, error) {
	if days < 1 {
		days = 7
	}
	start := models.DateOf(now.AddDate(0, 0, -(days - 1)))
	return s.Range(userID, start, models.DateOf(now))
}
