package services

import (
	"errors"
	"fmt"
	"time"

	"hansei-os/models"

	"gorm.io/gorm"
)

// ProgressService owns the BeltProgress lifecycle: onboarding creation,
// evaluation, streak application and belt awards. All writes are conditional
// on the version the record was read at, so concurrent sessions cannot
// silently overwrite each other.
type ProgressService struct {
	DB         *gorm.DB
	Aggregator *ActivityAggregator
}

func NewProgressService(db *gorm.DB, aggregator *ActivityAggregator) *ProgressService {
	return &ProgressService{DB: db, Aggregator: aggregator}
}

// Get loads the stored progress record without derived fields.
func (s *ProgressService) Get(userID string) (*models.BeltProgress, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	var progress models.BeltProgress
	err := s.DB.Where("user_id = ?", userID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProgressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch belt progress: %w", err)
	}
	return &progress, nil
}

// CompleteOnboarding creates the white-belt progress record with the journey
// start stamped to now. FirstLogDate is set exactly once; calling this again
// for an onboarded user returns the existing record untouched.
func (s *ProgressService) CompleteOnboarding(userID string, now time.Time) (*models.BeltProgress, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	existing, err := s.Get(userID)
	if err == nil && existing.Onboarded() {
		return existing, nil
	}
	if err != nil && !errors.Is(err, ErrProgressNotFound) {
		return nil, err
	}

	firstLog := now.UTC()
	if existing != nil {
		existing.FirstLogDate = &firstLog
		if saveErr := s.saveGuarded(existing); saveErr != nil {
			return nil, saveErr
		}
		return existing, nil
	}

	progress := &models.BeltProgress{
		UserID:               userID,
		CurrentBelt:          models.BeltWhite,
		CurrentBeltAwardedAt: now.UTC(),
		FirstLogDate:         &firstLog,
		AchievedGoalIDs:      []string{},
	}
	if err := s.DB.Create(progress).Error; err != nil {
		if isDuplicateProgress(err) {
			// Lost the race against a concurrent onboarding call. The
			// winner's row is the record; FirstLogDate stays theirs.
			return s.Get(userID)
		}
		return nil, fmt.Errorf("create belt progress: %w", err)
	}
	return progress, nil
}

// isDuplicateProgress reports whether a create collided with the user_id
// unique index, meaning another session onboarded this user first.
func isDuplicateProgress(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// Evaluate recomputes the derived progression snapshot from fresh aggregates.
// Nothing is persisted on this path; a stored snapshot is never trusted.
func (s *ProgressService) Evaluate(userID string, now time.Time) (*models.BeltProgress, *ActivitySignals, error) {
	progress, err := s.Get(userID)
	if err != nil {
		return nil, nil, err
	}

	signals, err := s.Aggregator.Collect(userID, now)
	if err != nil {
		return nil, nil, err
	}

	return EvaluateProgress(progress, signals, now), signals, nil
}

// ApplyStreak runs the streak transition for one user as of now and persists
// the result. Called on each daily-log save and by the day-boundary rollover.
// Re-running it for a date that already counted leaves the streak unchanged.
// Returns the freshly evaluated progress.
func (s *ProgressService) ApplyStreak(userID string, now time.Time) (*models.BeltProgress, error) {
	progress, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	if !progress.Onboarded() {
		return nil, ErrNotOnboarded
	}

	signals, err := s.Aggregator.Collect(userID, now)
	if err != nil {
		return nil, err
	}

	applyStreakTransition(progress, signals, models.DateOf(now))
	// Refreshed from the full-history count, never incremented in place.
	progress.TotalDaysLogged = signals.TotalDaysLogged

	if err := s.saveGuarded(progress); err != nil {
		return nil, err
	}

	return EvaluateProgress(progress, signals, now), nil
}

// AwardNextBelt advances the user one tier if, and only if, the fresh
// evaluation says every gate is met. The streak resets to zero: each belt's
// consistency requirement is earned under that belt. Returns the re-evaluated
// progress for the following belt.
func (s *ProgressService) AwardNextBelt(userID string, now time.Time) (*models.BeltProgress, error) {
	evaluated, signals, err := s.Evaluate(userID, now)
	if err != nil {
		return nil, err
	}
	if evaluated.NextBelt == nil {
		return nil, ErrTerminalBelt
	}
	if !evaluated.ProgressToNext.IsEligible {
		return nil, ErrNotEligible
	}

	stored, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	advanceBelt(stored, *evaluated.NextBelt, now)
	stored.TotalDaysLogged = signals.TotalDaysLogged

	if err := s.saveGuarded(stored); err != nil {
		return nil, err
	}

	return EvaluateProgress(stored, signals, now), nil
}

// RecordAchievedGoal appends a proof ID to the achieved set. The aggregator
// remains the authority for eligibility counts; this set feeds mastery-token
// issuance.
func (s *ProgressService) RecordAchievedGoal(userID, proofID string) error {
	progress, err := s.Get(userID)
	if err != nil {
		return err
	}
	for _, id := range progress.AchievedGoalIDs {
		if id == proofID {
			return nil
		}
	}
	progress.AchievedGoalIDs = append(progress.AchievedGoalIDs, proofID)
	return s.saveGuarded(progress)
}

// applyStreakTransition advances the streak for one calendar day at most
// once. LastStreakDate records the date the logged-today branch last applied,
// so editing an already-saved log or racing the rollover sweep cannot count
// the same day twice.
func applyStreakTransition(progress *models.BeltProgress, signals *ActivitySignals, today string) {
	if signals.LoggedToday && progress.LastStreakDate == today {
		return
	}
	progress.DaysConsecutive = NextStreak(progress.DaysConsecutive, signals.LoggedToday, signals.LoggedYesterday)
	if signals.LoggedToday {
		progress.LastStreakDate = today
	}
}

// advanceBelt applies the award transition in place: one tier forward, streak
// reset, everything else carried unchanged.
func advanceBelt(progress *models.BeltProgress, next models.BeltLevel, now time.Time) {
	progress.CurrentBelt = next
	progress.CurrentBeltAwardedAt = now.UTC()
	progress.DaysConsecutive = 0
}

// saveGuarded performs the optimistic conditional write: the update only
// lands if the row still carries the version we read.
func (s *ProgressService) saveGuarded(progress *models.BeltProgress) error {
	readVersion := progress.Version
	progress.Version = readVersion + 1

	result := s.DB.Model(&models.BeltProgress{}).
		Where("id = ? AND version = ?", progress.ID, readVersion).
		Select("current_belt", "current_belt_awarded_at", "days_consecutive",
			"total_days_logged", "first_log_date", "last_streak_date",
			"achieved_goal_ids", "version").
		Updates(progress)
	if result.Error != nil {
		return fmt.Errorf("save belt progress: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProgressConflict
	}
	return nil
}
