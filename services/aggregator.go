package services

import (
	"fmt"
	"sync"
	"time"

	"hansei-os/models"

	"gorm.io/gorm"
)

// PEIWindowDays is the rolling window for the rank-eligibility PEI average.
const PEIWindowDays = 90

// GoalTierCounts holds achieved-goal counts per horizon level. H3 is counted
// for completeness but no belt requirement consumes it.
type GoalTierCounts struct {
	H1 int `json:"h1"`
	H2 int `json:"h2"`
	H3 int `json:"h3"`
}

// ActivitySignals is the reduced view of a user's raw history that the
// ranking engine consumes.
type ActivitySignals struct {
	PEIAverage      float64        `json:"pei_average"`
	TotalDaysLogged int            `json:"total_days_logged"`
	LoggedToday     bool           `json:"logged_today"`
	LoggedYesterday bool           `json:"logged_yesterday"`
	AchievedGoals   GoalTierCounts `json:"achieved_goals"`
}

// ActivityAggregator reduces daily logs, goal proofs and horizons to the
// scalar signals the ranking engine needs. Every method takes the user ID
// explicitly; there is no ambient identity here.
type ActivityAggregator struct {
	DB *gorm.DB
}

func NewActivityAggregator(db *gorm.DB) *ActivityAggregator {
	return &ActivityAggregator{DB: db}
}

// Collect gathers all signals for one user as of now. The two single-date
// lookups are independent reads and run concurrently; evaluation waits for
// every read before returning. Any storage failure propagates to the caller.
func (a *ActivityAggregator) Collect(userID string, now time.Time) (*ActivitySignals, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	avg, err := a.PEIAverage(userID, now.AddDate(0, 0, -PEIWindowDays), now)
	if err != nil {
		return nil, err
	}

	total, err := a.TotalDaysLogged(userID)
	if err != nil {
		return nil, err
	}

	var (
		wg                     sync.WaitGroup
		today, yesterday       bool
		todayErr, yesterdayErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		today, todayErr = a.HasLogOn(userID, models.DateOf(now))
	}()
	go func() {
		defer wg.Done()
		yesterday, yesterdayErr = a.HasLogOn(userID, models.DateOf(now.AddDate(0, 0, -1)))
	}()
	wg.Wait()
	if todayErr != nil {
		return nil, todayErr
	}
	if yesterdayErr != nil {
		return nil, yesterdayErr
	}

	goals, err := a.AchievedGoalCounts(userID)
	if err != nil {
		return nil, err
	}

	return &ActivitySignals{
		PEIAverage:      avg,
		TotalDaysLogged: total,
		LoggedToday:     today,
		LoggedYesterday: yesterday,
		AchievedGoals:   goals,
	}, nil
}

// PEIAverage is the arithmetic mean of the precomputed pei_total over logs in
// [start, end]. An empty window yields exactly 0: no data means no credit.
func (a *ActivityAggregator) PEIAverage(userID string, start, end time.Time) (float64, error) {
	if userID == "" {
		return 0, ErrNotAuthenticated
	}
	var logs []models.DailyLog
	err := a.DB.
		Where("user_id = ? AND date >= ? AND date <= ?", userID, models.DateOf(start), models.DateOf(end)).
		Find(&logs).Error
	if err != nil {
		return 0, fmt.Errorf("fetch logs for pei window: %w", err)
	}
	return peiAverageOf(logs), nil
}

// TotalDaysLogged is the lifetime count of saved daily logs, not windowed.
func (a *ActivityAggregator) TotalDaysLogged(userID string) (int, error) {
	if userID == "" {
		return 0, ErrNotAuthenticated
	}
	var count int64
	err := a.DB.Model(&models.DailyLog{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count daily logs: %w", err)
	}
	return int(count), nil
}

// HasLogOn reports whether a log exists for the given calendar date.
// Absence is a valid state, not an error.
func (a *ActivityAggregator) HasLogOn(userID, date string) (bool, error) {
	if userID == "" {
		return false, ErrNotAuthenticated
	}
	var count int64
	err := a.DB.Model(&models.DailyLog{}).
		Where("user_id = ? AND date = ?", userID, date).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check log on %s: %w", date, err)
	}
	return count > 0, nil
}

// AchievedGoalCounts joins the user's goal proofs against their horizons and
// buckets counts by horizon level.
func (a *ActivityAggregator) AchievedGoalCounts(userID string) (GoalTierCounts, error) {
	if userID == "" {
		return GoalTierCounts{}, ErrNotAuthenticated
	}

	var proofs []models.GoalProof
	if err := a.DB.Where("user_id = ?", userID).Find(&proofs).Error; err != nil {
		return GoalTierCounts{}, fmt.Errorf("fetch goal proofs: %w", err)
	}

	var horizons []models.Horizon
	if err := a.DB.Select("id", "level").Where("user_id = ?", userID).Find(&horizons).Error; err != nil {
		return GoalTierCounts{}, fmt.Errorf("fetch horizons: %w", err)
	}

	return countProofsByLevel(proofs, horizons), nil
}

func peiAverageOf(logs []models.DailyLog) float64 {
	if len(logs) == 0 {
		return 0
	}
	var sum float64
	for _, entry := range logs {
		sum += entry.PEI.Total
	}
	return sum / float64(len(logs))
}

func countProofsByLevel(proofs []models.GoalProof, horizons []models.Horizon) GoalTierCounts {
	levelByID := make(map[string]models.HorizonLevel, len(horizons))
	for _, h := range horizons {
		levelByID[h.ID] = h.Level
	}

	var counts GoalTierCounts
	for _, proof := range proofs {
		switch levelByID[proof.HorizonID] {
		case models.HorizonH1:
			counts.H1++
		case models.HorizonH2:
			counts.H2++
		case models.HorizonH3:
			counts.H3++
		}
	}
	return counts
}
