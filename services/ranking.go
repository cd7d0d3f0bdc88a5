package services

import (
	"time"

	"hansei-os/models"
)

// EvaluateProgress computes the derived progression snapshot for a user.
// It is pure: progress and signals are read, a copy with NextBelt and
// ProgressToNext filled is returned, nothing is persisted.
//
// Eligibility is the AND of four independent hard floors: consecutive days,
// elapsed months, achieved goals per level, and the 90-day PEI average. A
// surplus in one dimension never buys down a deficit in another.
func EvaluateProgress(progress *models.BeltProgress, signals *ActivitySignals, now time.Time) *models.BeltProgress {
	result := *progress
	result.TotalDaysLogged = signals.TotalDaysLogged

	next, ok := result.CurrentBelt.Next()
	if !ok {
		// Terminal belt: no further progression exists. IsEligible is
		// vacuously true here; callers must check NextBelt first.
		result.NextBelt = nil
		result.ProgressToNext = &models.ProgressToNext{
			PEIAverage: signals.PEIAverage,
			IsEligible: true,
		}
		return &result
	}

	req, _ := models.RequirementsFor(next)

	daysRemaining := req.MinDaysConsecutive - result.DaysConsecutive
	if daysRemaining < 0 {
		daysRemaining = 0
	}

	monthsElapsed := 0
	if result.FirstLogDate != nil {
		monthsElapsed = calendarMonthsBetween(*result.FirstLogDate, now)
	}
	monthsRemaining := req.MinMonths - monthsElapsed
	if monthsRemaining < 0 {
		monthsRemaining = 0
	}

	goalsRemaining := models.GoalCounts{
		H1: req.RequiredGoals.H1 - signals.AchievedGoals.H1,
		H2: req.RequiredGoals.H2 - signals.AchievedGoals.H2,
	}
	if goalsRemaining.H1 < 0 {
		goalsRemaining.H1 = 0
	}
	if goalsRemaining.H2 < 0 {
		goalsRemaining.H2 = 0
	}

	meetsPEI := req.PEIThreshold == 0 || signals.PEIAverage >= req.PEIThreshold

	result.NextBelt = &next
	result.ProgressToNext = &models.ProgressToNext{
		DaysRemaining:   daysRemaining,
		MonthsRemaining: monthsRemaining,
		GoalsRemaining:  goalsRemaining,
		PEIAverage:      signals.PEIAverage,
		IsEligible: daysRemaining == 0 &&
			monthsRemaining == 0 &&
			goalsRemaining.H1 == 0 && goalsRemaining.H2 == 0 &&
			meetsPEI,
	}
	return &result
}

// ProgressPercentage averages the four dimension ratios into a single number
// for progress bars. Display only; eligibility never reads this value.
func ProgressPercentage(progress *models.BeltProgress, signals *ActivitySignals, now time.Time) float64 {
	next, ok := progress.CurrentBelt.Next()
	if !ok {
		return 100
	}
	req, _ := models.RequirementsFor(next)

	dayRatio := ratioOf(progress.DaysConsecutive, req.MinDaysConsecutive)

	monthsElapsed := 0
	if progress.FirstLogDate != nil {
		monthsElapsed = calendarMonthsBetween(*progress.FirstLogDate, now)
	}
	monthRatio := ratioOf(monthsElapsed, req.MinMonths)

	achieved := signals.AchievedGoals.H1 + signals.AchievedGoals.H2
	required := req.RequiredGoals.H1 + req.RequiredGoals.H2
	goalRatio := ratioOf(achieved, required)

	peiRatio := 100.0
	if req.PEIThreshold > 0 {
		peiRatio = capPercent(signals.PEIAverage / req.PEIThreshold * 100)
	}

	return (dayRatio + monthRatio + goalRatio + peiRatio) / 4
}

// EstimateEligibleDate projects when the remaining time requirements run out,
// assuming unbroken daily practice. Nil on the terminal belt.
func EstimateEligibleDate(progress *models.BeltProgress, now time.Time) *time.Time {
	if progress.NextBelt == nil || progress.ProgressToNext == nil {
		return nil
	}
	daysToAdd := progress.ProgressToNext.DaysRemaining
	if byMonths := progress.ProgressToNext.MonthsRemaining * 30; byMonths > daysToAdd {
		daysToAdd = byMonths
	}
	estimated := now.AddDate(0, 0, daysToAdd)
	return &estimated
}

func ratioOf(have, need int) float64 {
	if need <= 0 {
		return 100
	}
	return capPercent(float64(have) / float64(need) * 100)
}

func capPercent(v float64) float64 {
	if v > 100 {
		return 100
	}
	return v
}

// calendarMonthsBetween counts whole calendar months from a to b, flooring
// partial months, e.g. Jan 15 → Mar 14 is 1 month.
func calendarMonthsBetween(a, b time.Time) int {
	a, b = a.UTC(), b.UTC()
	if b.Before(a) {
		return 0
	}
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
