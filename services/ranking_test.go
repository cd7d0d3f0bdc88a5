package services

import (
	"testing"
	"time"

	"hansei-os/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var evalNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

// whiteBeltReadyFor returns a progress/signals pair that meets every yellow
// belt gate: 180 consecutive days, 12 months of practice, one H1 goal,
// 90-day PEI of 0.72 against the 0.7 threshold.
func whiteBeltReadyFor(t *testing.T) (*models.BeltProgress, *ActivitySignals) {
	t.Helper()
	firstLog := evalNow.AddDate(-1, 0, 0)
	progress := &models.BeltProgress{
		CurrentBelt:     models.BeltWhite,
		DaysConsecutive: 180,
		TotalDaysLogged: 310,
		FirstLogDate:    &firstLog,
	}
	signals := &ActivitySignals{
		PEIAverage:      0.72,
		TotalDaysLogged: 310,
		AchievedGoals:   GoalTierCounts{H1: 1},
	}
	return progress, signals
}

func TestEvaluateProgress_AllGatesMet(t *testing.T) {
	progress, signals := whiteBeltReadyFor(t)

	result := EvaluateProgress(progress, signals, evalNow)

	require.NotNil(t, result.NextBelt)
	assert.Equal(t, models.BeltYellow, *result.NextBelt)

	next := result.ProgressToNext
	require.NotNil(t, next)
	assert.True(t, next.IsEligible)
	assert.Equal(t, 0, next.DaysRemaining)
	assert.Equal(t, 0, next.MonthsRemaining)
	assert.Equal(t, models.GoalCounts{}, next.GoalsRemaining)
	assert.InDelta(t, 0.72, next.PEIAverage, 1e-9)
}

func TestEvaluateProgress_PEIJustBelowThreshold(t *testing.T) {
	progress, signals := whiteBeltReadyFor(t)
	signals.PEIAverage = 0.69

	result := EvaluateProgress(progress, signals, evalNow)

	next := result.ProgressToNext
	require.NotNil(t, next)
	assert.False(t, next.IsEligible)
	assert.InDelta(t, 0.69, next.PEIAverage, 1e-9)
	assert.Equal(t, 0, next.DaysRemaining)
	assert.Equal(t, 0, next.MonthsRemaining)
	assert.Equal(t, models.GoalCounts{}, next.GoalsRemaining)
}

// Each gate is a hard floor: failing any single one while the others hold
// must flip eligibility, with no cross-dimension credit.
func TestEvaluateProgress_SingleGateFailureMatrix(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *models.BeltProgress, s *ActivitySignals)
	}{
		{"days gate", func(p *models.BeltProgress, s *ActivitySignals) {
			p.DaysConsecutive = 179
		}},
		{"months gate", func(p *models.BeltProgress, s *ActivitySignals) {
			firstLog := evalNow.AddDate(0, -11, 0)
			p.FirstLogDate = &firstLog
		}},
		{"goals gate", func(p *models.BeltProgress, s *ActivitySignals) {
			s.AchievedGoals = GoalTierCounts{}
		}},
		{"performance gate", func(p *models.BeltProgress, s *ActivitySignals) {
			s.PEIAverage = 0.5
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			progress, signals := whiteBeltReadyFor(t)
			tt.mutate(progress, signals)

			result := EvaluateProgress(progress, signals, evalNow)
			require.NotNil(t, result.ProgressToNext)
			assert.False(t, result.ProgressToNext.IsEligible)
		})
	}
}

func TestEvaluateProgress_TerminalBelt(t *testing.T) {
	firstLog := evalNow.AddDate(-5, 0, 0)
	progress := &models.BeltProgress{
		CurrentBelt:     models.BeltBlack,
		DaysConsecutive: 3,
		FirstLogDate:    &firstLog,
	}
	signals := &ActivitySignals{PEIAverage: 0.42, TotalDaysLogged: 1500}

	result := EvaluateProgress(progress, signals, evalNow)

	assert.Nil(t, result.NextBelt)
	next := result.ProgressToNext
	require.NotNil(t, next)
	assert.True(t, next.IsEligible)
	assert.Equal(t, 0, next.DaysRemaining)
	assert.Equal(t, 0, next.MonthsRemaining)
	assert.Equal(t, models.GoalCounts{}, next.GoalsRemaining)
	assert.InDelta(t, 0.42, next.PEIAverage, 1e-9)
}

func TestEvaluateProgress_RemaindersCount(t *testing.T) {
	firstLog := evalNow.AddDate(0, -10, 0)
	progress := &models.BeltProgress{
		CurrentBelt:     models.BeltWhite,
		DaysConsecutive: 100,
		FirstLogDate:    &firstLog,
	}
	signals := &ActivitySignals{PEIAverage: 0.6}

	result := EvaluateProgress(progress, signals, evalNow)

	next := result.ProgressToNext
	require.NotNil(t, next)
	assert.Equal(t, 80, next.DaysRemaining)
	assert.Equal(t, 2, next.MonthsRemaining)
	assert.Equal(t, models.GoalCounts{H1: 1}, next.GoalsRemaining)
	assert.False(t, next.IsEligible)
}

func TestEvaluateProgress_MissingFirstLogDate(t *testing.T) {
	progress := &models.BeltProgress{
		CurrentBelt:     models.BeltWhite,
		DaysConsecutive: 200,
	}
	signals := &ActivitySignals{PEIAverage: 0.9, AchievedGoals: GoalTierCounts{H1: 1}}

	result := EvaluateProgress(progress, signals, evalNow)

	// No journey start means zero months elapsed, so the full wait remains.
	assert.Equal(t, 12, result.ProgressToNext.MonthsRemaining)
	assert.False(t, result.ProgressToNext.IsEligible)
}

func TestProgressPercentage_DisplayOnly(t *testing.T) {
	firstLog := evalNow.AddDate(0, -6, 0)
	progress := &models.BeltProgress{
		CurrentBelt:     models.BeltWhite,
		DaysConsecutive: 90, // half of 180
		FirstLogDate:    &firstLog,
	}
	signals := &ActivitySignals{PEIAverage: 0.35} // half of 0.7

	pct := ProgressPercentage(progress, signals, evalNow)

	// days 50 + months 50 + goals 0 + pei 50, averaged.
	assert.InDelta(t, 37.5, pct, 1e-9)

	// The display average can be high while eligibility is false. It must
	// never stand in for the gates.
	result := EvaluateProgress(progress, signals, evalNow)
	assert.False(t, result.ProgressToNext.IsEligible)
}

func TestProgressPercentage_TerminalIsFull(t *testing.T) {
	progress := &models.BeltProgress{CurrentBelt: models.BeltBlack}
	assert.Equal(t, 100.0, ProgressPercentage(progress, &ActivitySignals{}, evalNow))
}

func TestEstimateEligibleDate(t *testing.T) {
	progress := &models.BeltProgress{CurrentBelt: models.BeltWhite}
	next := models.BeltYellow
	progress.NextBelt = &next
	progress.ProgressToNext = &models.ProgressToNext{
		DaysRemaining:   80,
		MonthsRemaining: 4,
	}

	estimated := EstimateEligibleDate(progress, evalNow)
	require.NotNil(t, estimated)
	// months dominate: 4 × 30 = 120 days > 80 days.
	assert.Equal(t, evalNow.AddDate(0, 0, 120), *estimated)

	terminal := &models.BeltProgress{CurrentBelt: models.BeltBlack}
	assert.Nil(t, EstimateEligibleDate(terminal, evalNow))
}

func TestCalendarMonthsBetween(t *testing.T) {
	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, calendarMonthsBetween(start, time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, calendarMonthsBetween(start, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 12, calendarMonthsBetween(start, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, calendarMonthsBetween(start, start))
	// Reversed range clamps to zero rather than going negative.
	assert.Equal(t, 0, calendarMonthsBetween(start, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
}
