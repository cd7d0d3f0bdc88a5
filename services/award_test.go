package services

import (
	"testing"
	"time"

	"hansei-os/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceBelt_SingleTierWithStreakReset(t *testing.T) {
	awardedAt := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	firstLog := awardedAt.AddDate(-2, 0, 0)
	progress := &models.BeltProgress{
		CurrentBelt:          models.BeltWhite,
		CurrentBeltAwardedAt: firstLog,
		DaysConsecutive:      365,
		TotalDaysLogged:      500,
		FirstLogDate:         &firstLog,
		AchievedGoalIDs:      []string{"GP-20260101-abcd1234"},
	}

	next, ok := progress.CurrentBelt.Next()
	require.True(t, ok)
	advanceBelt(progress, next, awardedAt)

	// Exactly one tier forward, even when the user would already satisfy
	// requirements further ahead.
	assert.Equal(t, models.BeltYellow, progress.CurrentBelt)
	assert.Equal(t, awardedAt, progress.CurrentBeltAwardedAt)

	// Each belt's streak is earned fresh under that belt.
	assert.Equal(t, 0, progress.DaysConsecutive)

	// Everything else carries forward unchanged.
	assert.Equal(t, 500, progress.TotalDaysLogged)
	assert.Equal(t, &firstLog, progress.FirstLogDate)
	assert.Equal(t, []string{"GP-20260101-abcd1234"}, progress.AchievedGoalIDs)
}

func TestAdvanceBelt_FullLadder(t *testing.T) {
	now := time.Now().UTC()
	progress := &models.BeltProgress{CurrentBelt: models.BeltWhite}

	ladder := []models.BeltLevel{models.BeltYellow, models.BeltOrange, models.BeltGreen, models.BeltBlack}
	for _, want := range ladder {
		next, ok := progress.CurrentBelt.Next()
		require.True(t, ok)
		advanceBelt(progress, next, now)
		assert.Equal(t, want, progress.CurrentBelt)
	}

	// Black is terminal: no further step exists.
	_, ok := progress.CurrentBelt.Next()
	assert.False(t, ok)
}
