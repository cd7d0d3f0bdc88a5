package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeltLevel_Ordering(t *testing.T) {
	assert.Equal(t, 0, BeltWhite.Index())
	assert.Equal(t, 4, BeltBlack.Index())
	assert.Equal(t, -1, BeltLevel("purple").Index())

	// Order comes from tier index, never from the names.
	assert.Less(t, BeltYellow.Index(), BeltOrange.Index())
	assert.Less(t, BeltGreen.Index(), BeltBlack.Index())
}

func TestBeltLevel_NextChain(t *testing.T) {
	next, ok := BeltWhite.Next()
	require.True(t, ok)
	assert.Equal(t, BeltYellow, next)

	_, ok = BeltBlack.Next()
	assert.False(t, ok)
	assert.True(t, BeltBlack.IsTerminal())
	assert.False(t, BeltWhite.IsTerminal())

	_, ok = BeltLevel("purple").Next()
	assert.False(t, ok)
}

func TestBeltLevel_DisplayName(t *testing.T) {
	assert.Equal(t, "White Belt", BeltWhite.DisplayName())
	assert.Equal(t, "Yellow Belt", BeltYellow.DisplayName())
}

// The requirements matrix ships with the engine and must grow strictly harder
// with each tier. A non-monotonic table is a programming error the engine
// does not correct at runtime.
func TestBeltRequirementsMatrix_MonotonicDifficulty(t *testing.T) {
	require.Len(t, BeltRequirementsMatrix, len(beltOrder))

	for i := 1; i < len(BeltRequirementsMatrix); i++ {
		prev, cur := BeltRequirementsMatrix[i-1], BeltRequirementsMatrix[i]

		assert.Equal(t, beltOrder[i], cur.Level)
		assert.GreaterOrEqual(t, cur.MinDaysConsecutive, prev.MinDaysConsecutive, "days at tier %d", i)
		assert.GreaterOrEqual(t, cur.MinMonths, prev.MinMonths, "months at tier %d", i)
		assert.GreaterOrEqual(t, cur.RequiredGoals.H1, prev.RequiredGoals.H1, "h1 goals at tier %d", i)
		assert.GreaterOrEqual(t, cur.RequiredGoals.H2, prev.RequiredGoals.H2, "h2 goals at tier %d", i)
		assert.GreaterOrEqual(t, cur.PEIThreshold, prev.PEIThreshold, "pei threshold at tier %d", i)
	}
}

func TestRequirementsFor(t *testing.T) {
	req, ok := RequirementsFor(BeltYellow)
	require.True(t, ok)
	assert.Equal(t, 180, req.MinDaysConsecutive)
	assert.Equal(t, 12, req.MinMonths)
	assert.Equal(t, GoalCounts{H1: 1}, req.RequiredGoals)
	assert.InDelta(t, 0.7, req.PEIThreshold, 1e-9)

	// White has no performance gate at all.
	white, ok := RequirementsFor(BeltWhite)
	require.True(t, ok)
	assert.Zero(t, white.PEIThreshold)

	_, ok = RequirementsFor(BeltLevel("purple"))
	assert.False(t, ok)
}
