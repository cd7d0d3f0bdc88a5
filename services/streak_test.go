package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextStreak_Transitions(t *testing.T) {
	tests := []struct {
		name            string
		current         int
		loggedToday     bool
		loggedYesterday bool
		want            int
	}{
		{"first log ever starts a streak", 0, true, false, 1},
		{"continuing streak extends", 5, true, true, 6},
		{"fresh start from zero after gap", 0, true, false, 1},
		{"gap breaks streak, today restarts at 1", 40, true, false, 1},
		{"two missed days reset to zero", 12, false, false, 0},
		{"missed today but logged yesterday stays live", 12, false, true, 12},
		{"no activity at all stays at zero", 0, false, false, 0},
		{"negative input is treated as zero", -3, true, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStreak(tt.current, tt.loggedToday, tt.loggedYesterday))
		})
	}
}

func TestNextStreak_NeverExceedsTotalDays(t *testing.T) {
	// Simulate an arbitrary logging pattern; the streak must never go
	// negative and never exceed the lifetime day count.
	pattern := []bool{true, true, false, true, true, true, false, false, true, true, false, true}

	streak := 0
	totalDays := 0
	loggedYesterday := false

	for _, loggedToday := range pattern {
		if loggedToday {
			totalDays++
		}
		streak = NextStreak(streak, loggedToday, loggedYesterday)

		assert.GreaterOrEqual(t, streak, 0)
		assert.LessOrEqual(t, streak, totalDays)

		loggedYesterday = loggedToday
	}
}
