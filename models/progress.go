package models

import (
	"time"

	"gorm.io/gorm"
)

// BeltProgress is the per-user progression record. CurrentBelt only moves
// forward, one tier at a time, through the award path. NextBelt and
// ProgressToNext are recomputed on every read and never persisted; a stored
// snapshot must not feed an eligibility decision.
type BeltProgress struct {
	ID     string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID string `gorm:"uniqueIndex;not null" json:"user_id"` // gateway identity

	CurrentBelt          BeltLevel `gorm:"type:varchar(16);not null;default:'white'" json:"current_belt"`
	CurrentBeltAwardedAt time.Time `json:"current_belt_awarded_at"`

	DaysConsecutive int `gorm:"default:0" json:"days_consecutive"`
	TotalDaysLogged int `gorm:"default:0" json:"total_days_logged"`

	// FirstLogDate is set exactly once, at onboarding completion. A nil value
	// means the user has not finished onboarding yet.
	FirstLogDate *time.Time `json:"first_log_date,omitempty"`

	// LastStreakDate is the calendar date the logged-today streak increment
	// last applied. It keeps re-saves of the same date from counting twice.
	LastStreakDate string `gorm:"type:varchar(10);default:''" json:"-"`

	AchievedGoalIDs []string `gorm:"type:jsonb;serializer:json" json:"achieved_goal_ids"`

	// Version guards BeltProgress writes against concurrent sessions.
	// Every save is conditional on the version it read.
	Version int `gorm:"default:0" json:"-"`

	// Derived on evaluation, not stored.
	NextBelt       *BeltLevel      `gorm:"-" json:"next_belt,omitempty"`
	ProgressToNext *ProgressToNext `gorm:"-" json:"progress_to_next,omitempty"`

	Timestamps
}

// ProgressToNext is the derived snapshot of how far a user is from the next
// belt. IsEligible is the AND of the four independent gates; callers must
// check NextBelt before reading it on a terminal-belt record.
type ProgressToNext struct {
	DaysRemaining   int        `json:"days_remaining"`
	MonthsRemaining int        `json:"months_remaining"`
	GoalsRemaining  GoalCounts `json:"goals_remaining"`
	PEIAverage      float64    `json:"pei_average"`
	IsEligible      bool       `json:"is_eligible"`
}

// Onboarded reports whether the user completed onboarding (first log date set).
func (p *BeltProgress) Onboarded() bool {
	return p.FirstLogDate != nil
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
