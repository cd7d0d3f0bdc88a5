package models

import "time"

// DateLayout is the canonical calendar-date format for daily logs.
const DateLayout = "2006-01-02"

// PEI is the daily performance triple. Each factor is in [0,1] and Total is
// their product, precomputed at write time. Readers never recompute it.
type PEI struct {
	Availability  float64 `json:"availability"`
	Effectiveness float64 `json:"effectiveness"`
	Quality       float64 `json:"quality"`
	Total         float64 `json:"total"`
}

// ComputeTotal fills Total from the three factors.
func (p *PEI) ComputeTotal() {
	p.Total = p.Availability * p.Effectiveness * p.Quality
}

// Valid reports whether every factor is inside [0,1].
func (p PEI) Valid() bool {
	for _, f := range []float64{p.Availability, p.Effectiveness, p.Quality} {
		if f < 0 || f > 1 {
			return false
		}
	}
	return true
}

// FIREChecklist tracks the four daily routine steps:
// Focus, Intention, Review, Execution.
type FIREChecklist struct {
	Focus     bool `json:"focus"`
	Intention bool `json:"intention"`
	Review    bool `json:"review"`
	Execution bool `json:"execution"`
}

// TaktBlock is one planned time block of the day, optionally linked to a
// horizon goal.
type TaktBlock struct {
	ID        string `json:"id"`
	StartTime string `json:"start_time"` // HH:mm
	EndTime   string `json:"end_time"`   // HH:mm
	Task      string `json:"task"`
	HorizonID string `json:"horizon_id,omitempty"`
}

// DailyLog is one reflection entry per user per calendar date. The
// (user_id, date) pair is unique; saves use upsert semantics so a date has
// exactly one log or none.
type DailyLog struct {
	ID     string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID string `gorm:"uniqueIndex:idx_daily_logs_user_date;not null" json:"user_id"`
	Date   string `gorm:"uniqueIndex:idx_daily_logs_user_date;type:varchar(10);not null" json:"date"` // YYYY-MM-DD

	HorizonSync   []string      `gorm:"type:jsonb;serializer:json" json:"horizon_sync"`
	FIREChecklist FIREChecklist `gorm:"type:jsonb;serializer:json" json:"fire_checklist"`
	TaktTimeline  []TaktBlock   `gorm:"type:jsonb;serializer:json" json:"takt_timeline"`

	PEI PEI `gorm:"embedded;embeddedPrefix:pei_" json:"pei"`

	// Muda is the free-text daily waste reflection.
	Muda string `gorm:"type:text" json:"muda"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// DateOf truncates a timestamp to its calendar date in UTC.
func DateOf(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
