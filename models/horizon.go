package models

import "time"

// HorizonLevel is the time-scale tier of a goal: H3 vision (10+ years),
// H2 strategy (3-4 years), H1 tactic (1 year).
type HorizonLevel string

const (
	HorizonH1 HorizonLevel = "H1"
	HorizonH2 HorizonLevel = "H2"
	HorizonH3 HorizonLevel = "H3"
)

func (l HorizonLevel) Valid() bool {
	return l == HorizonH1 || l == HorizonH2 || l == HorizonH3
}

// ParentLevel returns the level a parent link must point at: an H1 hangs off
// an H2, an H2 off an H3. H3 is the root of the tree and takes no parent.
func (l HorizonLevel) ParentLevel() (HorizonLevel, bool) {
	switch l {
	case HorizonH1:
		return HorizonH2, true
	case HorizonH2:
		return HorizonH3, true
	default:
		return "", false
	}
}

type HorizonStatus string

const (
	HorizonActive   HorizonStatus = "active"
	HorizonAchieved HorizonStatus = "achieved"
	HorizonArchived HorizonStatus = "archived"
)

// Quadrant classifies a horizon into one of the four life areas.
type Quadrant string

const (
	QuadrantBusiness  Quadrant = "Business"
	QuadrantVitality  Quadrant = "Vitality"
	QuadrantMindset   Quadrant = "Mindset"
	QuadrantRelations Quadrant = "Relations"
)

// Horizon is a user-defined goal at one tier of the H3→H2→H1 tree.
// ParentHorizonID links an H1 to its H2 and an H2 to its H3.
type Horizon struct {
	ID     string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID string `gorm:"index;not null" json:"user_id"`

	// DisplayID is the per-user short handle, e.g. "H1-02". Assigned on
	// create from the user's existing count at that level.
	DisplayID string `gorm:"index;not null" json:"display_id"`

	Level       HorizonLevel `gorm:"type:varchar(4);not null" json:"level"`
	Title       string       `gorm:"not null" json:"title"`
	Slug        string       `gorm:"index" json:"slug"`
	Description string       `gorm:"type:text" json:"description"`
	Quadrant    Quadrant     `gorm:"type:varchar(16)" json:"quadrant"`

	Status     HorizonStatus `gorm:"type:varchar(16);not null;default:'active'" json:"status"`
	AchievedAt *time.Time    `json:"achieved_at,omitempty"`

	ParentHorizonID *string `gorm:"index" json:"parent_horizon_id,omitempty"`

	Timestamps
}
