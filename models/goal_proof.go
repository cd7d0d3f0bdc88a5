package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GoalProofMetric is one quantifiable result backing an achievement,
// e.g. {Key: "Marathon Time", Value: "3:45:00", Unit: "hours"}.
type GoalProofMetric struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

type EvidenceType string

const (
	EvidenceText  EvidenceType = "text"
	EvidenceImage EvidenceType = "image"
	EvidenceLink  EvidenceType = "link"
	EvidenceFile  EvidenceType = "file"
)

// GoalProofEvidence is one qualitative support item: a text account, an
// uploaded file/image URL, or an external link.
type GoalProofEvidence struct {
	Type        EvidenceType `json:"type"`
	Content     string       `json:"content"`
	Description string       `json:"description,omitempty"`
}

// GoalProof is an immutable record documenting that a horizon goal was
// achieved. Proofs are never edited after creation; verification only stamps
// VerifiedAt when the proof is included in a mastery token.
type GoalProof struct {
	ID        string `gorm:"primaryKey" json:"id"` // GP-YYYYMMDD-xxxxxxxx
	UserID    string `gorm:"index;not null" json:"user_id"`
	HorizonID string `gorm:"index;not null" json:"horizon_id"`

	GoalDescription string    `gorm:"type:text" json:"goal_description"`
	AchievementDate time.Time `gorm:"not null" json:"achievement_date"`

	Metrics  []GoalProofMetric   `gorm:"type:jsonb;serializer:json" json:"metrics"`
	Evidence []GoalProofEvidence `gorm:"type:jsonb;serializer:json" json:"evidence"`

	// Reflection is the Hansei write-up on the achievement process.
	Reflection string `gorm:"type:text" json:"reflection"`

	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}

// Sealed reports whether the proof has been included in a mastery token and
// is locked against further edits, evidence included.
func (p *GoalProof) Sealed() bool {
	return p.VerifiedAt != nil
}

// NewGoalProofID builds a proof ID of the form GP-YYYYMMDD-xxxxxxxx. The date
// prefix makes IDs sort chronologically; the suffix is the first segment of a
// random UUID.
func NewGoalProofID(achievementDate time.Time) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("GP-%s-%s", achievementDate.UTC().Format("20060102"), suffix)
}
