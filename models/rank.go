package models

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BeltLevel is one of the five mastery tiers of the Hansei practice path.
// Comparisons always go through Index(); belt names are display values,
// never an ordering.
type BeltLevel string

const (
	BeltWhite  BeltLevel = "white"
	BeltYellow BeltLevel = "yellow"
	BeltOrange BeltLevel = "orange"
	BeltGreen  BeltLevel = "green"
	BeltBlack  BeltLevel = "black"
)

var beltOrder = []BeltLevel{BeltWhite, BeltYellow, BeltOrange, BeltGreen, BeltBlack}

var beltTitle = cases.Title(language.English)

// Index returns the tier index (0..4), or -1 for an unknown belt.
func (b BeltLevel) Index() int {
	for i, level := range beltOrder {
		if level == b {
			return i
		}
	}
	return -1
}

func (b BeltLevel) Valid() bool {
	return b.Index() >= 0
}

// IsTerminal reports whether no further progression exists past this belt.
func (b BeltLevel) IsTerminal() bool {
	return b.Index() == len(beltOrder)-1
}

// Next returns the following belt, or false when b is terminal or unknown.
func (b BeltLevel) Next() (BeltLevel, bool) {
	idx := b.Index()
	if idx < 0 || idx >= len(beltOrder)-1 {
		return "", false
	}
	return beltOrder[idx+1], true
}

// DisplayName renders the belt for user-facing surfaces, e.g. "Yellow Belt".
func (b BeltLevel) DisplayName() string {
	return beltTitle.String(string(b)) + " Belt"
}

// GoalCounts buckets goal requirements (or achievements) by horizon level.
// H3 achievements are tracked but no belt currently gates on them.
type GoalCounts struct {
	H1 int `json:"h1"`
	H2 int `json:"h2"`
}

// BeltRequirements defines what a practitioner must sustain to earn a belt.
// PEIThreshold of 0 means the belt has no performance gate.
type BeltRequirements struct {
	Level              BeltLevel
	MinDaysConsecutive int
	MinMonths          int
	RequiredGoals      GoalCounts
	PEIThreshold       float64
	Description        string
}

// BeltRequirementsMatrix is the versioned requirements table shipped with the
// engine. It is not user-editable at runtime. Thresholds grow monotonically
// with the tier index.
var BeltRequirementsMatrix = [...]BeltRequirements{
	{
		Level:       BeltWhite,
		Description: "Begin your Hansei journey. Focus on establishing the FIRE routine.",
	},
	{
		Level:              BeltYellow,
		MinDaysConsecutive: 180,
		MinMonths:          12,
		RequiredGoals:      GoalCounts{H1: 1},
		PEIThreshold:       0.7,
		Description:        "1 year of consistency + first H1 goal achieved",
	},
	{
		Level:              BeltOrange,
		MinDaysConsecutive: 365,
		MinMonths:          24,
		RequiredGoals:      GoalCounts{H1: 2, H2: 1},
		PEIThreshold:       0.75,
		Description:        "2 years stability + significant H2 progress",
	},
	{
		Level:              BeltGreen,
		MinDaysConsecutive: 730,
		MinMonths:          36,
		RequiredGoals:      GoalCounts{H1: 3, H2: 1},
		PEIThreshold:       0.8,
		Description:        "3 years stability + major H2 milestone achieved",
	},
	{
		Level:              BeltBlack,
		MinDaysConsecutive: 1095,
		MinMonths:          48,
		RequiredGoals:      GoalCounts{H1: 4, H2: 2},
		PEIThreshold:       0.85,
		Description:        "4 years of consistent Hansei culture + primary H2 goals achieved",
	},
}

// RequirementsFor returns the requirements row for the given belt.
func RequirementsFor(level BeltLevel) (BeltRequirements, bool) {
	idx := level.Index()
	if idx < 0 {
		return BeltRequirements{}, false
	}
	return BeltRequirementsMatrix[idx], true
}
