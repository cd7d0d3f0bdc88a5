package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"hansei-os/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MasteryTokenService issues and verifies signed mastery tokens: portable,
// publicly checkable proofs of a belt achievement. Tokens are HS256 JWTs; the
// user reference inside is hashed so a token reveals the achievement, not the
// account.
type MasteryTokenService struct {
	Progress *ProgressService
	Secret   []byte
}

func NewMasteryTokenService(progress *ProgressService, secret []byte) *MasteryTokenService {
	return &MasteryTokenService{Progress: progress, Secret: secret}
}

// PublicVerification is the outcome of checking a mastery token.
type PublicVerification struct {
	TokenID            string              `json:"token_id,omitempty"`
	IsValid            bool                `json:"is_valid"`
	BeltLevel          models.BeltLevel    `json:"belt_level,omitempty"`
	BeltDisplayName    string              `json:"belt_display_name,omitempty"`
	IssuedAt           *time.Time          `json:"issued_at,omitempty"`
	AchievementSummary *AchievementSummary `json:"achievement_summary,omitempty"`
	Error              string              `json:"error,omitempty"`
}

// AchievementSummary condenses the token claims for display.
type AchievementSummary struct {
	TotalGoals      int     `json:"total_goals"`
	TotalDays       int     `json:"total_days"`
	AveragePEI      float64 `json:"average_pei"` // 0-100 for display
	JourneyDuration string  `json:"journey_duration"`
}

// Issue signs a mastery token for the user's current belt from fresh
// aggregates.
func (s *MasteryTokenService) Issue(userID string, now time.Time) (string, error) {
	evaluated, signals, err := s.Progress.Evaluate(userID, now)
	if err != nil {
		return "", err
	}
	if !evaluated.Onboarded() {
		return "", ErrNotOnboarded
	}

	userHash := sha256.Sum256([]byte(userID))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"token_id":          uuid.NewString(),
		"sub":               hex.EncodeToString(userHash[:]),
		"belt_level":        string(evaluated.CurrentBelt),
		"iat":               now.Unix(),
		"goal_proof_ids":    evaluated.AchievedGoalIDs,
		"total_days_logged": evaluated.TotalDaysLogged,
		"pei_average":       signals.PEIAverage,
		"first_log_date":    evaluated.FirstLogDate.UTC().Format(time.RFC3339),
		"belt_awarded_at":   evaluated.CurrentBeltAwardedAt.UTC().Format(time.RFC3339),
	})

	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("sign mastery token: %w", err)
	}
	return signed, nil
}

// Verify checks a token's signature and renders the public achievement
// summary. A bad token never returns an error to the transport; the result
// carries IsValid=false with the reason.
func (s *MasteryTokenService) Verify(tokenString string) *PublicVerification {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.Secret, nil
	})
	if err != nil || !token.Valid {
		return &PublicVerification{IsValid: false, Error: "invalid or tampered token"}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return &PublicVerification{IsValid: false, Error: "malformed claims"}
	}

	belt := models.BeltLevel(stringClaim(claims, "belt_level"))
	if !belt.Valid() {
		return &PublicVerification{IsValid: false, Error: "unknown belt level"}
	}

	verification := &PublicVerification{
		TokenID:         stringClaim(claims, "token_id"),
		IsValid:         true,
		BeltLevel:       belt,
		BeltDisplayName: belt.DisplayName(),
	}

	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		issued := iat.Time
		verification.IssuedAt = &issued
	}

	summary := &AchievementSummary{
		TotalDays:  intClaim(claims, "total_days_logged"),
		AveragePEI: math.Round(floatClaim(claims, "pei_average")*10000) / 100,
	}
	if ids, ok := claims["goal_proof_ids"].([]interface{}); ok {
		summary.TotalGoals = len(ids)
	}
	if firstLog, err := time.Parse(time.RFC3339, stringClaim(claims, "first_log_date")); err == nil {
		end := time.Now().UTC()
		if verification.IssuedAt != nil {
			end = *verification.IssuedAt
		}
		summary.JourneyDuration = formatJourneyDuration(firstLog, end)
	}
	verification.AchievementSummary = summary

	return verification
}

// formatJourneyDuration renders a journey span as "3 years, 2 months".
func formatJourneyDuration(start, end time.Time) string {
	months := calendarMonthsBetween(start, end)
	years := months / 12
	months = months % 12

	switch {
	case years == 0 && months == 0:
		return "less than a month"
	case years == 0:
		return fmt.Sprintf("%d %s", months, plural(months, "month"))
	case months == 0:
		return fmt.Sprintf("%d %s", years, plural(years, "year"))
	default:
		return fmt.Sprintf("%d %s, %d %s", years, plural(years, "year"), months, plural(months, "month"))
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}

func floatClaim(claims jwt.MapClaims, key string) float64 {
	v, _ := claims[key].(float64)
	return v
}

func intClaim(claims jwt.MapClaims, key string) int {
	return int(floatClaim(claims, key))
}
