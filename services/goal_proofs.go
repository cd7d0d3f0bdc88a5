package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"hansei-os/models"
	"hansei-os/utils"

	"gorm.io/gorm"
)

// GoalProofService documents goal achievements. Proofs are immutable once
// created; the only later writes are the verification stamp and evidence
// attachments uploaded before verification.
type GoalProofService struct {
	DB       *gorm.DB
	Progress *ProgressService
}

func NewGoalProofService(db *gorm.DB, progress *ProgressService) *GoalProofService {
	return &GoalProofService{DB: db, Progress: progress}
}

// Create records an achievement proof against one of the user's horizons and
// appends its ID to the achieved set on the progress record.
func (s *GoalProofService) Create(userID string, proof *models.GoalProof) (*models.GoalProof, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	var horizon models.Horizon
	err := s.DB.Where("id = ? AND user_id = ?", proof.HorizonID, userID).First(&horizon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrHorizonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch horizon for proof: %w", err)
	}

	if proof.AchievementDate.IsZero() {
		proof.AchievementDate = time.Now().UTC()
	}
	proof.ID = models.NewGoalProofID(proof.AchievementDate)
	proof.UserID = userID

	if err := s.DB.Create(proof).Error; err != nil {
		return nil, fmt.Errorf("create goal proof: %w", err)
	}

	if err := s.Progress.RecordAchievedGoal(userID, proof.ID); err != nil {
		return nil, err
	}

	return proof, nil
}

// List returns all proofs of the user, newest achievement first.
func (s *GoalProofService) List(userID string) ([]models.GoalProof, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	var proofs []models.GoalProof
	err := s.DB.
		Where("user_id = ?", userID).
		Order("achievement_date DESC").
		Find(&proofs).Error
	if err != nil {
		return nil, fmt.Errorf("fetch goal proofs: %w", err)
	}
	return proofs, nil
}

// ForHorizon returns the proofs recorded against one horizon.
func (s *GoalProofService) ForHorizon(userID, horizonID string) ([]models.GoalProof, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	var proofs []models.GoalProof
	err := s.DB.
		Where("user_id = ? AND horizon_id = ?", userID, horizonID).
		Order("achievement_date DESC").
		Find(&proofs).Error
	if err != nil {
		return nil, fmt.Errorf("fetch proofs for horizon: %w", err)
	}
	return proofs, nil
}

// AttachEvidence stores an uploaded file in the evidence store and appends a
// file evidence entry to the proof. A sealed proof rejects new evidence
// before anything is uploaded. Image uploads get the image type so the UI
// can inline them.
func (s *GoalProofService) AttachEvidence(userID, proofID string, file *multipart.FileHeader, description string) (*models.GoalProof, error) {
	proof, err := s.get(userID, proofID)
	if err != nil {
		return nil, err
	}
	if proof.Sealed() {
		return nil, ErrProofVerified
	}

	key := fmt.Sprintf("evidence/%s/%s", proof.ID, filepath.Base(file.Filename))
	url, err := utils.StoreEvidenceFile(file, key)
	if err != nil {
		return nil, fmt.Errorf("store evidence file: %w", err)
	}

	proof.Evidence = append(proof.Evidence, models.GoalProofEvidence{
		Type:        evidenceTypeOf(file.Filename),
		Content:     url,
		Description: description,
	})

	err = s.DB.Model(proof).Select("evidence").Updates(proof).Error
	if err != nil {
		return nil, fmt.Errorf("attach evidence: %w", err)
	}
	return proof, nil
}

// MarkVerified stamps the proof as included in a mastery token.
func (s *GoalProofService) MarkVerified(userID, proofID string, now time.Time) (*models.GoalProof, error) {
	proof, err := s.get(userID, proofID)
	if err != nil {
		return nil, err
	}
	verifiedAt := now.UTC()
	proof.VerifiedAt = &verifiedAt
	err = s.DB.Model(proof).Select("verified_at").Updates(proof).Error
	if err != nil {
		return nil, fmt.Errorf("mark proof verified: %w", err)
	}
	return proof, nil
}

// evidenceTypeOf classifies an upload by extension.
func evidenceTypeOf(filename string) models.EvidenceType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return models.EvidenceImage
	default:
		return models.EvidenceFile
	}
}

func (s *GoalProofService) get(userID, proofID string) (*models.GoalProof, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	var proof models.GoalProof
	err := s.DB.Where("id = ? AND user_id = ?", proofID, userID).First(&proof).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProofNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch goal proof: %w", err)
	}
	return &proof, nil
}
