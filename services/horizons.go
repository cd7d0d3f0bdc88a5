package services

import (
	"errors"
	"fmt"
	"time"

	"hansei-os/models"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// HorizonService manages the user's three-level goal tree.
type HorizonService struct {
	DB *gorm.DB
}

func NewHorizonService(db *gorm.DB) *HorizonService {
	return &HorizonService{DB: db}
}

// Create inserts a new horizon. The display ID is assigned per user and level
// from the existing count ("H1-03" for the third tactic), the slug from the
// title. A parent link, when given, must point at a horizon one level up that
// belongs to the same user.
func (s *HorizonService) Create(userID string, horizon *models.Horizon) (*models.Horizon, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if !horizon.Level.Valid() {
		return nil, ErrInvalidHorizonLevel
	}

	if horizon.ParentHorizonID != nil {
		wantLevel, ok := horizon.Level.ParentLevel()
		if !ok {
			return nil, ErrInvalidParentHorizon
		}
		var parent models.Horizon
		err := s.DB.Where("id = ? AND user_id = ?", *horizon.ParentHorizonID, userID).First(&parent).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHorizonNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("fetch parent horizon: %w", err)
		}
		if parent.Level != wantLevel {
			return nil, ErrInvalidParentHorizon
		}
	}

	var count int64
	err := s.DB.Model(&models.Horizon{}).
		Where("user_id = ? AND level = ?", userID, horizon.Level).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("count horizons: %w", err)
	}

	horizon.UserID = userID
	horizon.DisplayID = fmt.Sprintf("%s-%02d", horizon.Level, count+1)
	horizon.Slug = slug.Make(horizon.Title)
	horizon.Status = models.HorizonActive

	if err := s.DB.Create(horizon).Error; err != nil {
		return nil, fmt.Errorf("create horizon: %w", err)
	}
	return horizon, nil
}

// List returns every horizon of the user, H3 first, oldest first within a
// level.
func (s *HorizonService) List(userID string) ([]models.Horizon, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	var horizons []models.Horizon
	err := s.DB.
		Where("user_id = ?", userID).
		Order("level DESC").
		Order("created_at ASC").
		Find(&horizons).Error
	if err != nil {
		return nil, fmt.Errorf("fetch horizons: %w", err)
	}
	return horizons, nil
}

// ByLevel returns the user's active horizons at one level.
func (s *HorizonService) ByLevel(userID string, level models.HorizonLevel) ([]models.Horizon, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if !level.Valid() {
		return nil, ErrInvalidHorizonLevel
	}
	var horizons []models.Horizon
	err := s.DB.
		Where("user_id = ? AND level = ? AND status = ?", userID, level, models.HorizonActive).
		Order("created_at ASC").
		Find(&horizons).Error
	if err != nil {
		return nil, fmt.Errorf("fetch horizons by level: %w", err)
	}
	return horizons, nil
}

// Update edits title, description and quadrant of an active horizon.
func (s *HorizonService) Update(userID, id string, title, description string, quadrant models.Quadrant) (*models.Horizon, error) {
	horizon, err := s.get(userID, id)
	if err != nil {
		return nil, err
	}

	if title != "" {
		horizon.Title = title
		horizon.Slug = slug.Make(title)
	}
	if description != "" {
		horizon.Description = description
	}
	if quadrant != "" {
		horizon.Quadrant = quadrant
	}

	if err := s.DB.Save(horizon).Error; err != nil {
		return nil, fmt.Errorf("update horizon: %w", err)
	}
	return horizon, nil
}

// Achieve marks a horizon as achieved and stamps the time.
func (s *HorizonService) Achieve(userID, id string, now time.Time) (*models.Horizon, error) {
	horizon, err := s.get(userID, id)
	if err != nil {
		return nil, err
	}
	achievedAt := now.UTC()
	horizon.Status = models.HorizonAchieved
	horizon.AchievedAt = &achievedAt
	if err := s.DB.Save(horizon).Error; err != nil {
		return nil, fmt.Errorf("achieve horizon: %w", err)
	}
	return horizon, nil
}

// Archive soft-retires a horizon. Archived horizons stay queryable so proof
// joins keep working.
func (s *HorizonService) Archive(userID, id string) (*models.Horizon, error) {
	horizon, err := s.get(userID, id)
	if err != nil {
		return nil, err
	}
	horizon.Status = models.HorizonArchived
	if err := s.DB.Save(horizon).Error; err != nil {
		return nil, fmt.Errorf("archive horizon: %w", err)
	}
	return horizon, nil
}

func (s *HorizonService) get(userID, id string) (*models.Horizon, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	var horizon models.Horizon
	err := s.DB.Where("id = ? AND user_id = ?", id, userID).First(&horizon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrHorizonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch horizon: %w", err)
	}
	return &horizon, nil
}
