// services/blitz_service.go - Solo Timed Scoring
package services

import (
	"time"

	"github.com/PedroCidro/TriMathLon-sub002/models"
	"gorm.io/gorm"
)

type BlitzService struct {
	db         *gorm.DB
	curriculum *CurriculumService
	rewards    *RewardService
}

func NewBlitzService(db *gorm.DB, curriculum *CurriculumService, rewards *RewardService) *BlitzService {
	return &BlitzService{db: db, curriculum: curriculum, rewards: rewards}
}

// Submit validates and persists a single-session blitz score. The validator
// rejects scores faster than one correct answer per second and sessions
// longer than the module allows, independent of what the client claims.
func (s *BlitzService) Submit(userID uint, moduleID string, score, strikes, durationSeconds int) (*models.BlitzScore, error) {
	module, err := s.curriculum.GetModule(moduleID)
	if err != nil {
		return nil, err
	}

	if err := ValidateBlitz(score, strikes, durationSeconds, module.GameDurationSeconds); err != nil {
		return nil, err
	}

	record := &models.BlitzScore{
		UserID:          userID,
		ModuleID:        moduleID,
		Score:           score,
		Strikes:         strikes,
		DurationSeconds: durationSeconds,
		CreatedAt:       time.Now(),
	}
	if err := s.db.Create(record).Error; err != nil {
		return nil, err
	}

	if score > 0 {
		s.rewards.AwardAsync(userID, nil, moduleID, score, strikes)
	}

	return record, nil
}
