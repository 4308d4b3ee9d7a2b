// services/reward_service.go - Fire-and-Forget Reward Side Effects
//
// Crediting XP/solved-exercise totals and appending activity-log rows must
// never block or fail the scoring response. Failures are logged and
// swallowed, never surfaced to the caller, never retried.
package services

import (
	"log"
	"sync"
	"time"

	"github.com/PedroCidro/TriMathLon-sub002/models"
	"gorm.io/gorm"
)

const xpPerCorrectAnswer = 10

type RewardService struct {
	db *gorm.DB
	wg sync.WaitGroup
}

func NewRewardService(db *gorm.DB) *RewardService {
	return &RewardService{db: db}
}

// AwardAsync spawns the detached reward task and returns immediately
func (s *RewardService) AwardAsync(userID uint, challengeID *string, moduleID string, correct, strikes int) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.award(userID, challengeID, moduleID, correct, strikes); err != nil {
			log.Printf("rewards: failed to credit user %d: %v", userID, err)
		}
	}()
}

// Wait blocks until all in-flight reward tasks drain. Used on shutdown and
// by tests; request paths never call it.
func (s *RewardService) Wait() {
	s.wg.Wait()
}

func (s *RewardService) award(userID uint, challengeID *string, moduleID string, correct, strikes int) error {
	if correct <= 0 && strikes <= 0 {
		return nil
	}

	err := s.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumns(map[string]interface{}{
			"solved_exercises": gorm.Expr("solved_exercises + ?", correct),
			"xp":               gorm.Expr("xp + ?", correct*xpPerCorrectAnswer),
		}).Error
	if err != nil {
		return err
	}

	// One activity row per correct answer and per strike, for downstream
	// group-competition aggregation.
	now := time.Now()
	rows := make([]models.ActivityLog, 0, correct+strikes)
	for i := 0; i < correct; i++ {
		rows = append(rows, models.ActivityLog{
			UserID:      userID,
			ChallengeID: challengeID,
			ModuleID:    moduleID,
			Kind:        models.ActivityCorrectAnswer,
			CreatedAt:   now,
		})
	}
	for i := 0; i < strikes; i++ {
		rows = append(rows, models.ActivityLog{
			UserID:      userID,
			ChallengeID: challengeID,
			ModuleID:    moduleID,
			Kind:        models.ActivityStrike,
			CreatedAt:   now,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return s.db.Create(&rows).Error
}
