// database/challenge_store.go - Typed Challenge Record Store
//
// All status-changing writes go through UpdateIfStatus: the persisted
// predicate must match the status the caller observed, which is what totally
// orders transitions and prevents double-accept/double-start under
// concurrent requests.
package database

import (
	"errors"

	"github.com/PedroCidro/TriMathLon-sub002/models"
	"gorm.io/gorm"
)

var (
	// ErrNotFound means no record exists for the given id
	ErrNotFound = errors.New("record not found")
	// ErrConflict means the record exists but no longer matches the state
	// the caller observed (lost a concurrency race)
	ErrConflict = errors.New("record changed since last read")
)

type ChallengeStore struct {
	db *gorm.DB
}

func NewChallengeStore(db *gorm.DB) *ChallengeStore {
	return &ChallengeStore{db: db}
}

// Create persists a freshly built challenge record
func (s *ChallengeStore) Create(ch *models.Challenge) error {
	return s.db.Create(ch).Error
}

// GetByToken loads a challenge by its shareable token
func (s *ChallengeStore) GetByToken(token string) (*models.Challenge, error) {
	var ch models.Challenge
	err := s.db.Where("challenge_id = ?", token).First(&ch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ch, nil
}

// GetByTokenWithUsers loads a challenge with both participants preloaded
func (s *ChallengeStore) GetByTokenWithUsers(token string) (*models.Challenge, error) {
	var ch models.Challenge
	err := s.db.Where("challenge_id = ?", token).
		Preload("Creator").
		Preload("Opponent").
		First(&ch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ch, nil
}

// UpdateIfStatus applies updates only if the record's status still equals
// expected. Zero rows affected is resolved into ErrNotFound (no such record)
// or ErrConflict (record exists in a different status) so callers can tell a
// lost race apart from a bad id.
func (s *ChallengeStore) UpdateIfStatus(token string, expected models.ChallengeStatus, updates map[string]interface{}) error {
	result := s.db.Model(&models.Challenge{}).
		Where("challenge_id = ? AND status = ?", token, expected).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := s.db.Model(&models.Challenge{}).
			Where("challenge_id = ?", token).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrConflict
	}
	return nil
}

// UpdateProgress writes one participant's half of the progress fields. No
// status predicate is needed: only the owning participant ever writes their
// half, and regressions are rejected by the validator before this is called.
func (s *ChallengeStore) UpdateProgress(token string, side models.Side, p models.Progress) error {
	prefix := "creator"
	if side == models.SideOpponent {
		prefix = "opponent"
	}

	updates := map[string]interface{}{
		prefix + "_score":    p.Score,
		prefix + "_strikes":  p.Strikes,
		prefix + "_index":    p.CurrentIndex,
		prefix + "_finished": p.Finished,
	}

	result := s.db.Model(&models.Challenge{}).
		Where("challenge_id = ?", token).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRematch links a finished challenge to its rematch, first writer wins
func (s *ChallengeStore) SetRematch(token, rematchToken string) error {
	result := s.db.Model(&models.Challenge{}).
		Where("challenge_id = ? AND rematch_challenge_id IS NULL", token).
		Update("rematch_challenge_id", rematchToken)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := s.db.Model(&models.Challenge{}).
			Where("challenge_id = ?", token).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrConflict
	}
	return nil
}

// InsertAttempt inserts an immutable attempt row. The unique
// (challenge_id, user_id) index is the sole duplicate-submission guard;
// a violation surfaces as ErrConflict.
func (s *ChallengeStore) InsertAttempt(a *models.ChallengeAttempt) error {
	err := s.db.Create(a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		return err
	}
	return nil
}

// RecentByUser returns a user's challenges, newest first
func (s *ChallengeStore) RecentByUser(userID uint, limit int) ([]models.Challenge, error) {
	var challenges []models.Challenge
	err := s.db.Where("creator_id = ? OR opponent_id = ?", userID, userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&challenges).Error
	return challenges, err
}
