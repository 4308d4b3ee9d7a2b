// services/leaderboard_service.go - Ranked Standings for Public Challenges and Blitz
package services

import (
	"time"

	"github.com/PedroCidro/TriMathLon-sub002/models"
	"gorm.io/gorm"
)

type LeaderboardService struct {
	db *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{db: db}
}

// LeaderboardEntry is one ranked row. Ranks are positional and 1-based:
// equal scores still get distinct consecutive ranks by arrival order.
type LeaderboardEntry struct {
	Rank        int       `json:"rank"`
	UserID      uint      `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Score       int       `json:"score"`
	Strikes     int       `json:"strikes"`
	SubmittedAt time.Time `json:"submitted_at"`
	IsMe        bool      `json:"is_me"`
}

// LeaderboardPage is the top-N slice plus the full attempt count. The count
// reflects all attempts, not just the page.
type LeaderboardPage struct {
	Entries       []LeaderboardEntry `json:"entries"`
	TotalAttempts int64              `json:"total_attempts"`
}

// ChallengeTop returns the top-N standings for a public challenge, ordered
// by score descending then insertion time ascending (earlier finisher wins
// ties). requesterID marks the caller's own row; zero means anonymous.
func (s *LeaderboardService) ChallengeTop(challengeID string, requesterID uint) (*LeaderboardPage, error) {
	var attempts []models.ChallengeAttempt
	err := s.db.Where("challenge_id = ?", challengeID).
		Preload("User").
		Order("score DESC, created_at ASC").
		Limit(LeaderboardSize).
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}

	var total int64
	if err := s.db.Model(&models.ChallengeAttempt{}).
		Where("challenge_id = ?", challengeID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(attempts))
	for i, a := range attempts {
		name := ""
		if a.User != nil {
			name = a.User.Name()
		}
		entries = append(entries, LeaderboardEntry{
			Rank:        i + 1,
			UserID:      a.UserID,
			DisplayName: name,
			Score:       a.Score,
			Strikes:     a.Strikes,
			SubmittedAt: a.CreatedAt,
			IsMe:        requesterID != 0 && a.UserID == requesterID,
		})
	}

	return &LeaderboardPage{Entries: entries, TotalAttempts: total}, nil
}

// BlitzTop returns the top-N blitz scores for a module with the same
// ordering and tie-break rules as challenge leaderboards
func (s *LeaderboardService) BlitzTop(moduleID string, requesterID uint) (*LeaderboardPage, error) {
	var scores []models.BlitzScore
	err := s.db.Where("module_id = ?", moduleID).
		Preload("User").
		Order("score DESC, created_at ASC").
		Limit(LeaderboardSize).
		Find(&scores).Error
	if err != nil {
		return nil, err
	}

	var total int64
	if err := s.db.Model(&models.BlitzScore{}).
		Where("module_id = ?", moduleID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(scores))
	for i, sc := range scores {
		name := ""
		if sc.User != nil {
			name = sc.User.Name()
		}
		entries = append(entries, LeaderboardEntry{
			Rank:        i + 1,
			UserID:      sc.UserID,
			DisplayName: name,
			Score:       sc.Score,
			Strikes:     sc.Strikes,
			SubmittedAt: sc.CreatedAt,
			IsMe:        requesterID != 0 && sc.UserID == requesterID,
		})
	}

	return &LeaderboardPage{Entries: entries, TotalAttempts: total}, nil
}
