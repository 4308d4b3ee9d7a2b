// models/attempt.go - Public Challenge Attempt Model
package models

import (
	"time"
)

// ChallengeAttempt is one user's single, immutable scored play-through of a
// public challenge. The unique (challenge_id, user_id) index is the sole
// duplicate-submission guard: the row is never updated after insertion.
type ChallengeAttempt struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	ChallengeID string `json:"challenge_id" gorm:"not null;size:100;uniqueIndex:idx_attempt_challenge_user;index"`
	UserID      uint   `json:"user_id" gorm:"not null;uniqueIndex:idx_attempt_challenge_user;index"`
	User        *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`

	Score   int `json:"score" gorm:"not null;default:0"`
	Strikes int `json:"strikes" gorm:"not null;default:0"`

	// Insertion timestamp doubles as the leaderboard tie-break: earlier
	// finisher ranks ahead on equal score.
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (ChallengeAttempt) TableName() string {
	return "challenge_attempts"
}
