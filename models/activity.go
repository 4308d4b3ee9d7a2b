// models/activity.go - Activity Log Model
package models

import (
	"time"
)

// Activity kinds
const (
	ActivityCorrectAnswer = "correct_answer"
	ActivityStrike        = "strike"
)

// ActivityLog records one scoring event per row (one per correct answer, one
// per strike). Downstream group-competition aggregation reads these rows;
// the challenge engine only appends them, best-effort.
type ActivityLog struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	UserID      uint    `json:"user_id" gorm:"not null;index"`
	ChallengeID *string `json:"challenge_id,omitempty" gorm:"size:100;index"`
	ModuleID    string  `json:"module_id" gorm:"not null;size:50;index"`
	Kind        string  `json:"kind" gorm:"not null;size:30;index"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
