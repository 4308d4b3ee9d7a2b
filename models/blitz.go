// models/blitz.go - Blitz (solo timed) Score Model
package models

import (
	"time"
)

// BlitzScore is a single-session solo score against one module. Unlike duel
// progress it is written once, after the session ends.
type BlitzScore struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	UserID   uint   `json:"user_id" gorm:"not null;index"`
	User     *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	ModuleID string `json:"module_id" gorm:"not null;size:50;index"`

	Score           int `json:"score" gorm:"not null;default:0"`
	Strikes         int `json:"strikes" gorm:"not null;default:0"`
	DurationSeconds int `json:"duration_seconds" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (BlitzScore) TableName() string {
	return "blitz_scores"
}
