// models/user.go
package models

import (
	"time"
)

type User struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Username    string  `gorm:"uniqueIndex;not null" json:"username"`
	Email       *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Password    string  `gorm:"not null" json:"-"`
	DisplayName string  `json:"display_name"`
	IsGuest     bool    `gorm:"default:false" json:"is_guest"`

	// Progression
	Level           int `gorm:"default:1" json:"level"`
	XP              int `gorm:"default:0" json:"xp"`
	SolvedExercises int `gorm:"default:0" json:"solved_exercises"`

	// Stats
	TotalGames int `gorm:"default:0" json:"total_games"`
	Wins       int `gorm:"default:0" json:"wins"`
	Losses     int `gorm:"default:0" json:"losses"`

	// Timestamps
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LastLogin    time.Time `json:"last_login"`
	LastActivity time.Time `json:"last_activity"`
}

func (User) TableName() string {
	return "users"
}

// Name returns the user's public display name, falling back to the username
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
