// models/challenge.go - Competitive Challenge Data Models
package models

import (
	"encoding/json"
	"time"
)

// Challenge type constants
type ChallengeType string

const (
	ChallengeTypeDuel   ChallengeType = "duel"
	ChallengeTypePublic ChallengeType = "public"
)

// Challenge status constants
type ChallengeStatus string

const (
	ChallengeStatusWaiting  ChallengeStatus = "waiting"
	ChallengeStatusReady    ChallengeStatus = "ready"
	ChallengeStatusPlaying  ChallengeStatus = "playing"
	ChallengeStatusOpen     ChallengeStatus = "open"
	ChallengeStatusFinished ChallengeStatus = "finished"
	ChallengeStatusExpired  ChallengeStatus = "expired"
)

// Side identifies which half of a duel record a participant owns
type Side string

const (
	SideCreator  Side = "creator"
	SideOpponent Side = "opponent"
)

// Challenge represents a single competition: a two-player timed duel or an
// open public challenge scored via a leaderboard
type Challenge struct {
	ID          uint            `json:"-" gorm:"primaryKey"`
	ChallengeID string          `json:"challenge_id" gorm:"uniqueIndex;not null;size:100"` // shareable UUID token
	Type        ChallengeType   `json:"type" gorm:"not null;size:20;index"`
	Status      ChallengeStatus `json:"status" gorm:"not null;default:'waiting';size:20;index"`

	CreatorID  uint  `json:"creator_id" gorm:"not null;index"`
	Creator    *User `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
	OpponentID *uint `json:"opponent_id" gorm:"index"` // nil until accepted (duel only)
	Opponent   *User `json:"opponent,omitempty" gorm:"foreignKey:OpponentID"`

	ModuleID        string `json:"module_id" gorm:"not null;size:50;index"`
	TopicIDsJSON    string `json:"-" gorm:"column:topic_ids;type:text;not null"`
	QuestionIDsJSON string `json:"-" gorm:"column:question_ids;type:text;not null"` // frozen at creation, never mutated

	GameDurationSeconds int        `json:"game_duration_seconds" gorm:"not null"`
	GameStartedAt       *time.Time `json:"game_started_at"` // set exactly once, on first transition into playing
	ExpiresAt           *time.Time `json:"expires_at"`      // duel acceptance deadline

	// Per-participant progress. Each participant only ever writes their own
	// half, so the two halves never collide under concurrent updates.
	CreatorScore     int  `json:"creator_score" gorm:"default:0"`
	CreatorStrikes   int  `json:"creator_strikes" gorm:"default:0"`
	CreatorIndex     int  `json:"creator_index" gorm:"default:0"`
	CreatorFinished  bool `json:"creator_finished" gorm:"default:false"`
	OpponentScore    int  `json:"opponent_score" gorm:"default:0"`
	OpponentStrikes  int  `json:"opponent_strikes" gorm:"default:0"`
	OpponentIndex    int  `json:"opponent_index" gorm:"default:0"`
	OpponentFinished bool `json:"opponent_finished" gorm:"default:false"`

	RematchChallengeID *string `json:"rematch_challenge_id" gorm:"size:100"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// Progress is one participant's half of a duel record
type Progress struct {
	Score        int  `json:"score"`
	Strikes      int  `json:"strikes"`
	CurrentIndex int  `json:"current_index"`
	Finished     bool `json:"finished"`
}

// IsParticipant reports whether the user plays on either side
func (ch *Challenge) IsParticipant(userID uint) bool {
	if ch.CreatorID == userID {
		return true
	}
	return ch.OpponentID != nil && *ch.OpponentID == userID
}

// SideOf returns which half of the record the user owns
func (ch *Challenge) SideOf(userID uint) (Side, bool) {
	if ch.CreatorID == userID {
		return SideCreator, true
	}
	if ch.OpponentID != nil && *ch.OpponentID == userID {
		return SideOpponent, true
	}
	return "", false
}

// ProgressOf returns the stored progress for one side
func (ch *Challenge) ProgressOf(side Side) Progress {
	if side == SideOpponent {
		return Progress{
			Score:        ch.OpponentScore,
			Strikes:      ch.OpponentStrikes,
			CurrentIndex: ch.OpponentIndex,
			Finished:     ch.OpponentFinished,
		}
	}
	return Progress{
		Score:        ch.CreatorScore,
		Strikes:      ch.CreatorStrikes,
		CurrentIndex: ch.CreatorIndex,
		Finished:     ch.CreatorFinished,
	}
}

// BothFinished reports whether both duel participants have finished
func (ch *Challenge) BothFinished() bool {
	return ch.CreatorFinished && ch.OpponentFinished
}

// IsTerminal reports whether the challenge reached a terminal status
func (ch *Challenge) IsTerminal() bool {
	return ch.Status == ChallengeStatusFinished || ch.Status == ChallengeStatusExpired
}

// JSON column helpers

func (ch *Challenge) GetTopicIDs() ([]string, error) {
	var ids []string
	if ch.TopicIDsJSON == "" {
		return ids, nil
	}
	err := json.Unmarshal([]byte(ch.TopicIDsJSON), &ids)
	return ids, err
}

func (ch *Challenge) SetTopicIDs(ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	ch.TopicIDsJSON = string(data)
	return nil
}

func (ch *Challenge) GetQuestionIDs() ([]uint, error) {
	var ids []uint
	if ch.QuestionIDsJSON == "" {
		return ids, nil
	}
	err := json.Unmarshal([]byte(ch.QuestionIDsJSON), &ids)
	return ids, err
}

func (ch *Challenge) SetQuestionIDs(ids []uint) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	ch.QuestionIDsJSON = string(data)
	return nil
}

// QuestionCount returns the length of the frozen question sequence
func (ch *Challenge) QuestionCount() int {
	ids, err := ch.GetQuestionIDs()
	if err != nil {
		return 0
	}
	return len(ids)
}
