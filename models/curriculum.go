// models/curriculum.go - Curriculum Catalog Models
package models

import (
	"encoding/json"
	"time"
)

// Module is one curriculum unit (e.g. "derivadas"). Challenges are always
// scoped to a single module and inherit its configured game duration.
type Module struct {
	ID                  string    `json:"id" gorm:"primaryKey;size:50"`
	Name                string    `json:"name" gorm:"not null;size:100"`
	GameDurationSeconds int       `json:"game_duration_seconds" gorm:"not null;default:180"`
	QuestionsPerGame    int       `json:"questions_per_game" gorm:"not null;default:20"`
	IsActive            bool      `json:"is_active" gorm:"default:true"`
	CreatedAt           time.Time `json:"created_at"`
	Topics              []Topic   `json:"topics,omitempty" gorm:"foreignKey:ModuleID"`
}

// Topic belongs to exactly one module
type Topic struct {
	ID        string    `json:"id" gorm:"primaryKey;size:50"`
	ModuleID  string    `json:"module_id" gorm:"not null;size:50;index"`
	Module    *Module   `json:"module,omitempty" gorm:"foreignKey:ModuleID"`
	Name      string    `json:"name" gorm:"not null;size:100"`
	CreatedAt time.Time `json:"created_at"`
}

// Question is one exercise in the bank
type Question struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	TopicID          string    `json:"topic_id" gorm:"not null;size:50;index"`
	Topic            *Topic    `json:"topic,omitempty" gorm:"foreignKey:TopicID"`
	ModuleID         string    `json:"module_id" gorm:"not null;size:50;index"`
	Statement        string    `json:"statement" gorm:"not null;type:text"`
	CorrectAnswer    string    `json:"correct_answer" gorm:"not null;size:500"`
	WrongAnswersJSON string    `json:"-" gorm:"column:wrong_answers;not null;type:text"`
	Difficulty       string    `json:"difficulty" gorm:"default:'medium';size:20"`
	IsActive         bool      `json:"is_active" gorm:"default:true;index"`
	CreatedAt        time.Time `json:"created_at"`
}

func (q *Question) GetWrongAnswers() ([]string, error) {
	var answers []string
	if q.WrongAnswersJSON == "" {
		return answers, nil
	}
	err := json.Unmarshal([]byte(q.WrongAnswersJSON), &answers)
	return answers, err
}

func (q *Question) SetWrongAnswers(answers []string) error {
	data, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	q.WrongAnswersJSON = string(data)
	return nil
}

func (Module) TableName() string {
	return "modules"
}

func (Topic) TableName() string {
	return "topics"
}

func (Question) TableName() string {
	return "questions"
}
