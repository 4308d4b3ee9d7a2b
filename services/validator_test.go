package services

import (
	"errors"
	"testing"

	"github.com/PedroCidro/TriMathLon-sub002/models"
)

func TestValidateProgress(t *testing.T) {
	tests := []struct {
		name          string
		score         int
		strikes       int
		currentIndex  int
		questionCount int
		wantErr       bool
	}{
		{"zero progress", 0, 0, 0, 10, false},
		{"mid game", 4, 1, 6, 10, false},
		{"perfect run", 10, 0, 10, 10, false},
		{"max strikes allowed", 2, 3, 5, 10, false},
		{"strikes over limit", 2, 4, 6, 10, true},
		{"negative score", -1, 0, 0, 10, true},
		{"negative strikes", 0, -1, 0, 10, true},
		{"negative index", 0, 0, -1, 10, true},
		{"index past question count", 0, 0, 11, 10, true},
		{"score exceeds attempted", 5, 0, 4, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProgress(tt.score, tt.strikes, tt.currentIndex, tt.questionCount)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProgress() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("error %v is not ErrValidation", err)
			}
		})
	}
}

func TestValidateProgressUpdate(t *testing.T) {
	tests := []struct {
		name    string
		prev    models.Progress
		next    models.Progress
		wantErr bool
	}{
		{
			"forward progress",
			models.Progress{Score: 2, Strikes: 0, CurrentIndex: 3},
			models.Progress{Score: 3, Strikes: 1, CurrentIndex: 4},
			false,
		},
		{
			"same values resubmitted",
			models.Progress{Score: 2, Strikes: 1, CurrentIndex: 3},
			models.Progress{Score: 2, Strikes: 1, CurrentIndex: 3},
			false,
		},
		{
			"finishing update",
			models.Progress{Score: 7, CurrentIndex: 9},
			models.Progress{Score: 8, CurrentIndex: 10, Finished: true},
			false,
		},
		{
			"score decreases",
			models.Progress{Score: 5, CurrentIndex: 6},
			models.Progress{Score: 4, CurrentIndex: 7},
			true,
		},
		{
			"index decreases",
			models.Progress{Score: 3, CurrentIndex: 5},
			models.Progress{Score: 3, CurrentIndex: 4},
			true,
		},
		{
			"strikes decrease",
			models.Progress{Strikes: 2, CurrentIndex: 5},
			models.Progress{Strikes: 1, CurrentIndex: 6},
			true,
		},
		{
			"finished reverts",
			models.Progress{Score: 8, CurrentIndex: 10, Finished: true},
			models.Progress{Score: 8, CurrentIndex: 10, Finished: false},
			true,
		},
		{
			"update after finished",
			models.Progress{Score: 8, CurrentIndex: 10, Finished: true},
			models.Progress{Score: 9, CurrentIndex: 10, Finished: true},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProgressUpdate(tt.prev, tt.next)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProgressUpdate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAttempt(t *testing.T) {
	tests := []struct {
		name          string
		score         int
		strikes       int
		questionCount int
		wantErr       bool
	}{
		{"normal attempt", 7, 1, 10, false},
		{"perfect attempt", 10, 0, 10, false},
		{"zero score", 0, 3, 10, false},
		{"score over question count", 11, 0, 10, true},
		{"strikes over limit", 5, 4, 10, true},
		{"negative score", -1, 0, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAttempt(tt.score, tt.strikes, tt.questionCount)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAttempt() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateBlitz(t *testing.T) {
	const moduleDuration = 180

	tests := []struct {
		name     string
		score    int
		strikes  int
		duration int
		wantErr  bool
	}{
		{"plausible session", 30, 1, 120, false},
		{"full duration", 60, 0, 180, false},
		{"within tolerance", 10, 0, 184, false},
		{"duration too long", 10, 0, 186, true},
		{"implausible rate", 121, 0, 120, true},
		{"strikes over limit", 5, 4, 60, true},
		{"negative duration", 5, 0, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBlitz(tt.score, tt.strikes, tt.duration, moduleDuration)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBlitz() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTopicSelection(t *testing.T) {
	module := &models.Module{ID: "derivadas"}
	topics := []models.Topic{
		{ID: "regra-da-cadeia", ModuleID: "derivadas"},
		{ID: "derivadas-parciais", ModuleID: "derivadas"},
	}

	tests := []struct {
		name      string
		requested []string
		wantErr   bool
	}{
		{"single valid topic", []string{"regra-da-cadeia"}, false},
		{"all topics", []string{"regra-da-cadeia", "derivadas-parciais"}, false},
		{"empty selection", nil, true},
		{"duplicate topic", []string{"regra-da-cadeia", "regra-da-cadeia"}, true},
		{"foreign topic", []string{"limites-laterais"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTopicSelection(module, topics, tt.requested)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTopicSelection() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
