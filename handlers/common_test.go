package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/PedroCidro/TriMathLon-sub002/database"
	"github.com/PedroCidro/TriMathLon-sub002/services"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{services.ErrValidation, 400},
		{fmt.Errorf("%w: strikes too high", services.ErrValidation), 400},
		{database.ErrNotFound, 404},
		{services.ErrNotParticipant, 403},
		{services.ErrSelfChallenge, 403},
		{database.ErrConflict, 409},
		{services.ErrNotAccepted, 409},
		{services.ErrNotPublic, 409},
		{services.ErrNotDuel, 409},
		{services.ErrChallengeExpired, 410},
		{errors.New("database on fire"), 500},
	}

	for _, tt := range tests {
		if got := statusForError(tt.err); got != tt.want {
			t.Errorf("statusForError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
