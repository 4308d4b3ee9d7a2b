// services/validator.go - Score Fairness Validation
//
// Pure functions only: no I/O, no clock reads. Every score-reporting call
// runs through here before anything touches the store, independent of what
// the client declared about itself.
package services

import (
	"errors"
	"fmt"

	"github.com/PedroCidro/TriMathLon-sub002/models"
)

const (
	// MaxStrikes a participant can accumulate before the session ends
	MaxStrikes = 3
	// GraceSeconds absorbs clock skew and in-flight requests on the duel deadline
	GraceSeconds = 10
	// MaxScorePerSecond caps plausible blitz scoring at one correct answer per second
	MaxScorePerSecond = 1
	// BlitzDurationToleranceSeconds is the slack allowed over the module duration
	BlitzDurationToleranceSeconds = 5
	// LeaderboardSize is the length of a leaderboard page
	LeaderboardSize = 20
	// MinQuestionsPerChallenge is the smallest playable question pool
	MinQuestionsPerChallenge = 5
)

// ErrValidation is the root of every validator rejection; handlers match it
// with errors.Is to map the whole family to a 400.
var ErrValidation = errors.New("validation failed")

func validationErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// ValidateProgress checks a submitted (score, strikes, current_index) tuple
// against the frozen question count
func ValidateProgress(score, strikes, currentIndex, questionCount int) error {
	if score < 0 || strikes < 0 || currentIndex < 0 {
		return validationErrorf("score, strikes and current_index must be non-negative")
	}
	if strikes > MaxStrikes {
		return validationErrorf("strikes %d exceeds maximum of %d", strikes, MaxStrikes)
	}
	if currentIndex > questionCount {
		return validationErrorf("current_index %d exceeds question count %d", currentIndex, questionCount)
	}
	if score > currentIndex {
		return validationErrorf("score %d exceeds questions attempted %d", score, currentIndex)
	}
	return nil
}

// ValidateProgressUpdate rejects regressions against the previously stored
// half of the record: scores and indexes never go down, finished never
// reverts to false.
func ValidateProgressUpdate(prev, next models.Progress) error {
	if next.Score < prev.Score {
		return validationErrorf("score cannot decrease (%d -> %d)", prev.Score, next.Score)
	}
	if next.CurrentIndex < prev.CurrentIndex {
		return validationErrorf("current_index cannot decrease (%d -> %d)", prev.CurrentIndex, next.CurrentIndex)
	}
	if next.Strikes < prev.Strikes {
		return validationErrorf("strikes cannot decrease (%d -> %d)", prev.Strikes, next.Strikes)
	}
	if prev.Finished && !next.Finished {
		return validationErrorf("finished cannot revert to false")
	}
	if prev.Finished {
		return validationErrorf("progress is final once finished")
	}
	return nil
}

// ValidateAttempt checks a public-challenge attempt submission. Attempts
// carry no index, so the score is bounded by the question count directly.
func ValidateAttempt(score, strikes, questionCount int) error {
	if score < 0 || strikes < 0 {
		return validationErrorf("score and strikes must be non-negative")
	}
	if strikes > MaxStrikes {
		return validationErrorf("strikes %d exceeds maximum of %d", strikes, MaxStrikes)
	}
	if score > questionCount {
		return validationErrorf("score %d exceeds question count %d", score, questionCount)
	}
	return nil
}

// ValidateBlitz checks a single-session solo score for plausibility against
// the wall-clock duration the client reports and the module's configured
// session length.
func ValidateBlitz(score, strikes, durationSeconds, moduleDurationSeconds int) error {
	if score < 0 || strikes < 0 || durationSeconds < 0 {
		return validationErrorf("score, strikes and duration must be non-negative")
	}
	if strikes > MaxStrikes {
		return validationErrorf("strikes %d exceeds maximum of %d", strikes, MaxStrikes)
	}
	if durationSeconds > moduleDurationSeconds+BlitzDurationToleranceSeconds {
		return validationErrorf("duration %ds exceeds module limit of %ds", durationSeconds, moduleDurationSeconds)
	}
	// One correct answer per second is the plausibility ceiling
	if score > durationSeconds*MaxScorePerSecond {
		return validationErrorf("score %d is implausible for %ds of play", score, durationSeconds)
	}
	return nil
}

// ValidateTopicSelection checks the requested topics against the module's
// catalog: non-empty, no duplicates, every topic belongs to the module.
func ValidateTopicSelection(module *models.Module, moduleTopics []models.Topic, requested []string) error {
	if len(requested) == 0 {
		return validationErrorf("at least one topic is required")
	}

	known := make(map[string]bool, len(moduleTopics))
	for _, t := range moduleTopics {
		known[t.ID] = true
	}

	seen := make(map[string]bool, len(requested))
	for _, id := range requested {
		if seen[id] {
			return validationErrorf("duplicate topic %q", id)
		}
		seen[id] = true
		if !known[id] {
			return validationErrorf("topic %q does not belong to module %q", id, module.ID)
		}
	}
	return nil
}
