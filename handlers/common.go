// handlers/common.go - Shared Handler Wiring and Error Mapping
package handlers

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/PedroCidro/TriMathLon-sub002/database"
	"github.com/PedroCidro/TriMathLon-sub002/services"
	"github.com/gofiber/fiber/v2"
)

var (
	challengeService   *services.ChallengeService
	curriculumService  *services.CurriculumService
	leaderboardService *services.LeaderboardService
	blitzService       *services.BlitzService
	rewardService      *services.RewardService
)

// InitHandlers wires the service layer. Call after database.InitDB.
func InitHandlers() {
	db := database.GetDB()

	curriculumService = services.NewCurriculumService(db)
	rewardService = services.NewRewardService(db)
	leaderboardService = services.NewLeaderboardService(db)
	blitzService = services.NewBlitzService(db, curriculumService, rewardService)

	acceptTTL := time.Duration(getEnvInt("CHALLENGE_ACCEPT_TTL_HOURS", 24)) * time.Hour
	challengeService = services.NewChallengeService(db, curriculumService, rewardService, acceptTTL)

	if hours := getEnvInt("PUBLIC_CHALLENGE_CLOSE_AFTER_HOURS", 0); hours > 0 {
		challengeService.SetPublicCloseAfter(time.Duration(hours) * time.Hour)
	}
}

// DrainRewards waits for in-flight reward side effects, used on shutdown
func DrainRewards() {
	if rewardService != nil {
		rewardService.Wait()
	}
}

// statusForError maps the engine's error taxonomy onto HTTP statuses.
// Conflict (409) is deliberately distinct from not-found (404): losing an
// accept/start race is expected and the client should just poll again.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, database.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrNotParticipant),
		errors.Is(err, services.ErrSelfChallenge):
		return fiber.StatusForbidden
	case errors.Is(err, database.ErrConflict),
		errors.Is(err, services.ErrNotAccepted),
		errors.Is(err, services.ErrNotPublic),
		errors.Is(err, services.ErrNotDuel):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrChallengeExpired):
		return fiber.StatusGone
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes the error response for a failed engine call
func fail(c *fiber.Ctx, err error) error {
	status := statusForError(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Printf("handler error: %v", err)
		message = "Internal server error"
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// helpers

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return def
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
