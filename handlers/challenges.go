// handlers/challenges.go - Competitive Challenge Endpoints
package handlers

import (
	"github.com/PedroCidro/TriMathLon-sub002/middleware"
	"github.com/PedroCidro/TriMathLon-sub002/models"
	"github.com/PedroCidro/TriMathLon-sub002/services"
	"github.com/gofiber/fiber/v2"
)

type CreateChallengeRequest struct {
	ModuleID string   `json:"module_id"`
	TopicIDs []string `json:"topic_ids"`
	Type     string   `json:"type"`
}

// CreateChallenge creates a new duel or public challenge
// POST /api/challenges
func CreateChallenge(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	var req CreateChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	typ := models.ChallengeType(req.Type)
	if typ == "" {
		typ = models.ChallengeTypeDuel
	}

	result, err := challengeService.Create(userID, req.ModuleID, req.TopicIDs, typ)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"success":        true,
		"challenge_id":   result.ChallengeID,
		"question_count": result.QuestionCount,
	})
}

// AcceptChallenge lets a second user accept a waiting duel
// POST /api/challenges/:id/accept
func AcceptChallenge(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	ch, err := challengeService.Accept(c.Params("id"), userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"challenge": ch,
	})
}

// StartChallenge transitions a ready duel to playing. Calling it again on a
// playing duel reports already_started instead of an error.
// POST /api/challenges/:id/start
func StartChallenge(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	result, err := challengeService.Start(c.Params("id"), userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"already_started": result.AlreadyStarted,
		"challenge":       result.Challenge,
	})
}

type UpdateScoreRequest struct {
	Score        int  `json:"score"`
	Strikes      int  `json:"strikes"`
	CurrentIndex int  `json:"current_index"`
	Finished     bool `json:"finished"`
}

// UpdateScore persists the caller's live duel progress
// POST /api/challenges/:id/score
func UpdateScore(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	var req UpdateScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	ch, err := challengeService.UpdateScore(c.Params("id"), userID, services.ScoreUpdate{
		Score:        req.Score,
		Strikes:      req.Strikes,
		CurrentIndex: req.CurrentIndex,
		Finished:     req.Finished,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"status":    ch.Status,
		"challenge": ch,
	})
}

// PollChallenge returns both sides' live progress and triggers the lazy
// finalizer as a side effect of the read
// GET /api/challenges/:id
func PollChallenge(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	result, err := challengeService.Poll(c.Params("id"), userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":              true,
		"status":               result.Challenge.Status,
		"my_progress":          result.Mine,
		"opponent_progress":    result.Theirs,
		"game_started_at":      result.Challenge.GameStartedAt,
		"game_duration":        result.Challenge.GameDurationSeconds,
		"rematch_challenge_id": result.RematchChallengeID,
	})
}

// GetChallengeQuestions returns the frozen question sequence in its
// original order
// GET /api/challenges/:id/questions
func GetChallengeQuestions(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	questions, err := challengeService.Questions(c.Params("id"), userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"questions": questions,
		"count":     len(questions),
	})
}

type SaveAttemptRequest struct {
	Score   int `json:"score"`
	Strikes int `json:"strikes"`
}

// SaveAttempt records a play-through of a public challenge and returns the
// refreshed leaderboard page
// POST /api/challenges/:id/attempts
func SaveAttempt(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	var req SaveAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	token := c.Params("id")
	attempt, err := challengeService.SaveAttempt(token, userID, req.Score, req.Strikes)
	if err != nil {
		return fail(c, err)
	}

	page, err := leaderboardService.ChallengeTop(token, userID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"success":        true,
		"attempt":        attempt,
		"leaderboard":    page.Entries,
		"total_attempts": page.TotalAttempts,
	})
}

// GetChallengeLeaderboard returns the ranked top-20 for a public challenge.
// Anonymous reads are allowed; an authenticated caller gets their own row
// marked.
// GET /api/challenges/:id/leaderboard
func GetChallengeLeaderboard(c *fiber.Ctx) error {
	requesterID, _ := middleware.GetUserID(c)

	page, err := leaderboardService.ChallengeTop(c.Params("id"), requesterID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"leaderboard":    page.Entries,
		"total_attempts": page.TotalAttempts,
	})
}

// RematchChallenge creates (or returns the already-linked) rematch of a
// finished duel
// POST /api/challenges/:id/rematch
func RematchChallenge(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	result, err := challengeService.Rematch(c.Params("id"), userID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"success":        true,
		"challenge_id":   result.ChallengeID,
		"question_count": result.QuestionCount,
	})
}

// GetMyChallenges lists the caller's recent challenges
// GET /api/challenges/mine?limit=20
func GetMyChallenges(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	limit := parseIntDefault(c.Query("limit"), 20)
	challenges, err := challengeService.RecentForUser(userID, limit)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"challenges": challenges,
		"count":      len(challenges),
	})
}
