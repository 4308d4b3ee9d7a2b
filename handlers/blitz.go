// handlers/blitz.go - Solo Timed Scoring Endpoints
package handlers

import (
	"github.com/PedroCidro/TriMathLon-sub002/middleware"
	"github.com/gofiber/fiber/v2"
)

type SubmitBlitzRequest struct {
	ModuleID        string `json:"module_id"`
	Score           int    `json:"score"`
	Strikes         int    `json:"strikes"`
	DurationSeconds int    `json:"duration_seconds"`
}

// SubmitBlitzScore validates and persists a single-session solo score
// POST /api/blitz/scores
func SubmitBlitzScore(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	var req SubmitBlitzRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	record, err := blitzService.Submit(userID, req.ModuleID, req.Score, req.Strikes, req.DurationSeconds)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"score":   record,
	})
}

// GetBlitzLeaderboard returns the module's top-20 blitz scores
// GET /api/blitz/leaderboard/:moduleId
func GetBlitzLeaderboard(c *fiber.Ctx) error {
	requesterID, _ := middleware.GetUserID(c)

	page, err := leaderboardService.BlitzTop(c.Params("moduleId"), requesterID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"leaderboard":  page.Entries,
		"total_scores": page.TotalAttempts,
	})
}
