// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"github.com/PedroCidro/TriMathLon-sub002/models"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Module{},
		&models.Topic{},
		&models.Question{},
		&models.Challenge{},
		&models.ChallengeAttempt{},
		&models.BlitzScore{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes()

	log.Println("✅ All migrations completed successfully")
}

// createIndexes creates composite indexes GORM tags can't express
func createIndexes() {
	db := GetDB()

	// Leaderboard ordering: score descending, earlier insertion wins ties
	db.Exec("CREATE INDEX IF NOT EXISTS idx_attempts_leaderboard ON challenge_attempts(challenge_id, score DESC, created_at ASC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_blitz_leaderboard ON blitz_scores(module_id, score DESC, created_at ASC)")

	// Challenge history views
	db.Exec("CREATE INDEX IF NOT EXISTS idx_challenges_creator_created ON challenges(creator_id, created_at DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_challenges_opponent_created ON challenges(opponent_id, created_at DESC)")
}
