// main.go - TriMathLon challenge engine server
package main

import (
	"log"
	"os"
	"time"

	"github.com/PedroCidro/TriMathLon-sub002/database"
	"github.com/PedroCidro/TriMathLon-sub002/handlers"
	"github.com/PedroCidro/TriMathLon-sub002/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	validateEnvironment()

	// Initialize database
	database.InitDB()
	defer database.CloseDB()

	// Wire the service layer
	handlers.InitHandlers()
	defer handlers.DrainRewards()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    1 * 1024 * 1024, // 1MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter, IP-keyed rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.Throttle("auth"))
	authGroup.Post("/guest", handlers.GuestLogin)
	authGroup.Post("/login", handlers.Login)
	authGroup.Post("/register", handlers.Register)

	// Curriculum catalog (public reads)
	api.Get("/modules", middleware.Throttle("public"), handlers.GetModules)
	api.Get("/modules/:id/topics", middleware.Throttle("public"), handlers.GetModuleTopics)

	// Challenge routes. The guard runs after auth so it can key on the
	// caller's identity, and before every state mutation.
	challengeGroup := api.Group("/challenges")
	challengeGroup.Use(middleware.AuthMiddleware)
	challengeGroup.Post("/", middleware.Throttle("challenge"), handlers.CreateChallenge)
	challengeGroup.Get("/mine", middleware.Throttle("challenge"), handlers.GetMyChallenges)
	challengeGroup.Post("/:id/accept", middleware.Throttle("challenge"), handlers.AcceptChallenge)
	challengeGroup.Post("/:id/start", middleware.Throttle("challengeGameplay"), handlers.StartChallenge)
	challengeGroup.Post("/:id/score", middleware.Throttle("challengeGameplay"), handlers.UpdateScore)
	challengeGroup.Get("/:id", middleware.Throttle("challengeGameplay"), handlers.PollChallenge)
	challengeGroup.Get("/:id/questions", middleware.Throttle("challengeGameplay"), handlers.GetChallengeQuestions)
	challengeGroup.Post("/:id/attempts", middleware.Throttle("challenge"), handlers.SaveAttempt)
	challengeGroup.Post("/:id/rematch", middleware.Throttle("challenge"), handlers.RematchChallenge)

	// Public leaderboard reads are anonymous and IP-keyed
	api.Get("/challenges/:id/leaderboard",
		middleware.OptionalAuthMiddleware,
		middleware.Throttle("public"),
		handlers.GetChallengeLeaderboard)

	// Blitz solo scoring
	blitzGroup := api.Group("/blitz")
	blitzGroup.Post("/scores", middleware.AuthMiddleware, middleware.Throttle("challenge"), handlers.SubmitBlitzScore)
	blitzGroup.Get("/leaderboard/:moduleId",
		middleware.OptionalAuthMiddleware,
		middleware.Throttle("public"),
		handlers.GetBlitzLeaderboard)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 TriMathLon challenge engine starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	if os.Getenv("APP_ENV") == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
