// handlers/auth.go - Identity Endpoints
//
// The challenge engine only needs a stable opaque user id per caller; these
// endpoints supply one via JWT so the service runs standalone.
package handlers

import (
	"fmt"
	"os"
	"time"

	"github.com/PedroCidro/TriMathLon-sub002/database"
	"github.com/PedroCidro/TriMathLon-sub002/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type GuestLoginRequest struct {
	GuestName string `json:"guest_name,omitempty"`
}

// Register creates a new account
// POST /api/auth/register
func Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Username and password are required"})
	}
	if len(req.Password) < 8 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Password must be at least 8 characters"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to hash password"})
	}

	user := models.User{
		Username:    req.Username,
		Password:    string(hashed),
		DisplayName: req.DisplayName,
		Level:       1,
		CreatedAt:   time.Now(),
		LastLogin:   time.Now(),
	}
	if req.Email != "" {
		user.Email = &req.Email
	}

	db := database.GetDB()
	if err := db.Create(&user).Error; err != nil {
		return c.Status(409).JSON(fiber.Map{"success": false, "error": "Username or email already taken"})
	}

	token, err := generateToken(user)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to generate token"})
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// Login authenticates an existing account
// POST /api/auth/login
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	db := database.GetDB()
	var user models.User
	if err := db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid credentials"})
	}

	user.LastLogin = time.Now()
	db.Model(&user).Update("last_login", user.LastLogin)

	token, err := generateToken(user)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// GuestLogin creates a throwaway guest identity
// POST /api/auth/guest
func GuestLogin(c *fiber.Ctx) error {
	var req GuestLoginRequest
	// Empty body is fine for guests
	_ = c.BodyParser(&req)

	guestName := req.GuestName
	if guestName == "" {
		guestName = fmt.Sprintf("Guest_%s", uuid.New().String()[:8])
	}

	user := models.User{
		Username:    fmt.Sprintf("guest_%s", uuid.New().String()[:8]),
		Password:    "",
		DisplayName: guestName,
		IsGuest:     true,
		Level:       1,
		CreatedAt:   time.Now(),
		LastLogin:   time.Now(),
	}

	db := database.GetDB()
	if err := db.Create(&user).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to create guest account"})
	}

	token, err := generateToken(user)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

func generateToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"is_guest": user.IsGuest,
		"exp":      time.Now().Add(30 * 24 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
