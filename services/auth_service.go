package services

import (
	"log"
	"strings"
	"time"

	"team-pairing-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// sessionTTL is how long a login stays valid without re-entering the
// password.
const sessionTTL = 30 * 24 * time.Hour

// AuthService implements the shared-password team login. Every successful
// login gets its own session token so individual devices can log out.
type AuthService struct {
	DB           *gorm.DB
	TeamName     string
	TeamPassword string
}

func NewAuthService(db *gorm.DB, teamName, teamPassword string) *AuthService {
	return &AuthService{DB: db, TeamName: teamName, TeamPassword: teamPassword}
}

// Login checks the team password and issues a session token, returned in the
// body and as an HTTP-only cookie.
func (s *AuthService) Login(c *fiber.Ctx) error {
	type loginRequest struct {
		Password string `json:"password"`
	}
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	if strings.TrimSpace(req.Password) != s.TeamPassword {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid password"})
	}

	session := models.Session{
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(sessionTTL),
	}
	if err := s.DB.Create(&session).Error; err != nil {
		log.Printf("DB Error creating session: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "session_token",
		Value:    session.Token,
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.JSON(fiber.Map{"status": "ok", "token": session.Token})
}

// Logout revokes the caller's session token, if any.
func (s *AuthService) Logout(c *fiber.Ctx) error {
	token := c.Cookies("session_token")
	if token == "" {
		token = strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
	}
	if token != "" {
		if err := s.DB.Delete(&models.Session{}, "token = ?", token).Error; err != nil {
			log.Printf("DB Error deleting session: %v", err)
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     "session_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.JSON(fiber.Map{"status": "ok"})
}

// GetTeam exposes the configured team name (the landing page needs it before
// login).
func (s *AuthService) GetTeam(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"team_name": s.TeamName})
}
