// middleware/auth.go
package middleware

import (
	"errors"
	"log"
	"strings"
	"time"

	"team-pairing-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// LoginRequired guards team-only routes. The session token comes from the
// session_token cookie or an Authorization: Bearer header; expired sessions
// are deleted on sight.
func LoginRequired(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies("session_token")
		if token == "" {
			token = strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
			if token == c.Get("Authorization") {
				token = ""
			}
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "login required",
			})
		}

		var session models.Session
		if err := db.First(&session, "token = ?", token).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "invalid session",
				})
			}
			log.Printf("DB Error fetching session: %v", err)
			return c.Status(500).JSON(fiber.Map{"error": "database error"})
		}

		if session.Expired(time.Now()) {
			if err := db.Delete(&session).Error; err != nil {
				log.Printf("DB Error deleting expired session: %v", err)
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "session expired",
			})
		}

		c.Locals("session_token", session.Token)
		return c.Next()
	}
}
