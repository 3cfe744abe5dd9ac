package handlers

import (
	"team-pairing-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, authService *services.AuthService) {
	// 🔓 Public — login and the team name shown on the landing page
	app.Post("/api/login", authService.Login)
	app.Post("/api/logout", authService.Logout)
	app.Get("/api/team", authService.GetTeam)
}
