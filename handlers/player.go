package handlers

import (
	"team-pairing-system/middleware"
	"team-pairing-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupPlayerRoutes(app *fiber.App, playerService *services.PlayerService) {
	// 🔐 Everything about the team roster is login-only
	secured := app.Group("/api/players", middleware.LoginRequired(playerService.DB))

	secured.Get("/", playerService.GetPlayers)
	secured.Post("/", playerService.AddPlayer)
	secured.Delete("/:id", playerService.DeletePlayer)
	secured.Post("/:id/active", playerService.SetPlayerActive)

	// Army lists per player
	secured.Post("/:id/lists", playerService.AddList)
	secured.Delete("/:id/lists/:index", playerService.DeleteList)
	secured.Post("/:id/default_list", playerService.SetDefaultList)
}
