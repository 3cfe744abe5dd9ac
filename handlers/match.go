package handlers

import (
	"team-pairing-system/middleware"
	"team-pairing-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMatchRoutes(app *fiber.App,
	matchService *services.MatchService,
	optimizerService *services.OptimizerService,
	pairingService *services.PairingService,
	layoutService *services.LayoutService) {

	auth := middleware.LoginRequired(matchService.DB)

	secured := app.Group("/api/games", auth)
	secured.Post("/", matchService.CreateMatch)
	secured.Get("/", matchService.GetMatches)
	secured.Get("/:id", matchService.GetMatch)
	secured.Delete("/:id", matchService.DeleteMatch)

	// Scoring pipeline: lock roster → fill matrix → optimize → commit pairings
	secured.Post("/:id/roster", matchService.LockRoster)
	secured.Get("/:id/matrix", matchService.GetMatrix)
	secured.Post("/:id/matrix", matchService.SaveMatrix)
	secured.Get("/:id/optimize", optimizerService.Optimize)
	secured.Post("/:id/pairings", pairingService.SavePairings)
	secured.Get("/:id/pairings", pairingService.GetPairings)

	// Board layout catalog + images
	layouts := app.Group("/", auth)
	layouts.Get("/api/layouts", layoutService.ListLayouts)
	layouts.Get("/layouts/:file", layoutService.ServeLayout)
}
