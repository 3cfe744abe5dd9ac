package handlers

import (
	"team-pairing-system/middleware"
	"team-pairing-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupReportRoutes(app *fiber.App, reportService *services.ReportService) {
	secured := app.Group("/api/report", middleware.LoginRequired(reportService.DB))
	secured.Get("/", reportService.BuildReport)
}
