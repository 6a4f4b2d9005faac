package routes

import (
	"github.com/chinedu-ok/eventpass/handlers"
	"github.com/chinedu-ok/eventpass/middleware"
	"github.com/gofiber/fiber/v2"
)

func OrganizerRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	organizer := api.Group("/organizer", middleware.Protected(), middleware.OrganizerRequired())
	organizer.Get("/balance", handlers.GetMyBalance)
	organizer.Get("/payouts", handlers.ListMyWithdrawals)
	organizer.Post("/payouts", handlers.RequestWithdrawal)
}
