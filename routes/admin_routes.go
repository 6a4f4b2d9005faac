package routes

import (
	"github.com/chinedu-ok/eventpass/handlers"
	"github.com/chinedu-ok/eventpass/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/dashboard-analytics", handlers.GetDashboardAnalytics)

	admin.Get("/payouts", handlers.ListPayoutRequests)
	admin.Post("/payouts/:requestId/process", handlers.ProcessPayoutRequest)

	users := admin.Group("/users")
	users.Get("", handlers.GetAllUsers)
	users.Put("/:userId/status", handlers.ToggleUserStatus)
	users.Put("/:userId/promote", handlers.PromoteToOrganizer)
}
