package routes

import (
	"github.com/chinedu-ok/eventpass/handlers"
	"github.com/chinedu-ok/eventpass/middleware"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/payments/webhook", handlers.HandlePaymentWebhook)

	api.Post("/checkout", middleware.Protected(), handlers.InitiateCheckout)
	api.Get("/payments/:reference/status", middleware.Protected(), handlers.GetPaymentStatus)
}
