package routes

import (
	"time"

	"github.com/chinedu-ok/eventpass/handlers"
	"github.com/chinedu-ok/eventpass/middleware"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimitByIP(middleware.Store, "register", 5, time.Hour), handlers.RegisterUser)
	auth.Post("/login", handlers.LoginUser)
	auth.Get("/verify-email", handlers.VerifyEmail)
	auth.Post("/resend-verification", middleware.RateLimitByIP(middleware.Store, "resend-verification", 5, time.Hour), handlers.ResendVerification)
}
