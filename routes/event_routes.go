package routes

import (
	"github.com/chinedu-ok/eventpass/handlers"
	"github.com/chinedu-ok/eventpass/middleware"
	"github.com/gofiber/fiber/v2"
)

func EventRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/events", handlers.ListEvents)
	api.Get("/events/:slug", handlers.GetEventBySlug)

	favorites := api.Group("/favorites", middleware.Protected())
	favorites.Get("", handlers.ListMyFavorites)
	favorites.Post("/:eventId", handlers.FavoriteEvent)
	favorites.Delete("/:eventId", handlers.UnfavoriteEvent)

	organizer := api.Group("/organizer/events", middleware.Protected(), middleware.OrganizerRequired())
	organizer.Get("", handlers.GetMyEvents)
	organizer.Post("", handlers.CreateEvent)
	organizer.Put("/:eventId", handlers.UpdateEvent)
	organizer.Post("/:eventId/ticket-types", handlers.CreateTicketType)
	organizer.Put("/ticket-types/:ticketTypeId", handlers.UpdateTicketType)
}
