package routes

import (
	"github.com/chinedu-ok/eventpass/handlers"
	"github.com/chinedu-ok/eventpass/middleware"
	"github.com/gofiber/fiber/v2"
)

func TicketRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	tickets := api.Group("/tickets", middleware.Protected())
	tickets.Get("", handlers.GetMyTickets)
	tickets.Get("/:ticketId/pdf", handlers.DownloadTicketPDF)

	api.Post("/organizer/check-in", middleware.Protected(), middleware.OrganizerRequired(), handlers.CheckInTicket)
}
