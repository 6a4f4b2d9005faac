package handlers

import (
	"fmt"
	"log"
	"strings"

	"github.com/chinedu-ok/eventpass/database"
	"github.com/chinedu-ok/eventpass/models"
	"github.com/chinedu-ok/eventpass/services"
	"github.com/gofiber/fiber/v2"
)

func GetMyTickets(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	var tickets []models.Ticket
	err = database.DB.Preload("Event").Preload("TicketType").
		Joins("JOIN payments ON payments.id = tickets.payment_id").
		Where("payments.buyer_id = ? OR tickets.attendee_email = ?", userID, strings.ToLower(user.Email)).
		Order("tickets.created_at desc").
		Find(&tickets).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(tickets)
}

func DownloadTicketPDF(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	var ticket models.Ticket
	err = database.DB.Preload("Event").Preload("TicketType").
		Joins("JOIN payments ON payments.id = tickets.payment_id").
		Where("tickets.id = ? AND payments.buyer_id = ?", c.Params("ticketId"), userID).
		First(&ticket).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Ticket not found"})
	}

	pdfBytes, err := services.GenerateTicketPDF(ticket)
	if err != nil {
		log.Printf("🔥 Failed to generate ticket PDF for %s: %v", ticket.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate ticket PDF"})
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"ticket_%s.pdf\"", ticket.ConfirmationCode))
	return c.Send(pdfBytes)
}

// CheckInTicket is used by organizers at the venue entrance: an active ticket
// with a matching confirmation code is marked used exactly once.
func CheckInTicket(c *fiber.Ctx) error {
	organizerID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	type CheckInRequest struct {
		ConfirmationCode string `json:"confirmation_code" validate:"required,len=8"`
	}
	var req CheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	code := strings.ToUpper(strings.TrimSpace(req.ConfirmationCode))

	var ticket models.Ticket
	err = database.DB.Preload("TicketType").
		Joins("JOIN events ON events.id = tickets.event_id").
		Where("tickets.confirmation_code = ? AND events.organizer_id = ?", code, organizerID).
		First(&ticket).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Ticket not found"})
	}

	// Status-guarded update so two scans of the same code cannot both pass.
	res := database.DB.Model(&models.Ticket{}).
		Where("id = ? AND status = ?", ticket.ID, models.TicketStatusActive).
		Update("status", models.TicketStatusUsed)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check in ticket"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": fmt.Sprintf("Ticket is %s and cannot be checked in", ticket.Status)})
	}

	return c.JSON(fiber.Map{
		"message":       "Ticket checked in",
		"attendee_name": ticket.AttendeeName,
		"tier_name":     ticket.TicketType.Name,
	})
}
