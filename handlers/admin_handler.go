package handlers

import (
	"errors"

	"github.com/chinedu-ok/eventpass/database"
	"github.com/chinedu-ok/eventpass/models"
	"github.com/chinedu-ok/eventpass/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func ListPayoutRequests(c *fiber.Ctx) error {
	status := c.Query("status", models.PayoutStatusPending)

	var requests []models.PayoutRequest
	if err := database.DB.Preload("Organizer").Where("status = ?", status).
		Order("requested_at asc").Find(&requests).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(requests)
}

func ProcessPayoutRequest(c *fiber.Ctx) error {
	payoutID, err := uuid.Parse(c.Params("requestId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payout request ID format"})
	}

	type ProcessRequest struct {
		Decision   string `json:"decision" validate:"required,oneof=approve reject"`
		AdminNotes string `json:"admin_notes"`
	}
	var req ProcessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var payout *models.PayoutRequest
	if req.Decision == "approve" {
		payout, err = services.ApprovePayout(database.DB, payoutID, req.AdminNotes)
	} else {
		payout, err = services.RejectPayout(database.DB, payoutID, req.AdminNotes)
	}
	if err != nil {
		if errors.Is(err, services.ErrPayoutNotPending) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Payout request is not pending"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process payout request"})
	}

	return c.JSON(fiber.Map{"message": "Payout request processed.", "payout": payout})
}

func GetDashboardAnalytics(c *fiber.Ctx) error {
	var totalUsers, totalEvents, totalTickets int64
	database.DB.Model(&models.User{}).Count(&totalUsers)
	database.DB.Model(&models.Event{}).Count(&totalEvents)
	database.DB.Model(&models.Ticket{}).Where("status != ?", models.TicketStatusCancelled).Count(&totalTickets)

	var grossRevenue, platformRevenue int64
	database.DB.Model(&models.Payment{}).Where("status = ?", models.PaymentStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").Scan(&grossRevenue)
	database.DB.Model(&models.Payment{}).Where("status = ?", models.PaymentStatusCompleted).
		Select("COALESCE(SUM(platform_fee), 0)").Scan(&platformRevenue)

	var pendingPayouts int64
	database.DB.Model(&models.PayoutRequest{}).Where("status IN ?", []string{
		models.PayoutStatusPending, models.PayoutStatusProcessing,
	}).Count(&pendingPayouts)

	return c.JSON(fiber.Map{
		"total_users":      totalUsers,
		"total_events":     totalEvents,
		"tickets_sold":     totalTickets,
		"gross_revenue":    grossRevenue,
		"platform_revenue": platformRevenue,
		"pending_payouts":  pendingPayouts,
	})
}

func GetAllUsers(c *fiber.Ctx) error {
	var users []models.User
	query := database.DB.Order("created_at desc")
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if err := query.Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(users)
}

func ToggleUserStatus(c *fiber.Ctx) error {
	var user models.User
	if err := database.DB.First(&user, "id = ?", c.Params("userId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	user.IsActive = !user.IsActive
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user status"})
	}
	return c.JSON(fiber.Map{"message": "User status updated", "is_active": user.IsActive})
}

// PromoteToOrganizer grants a user the organizer role so they can create
// events and request withdrawals.
func PromoteToOrganizer(c *fiber.Ctx) error {
	var user models.User
	if err := database.DB.First(&user, "id = ?", c.Params("userId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	user.Role = models.RoleOrganizer
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user role"})
	}
	return c.JSON(fiber.Map{"message": "User promoted to organizer"})
}
