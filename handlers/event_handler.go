package handlers

import (
	"errors"
	"time"

	"github.com/chinedu-ok/eventpass/database"
	"github.com/chinedu-ok/eventpass/models"
	"github.com/chinedu-ok/eventpass/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventRequest struct {
	Title       string     `json:"title" validate:"required,min=3"`
	Description string     `json:"description"`
	Venue       string     `json:"venue" validate:"required"`
	City        string     `json:"city" validate:"required"`
	StartTime   time.Time  `json:"start_time" validate:"required"`
	EndTime     *time.Time `json:"end_time"`
}

type TicketTypeRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Price    int64  `json:"price" validate:"gte=0"`
	Capacity *int   `json:"capacity" validate:"omitempty,gt=0"`
}

func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	return uuid.Parse(claims["user_id"].(string))
}

func CreateEvent(c *fiber.Ctx) error {
	organizerID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	var req EventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var event models.Event
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		slug, err := utils.GenerateUniqueSlug(tx, req.Title)
		if err != nil {
			return err
		}

		event = models.Event{
			OrganizerID: organizerID,
			Title:       req.Title,
			Slug:        slug,
			Venue:       req.Venue,
			City:        req.City,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
		}
		if req.Description != "" {
			event.Description = &req.Description
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create event"})
	}

	return c.Status(fiber.StatusCreated).JSON(event)
}

func UpdateEvent(c *fiber.Ctx) error {
	organizerID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	var event models.Event
	if err := database.DB.First(&event, "id = ? AND organizer_id = ?", c.Params("eventId"), organizerID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Event not found"})
	}

	type UpdateRequest struct {
		Title         *string    `json:"title" validate:"omitempty,min=3"`
		Description   *string    `json:"description"`
		Venue         *string    `json:"venue"`
		City          *string    `json:"city"`
		StartTime     *time.Time `json:"start_time"`
		EndTime       *time.Time `json:"end_time"`
		CoverImageURL *string    `json:"cover_image_url"`
		IsPublished   *bool      `json:"is_published"`
	}
	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = req.Description
	}
	if req.Venue != nil {
		event.Venue = *req.Venue
	}
	if req.City != nil {
		event.City = *req.City
	}
	if req.StartTime != nil {
		event.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		event.EndTime = req.EndTime
	}
	if req.CoverImageURL != nil {
		event.CoverImageURL = req.CoverImageURL
	}
	if req.IsPublished != nil {
		event.IsPublished = *req.IsPublished
	}

	if err := database.DB.Save(&event).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update event"})
	}
	return c.JSON(event)
}

func ListEvents(c *fiber.Ctx) error {
	query := database.DB.Preload("TicketTypes").Where("is_published = ?", true)

	if city := c.Query("city"); city != "" {
		query = query.Where("city ILIKE ?", city)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}
	if c.Query("upcoming") == "true" {
		query = query.Where("start_time > ?", time.Now())
	}
	if organizer := c.Query("organizer"); organizer != "" {
		query = query.Where("organizer_id = ?", organizer)
	}

	var events []models.Event
	if err := query.Order("start_time asc").Find(&events).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(events)
}

func GetEventBySlug(c *fiber.Ctx) error {
	var event models.Event
	err := database.DB.Preload("TicketTypes").Preload("Organizer").
		First(&event, "slug = ? AND is_published = ?", c.Params("slug"), true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Event not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(event)
}

func GetMyEvents(c *fiber.Ctx) error {
	organizerID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	var events []models.Event
	if err := database.DB.Preload("TicketTypes").Where("organizer_id = ?", organizerID).
		Order("created_at desc").Find(&events).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(events)
}

func CreateTicketType(c *fiber.Ctx) error {
	organizerID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	var event models.Event
	if err := database.DB.First(&event, "id = ? AND organizer_id = ?", c.Params("eventId"), organizerID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Event not found"})
	}

	var req TicketTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tier := models.TicketType{
		EventID:  event.ID,
		Name:     req.Name,
		Price:    req.Price,
		Capacity: req.Capacity,
	}
	if err := database.DB.Create(&tier).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create ticket type"})
	}
	return c.Status(fiber.StatusCreated).JSON(tier)
}

func UpdateTicketType(c *fiber.Ctx) error {
	organizerID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	var tier models.TicketType
	err = database.DB.Joins("JOIN events ON events.id = ticket_types.event_id").
		Where("ticket_types.id = ? AND events.organizer_id = ?", c.Params("ticketTypeId"), organizerID).
		First(&tier).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Ticket type not found"})
	}

	var req TicketTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// Price changes never touch already-issued tickets; their price is frozen
	// at creation time.
	tier.Name = req.Name
	tier.Price = req.Price
	tier.Capacity = req.Capacity
	if err := database.DB.Save(&tier).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update ticket type"})
	}
	return c.JSON(tier)
}

func FavoriteEvent(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	eventID, err := uuid.Parse(c.Params("eventId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid event ID format"})
	}

	favorite := models.Favorite{UserID: userID, EventID: eventID}
	if err := database.DB.Create(&favorite).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(fiber.Map{"message": "Event already favorited"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to favorite event"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Event favorited"})
}

func UnfavoriteEvent(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	if err := database.DB.Where("user_id = ? AND event_id = ?", userID, c.Params("eventId")).
		Delete(&models.Favorite{}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to unfavorite event"})
	}
	return c.JSON(fiber.Map{"message": "Event unfavorited"})
}

func ListMyFavorites(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	var favorites []models.Favorite
	if err := database.DB.Preload("Event").Where("user_id = ?", userID).Find(&favorites).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(favorites)
}
