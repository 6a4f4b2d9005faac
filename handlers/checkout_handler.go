package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	config "github.com/chinedu-ok/eventpass/configs"
	"github.com/chinedu-ok/eventpass/database"
	"github.com/chinedu-ok/eventpass/models"
	"github.com/chinedu-ok/eventpass/payments"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const defaultPlatformFeePercent = 10

type CheckoutLine struct {
	TicketTypeID  string `json:"ticket_type_id" validate:"required,uuid4"`
	Quantity      int    `json:"quantity" validate:"required,gt=0"`
	AttendeeName  string `json:"attendee_name" validate:"required"`
	AttendeeEmail string `json:"attendee_email" validate:"required,email"`
	AttendeePhone string `json:"attendee_phone"`
}

type CheckoutRequest struct {
	EventID string         `json:"event_id" validate:"required,uuid4"`
	Lines   []CheckoutLine `json:"lines" validate:"required,min=1,dive"`
}

func platformFeePercent() int64 {
	if v := config.Config("PLATFORM_FEE_PERCENT"); v != "" {
		if pct, err := strconv.ParseInt(v, 10, 64); err == nil && pct >= 0 && pct <= 100 {
			return pct
		}
	}
	return defaultPlatformFeePercent
}

func newPaymentReference() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "evp_" + hex.EncodeToString(b), nil
}

// InitiateCheckout prices the order from current tier prices, persists a
// pending payment carrying the order intent, and hands the buyer off to the
// gateway's hosted checkout. Tickets are only ever minted later, by the
// webhook-driven fulfillment.
func InitiateCheckout(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	buyerID, err := uuid.Parse(claims["user_id"].(string))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var buyer models.User
	if err := database.DB.First(&buyer, "id = ?", buyerID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	eventID := uuid.MustParse(req.EventID)
	var event models.Event
	if err := database.DB.Preload("TicketTypes").First(&event, "id = ? AND is_published = ?", eventID, true).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Event not found"})
	}

	tiersByID := make(map[uuid.UUID]models.TicketType, len(event.TicketTypes))
	for _, tier := range event.TicketTypes {
		tiersByID[tier.ID] = tier
	}

	var total int64
	meta := models.OrderMetadata{EventTitle: event.Title}
	for _, line := range req.Lines {
		tierID := uuid.MustParse(line.TicketTypeID)
		tier, ok := tiersByID[tierID]
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("Unknown ticket type %s for this event", line.TicketTypeID)})
		}
		if tier.Capacity != nil && tier.Sold+line.Quantity > *tier.Capacity {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": fmt.Sprintf("Not enough %s tickets left", tier.Name)})
		}

		total += tier.Price * int64(line.Quantity)

		orderLine := models.OrderLine{
			TicketTypeID:  tier.ID,
			Quantity:      line.Quantity,
			AttendeeName:  line.AttendeeName,
			AttendeeEmail: line.AttendeeEmail,
		}
		if line.AttendeePhone != "" {
			phone := line.AttendeePhone
			orderLine.AttendeePhone = &phone
		}
		meta.Lines = append(meta.Lines, orderLine)
	}

	if total <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Order total must be greater than zero"})
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to serialize order"})
	}

	reference, err := newPaymentReference()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate payment reference"})
	}

	fee := total * platformFeePercent() / 100
	payment := models.Payment{
		GatewayReference: reference,
		EventID:          event.ID,
		BuyerID:          buyer.ID,
		Amount:           total,
		PlatformFee:      fee,
		OrganizerAmount:  total - fee,
		Currency:         "NGN",
		Status:           models.PaymentStatusPending,
		OrderMetadata:    string(metaJSON),
	}

	if err := database.DB.Create(&payment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create payment record"})
	}

	init, err := payments.InitializeTransaction(total, buyer.Email, reference)
	if err != nil {
		log.Printf("🔥 Gateway transaction initialization failed for %s: %v", reference, err)
		// Leave the payment pending; the cleanup job cancels abandoned ones.
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to initialize payment with gateway"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"reference":         reference,
		"amount":            total,
		"authorization_url": init.Data.AuthorizationURL,
	})
}
