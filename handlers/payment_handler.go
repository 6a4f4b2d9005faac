package handlers

import (
	"encoding/json"
	"log"

	config "github.com/chinedu-ok/eventpass/configs"
	"github.com/chinedu-ok/eventpass/database"
	"github.com/chinedu-ok/eventpass/models"
	"github.com/chinedu-ok/eventpass/payments"
	"github.com/chinedu-ok/eventpass/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

type webhookEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type chargeEventData struct {
	Reference string `json:"reference"`
}

type transferEventData struct {
	Reference string `json:"reference"`
}

// HandlePaymentWebhook receives gateway notifications. The signature is
// verified over the raw body before anything is parsed; a forged payload must
// never reach business logic.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	body := c.Body()
	signature := c.Get("x-paystack-signature")

	if !payments.VerifyWebhookSignature(body, signature, config.Config("PAYSTACK_SECRET_KEY")) {
		log.Printf("Rejected webhook with invalid signature from %s", c.IP())
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid signature"})
	}

	var envelope webhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse webhook payload"})
	}

	switch envelope.Event {
	case "charge.success":
		var data chargeEventData
		if err := json.Unmarshal(envelope.Data, &data); err != nil || data.Reference == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Webhook payload is missing a reference"})
		}
		if err := services.FulfillPayment(database.DB, data.Reference, body); err != nil {
			log.Printf("🔥 CRITICAL: Error processing webhook for reference %s: %v", data.Reference, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process webhook"})
		}

	case "transfer.success", "transfer.failed", "transfer.reversed":
		var data transferEventData
		if err := json.Unmarshal(envelope.Data, &data); err != nil || data.Reference == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Webhook payload is missing a reference"})
		}
		if err := services.ReconcileTransferEvent(database.DB, data.Reference, envelope.Event == "transfer.success"); err != nil {
			log.Printf("🔥 Error reconciling transfer %s: %v", data.Reference, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process webhook"})
		}

	default:
		log.Printf("Ignoring webhook event type %q", envelope.Event)
	}

	return c.JSON(fiber.Map{"message": "Webhook processed"})
}

// GetPaymentStatus backs the buyer-facing polling endpoint shown after
// checkout redirects back to us.
func GetPaymentStatus(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := claims["user_id"].(string)

	reference := c.Params("reference")

	var payment models.Payment
	if err := database.DB.Where("gateway_reference = ?", reference).First(&payment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment not found"})
	}

	if payment.BuyerID.String() != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	var ticketCount int64
	database.DB.Model(&models.Ticket{}).Where("payment_id = ?", payment.ID).Count(&ticketCount)

	return c.JSON(fiber.Map{
		"reference":    payment.GatewayReference,
		"status":       payment.Status,
		"amount":       payment.Amount,
		"currency":     payment.Currency,
		"ticket_count": ticketCount,
		"paid_at":      payment.PaidAt,
	})
}
