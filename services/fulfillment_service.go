package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chinedu-ok/eventpass/models"
	"github.com/chinedu-ok/eventpass/notifications"
	"github.com/chinedu-ok/eventpass/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// fatalOrderError marks a data-integrity failure baked in at checkout time.
// The payment is marked failed and the webhook is acknowledged so the gateway
// stops retrying; no retry can ever succeed.
type fatalOrderError struct {
	err error
}

func (e *fatalOrderError) Error() string { return e.err.Error() }

type issuedTicket struct {
	ticket   models.Ticket
	tierName string
}

func ParseOrderMetadata(raw string) (*models.OrderMetadata, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("order metadata is missing")
	}

	var meta models.OrderMetadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, fmt.Errorf("order metadata is not valid JSON: %v", err)
	}
	if len(meta.Lines) == 0 {
		return nil, errors.New("order metadata contains no line items")
	}
	for i, line := range meta.Lines {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("line %d has invalid quantity %d", i, line.Quantity)
		}
		if line.AttendeeEmail == "" {
			return nil, fmt.Errorf("line %d is missing an attendee email", i)
		}
	}
	return &meta, nil
}

// FulfillPayment converts a verified charge.success webhook into issued
// tickets. Safe to invoke any number of times with the same reference: the
// status check plus the row lock inside the transaction guarantee a payment
// is fulfilled exactly once.
func FulfillPayment(db *gorm.DB, reference string, rawPayload []byte) error {
	var payment models.Payment
	if err := db.Where("gateway_reference = ?", reference).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Webhook references unknown payment %s, discarding", reference)
			return nil
		}
		return err
	}

	if payment.Status == models.PaymentStatusCompleted {
		log.Printf("Payment %s already completed, ignoring duplicate webhook", reference)
		return nil
	}

	var issued []issuedTicket
	var eventTitle string

	err := db.Transaction(func(tx *gorm.DB) error {
		// Re-read under a row lock so two concurrent deliveries of the same
		// webhook cannot both pass the status check.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&payment, "id = ?", payment.ID).Error; err != nil {
			return err
		}
		if payment.Status == models.PaymentStatusCompleted {
			return nil
		}

		meta, err := ParseOrderMetadata(payment.OrderMetadata)
		if err != nil {
			return &fatalOrderError{err: err}
		}
		eventTitle = meta.EventTitle

		now := time.Now()
		raw := string(rawPayload)
		payment.Status = models.PaymentStatusCompleted
		payment.PaidAt = &now
		payment.RawWebhookPayload = &raw
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}

		for _, line := range meta.Lines {
			var tier models.TicketType
			if err := tx.First(&tier, "id = ? AND event_id = ?", line.TicketTypeID, payment.EventID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					log.Printf("⚠️ Payment %s references unknown ticket type %s, skipping line", reference, line.TicketTypeID)
					continue
				}
				return err
			}

			for i := 0; i < line.Quantity; i++ {
				code, err := utils.GenerateUniqueConfirmationCode(tx)
				if err != nil {
					return err
				}

				ticket := models.Ticket{
					EventID:          payment.EventID,
					TicketTypeID:     tier.ID,
					PaymentID:        &payment.ID,
					PricePaid:        tier.Price,
					AttendeeName:     line.AttendeeName,
					AttendeeEmail:    line.AttendeeEmail,
					AttendeePhone:    line.AttendeePhone,
					ConfirmationCode: code,
					Status:           models.TicketStatusActive,
				}
				if err := tx.Create(&ticket).Error; err != nil {
					return err
				}
				issued = append(issued, issuedTicket{ticket: ticket, tierName: tier.Name})
			}

			if err := tx.Model(&models.TicketType{}).Where("id = ?", tier.ID).
				Update("sold", gorm.Expr("sold + ?", line.Quantity)).Error; err != nil {
				return err
			}
		}

		if len(issued) == 0 {
			return &fatalOrderError{err: errors.New("no tickets could be issued for this order")}
		}
		return nil
	})

	if err != nil {
		var fatal *fatalOrderError
		if errors.As(err, &fatal) {
			log.Printf("🔥 CRITICAL: payment %s cannot be fulfilled: %v", reference, fatal.err)
			markPaymentFailed(db, payment.ID, fatal.err, rawPayload)
			return nil
		}
		return err
	}

	if len(issued) > 0 {
		go dispatchConfirmations(eventTitle, issued)
	}
	return nil
}

func markPaymentFailed(db *gorm.DB, paymentID interface{}, cause error, rawPayload []byte) {
	reason := cause.Error()
	raw := string(rawPayload)
	err := db.Model(&models.Payment{}).Where("id = ?", paymentID).Updates(map[string]interface{}{
		"status":              models.PaymentStatusFailed,
		"failure_reason":      &reason,
		"raw_webhook_payload": &raw,
	}).Error
	if err != nil {
		log.Printf("🔥 Failed to mark payment %v as failed: %v", paymentID, err)
	}
}

// dispatchConfirmations groups issued tickets by normalized buyer email and
// sends one confirmation per buyer. Delivery failures are logged inside the
// email service and never affect the committed fulfillment.
func dispatchConfirmations(eventTitle string, issued []issuedTicket) {
	type group struct {
		name    string
		tickets []notifications.ConfirmedTicket
	}

	groups := make(map[string]*group)
	order := make([]string, 0, len(issued))
	for _, it := range issued {
		email := strings.ToLower(strings.TrimSpace(it.ticket.AttendeeEmail))
		g, ok := groups[email]
		if !ok {
			g = &group{name: it.ticket.AttendeeName}
			groups[email] = g
			order = append(order, email)
		}
		g.tickets = append(g.tickets, notifications.ConfirmedTicket{
			TierName:         it.tierName,
			ConfirmationCode: it.ticket.ConfirmationCode,
		})
	}

	for _, email := range order {
		g := groups[email]
		notifications.SendTicketConfirmation(g.name, email, eventTitle, g.tickets)
	}
}
