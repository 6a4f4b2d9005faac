package models

import (
	"time"

	"github.com/google/uuid"
)

type Ticket struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	EventID      uuid.UUID  `gorm:"not null;index" json:"event_id"`
	TicketTypeID uuid.UUID  `gorm:"not null;index" json:"ticket_type_id"`
	PaymentID    *uuid.UUID `gorm:"index" json:"payment_id"`

	// PricePaid is frozen at the ticket type's price at creation time.
	PricePaid int64 `gorm:"not null" json:"price_paid"`

	AttendeeName  string  `gorm:"size:255;not null" json:"attendee_name"`
	AttendeeEmail string  `gorm:"size:255;not null" json:"attendee_email"`
	AttendeePhone *string `gorm:"size:20" json:"attendee_phone"`

	ConfirmationCode string `gorm:"size:8;not null;unique" json:"confirmation_code"`
	Status           string `gorm:"size:20;not null;default:'active'" json:"status"`

	Event      Event      `gorm:"foreignkey:EventID" json:"event,omitempty"`
	TicketType TicketType `gorm:"foreignkey:TicketTypeID" json:"ticket_type,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	TicketStatusActive    = "active"
	TicketStatusCancelled = "cancelled"
	TicketStatusUsed      = "used"
	TicketStatusRefunded  = "refunded"
)
