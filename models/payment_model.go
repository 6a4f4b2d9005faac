package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment amounts are stored in kobo. Amount = PlatformFee + OrganizerAmount.
// Status is flipped to completed/failed only by the fulfillment transaction
// in response to a verified webhook.
type Payment struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	GatewayReference string    `gorm:"size:255;not null;unique" json:"gateway_reference"`
	EventID          uuid.UUID `gorm:"not null;index" json:"event_id"`
	BuyerID          uuid.UUID `gorm:"not null;index" json:"buyer_id"`

	Amount          int64  `gorm:"not null" json:"amount"`
	PlatformFee     int64  `gorm:"not null" json:"platform_fee"`
	OrganizerAmount int64  `gorm:"not null" json:"organizer_amount"`
	Currency        string `gorm:"size:3;not null;default:'NGN'" json:"currency"`

	Status        string  `gorm:"size:20;not null;default:'pending'" json:"status"`
	FailureReason *string `gorm:"type:text" json:"-"`

	OrderMetadata     string  `gorm:"type:jsonb" json:"-"`
	RawWebhookPayload *string `gorm:"type:jsonb" json:"-"`
	PaidAt            *time.Time `json:"paid_at"`

	Event Event `gorm:"foreignkey:EventID" json:"event,omitempty"`
	Buyer User  `gorm:"foreignkey:BuyerID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
	PaymentStatusCancelled = "cancelled"
)
