package models

import (
	"time"

	"github.com/google/uuid"
)

// PayoutRequest amounts are stored in kobo. A request stuck in processing is
// queued for manual reconciliation by an admin.
type PayoutRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizerID uuid.UUID `gorm:"not null;index" json:"organizer_id"`
	Amount      int64     `gorm:"not null" json:"amount"`
	Status      string    `gorm:"size:20;not null;default:'pending'" json:"status"`

	BankName      string `gorm:"size:100" json:"bank_name"`
	BankCode      string `gorm:"size:10;not null" json:"bank_code"`
	AccountNumber string `gorm:"size:20;not null" json:"account_number"`
	AccountName   string `gorm:"size:255" json:"account_name"`

	RecipientCode     *string `gorm:"size:100" json:"-"`
	TransferReference *string `gorm:"size:255;unique" json:"transfer_reference"`
	AdminNotes        *string `gorm:"type:text" json:"admin_notes"`

	RequestedAt time.Time  `gorm:"not null" json:"requested_at"`
	ProcessedAt *time.Time `json:"processed_at"`

	Organizer User `gorm:"foreignkey:OrganizerID" json:"organizer,omitempty"`
}

const (
	PayoutStatusPending    = "pending"
	PayoutStatusProcessing = "processing"
	PayoutStatusCompleted  = "completed"
	PayoutStatusFailed     = "failed"
	PayoutStatusCancelled  = "cancelled"
)
