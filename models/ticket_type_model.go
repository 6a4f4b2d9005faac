package models

import (
	"time"

	"github.com/google/uuid"
)

// TicketType prices are stored in kobo. A nil Capacity means unlimited.
type TicketType struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	EventID  uuid.UUID `gorm:"not null;index" json:"event_id"`
	Name     string    `gorm:"size:100;not null" json:"name"`
	Price    int64     `gorm:"not null" json:"price"`
	Capacity *int      `json:"capacity"`
	Sold     int       `gorm:"default:0" json:"sold"`

	Event Event `gorm:"foreignkey:EventID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
