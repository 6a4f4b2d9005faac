package models

import (
	"time"

	"github.com/google/uuid"
)

type Favorite struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID  uuid.UUID `gorm:"not null;uniqueIndex:idx_user_event" json:"user_id"`
	EventID uuid.UUID `gorm:"not null;uniqueIndex:idx_user_event" json:"event_id"`

	Event Event `gorm:"foreignkey:EventID" json:"event,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
