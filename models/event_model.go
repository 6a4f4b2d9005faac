package models

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizerID   uuid.UUID  `gorm:"not null;index" json:"organizer_id"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Slug          string     `gorm:"size:255;not null;unique" json:"slug"`
	Description   *string    `gorm:"type:text" json:"description"`
	Venue         string     `gorm:"size:255;not null" json:"venue"`
	City          string     `gorm:"size:100;not null" json:"city"`
	StartTime     time.Time  `gorm:"not null" json:"start_time"`
	EndTime       *time.Time `json:"end_time"`
	CoverImageURL *string    `gorm:"size:255" json:"cover_image_url"`
	IsPublished   bool       `gorm:"default:false" json:"is_published"`

	Organizer   User         `gorm:"foreignkey:OrganizerID" json:"organizer,omitempty"`
	TicketTypes []TicketType `gorm:"foreignkey:EventID" json:"ticket_types,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
