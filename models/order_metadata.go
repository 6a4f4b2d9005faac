package models

import "github.com/google/uuid"

// OrderMetadata is the order intent serialized onto a Payment at checkout time
// and consumed by the fulfillment transaction once the gateway confirms the
// charge. Multi-quantity lines expand into one ticket row per unit.
type OrderMetadata struct {
	EventTitle string      `json:"event_title"`
	Lines      []OrderLine `json:"lines"`
}

type OrderLine struct {
	TicketTypeID  uuid.UUID `json:"ticket_type_id"`
	Quantity      int       `json:"quantity"`
	AttendeeName  string    `json:"attendee_name"`
	AttendeeEmail string    `json:"attendee_email"`
	AttendeePhone *string   `json:"attendee_phone,omitempty"`
}
