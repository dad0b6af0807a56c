package realtime

import (
	"github.com/google/uuid"

	"github.com/saikganesh/navajothi-jewels-backend/pkg/enums"
)

// Event is the envelope carried on a user's cart channel. ProductID is unset
// for clear events.
type Event struct {
	Type      enums.CartEventType `json:"type"`
	ProductID *uuid.UUID          `json:"product_id,omitempty"`
}

// CartEvent builds an event for a single product row.
func CartEvent(eventType enums.CartEventType, productID uuid.UUID) Event {
	return Event{Type: eventType, ProductID: &productID}
}

// ClearEvent marks the whole cart as emptied.
func ClearEvent() Event {
	return Event{Type: enums.CartEventClear}
}
