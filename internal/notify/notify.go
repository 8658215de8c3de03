package notify

import "time"

// Event types published on the marketplace exchange.
const (
	EventOrderCreated      = "order.created"
	EventOrderStatusChange = "order.status_changed"
	EventWithdrawRequested = "withdraw.requested"
	EventWithdrawResolved  = "withdraw.resolved"
)

// Event is one lifecycle notification. Publishing is fire-and-forget:
// a failed publish never rolls back the state change it describes.
type Event struct {
	Type       string    `json:"type"`
	ResourceID string    `json:"resource_id"`
	ShopID     string    `json:"shop_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	Amount     float64   `json:"amount,omitempty"`
	Occurred   time.Time `json:"occurred"`
}

// Publisher emits lifecycle events to interested consumers.
type Publisher interface {
	Publish(event Event)
	Close()
}

// NopPublisher drops every event; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}
func (NopPublisher) Close()        {}
