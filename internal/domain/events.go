package domain

import "time"

// Event types
const (
	EventTypeEntryRecorded        = "coins.entry.recorded"
	EventTypeReservationCreated   = "coins.reservation.created"
	EventTypeReservationCompleted = "coins.reservation.completed"
	EventTypeReservationFailed    = "coins.reservation.failed"
	EventTypeAccountCreated       = "coins.account.created"
)

// Aggregate types
const (
	AggregateTypeAccount     = "account"
	AggregateTypeReservation = "reservation"
	AggregateTypeEntry       = "entry"
)

// OutboxEvent represents an event to be published to the event stream.
// Events are written in the same transaction as the state change they
// describe and published asynchronously.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}
