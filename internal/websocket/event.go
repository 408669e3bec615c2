package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
	EventTypePaid    EventType = "paid"
	EventTypeJoined  EventType = "joined"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeExpense      EntityType = "expense"
	EntityTypeLoanPayment  EntityType = "loan_payment"
	EntityTypeCardPurchase EntityType = "card_purchase"
	EntityTypeMember       EntityType = "member"
	EntityTypeSummary      EntityType = "summary"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "expense.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "expense"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ExpenseCreated creates an expense.created event
func ExpenseCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeExpense, payload)
}

// ExpenseUpdated creates an expense.updated event
func ExpenseUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeExpense, payload)
}

// ExpenseDeleted creates an expense.deleted event
func ExpenseDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeExpense, payload)
}

// ExpensePaid creates an expense.paid event
func ExpensePaid(payload interface{}) Event {
	return NewEvent(EventTypePaid, EntityTypeExpense, payload)
}

// LoanPaymentRegistered creates a loan_payment.paid event
func LoanPaymentRegistered(payload interface{}) Event {
	return NewEvent(EventTypePaid, EntityTypeLoanPayment, payload)
}

// CardPurchasePaid creates a card_purchase.paid event
func CardPurchasePaid(payload interface{}) Event {
	return NewEvent(EventTypePaid, EntityTypeCardPurchase, payload)
}

// MemberJoined creates a member.joined event
func MemberJoined(payload interface{}) Event {
	return NewEvent(EventTypeJoined, EntityTypeMember, payload)
}

// SummaryUpdated creates a summary.updated event
func SummaryUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeSummary, payload)
}
