package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	// Rotation events
	EventExpiryAlert        = "rotation.expiry_alert"
	EventActionAcknowledged = "rotation.action.acknowledged"
	EventRestockSuggested   = "rotation.restock.suggested"

	// Inventory events (published by the stock service, consumed here)
	EventMovementRecorded = "inventory.movement.recorded"
)

// Exchange names
const (
	ExchangeRotationEvents  = "rotation.events"
	ExchangeInventoryEvents = "inventory.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            uuid.New().String(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// Rotation Events

// ExpiryAlertPayload is the notification payload for a critical expiry alert.
// Field names follow the notification contract consumed by the web client.
type ExpiryAlertPayload struct {
	Type      string          `json:"type"` // always "expiry_alert"
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Data      ExpiryAlertData `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ExpiryAlertData carries the structured part of an expiry notification
type ExpiryAlertData struct {
	ProductID       string `json:"productId"`
	LocationName    string `json:"locationName"`
	DaysUntilExpiry int    `json:"daysUntilExpiry"`
}

// ActionAcknowledgedEvent is published when a rotation suggestion is accepted
// from the UI. It is an audit record only; stock is never mutated here.
type ActionAcknowledgedEvent struct {
	ProductID       string `json:"product_id"`
	ProductName     string `json:"product_name"`
	LocationID      string `json:"location_id"`
	Action          string `json:"action"`
	Priority        string `json:"priority"`
	Quantity        int    `json:"quantity"`
	FinancialImpact string `json:"financial_impact"`
	Reason          string `json:"reason"`
}

// RestockSuggestedEvent is published when the restock advisor flags a product
type RestockSuggestedEvent struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	CurrentStock   int    `json:"current_stock"`
	MinStock       int    `json:"min_stock"`
	SuggestedUnits int    `json:"suggested_units"`
	Priority       string `json:"priority"`
}

// Inventory Events

// MovementRecordedEvent is published by the stock service whenever inventory
// moves. The rotation service consumes it to refresh between timer ticks.
type MovementRecordedEvent struct {
	MovementID   string `json:"movement_id"`
	ProductID    string `json:"product_id"`
	LotID        string `json:"lot_id"`
	MovementType string `json:"movement_type"`
	Quantity     int    `json:"quantity"`
	PerformedBy  string `json:"performed_by"`
}
