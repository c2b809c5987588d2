package model

import (
	"time"

	"github.com/google/uuid"
)

// EventType enum
type EventType string

const (
	EventIngredientAdded      EventType = "INGREDIENT_ADDED"
	EventProductCreated       EventType = "PRODUCT_CREATED"
	EventProductApproved      EventType = "PRODUCT_APPROVED"
	EventProductRejected      EventType = "PRODUCT_REJECTED"
	EventProductFullyApproved EventType = "PRODUCT_FULLY_APPROVED"
)

// Event is the notification emitted after a ledger mutation commits.
type Event struct {
	Type      EventType              `json:"event"`
	EntityID  uint64                 `json:"entity_id"`
	Actor     uuid.UUID              `json:"actor"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}
