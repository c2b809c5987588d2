package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionAddIngredient  = "ADD_INGREDIENT"
	ActionCreateProduct  = "CREATE_PRODUCT"
	ActionApproveProduct = "APPROVE_PRODUCT"
	ActionRejectProduct  = "REJECT_PRODUCT"
	ActionCreateUser     = "CREATE_USER"
)

// ValidAction reports whether action is one of the recorded audit actions.
func ValidAction(action string) bool {
	switch action {
	case ActionAddIngredient, ActionCreateProduct, ActionApproveProduct, ActionRejectProduct, ActionCreateUser:
		return true
	}
	return false
}

// AuditLog tracks Who, What, and When for every ledger mutation
type AuditLog struct {
	ID         uuid.UUID  `json:"id"`
	UserID     *uuid.UUID `json:"user_id"` // nil for bootstrap actions
	Action     string     `json:"action"`
	EntityID   string     `json:"entity_id"`
	EntityName string     `json:"entity_name,omitempty"`
	Details    string     `json:"details"` // serialized JSON payload of the action
	CreatedAt  time.Time  `json:"created_at"`
}

// AuditFilter narrows an audit listing. Zero fields match everything.
type AuditFilter struct {
	Action   string
	EntityID string
	UserID   *uuid.UUID
}

// Matches reports whether entry passes every set field of f.
func (f AuditFilter) Matches(entry *AuditLog) bool {
	if f.Action != "" && entry.Action != f.Action {
		return false
	}
	if f.EntityID != "" && entry.EntityID != f.EntityID {
		return false
	}
	if f.UserID != nil && (entry.UserID == nil || *entry.UserID != *f.UserID) {
		return false
	}
	return true
}
