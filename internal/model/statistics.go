package model

import "github.com/google/uuid"

// UserStats aggregates everything the ledger knows about one identity.
type UserStats struct {
	Identity            uuid.UUID `json:"identity"`
	IngredientsSupplied int       `json:"ingredients_supplied"`
	ProductsInvolved    int       `json:"products_involved"`
	PendingApprovals    int       `json:"pending_approvals"`
	ApprovedVotes       int       `json:"approved_votes"`
	RejectedVotes       int       `json:"rejected_votes"`
	ProductsCreated     int       `json:"products_created"`
}
