package model

import (
	"time"

	"github.com/google/uuid"
)

// Vote is the per-supplier entry of a product's vote map.
type Vote string

const (
	VoteNone     Vote = "NONE"
	VoteApproved Vote = "APPROVED"
	VoteRejected Vote = "REJECTED"
)

// ApprovalRecord is one entry of the append-only approval history of a product.
type ApprovalRecord struct {
	ProductID   uint64    `json:"product_id"`
	Supplier    uuid.UUID `json:"supplier"`
	Decision    Vote      `json:"decision"`
	RespondedAt time.Time `json:"responded_at"`
}
