package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Ingredient is a raw material registered against the supplier that provides it.
// Ingredients are never deleted; Available is reserved for retiring them.
type Ingredient struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Supplier  uuid.UUID `json:"supplier"`
	Category  string    `json:"category"`
	Available bool      `json:"available"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductStatus enum
type ProductStatus string

const (
	ProductStatusCreated  ProductStatus = "CREATED"
	ProductStatusPending  ProductStatus = "PENDING"
	ProductStatusApproved ProductStatus = "APPROVED"
	ProductStatusRejected ProductStatus = "REJECTED"
)

// IsTerminal reports whether no further transition is allowed out of s.
func (s ProductStatus) IsTerminal() bool {
	return s == ProductStatusApproved || s == ProductStatusRejected
}

// Valid reports whether s is one of the known statuses.
func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusCreated, ProductStatusPending, ProductStatusApproved, ProductStatusRejected:
		return true
	}
	return false
}

// Product is a batch assembled from ingredients. Suppliers is derived once at
// creation and is the authorization set for every vote on the product.
type Product struct {
	ID            uint64        `json:"id"`
	Name          string        `json:"name"`
	BatchID       string        `json:"batch_id"`
	IngredientIDs []uint64      `json:"ingredient_ids"`
	Suppliers     []uuid.UUID   `json:"suppliers"`
	ApprovedCount int           `json:"approved_count"`
	RequiredCount int           `json:"required_count"`
	Status        ProductStatus `json:"status"`
	CreatedBy     uuid.UUID     `json:"created_by"`
	CreatedAt     time.Time     `json:"created_at"`
	FinalizedAt   time.Time     `json:"finalized_at"`
}

// IsFinalized reports whether the product reached APPROVED or REJECTED.
func (p *Product) IsFinalized() bool {
	return p.Status.IsTerminal()
}

// HasSupplier reports whether id belongs to the product's supplier set.
func (p *Product) HasSupplier(id uuid.UUID) bool {
	return slices.Contains(p.Suppliers, id)
}

// Clone returns a copy that shares no slices with p.
func (p Product) Clone() Product {
	p.IngredientIDs = slices.Clone(p.IngredientIDs)
	p.Suppliers = slices.Clone(p.Suppliers)
	return p
}
