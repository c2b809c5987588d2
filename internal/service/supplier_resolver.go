package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"supplytrace/internal/model"
)

// IngredientLookup is the slice of the ingredient repository the resolver needs.
type IngredientLookup interface {
	FindByID(ctx context.Context, id uint64) (*model.Ingredient, error)
}

// ResolveSuppliers maps ingredient IDs to the unique suppliers behind them in
// first-seen order. Any unknown or unavailable ingredient fails the whole
// resolution and no partial result is returned.
func ResolveSuppliers(ctx context.Context, lookup IngredientLookup, ingredientIDs []uint64) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(ingredientIDs))
	suppliers := make([]uuid.UUID, 0, len(ingredientIDs))

	for _, id := range ingredientIDs {
		ing, err := lookup.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return nil, fmt.Errorf("ingredient %d: %w", id, model.ErrUnknownOrUnavailableIngredient)
			}
			return nil, fmt.Errorf("failed to load ingredient %d: %w", id, err)
		}
		if !ing.Available {
			return nil, fmt.Errorf("ingredient %d: %w", id, model.ErrUnknownOrUnavailableIngredient)
		}

		if _, dup := seen[ing.Supplier]; dup {
			continue
		}
		seen[ing.Supplier] = struct{}{}
		suppliers = append(suppliers, ing.Supplier)
	}

	return suppliers, nil
}
