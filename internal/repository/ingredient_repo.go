package repository

import (
	"context"

	"supplytrace/internal/model"
	"supplytrace/pkg/pagination"
)

type IngredientRepository interface {
	// Create assigns the next ingredient ID and stores a copy of ing.
	Create(ctx context.Context, ing *model.Ingredient) error
	FindByID(ctx context.Context, id uint64) (*model.Ingredient, error)
	List(ctx context.Context) ([]model.Ingredient, error)
	ListAvailable(ctx context.Context, page, limit int) ([]model.Ingredient, int64, error)
	Count(ctx context.Context) (int64, error)
}

type ingredientRepository struct {
	ledger *Ledger
}

func NewIngredientRepository(ledger *Ledger) IngredientRepository {
	return &ingredientRepository{ledger: ledger}
}

func (r *ingredientRepository) Create(ctx context.Context, ing *model.Ingredient) error {
	l := r.ledger
	return l.mutate(ctx, func() error {
		ing.ID = uint64(len(l.ingredients)) + 1
		l.ingredients = append(l.ingredients, *ing)
		return nil
	}, func() {
		l.ingredients = l.ingredients[:len(l.ingredients)-1]
	})
}

func (r *ingredientRepository) FindByID(ctx context.Context, id uint64) (*model.Ingredient, error) {
	var (
		ing   model.Ingredient
		found bool
	)
	r.ledger.view(ctx, func() {
		var stored *model.Ingredient
		if stored, found = r.ledger.ingredientAt(id); found {
			ing = *stored
		}
	})
	if !found {
		return nil, model.ErrNotFound
	}
	return &ing, nil
}

func (r *ingredientRepository) List(ctx context.Context) ([]model.Ingredient, error) {
	var out []model.Ingredient
	r.ledger.view(ctx, func() {
		out = make([]model.Ingredient, len(r.ledger.ingredients))
		copy(out, r.ledger.ingredients)
	})
	return out, nil
}

func (r *ingredientRepository) ListAvailable(ctx context.Context, page, limit int) ([]model.Ingredient, int64, error) {
	var available []model.Ingredient
	r.ledger.view(ctx, func() {
		for _, ing := range r.ledger.ingredients {
			if ing.Available {
				available = append(available, ing)
			}
		}
	})

	return pagination.Window(available, pagination.New(page, limit)), int64(len(available)), nil
}

func (r *ingredientRepository) Count(ctx context.Context) (int64, error) {
	var n int
	r.ledger.view(ctx, func() { n = len(r.ledger.ingredients) })
	return int64(n), nil
}
