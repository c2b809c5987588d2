package repository

import (
	"context"
	"fmt"

	"supplytrace/internal/model"
	"supplytrace/pkg/pagination"
)

type ProductRepository interface {
	// Create assigns the next product ID and stores a copy of product.
	Create(ctx context.Context, product *model.Product) error
	// Update persists the mutable voting fields (ApprovedCount, Status,
	// FinalizedAt). Name, batch, ingredients and suppliers are fixed at creation.
	Update(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uint64) (*model.Product, error)
	// List returns products newest first, optionally filtered by status.
	List(ctx context.Context, status model.ProductStatus, page, limit int) ([]model.Product, int64, error)
	All(ctx context.Context) ([]model.Product, error)
	Count(ctx context.Context) (int64, error)
}

type productRepository struct {
	ledger *Ledger
}

func NewProductRepository(ledger *Ledger) ProductRepository {
	return &productRepository{ledger: ledger}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	l := r.ledger
	return l.mutate(ctx, func() error {
		product.ID = uint64(len(l.products)) + 1
		l.products = append(l.products, product.Clone())
		return nil
	}, func() {
		l.products = l.products[:len(l.products)-1]
	})
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	l := r.ledger
	var previous model.Product
	return l.mutate(ctx, func() error {
		stored, ok := l.productAt(product.ID)
		if !ok {
			return model.ErrNotFound
		}
		if stored.IsFinalized() {
			return fmt.Errorf("product %d: %w", product.ID, model.ErrProductFinalized)
		}
		previous = *stored
		stored.ApprovedCount = product.ApprovedCount
		stored.Status = product.Status
		stored.FinalizedAt = product.FinalizedAt
		return nil
	}, func() {
		stored, _ := l.productAt(previous.ID)
		*stored = previous
	})
}

func (r *productRepository) FindByID(ctx context.Context, id uint64) (*model.Product, error) {
	var (
		product model.Product
		found   bool
	)
	r.ledger.view(ctx, func() {
		var stored *model.Product
		if stored, found = r.ledger.productAt(id); found {
			product = stored.Clone()
		}
	})
	if !found {
		return nil, model.ErrNotFound
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, status model.ProductStatus, page, limit int) ([]model.Product, int64, error) {
	var matched []model.Product
	r.ledger.view(ctx, func() {
		for i := len(r.ledger.products) - 1; i >= 0; i-- {
			p := r.ledger.products[i]
			if status == "" || p.Status == status {
				matched = append(matched, p.Clone())
			}
		}
	})

	return pagination.Window(matched, pagination.New(page, limit)), int64(len(matched)), nil
}

func (r *productRepository) All(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	r.ledger.view(ctx, func() {
		out = make([]model.Product, 0, len(r.ledger.products))
		for _, p := range r.ledger.products {
			out = append(out, p.Clone())
		}
	})
	return out, nil
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var n int
	r.ledger.view(ctx, func() { n = len(r.ledger.products) })
	return int64(n), nil
}
