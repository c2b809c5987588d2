package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplytrace/internal/model"
)

func TestProductService_CreateResolvesSuppliers(t *testing.T) {
	e := newEnv()
	alice, bob := uuid.New(), uuid.New()
	flour := e.addIngredient(t, "Flour", alice)
	salt := e.addIngredient(t, "Salt", bob)
	yeast := e.addIngredient(t, "Yeast", alice)
	e.events.reset()

	p := e.createProduct(t, flour, salt, yeast)

	assert.Equal(t, uint64(1), p.ID)
	assert.Equal(t, []uuid.UUID{alice, bob}, p.Suppliers)
	assert.Equal(t, 2, p.RequiredCount)
	assert.Zero(t, p.ApprovedCount)
	assert.Equal(t, model.ProductStatusCreated, p.Status)
	assert.Nil(t, p.FinalizedAt)
	assert.Equal(t, []uint64{flour, salt, yeast}, p.IngredientIDs)
	assert.Equal(t, []model.EventType{model.EventProductCreated}, e.events.types())
}

func TestProductService_CreateUnknownIngredientConsumesNoID(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	supplier := uuid.New()
	for i := 0; i < 3; i++ {
		e.addIngredient(t, "Flour", supplier)
	}
	e.events.reset()

	_, err := e.product.CreateProduct(ctx, supplier, CreateProductRequest{
		Name:          "bread",
		BatchID:       "B-1",
		IngredientIDs: []uint64{2, 7},
	})
	require.ErrorIs(t, err, model.ErrUnknownOrUnavailableIngredient)

	count, err := e.products.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, e.events.types())

	_, total, err := e.audit.List(ctx, model.AuditFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total, "only the ingredient audit rows remain")

	p := e.createProduct(t, 1)
	assert.Equal(t, uint64(1), p.ID)
}

func TestProductService_CreateValidation(t *testing.T) {
	e := newEnv()
	e.addIngredient(t, "Flour", uuid.New())

	tests := []struct {
		name string
		req  CreateProductRequest
	}{
		{"empty name", CreateProductRequest{BatchID: "B", IngredientIDs: []uint64{1}}},
		{"empty batch", CreateProductRequest{Name: "bread", IngredientIDs: []uint64{1}}},
		{"no ingredients", CreateProductRequest{Name: "bread", BatchID: "B"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.product.CreateProduct(context.Background(), uuid.New(), tt.req)
			require.ErrorIs(t, err, model.ErrInvalidInput)
		})
	}
}

func TestProductService_ListAndProgress(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	e.createProduct(t, e.addIngredient(t, "Flour", a))
	three := e.createProduct(t, e.addIngredient(t, "Salt", a), e.addIngredient(t, "Yeast", b), e.addIngredient(t, "Water", c))

	_, err := e.approval.Approve(ctx, three.ID, a)
	require.NoError(t, err)

	progress, err := e.product.GetProgress(ctx, three.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.ApprovedCount)
	assert.Equal(t, 3, progress.RequiredCount)
	assert.Equal(t, model.ProductStatusPending, progress.Status)
	assert.True(t, decimal.RequireFromString("33.33").Equal(progress.Completion), progress.Completion.String())

	pending, total, err := e.product.ListProducts(ctx, ProductFilter{Status: model.ProductStatusPending, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, pending, 1)
	assert.Equal(t, three.ID, pending[0].ID)

	all, total, err := e.product.ListProducts(ctx, ProductFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, three.ID, all[0].ID)

	_, _, err = e.product.ListProducts(ctx, ProductFilter{Status: "SHIPPED"})
	require.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = e.product.GetProgress(ctx, 42)
	require.ErrorIs(t, err, model.ErrNotFound)
}
