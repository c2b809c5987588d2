package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplytrace/internal/model"
)

func TestTraceabilityService_GatedUntilApproved(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	p, s1, s2 := twoSupplierProduct(t, e)

	_, err := e.trace.GetTraceability(ctx, p.ID)
	require.ErrorIs(t, err, model.ErrNotYetApproved)

	_, err = e.approval.Approve(ctx, p.ID, s1)
	require.NoError(t, err)
	_, err = e.trace.GetTraceability(ctx, p.ID)
	require.ErrorIs(t, err, model.ErrNotYetApproved)

	_, err = e.approval.Approve(ctx, p.ID, s2)
	require.NoError(t, err)

	got, err := e.trace.GetTraceability(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProductStatusApproved, got.Status)
	assert.Equal(t, []uuid.UUID{s1, s2}, got.Suppliers)
	assert.Len(t, got.Approvals, 2)
	assert.False(t, got.FinalizedAt.IsZero())
}

func TestTraceabilityService_JoinsIngredientsInStoredOrder(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	s := uuid.New()
	salt := e.addIngredient(t, "Salt", s)
	flour := e.addIngredient(t, "Flour", s)

	p := e.createProduct(t, flour, salt)
	_, err := e.approval.Approve(ctx, p.ID, s)
	require.NoError(t, err)

	got, err := e.trace.GetTraceability(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, "Flour", got.Ingredients[0].Name)
	assert.Equal(t, "Salt", got.Ingredients[1].Name)
	assert.Equal(t, s, got.Ingredients[0].Supplier)
	assert.Equal(t, "raw", got.Ingredients[0].Category)
}

func TestTraceabilityService_RejectedAndUnknown(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	p, s1, _ := twoSupplierProduct(t, e)

	_, err := e.trace.GetTraceability(ctx, 0)
	require.ErrorIs(t, err, model.ErrNotFound)
	_, err = e.trace.GetTraceability(ctx, p.ID+1)
	require.ErrorIs(t, err, model.ErrNotFound)

	_, err = e.approval.Reject(ctx, p.ID, s1, "")
	require.NoError(t, err)
	_, err = e.trace.GetTraceability(ctx, p.ID)
	require.ErrorIs(t, err, model.ErrNotYetApproved)
}
