package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatisticsService_GetUserStats(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	s1, s2 := uuid.New(), uuid.New()
	f1 := e.addIngredient(t, "Flour", s1)
	f2 := e.addIngredient(t, "Salt", s1)
	f3 := e.addIngredient(t, "Yeast", s2)

	approved := e.createProduct(t, f1)
	rejected := e.createProduct(t, f2, f3)
	e.createProduct(t, f1, f3)

	_, err := e.approval.Approve(ctx, approved.ID, s1)
	require.NoError(t, err)
	_, err = e.approval.Reject(ctx, rejected.ID, s2, "")
	require.NoError(t, err)

	stats, err := e.stats.GetUserStats(ctx, s1)
	require.NoError(t, err)
	assert.Equal(t, s1, stats.Identity)
	assert.Equal(t, 2, stats.IngredientsSupplied)
	assert.Equal(t, 3, stats.ProductsInvolved)
	assert.Equal(t, 1, stats.ApprovedVotes)
	assert.Zero(t, stats.RejectedVotes)
	// The rejected product is final, so only the third one still waits on s1.
	assert.Equal(t, 1, stats.PendingApprovals)

	stats, err = e.stats.GetUserStats(ctx, s2)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.IngredientsSupplied)
	assert.Equal(t, 2, stats.ProductsInvolved)
	assert.Equal(t, 1, stats.RejectedVotes)
	assert.Equal(t, 1, stats.PendingApprovals)

	stranger, err := e.stats.GetUserStats(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, stranger.ProductsInvolved)
}
