package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplytrace/internal/model"
)

// twoSupplierProduct builds a product over two ingredients from distinct suppliers.
func twoSupplierProduct(t *testing.T, e *env) (ProductResponse, uuid.UUID, uuid.UUID) {
	t.Helper()
	s1, s2 := uuid.New(), uuid.New()
	p := e.createProduct(t, e.addIngredient(t, "Flour", s1), e.addIngredient(t, "Salt", s2))
	e.events.reset()
	return p, s1, s2
}

func TestApprovalService_UnanimousApproval(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	p, s1, s2 := twoSupplierProduct(t, e)

	after1, err := e.approval.Approve(ctx, p.ID, s1)
	require.NoError(t, err)
	assert.Equal(t, model.ProductStatusPending, after1.Status)
	assert.Equal(t, 1, after1.ApprovedCount)
	assert.Nil(t, after1.FinalizedAt)

	after2, err := e.approval.Approve(ctx, p.ID, s2)
	require.NoError(t, err)
	assert.Equal(t, model.ProductStatusApproved, after2.Status)
	assert.Equal(t, 2, after2.ApprovedCount)
	require.NotNil(t, after2.FinalizedAt)

	assert.Equal(t, []model.EventType{
		model.EventProductApproved,
		model.EventProductApproved,
		model.EventProductFullyApproved,
	}, e.events.types())

	history, err := e.approval.GetHistory(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, s1, history[0].Supplier)
	assert.Equal(t, s2, history[1].Supplier)
	assert.Equal(t, model.VoteApproved, history[1].Decision)
}

func TestApprovalService_SingleRejectionFinalizes(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	p, s1, s2 := twoSupplierProduct(t, e)

	rejected, err := e.approval.Reject(ctx, p.ID, s1, "mould found")
	require.NoError(t, err)
	assert.Equal(t, model.ProductStatusRejected, rejected.Status)
	assert.Zero(t, rejected.ApprovedCount)
	require.NotNil(t, rejected.FinalizedAt)
	assert.Equal(t, []model.EventType{model.EventProductRejected}, e.events.types())

	_, err = e.approval.Approve(ctx, p.ID, s2)
	require.ErrorIs(t, err, model.ErrProductFinalized)
	require.ErrorIs(t, err, model.ErrNotAuthorizedSupplier)

	after, err := e.product.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProductStatusRejected, after.Status)
	assert.Equal(t, *rejected.FinalizedAt, *after.FinalizedAt)

	vote, err := e.approval.GetVote(ctx, p.ID, s2)
	require.NoError(t, err)
	assert.Equal(t, model.VoteNone, vote.Vote)
	assert.True(t, vote.Eligible)

	logs, _, err := e.auditService.GetAuditLogs(ctx, AuditQuery{Page: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, model.ActionRejectProduct, logs[0].Action)
	assert.Contains(t, logs[0].Details, "mould found")
}

func TestApprovalService_Eligibility(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	p, s1, _ := twoSupplierProduct(t, e)

	_, err := e.approval.Approve(ctx, p.ID, uuid.New())
	require.ErrorIs(t, err, model.ErrNotAuthorizedSupplier)
	require.NotErrorIs(t, err, model.ErrProductFinalized)

	_, err = e.approval.Approve(ctx, p.ID, s1)
	require.NoError(t, err)

	// Second vote of either kind from the same supplier.
	_, err = e.approval.Approve(ctx, p.ID, s1)
	require.ErrorIs(t, err, model.ErrNotAuthorizedSupplier)
	_, err = e.approval.Reject(ctx, p.ID, s1, "")
	require.ErrorIs(t, err, model.ErrNotAuthorizedSupplier)

	after, err := e.product.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.ApprovedCount)
	assert.Equal(t, model.ProductStatusPending, after.Status)

	_, err = e.approval.Approve(ctx, 99, s1)
	require.ErrorIs(t, err, model.ErrNotFound)

	history, err := e.approval.GetHistory(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestApprovalService_ListPendingForSupplier(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	s1, s2 := uuid.New(), uuid.New()
	f1 := e.addIngredient(t, "Flour", s1)
	f2 := e.addIngredient(t, "Salt", s2)

	both := e.createProduct(t, f1, f2)
	onlyS1 := e.createProduct(t, f1)
	onlyS2 := e.createProduct(t, f2)

	pending, err := e.approval.ListPendingForSupplier(ctx, s1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{both.ID, onlyS1.ID}, productIDs(pending))

	_, err = e.approval.Approve(ctx, onlyS1.ID, s1)
	require.NoError(t, err)
	_, err = e.approval.Reject(ctx, onlyS2.ID, s2, "")
	require.NoError(t, err)

	pending, err = e.approval.ListPendingForSupplier(ctx, s1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{both.ID}, productIDs(pending))

	pending, err = e.approval.ListPendingForSupplier(ctx, s2)
	require.NoError(t, err)
	assert.Equal(t, []uint64{both.ID}, productIDs(pending))
}

func TestApprovalService_VoteIsAtomic(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	p, s1, _ := twoSupplierProduct(t, e)

	_, totalBefore, err := e.audit.List(ctx, model.AuditFilter{}, 1, 1)
	require.NoError(t, err)

	_, err = e.approval.Approve(ctx, p.ID, s1)
	require.NoError(t, err)

	_, totalAfter, err := e.audit.List(ctx, model.AuditFilter{}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, totalBefore+1, totalAfter)

	// A rejected vote leaves no audit row, no history and no event.
	e.events.reset()
	_, err = e.approval.Approve(ctx, p.ID, s1)
	require.Error(t, err)
	_, totalFailed, err := e.audit.List(ctx, model.AuditFilter{}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, totalAfter, totalFailed)
	assert.Empty(t, e.events.types())
}

func productIDs(ps []ProductResponse) []uint64 {
	ids := make([]uint64, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	return ids
}

// TestApprovalService_Properties drives random vote sequences against
// products with 1..6 distinct suppliers.
func TestApprovalService_Properties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 100
	properties := gopter.NewProperties(params)

	setup := func(n int) (*env, ProductResponse, []uuid.UUID) {
		e := newEnv()
		suppliers := make([]uuid.UUID, n)
		ids := make([]uint64, n)
		for i := range suppliers {
			suppliers[i] = uuid.New()
			ids[i] = e.addIngredient(t, "ing", suppliers[i])
		}
		return e, e.createProduct(t, ids...), suppliers
	}

	properties.Property("approved only after every supplier approves", prop.ForAll(
		func(n int) bool {
			e, p, suppliers := setup(n)
			ctx := context.Background()
			for i, s := range suppliers {
				got, err := e.approval.Approve(ctx, p.ID, s)
				if err != nil {
					return false
				}
				last := i == len(suppliers)-1
				if last != (got.Status == model.ProductStatusApproved) {
					return false
				}
				if got.ApprovedCount != i+1 || got.ApprovedCount > got.RequiredCount {
					return false
				}
			}
			_, err := e.trace.GetTraceability(ctx, p.ID)
			return err == nil
		},
		gen.IntRange(1, 6),
	))

	properties.Property("one rejection finalizes regardless of position", prop.ForAll(
		func(n, at int) bool {
			e, p, suppliers := setup(n)
			ctx := context.Background()
			at %= n
			for i := 0; i < at; i++ {
				if _, err := e.approval.Approve(ctx, p.ID, suppliers[i]); err != nil {
					return false
				}
			}
			got, err := e.approval.Reject(ctx, p.ID, suppliers[at], "")
			if err != nil || got.Status != model.ProductStatusRejected || got.ApprovedCount != at {
				return false
			}
			for i := at + 1; i < n; i++ {
				if _, err := e.approval.Approve(ctx, p.ID, suppliers[i]); err == nil {
					return false
				}
			}
			_, err = e.trace.GetTraceability(ctx, p.ID)
			return err != nil
		},
		gen.IntRange(1, 6),
		gen.IntRange(0, 5),
	))

	properties.TestingRun(t)
}
