package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplytrace/internal/model"
)

func TestAuditService_GetAuditLogsFilters(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	s1, s2 := uuid.New(), uuid.New()
	p := e.createProduct(t, e.addIngredient(t, "Flour", s1), e.addIngredient(t, "Salt", s2))

	_, err := e.approval.Approve(ctx, p.ID, s1)
	require.NoError(t, err)

	logs, total, err := e.auditService.GetAuditLogs(ctx, AuditQuery{UserID: s1.String(), Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, model.ActionApproveProduct, logs[0].Action)
	assert.Equal(t, model.ActionAddIngredient, logs[1].Action)

	// Action matching ignores case.
	logs, total, err = e.auditService.GetAuditLogs(ctx, AuditQuery{Action: "create_product", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "bread", logs[0].EntityName)
}

func TestAuditService_GetAuditLogsRejectsBadFilters(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	_, _, err := e.auditService.GetAuditLogs(ctx, AuditQuery{Action: "DELETE_EVERYTHING", UserID: "nope"})
	require.ErrorIs(t, err, model.ErrInvalidInput)

	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 2)
}
