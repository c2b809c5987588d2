package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplytrace/internal/model"
)

func bootstrapOwner(t *testing.T, e *env) *UserResponse {
	t.Helper()
	owner, err := e.user.EnsureOwner(context.Background(), BootstrapOwnerRequest{
		Username: "owner",
		Email:    "owner@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	return owner
}

func TestUserService_EnsureOwnerIsIdempotent(t *testing.T) {
	e := newEnv()
	first := bootstrapOwner(t, e)
	second := bootstrapOwner(t, e)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, model.RoleOwner, first.Role)

	owners, err := e.users.CountByRole(context.Background(), model.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), owners)
}

func TestUserService_CreateUserRoleRules(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	owner := bootstrapOwner(t, e)

	manager, err := e.user.CreateUser(ctx, owner.ID, CreateUserRequest{
		Username: "mgr", Email: "mgr@example.com", Password: "secret123", Role: model.RoleManager,
	})
	require.NoError(t, err)

	seller, err := e.user.CreateUser(ctx, manager.ID, CreateUserRequest{
		Username: "sel", Email: "sel@example.com", Password: "secret123", Role: model.RoleSeller,
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		caller uuid.UUID
		role   string
		want   error
	}{
		{"owner cannot create owner", owner.ID, model.RoleOwner, model.ErrForbidden},
		{"manager cannot create manager", manager.ID, model.RoleManager, model.ErrForbidden},
		{"seller cannot create", seller.ID, model.RoleSupplier, model.ErrForbidden},
		{"unknown caller", uuid.New(), model.RoleSupplier, model.ErrUnauthorized},
		{"unknown role", owner.ID, "ADMIN", model.ErrInvalidInput},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name := "u" + strings.Repeat("x", i+1)
			_, err := e.user.CreateUser(ctx, tt.caller, CreateUserRequest{
				Username: name, Email: name + "@example.com", Password: "secret123", Role: tt.role,
			})
			require.ErrorIs(t, err, tt.want)
		})
	}

	_, total, err := e.user.ListUsers(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestUserService_CreateUserRejectsDuplicatesAndBadInput(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	owner := bootstrapOwner(t, e)

	_, err := e.user.CreateUser(ctx, owner.ID, CreateUserRequest{
		Username: "dup", Email: "Owner@Example.com", Password: "secret123", Role: model.RoleSupplier,
	})
	require.ErrorIs(t, err, model.ErrAlreadyExists)

	_, err = e.user.CreateUser(ctx, owner.ID, CreateUserRequest{
		Username: "bad", Email: "not-an-email", Password: "123", Role: model.RoleSupplier,
	})
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 2)

	logs, total, err := e.auditService.GetAuditLogs(ctx, AuditQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total, "only the bootstrap is audited")
	assert.Equal(t, model.ActionCreateUser, logs[0].Action)
}

func TestUserService_Login(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	owner := bootstrapOwner(t, e)

	token, user, err := e.user.Login(ctx, LoginUserRequest{Email: "owner@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, user.ID)
	assert.Equal(t, model.RoleOwner+":"+owner.ID.String(), token.Token)

	_, _, err = e.user.Login(ctx, LoginUserRequest{Email: "owner@example.com", Password: "wrong"})
	require.ErrorIs(t, err, model.ErrUnauthorized)
	_, _, err = e.user.Login(ctx, LoginUserRequest{Email: "ghost@example.com", Password: "secret123"})
	require.ErrorIs(t, err, model.ErrUnauthorized)

	got, err := e.user.GetUserByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner", got.Username)
	_, err = e.user.GetUserByID(ctx, uuid.New())
	require.ErrorIs(t, err, model.ErrNotFound)
}
