package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/bibliohome/bibliohome-server/internal/errors"
)

func TestLogin(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	u := ts.createUser(t, "ishmael", "whale")

	got, err := ts.users.Login(ctx, LoginRequest{Username: "ishmael", Password: "whale"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	for _, req := range []LoginRequest{
		{Username: "ishmael", Password: "squid"},
		{Username: "ahab", Password: "whale"},
	} {
		_, err := ts.users.Login(ctx, req)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	}
}

func TestCreateUser_Validation(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	ts.createUser(t, "queequeg", "harpoon")

	tests := []struct {
		name    string
		req     CreateUserRequest
		wantErr *domainerrors.Error
		wantMsg string
	}{
		{name: "missing fields", req: CreateUserRequest{}, wantErr: domainerrors.ErrValidation},
		{name: "bad email", req: CreateUserRequest{Username: "starbuck", Password: "pw", Email: "nope"}, wantErr: domainerrors.ErrValidation},
		{name: "duplicate username", req: CreateUserRequest{Username: "queequeg", Password: "pw", Email: "q2@example.com"}, wantErr: domainerrors.ErrAlreadyExists, wantMsg: "Username already in use"},
		{name: "duplicate email", req: CreateUserRequest{Username: "stubb", Password: "pw", Email: "QUEEQUEG@example.com"}, wantErr: domainerrors.ErrAlreadyExists, wantMsg: "Email already in use"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.users.CreateUser(ctx, tt.req)
			require.Error(t, err)
			assert.True(t, domainerrors.Is(err, tt.wantErr), "got %v", err)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestUpdateUser_RehashesPassword(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	u := ts.createUser(t, "pip", "tambourine")

	updated, err := ts.users.UpdateUser(ctx, u.ID, UpdateUserRequest{FirstName: "Pip", Password: "drum"})
	require.NoError(t, err)
	assert.Equal(t, "Pip", updated.FirstName)
	assert.Equal(t, "pip@example.com", updated.Email)

	_, err = ts.users.Login(ctx, LoginRequest{Username: "pip", Password: "tambourine"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	_, err = ts.users.Login(ctx, LoginRequest{Username: "pip", Password: "drum"})
	require.NoError(t, err)
}

func TestResetPassword(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	ts.createUser(t, "flask", "old-secret")

	require.NoError(t, ts.users.ResetPassword(ctx, ResetPasswordRequest{Email: "Flask@example.com"}))
	assert.Equal(t, "flask@example.com", ts.notifier.email)
	assert.Len(t, ts.notifier.password, resetPasswordLength)

	_, err := ts.users.Login(ctx, LoginRequest{Username: "flask", Password: ts.notifier.password})
	require.NoError(t, err)

	err = ts.users.ResetPassword(ctx, ResetPasswordRequest{Email: "nobody@example.com"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestDeleteUser_DetachesLoans(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	u := ts.createUser(t, "fedallah", "pw")
	require.NoError(t, ts.users.DeleteUser(ctx, u.ID))

	_, err := ts.users.GetUser(ctx, u.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	err = ts.users.DeleteUser(ctx, u.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}
