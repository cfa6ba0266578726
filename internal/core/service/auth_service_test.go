package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentflow/payment-gateway/internal/core"
	"github.com/rentflow/payment-gateway/internal/port/input"
)

const testSecret = "test-secret"

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, testSecret, testLogger())

	registered, err := svc.Register(context.Background(), input.RegisterRequest{
		Name:     "Alice Wanjiku",
		Email:    "Alice@Example.com",
		Password: "secret123",
		Phone:    "254700000001",
		Role:     core.RoleTenant,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "alice@example.com", registered.User.Email, "email normalized")

	loggedIn, err := svc.Login(context.Background(), input.LoginRequest{
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
	assert.NotEmpty(t, loggedIn.Token)
}

func TestRegister_Validation(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), testSecret, testLogger())

	tests := []struct {
		name string
		req  input.RegisterRequest
	}{
		{"missing name", input.RegisterRequest{Email: "a@b.com", Password: "secret123", Phone: "1", Role: core.RoleTenant}},
		{"bad email", input.RegisterRequest{Name: "A", Email: "not-an-email", Password: "secret123", Phone: "1", Role: core.RoleTenant}},
		{"short password", input.RegisterRequest{Name: "A", Email: "a@b.com", Password: "abc", Phone: "1", Role: core.RoleTenant}},
		{"unknown role", input.RegisterRequest{Name: "A", Email: "a@b.com", Password: "secret123", Phone: "1", Role: core.Role("boss")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrValidation)
		})
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, testSecret, testLogger())

	_, err := svc.Register(context.Background(), input.RegisterRequest{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "secret123",
		Phone:    "254700000002",
		Role:     core.RoleLandlord,
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), input.LoginRequest{
		Email:    "bob@example.com",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	_, err = svc.Login(context.Background(), input.LoginRequest{
		Email:    "nobody@example.com",
		Password: "secret123",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnauthorized, "unknown email indistinguishable from wrong password")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, testSecret, testLogger())

	req := input.RegisterRequest{
		Name:     "Carol",
		Email:    "carol@example.com",
		Password: "secret123",
		Phone:    "254700000003",
		Role:     core.RolePropertyManager,
	}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDuplicateEntry)
}
