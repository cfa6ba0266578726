package core

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeForPrincipal(t *testing.T) {
	userID := uuid.New()

	t.Run("admin is unrestricted", func(t *testing.T) {
		scope, err := ScopeForPrincipal(Principal{UserID: userID, Role: RoleAdmin})
		require.NoError(t, err)
		assert.True(t, scope.All)
		assert.Nil(t, scope.SelfUserID)
		assert.Nil(t, scope.LandlordID)
		assert.Nil(t, scope.ManagerID)
	})

	t.Run("tenant sees self", func(t *testing.T) {
		scope, err := ScopeForPrincipal(Principal{UserID: userID, Role: RoleTenant})
		require.NoError(t, err)
		assert.False(t, scope.All)
		require.NotNil(t, scope.SelfUserID)
		assert.Equal(t, userID, *scope.SelfUserID)
	})

	t.Run("landlord scoped by owned properties", func(t *testing.T) {
		scope, err := ScopeForPrincipal(Principal{UserID: userID, Role: RoleLandlord})
		require.NoError(t, err)
		require.NotNil(t, scope.LandlordID)
		assert.Equal(t, userID, *scope.LandlordID)
	})

	t.Run("manager scoped by managed properties", func(t *testing.T) {
		scope, err := ScopeForPrincipal(Principal{UserID: userID, Role: RolePropertyManager})
		require.NoError(t, err)
		require.NotNil(t, scope.ManagerID)
		assert.Equal(t, userID, *scope.ManagerID)
	})

	t.Run("unknown role denied", func(t *testing.T) {
		_, err := ScopeForPrincipal(Principal{UserID: userID, Role: Role("intern")})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestPaymentStatusHelpers(t *testing.T) {
	pending := &Payment{Status: PaymentStatusPending}
	assert.True(t, pending.IsPending())
	assert.False(t, pending.IsTerminal())

	completed := &Payment{Status: PaymentStatusCompleted}
	failed := &Payment{Status: PaymentStatusFailed}
	assert.True(t, completed.IsTerminal())
	assert.True(t, failed.IsTerminal())
	assert.False(t, completed.IsPending())
}

func TestStatusForResultCode(t *testing.T) {
	assert.Equal(t, PaymentStatusCompleted, StatusForResultCode(0))
	assert.Equal(t, PaymentStatusFailed, StatusForResultCode(1))
	assert.Equal(t, PaymentStatusFailed, StatusForResultCode(1032))
}

func TestIsManualMethod(t *testing.T) {
	assert.True(t, IsManualMethod(PaymentMethodCash))
	assert.True(t, IsManualMethod(PaymentMethodBank))
	assert.False(t, IsManualMethod(PaymentMethodMpesa))
}
