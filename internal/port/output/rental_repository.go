package output

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentflow/payment-gateway/internal/core"
)

// UserRepository is an output port for account data access
type UserRepository interface {
	Create(ctx context.Context, user *core.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*core.User, error)
	GetByEmail(ctx context.Context, email string) (*core.User, error)
}

// TenantRepository is an output port for lease data access
type TenantRepository interface {
	Create(ctx context.Context, tenant *core.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*core.Tenant, error)
	// GetByUserID resolves the lease for a tenant-role user.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*core.Tenant, error)
	List(ctx context.Context, scope core.AccessScope) ([]*core.Tenant, error)
	Update(ctx context.Context, tenant *core.Tenant) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PropertyRepository is an output port for property data access
type PropertyRepository interface {
	Create(ctx context.Context, property *core.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*core.Property, error)
	List(ctx context.Context, scope core.AccessScope) ([]*core.Property, error)
	Update(ctx context.Context, property *core.Property) error
	Delete(ctx context.Context, id uuid.UUID) error
}
