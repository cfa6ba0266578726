package input

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentflow/payment-gateway/internal/core"
)

// TenantService is an input port for lease management.
type TenantService interface {
	CreateTenant(ctx context.Context, req CreateTenantRequest) (*core.Tenant, error)
	GetTenant(ctx context.Context, principal core.Principal, id uuid.UUID) (*core.Tenant, error)
	ListTenants(ctx context.Context, principal core.Principal) ([]*core.Tenant, error)
	UpdateTenant(ctx context.Context, id uuid.UUID, req UpdateTenantRequest) (*core.Tenant, error)
	DeleteTenant(ctx context.Context, id uuid.UUID) error
}

// PropertyService is an input port for property management.
type PropertyService interface {
	CreateProperty(ctx context.Context, req CreatePropertyRequest) (*core.Property, error)
	GetProperty(ctx context.Context, principal core.Principal, id uuid.UUID) (*core.Property, error)
	ListProperties(ctx context.Context, principal core.Principal) ([]*core.Property, error)
	UpdateProperty(ctx context.Context, id uuid.UUID, req UpdatePropertyRequest) (*core.Property, error)
	DeleteProperty(ctx context.Context, id uuid.UUID) error
}

// CreateTenantRequest carries a new lease's details.
type CreateTenantRequest struct {
	UserID     uuid.UUID
	PropertyID uuid.UUID
	LeaseStart time.Time
	LeaseEnd   time.Time
	RentAmount float64
	Deposit    float64
}

// UpdateTenantRequest carries the mutable lease fields; nil means
// unchanged.
type UpdateTenantRequest struct {
	LeaseStart *time.Time
	LeaseEnd   *time.Time
	RentAmount *float64
	Deposit    *float64
	Status     *core.TenantStatus
}

// CreatePropertyRequest carries a new property's details.
type CreatePropertyRequest struct {
	Name        string
	Address     string
	LandlordID  uuid.UUID
	ManagerID   *uuid.UUID
	RentAmount  float64
	Description string
}

// UpdatePropertyRequest carries the mutable property fields; nil means
// unchanged.
type UpdatePropertyRequest struct {
	Name        *string
	Address     *string
	ManagerID   *uuid.UUID
	RentAmount  *float64
	Description *string
}
