package core

import (
	"time"

	"github.com/google/uuid"
)

// TenantStatus represents a lease's standing
type TenantStatus string

const (
	TenantStatusActive   TenantStatus = "active"
	TenantStatusInactive TenantStatus = "inactive"
)

// Tenant represents a lease binding a user to a property
type Tenant struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	PropertyID uuid.UUID
	LeaseStart time.Time
	LeaseEnd   time.Time
	RentAmount float64
	Deposit    float64
	Status     TenantStatus
	CreatedAt  time.Time
}

// Property represents a rental property
type Property struct {
	ID          uuid.UUID
	Name        string
	Address     string
	LandlordID  uuid.UUID
	ManagerID   *uuid.UUID
	RentAmount  float64
	Description string
	CreatedAt   time.Time
}
