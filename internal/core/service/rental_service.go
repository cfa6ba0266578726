package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rentflow/payment-gateway/internal/core"
	"github.com/rentflow/payment-gateway/internal/port/input"
	"github.com/rentflow/payment-gateway/internal/port/output"
)

// TenantServiceImpl implements the TenantService input port
type TenantServiceImpl struct {
	tenantRepo   output.TenantRepository
	propertyRepo output.PropertyRepository
	log          *logrus.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(tenantRepo output.TenantRepository, propertyRepo output.PropertyRepository, log *logrus.Logger) input.TenantService {
	return &TenantServiceImpl{tenantRepo: tenantRepo, propertyRepo: propertyRepo, log: log}
}

// CreateTenant creates a lease for a user on a property.
func (s *TenantServiceImpl) CreateTenant(ctx context.Context, req input.CreateTenantRequest) (*core.Tenant, error) {
	if req.RentAmount <= 0 {
		return nil, fmt.Errorf("rent amount must be greater than zero: %w", core.ErrValidation)
	}
	if req.Deposit < 0 {
		return nil, fmt.Errorf("deposit must not be negative: %w", core.ErrValidation)
	}
	if !req.LeaseEnd.After(req.LeaseStart) {
		return nil, fmt.Errorf("lease end must be after lease start: %w", core.ErrValidation)
	}
	if _, err := s.propertyRepo.GetByID(ctx, req.PropertyID); err != nil {
		return nil, fmt.Errorf("failed to resolve property: %w", err)
	}

	tenant := &core.Tenant{
		ID:         uuid.New(),
		UserID:     req.UserID,
		PropertyID: req.PropertyID,
		LeaseStart: req.LeaseStart,
		LeaseEnd:   req.LeaseEnd,
		RentAmount: req.RentAmount,
		Deposit:    req.Deposit,
		Status:     core.TenantStatusActive,
	}
	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}
	s.log.WithFields(logrus.Fields{"tenant_id": tenant.ID, "property_id": tenant.PropertyID}).Info("tenant created")
	return tenant, nil
}

// GetTenant retrieves one lease, enforcing the caller's visibility.
func (s *TenantServiceImpl) GetTenant(ctx context.Context, principal core.Principal, id uuid.UUID) (*core.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	switch principal.Role {
	case core.RoleAdmin:
		return tenant, nil
	case core.RoleTenant:
		if tenant.UserID != principal.UserID {
			return nil, core.ErrForbidden
		}
		return tenant, nil
	case core.RoleLandlord, core.RolePropertyManager:
		property, err := s.propertyRepo.GetByID(ctx, tenant.PropertyID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve property: %w", err)
		}
		if principal.Role == core.RoleLandlord && property.LandlordID != principal.UserID {
			return nil, core.ErrForbidden
		}
		if principal.Role == core.RolePropertyManager &&
			(property.ManagerID == nil || *property.ManagerID != principal.UserID) {
			return nil, core.ErrForbidden
		}
		return tenant, nil
	default:
		return nil, core.ErrForbidden
	}
}

// ListTenants returns the leases visible to the principal.
func (s *TenantServiceImpl) ListTenants(ctx context.Context, principal core.Principal) ([]*core.Tenant, error) {
	scope, err := core.ScopeForPrincipal(principal)
	if err != nil {
		return nil, err
	}
	tenants, err := s.tenantRepo.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return tenants, nil
}

// UpdateTenant applies the provided lease fields.
func (s *TenantServiceImpl) UpdateTenant(ctx context.Context, id uuid.UUID, req input.UpdateTenantRequest) (*core.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	if req.LeaseStart != nil {
		tenant.LeaseStart = *req.LeaseStart
	}
	if req.LeaseEnd != nil {
		tenant.LeaseEnd = *req.LeaseEnd
	}
	if req.RentAmount != nil {
		if *req.RentAmount <= 0 {
			return nil, fmt.Errorf("rent amount must be greater than zero: %w", core.ErrValidation)
		}
		tenant.RentAmount = *req.RentAmount
	}
	if req.Deposit != nil {
		if *req.Deposit < 0 {
			return nil, fmt.Errorf("deposit must not be negative: %w", core.ErrValidation)
		}
		tenant.Deposit = *req.Deposit
	}
	if req.Status != nil {
		tenant.Status = *req.Status
	}
	if !tenant.LeaseEnd.After(tenant.LeaseStart) {
		return nil, fmt.Errorf("lease end must be after lease start: %w", core.ErrValidation)
	}
	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, fmt.Errorf("failed to update tenant: %w", err)
	}
	return tenant, nil
}

// DeleteTenant removes a lease.
func (s *TenantServiceImpl) DeleteTenant(ctx context.Context, id uuid.UUID) error {
	if err := s.tenantRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}
	return nil
}

// PropertyServiceImpl implements the PropertyService input port
type PropertyServiceImpl struct {
	propertyRepo output.PropertyRepository
	log          *logrus.Logger
}

// NewPropertyService creates a new property service
func NewPropertyService(propertyRepo output.PropertyRepository, log *logrus.Logger) input.PropertyService {
	return &PropertyServiceImpl{propertyRepo: propertyRepo, log: log}
}

// CreateProperty creates a property.
func (s *PropertyServiceImpl) CreateProperty(ctx context.Context, req input.CreatePropertyRequest) (*core.Property, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required: %w", core.ErrValidation)
	}
	if strings.TrimSpace(req.Address) == "" {
		return nil, fmt.Errorf("address is required: %w", core.ErrValidation)
	}
	if req.RentAmount <= 0 {
		return nil, fmt.Errorf("rent amount must be greater than zero: %w", core.ErrValidation)
	}

	property := &core.Property{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Address:     strings.TrimSpace(req.Address),
		LandlordID:  req.LandlordID,
		ManagerID:   req.ManagerID,
		RentAmount:  req.RentAmount,
		Description: req.Description,
	}
	if err := s.propertyRepo.Create(ctx, property); err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}
	s.log.WithField("property_id", property.ID).Info("property created")
	return property, nil
}

// GetProperty retrieves one property, enforcing the caller's
// visibility.
func (s *PropertyServiceImpl) GetProperty(ctx context.Context, principal core.Principal, id uuid.UUID) (*core.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	switch principal.Role {
	case core.RoleAdmin:
		return property, nil
	case core.RoleLandlord:
		if property.LandlordID != principal.UserID {
			return nil, core.ErrForbidden
		}
		return property, nil
	case core.RolePropertyManager:
		if property.ManagerID == nil || *property.ManagerID != principal.UserID {
			return nil, core.ErrForbidden
		}
		return property, nil
	default:
		return nil, core.ErrForbidden
	}
}

// ListProperties returns the properties visible to the principal.
func (s *PropertyServiceImpl) ListProperties(ctx context.Context, principal core.Principal) ([]*core.Property, error) {
	scope, err := core.ScopeForPrincipal(principal)
	if err != nil {
		return nil, err
	}
	properties, err := s.propertyRepo.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, nil
}

// UpdateProperty applies the provided property fields.
func (s *PropertyServiceImpl) UpdateProperty(ctx context.Context, id uuid.UUID, req input.UpdatePropertyRequest) (*core.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	if req.Name != nil {
		property.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		property.Address = strings.TrimSpace(*req.Address)
	}
	if req.ManagerID != nil {
		property.ManagerID = req.ManagerID
	}
	if req.RentAmount != nil {
		if *req.RentAmount <= 0 {
			return nil, fmt.Errorf("rent amount must be greater than zero: %w", core.ErrValidation)
		}
		property.RentAmount = *req.RentAmount
	}
	if req.Description != nil {
		property.Description = *req.Description
	}
	if err := s.propertyRepo.Update(ctx, property); err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}
	return property, nil
}

// DeleteProperty removes a property.
func (s *PropertyServiceImpl) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	if err := s.propertyRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	return nil
}
