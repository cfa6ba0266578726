package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentflow/payment-gateway/internal/constant/model/db"
	"github.com/rentflow/payment-gateway/internal/core"
	"github.com/rentflow/payment-gateway/internal/port/output"
)

// GormUserRepository is a secondary adapter that implements UserRepository output port
type GormUserRepository struct {
	gormDB *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository
func NewGormUserRepository(gormDB *gorm.DB) output.UserRepository {
	return &GormUserRepository{gormDB: gormDB}
}

func userToCore(u *db.User) *core.User {
	return &core.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.Password,
		Phone:        u.Phone,
		Role:         core.Role(u.Role),
		CreatedAt:    u.CreatedAt,
	}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *core.User) error {
	dbUser := &db.User{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Password: user.PasswordHash,
		Phone:    user.Phone,
		Role:     string(user.Role),
	}
	if err := r.gormDB.WithContext(ctx).Create(dbUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("email %s: %w", user.Email, core.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.CreatedAt = dbUser.CreatedAt
	return nil
}

// GetByID retrieves a user by ID
func (r *GormUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*core.User, error) {
	var dbUser db.User
	if err := r.gormDB.WithContext(ctx).Where("id = ?", id).First(&dbUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", id, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return userToCore(&dbUser), nil
}

// GetByEmail retrieves a user by email
func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*core.User, error) {
	var dbUser db.User
	if err := r.gormDB.WithContext(ctx).Where("email = ?", email).First(&dbUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", email, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return userToCore(&dbUser), nil
}

// GormTenantRepository is a secondary adapter that implements TenantRepository output port
type GormTenantRepository struct {
	gormDB *gorm.DB
}

// NewGormTenantRepository creates a new GORM tenant repository
func NewGormTenantRepository(gormDB *gorm.DB) output.TenantRepository {
	return &GormTenantRepository{gormDB: gormDB}
}

func tenantToCore(t *db.Tenant) *core.Tenant {
	return &core.Tenant{
		ID:         t.ID,
		UserID:     t.UserID,
		PropertyID: t.PropertyID,
		LeaseStart: t.LeaseStart,
		LeaseEnd:   t.LeaseEnd,
		RentAmount: t.RentAmount,
		Deposit:    t.Deposit,
		Status:     core.TenantStatus(t.Status),
		CreatedAt:  t.CreatedAt,
	}
}

func tenantFromCore(t *core.Tenant) *db.Tenant {
	return &db.Tenant{
		ID:         t.ID,
		UserID:     t.UserID,
		PropertyID: t.PropertyID,
		LeaseStart: t.LeaseStart,
		LeaseEnd:   t.LeaseEnd,
		RentAmount: t.RentAmount,
		Deposit:    t.Deposit,
		Status:     string(t.Status),
		CreatedAt:  t.CreatedAt,
	}
}

// Create creates a new tenant
func (r *GormTenantRepository) Create(ctx context.Context, tenant *core.Tenant) error {
	dbTenant := tenantFromCore(tenant)
	if err := r.gormDB.WithContext(ctx).Create(dbTenant).Error; err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	tenant.CreatedAt = dbTenant.CreatedAt
	return nil
}

// GetByID retrieves a tenant by ID
func (r *GormTenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*core.Tenant, error) {
	var dbTenant db.Tenant
	if err := r.gormDB.WithContext(ctx).Where("id = ?", id).First(&dbTenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("tenant %s: %w", id, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return tenantToCore(&dbTenant), nil
}

// GetByUserID resolves the lease for a tenant-role user
func (r *GormTenantRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*core.Tenant, error) {
	var dbTenant db.Tenant
	if err := r.gormDB.WithContext(ctx).Where("user_id = ?", userID).First(&dbTenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("tenant for user %s: %w", userID, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return tenantToCore(&dbTenant), nil
}

// List returns tenants visible under the scope
func (r *GormTenantRepository) List(ctx context.Context, scope core.AccessScope) ([]*core.Tenant, error) {
	query := r.gormDB.WithContext(ctx).Model(&db.Tenant{})

	switch {
	case scope.All:
		// unrestricted
	case scope.SelfUserID != nil:
		query = query.Where("tenants.user_id = ?", *scope.SelfUserID)
	case scope.LandlordID != nil:
		query = query.
			Joins("JOIN properties ON properties.id = tenants.property_id").
			Where("properties.landlord_id = ?", *scope.LandlordID)
	case scope.ManagerID != nil:
		query = query.
			Joins("JOIN properties ON properties.id = tenants.property_id").
			Where("properties.manager_id = ?", *scope.ManagerID)
	default:
		return nil, core.ErrForbidden
	}

	var rows []db.Tenant
	if err := query.Order("tenants.created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	tenants := make([]*core.Tenant, 0, len(rows))
	for i := range rows {
		tenants = append(tenants, tenantToCore(&rows[i]))
	}
	return tenants, nil
}

// Update saves the mutable tenant fields
func (r *GormTenantRepository) Update(ctx context.Context, tenant *core.Tenant) error {
	result := r.gormDB.WithContext(ctx).Model(&db.Tenant{}).
		Where("id = ?", tenant.ID).
		Updates(map[string]interface{}{
			"lease_start": tenant.LeaseStart,
			"lease_end":   tenant.LeaseEnd,
			"rent_amount": tenant.RentAmount,
			"deposit":     tenant.Deposit,
			"status":      string(tenant.Status),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update tenant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("tenant %s: %w", tenant.ID, core.ErrNotFound)
	}
	return nil
}

// Delete removes a tenant
func (r *GormTenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.gormDB.WithContext(ctx).Where("id = ?", id).Delete(&db.Tenant{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete tenant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("tenant %s: %w", id, core.ErrNotFound)
	}
	return nil
}

// GormPropertyRepository is a secondary adapter that implements PropertyRepository output port
type GormPropertyRepository struct {
	gormDB *gorm.DB
}

// NewGormPropertyRepository creates a new GORM property repository
func NewGormPropertyRepository(gormDB *gorm.DB) output.PropertyRepository {
	return &GormPropertyRepository{gormDB: gormDB}
}

func propertyToCore(p *db.Property) *core.Property {
	return &core.Property{
		ID:          p.ID,
		Name:        p.Name,
		Address:     p.Address,
		LandlordID:  p.LandlordID,
		ManagerID:   p.ManagerID,
		RentAmount:  p.RentAmount,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}

// Create creates a new property
func (r *GormPropertyRepository) Create(ctx context.Context, property *core.Property) error {
	dbProperty := &db.Property{
		ID:          property.ID,
		Name:        property.Name,
		Address:     property.Address,
		LandlordID:  property.LandlordID,
		ManagerID:   property.ManagerID,
		RentAmount:  property.RentAmount,
		Description: property.Description,
	}
	if err := r.gormDB.WithContext(ctx).Create(dbProperty).Error; err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	property.CreatedAt = dbProperty.CreatedAt
	return nil
}

// GetByID retrieves a property by ID
func (r *GormPropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*core.Property, error) {
	var dbProperty db.Property
	if err := r.gormDB.WithContext(ctx).Where("id = ?", id).First(&dbProperty).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("property %s: %w", id, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return propertyToCore(&dbProperty), nil
}

// List returns properties visible under the scope
func (r *GormPropertyRepository) List(ctx context.Context, scope core.AccessScope) ([]*core.Property, error) {
	query := r.gormDB.WithContext(ctx).Model(&db.Property{})

	switch {
	case scope.All:
		// unrestricted
	case scope.LandlordID != nil:
		query = query.Where("landlord_id = ?", *scope.LandlordID)
	case scope.ManagerID != nil:
		query = query.Where("manager_id = ?", *scope.ManagerID)
	case scope.SelfUserID != nil:
		// Tenants see the property on their lease.
		query = query.
			Joins("JOIN tenants ON tenants.property_id = properties.id").
			Where("tenants.user_id = ?", *scope.SelfUserID)
	default:
		return nil, core.ErrForbidden
	}

	var rows []db.Property
	if err := query.Order("properties.created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	properties := make([]*core.Property, 0, len(rows))
	for i := range rows {
		properties = append(properties, propertyToCore(&rows[i]))
	}
	return properties, nil
}

// Update saves the mutable property fields
func (r *GormPropertyRepository) Update(ctx context.Context, property *core.Property) error {
	result := r.gormDB.WithContext(ctx).Model(&db.Property{}).
		Where("id = ?", property.ID).
		Updates(map[string]interface{}{
			"name":        property.Name,
			"address":     property.Address,
			"manager_id":  property.ManagerID,
			"rent_amount": property.RentAmount,
			"description": property.Description,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update property: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("property %s: %w", property.ID, core.ErrNotFound)
	}
	return nil
}

// Delete removes a property
func (r *GormPropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.gormDB.WithContext(ctx).Where("id = ?", id).Delete(&db.Property{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete property: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("property %s: %w", id, core.ErrNotFound)
	}
	return nil
}
