package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentflow/payment-gateway/internal/constant/model/db"
	"github.com/rentflow/payment-gateway/internal/core"
	"github.com/rentflow/payment-gateway/internal/port/output"
)

// GormPaymentRepository is a secondary adapter that implements PaymentRepository output port
type GormPaymentRepository struct {
	gormDB *gorm.DB
}

// NewGormPaymentRepository creates a new GORM payment repository
func NewGormPaymentRepository(gormDB *gorm.DB) output.PaymentRepository {
	return &GormPaymentRepository{gormDB: gormDB}
}

// toCore converts db.Payment to core.Payment
func toCore(p *db.Payment) *core.Payment {
	payment := &core.Payment{
		ID:                p.ID,
		TenantID:          p.TenantID,
		Amount:            p.Amount,
		Method:            core.PaymentMethod(p.Method),
		Status:            core.PaymentStatus(p.Status),
		ResultCode:        p.ResultCode,
		ResultDescription: p.ResultDescription,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if p.CheckoutRequestID != nil {
		payment.CheckoutRequestID = *p.CheckoutRequestID
	}
	return payment
}

// fromCore converts core.Payment to db.Payment
func fromCore(p *core.Payment) *db.Payment {
	dbPayment := &db.Payment{
		ID:                p.ID,
		TenantID:          p.TenantID,
		Amount:            p.Amount,
		Method:            string(p.Method),
		Status:            string(p.Status),
		ResultCode:        p.ResultCode,
		ResultDescription: p.ResultDescription,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if p.CheckoutRequestID != "" {
		token := p.CheckoutRequestID
		dbPayment.CheckoutRequestID = &token
	}
	return dbPayment
}

// Create creates a new payment
func (r *GormPaymentRepository) Create(ctx context.Context, payment *core.Payment) error {
	dbPayment := fromCore(payment)
	if err := r.gormDB.WithContext(ctx).Create(dbPayment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	// Update core entity with timestamps set by GORM hooks
	payment.CreatedAt = dbPayment.CreatedAt
	payment.UpdatedAt = dbPayment.UpdatedAt
	return nil
}

// GetByID retrieves a payment by its ID
func (r *GormPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*core.Payment, error) {
	var dbPayment db.Payment
	if err := r.gormDB.WithContext(ctx).Where("id = ?", id).First(&dbPayment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment %s: %w", id, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return toCore(&dbPayment), nil
}

// GetByCheckoutRequestID resolves a payment by the gateway correlation
// token.
func (r *GormPaymentRepository) GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*core.Payment, error) {
	var dbPayment db.Payment
	if err := r.gormDB.WithContext(ctx).
		Where("checkout_request_id = ?", checkoutRequestID).
		First(&dbPayment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("checkout request %s: %w", checkoutRequestID, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return toCore(&dbPayment), nil
}

// AttachCheckoutRequestID persists the gateway correlation token onto a
// payment that does not yet carry one. The unique index on
// checkout_request_id enforces token uniqueness across all payments.
func (r *GormPaymentRepository) AttachCheckoutRequestID(ctx context.Context, id uuid.UUID, checkoutRequestID string) error {
	result := r.gormDB.WithContext(ctx).Model(&db.Payment{}).
		Where("id = ? AND checkout_request_id IS NULL", id).
		Updates(map[string]interface{}{
			"checkout_request_id": checkoutRequestID,
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to attach checkout request id: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("payment %s has no token slot: %w", id, core.ErrAlreadyProcessed)
	}
	return nil
}

// SettleIfPending applies a terminal status conditioned on the payment
// still being pending. The WHERE clause is the compare-and-swap: when
// two callback deliveries race, exactly one update matches a row and
// the other sees zero rows affected.
func (r *GormPaymentRepository) SettleIfPending(ctx context.Context, checkoutRequestID string, status core.PaymentStatus, resultCode int, resultDescription string) (bool, error) {
	result := r.gormDB.WithContext(ctx).Model(&db.Payment{}).
		Where("checkout_request_id = ? AND status = ?", checkoutRequestID, string(core.PaymentStatusPending)).
		Updates(map[string]interface{}{
			"status":             string(status),
			"result_code":        resultCode,
			"result_description": resultDescription,
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to settle payment: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// List returns payments visible under the scope, newest first.
func (r *GormPaymentRepository) List(ctx context.Context, scope core.AccessScope) ([]*core.Payment, error) {
	query := r.gormDB.WithContext(ctx).Model(&db.Payment{})

	switch {
	case scope.All:
		// unrestricted
	case scope.SelfUserID != nil:
		query = query.
			Joins("JOIN tenants ON tenants.id = payments.tenant_id").
			Where("tenants.user_id = ?", *scope.SelfUserID)
	case scope.LandlordID != nil:
		query = query.
			Joins("JOIN tenants ON tenants.id = payments.tenant_id").
			Joins("JOIN properties ON properties.id = tenants.property_id").
			Where("properties.landlord_id = ?", *scope.LandlordID)
	case scope.ManagerID != nil:
		query = query.
			Joins("JOIN tenants ON tenants.id = payments.tenant_id").
			Joins("JOIN properties ON properties.id = tenants.property_id").
			Where("properties.manager_id = ?", *scope.ManagerID)
	default:
		return nil, core.ErrForbidden
	}

	var rows []db.Payment
	if err := query.Order("payments.created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	payments := make([]*core.Payment, 0, len(rows))
	for i := range rows {
		payments = append(payments, toCore(&rows[i]))
	}
	return payments, nil
}

// ListStalePending returns mpesa payments still pending since before
// the cutoff.
func (r *GormPaymentRepository) ListStalePending(ctx context.Context, cutoff time.Time) ([]*core.Payment, error) {
	var rows []db.Payment
	if err := r.gormDB.WithContext(ctx).
		Where("method = ? AND status = ? AND created_at < ?",
			string(core.PaymentMethodMpesa), string(core.PaymentStatusPending), cutoff).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list stale pending payments: %w", err)
	}
	payments := make([]*core.Payment, 0, len(rows))
	for i := range rows {
		payments = append(payments, toCore(&rows[i]))
	}
	return payments, nil
}
